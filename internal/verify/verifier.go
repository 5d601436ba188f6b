package verify

import (
	"fmt"

	"github.com/ppiankov/auditmatrix/internal/model"
)

// ErrorPrefix marks each verification failure on the diagnostic stream
const ErrorPrefix = "VERIFY ERROR: "

// Rules are the hard invariants checked in strict mode
type Rules struct {
	MinClaims        int
	RequiredSections []string
}

// RulesFromConfig extracts verification rules from the configuration
func RulesFromConfig(cfg model.VerifyConfig) Rules {
	return Rules{
		MinClaims:        cfg.MinClaims,
		RequiredSections: cfg.RequiredSections,
	}
}

// Result carries every violation found, in check order
type Result struct {
	Errors []string `json:"errors"`
}

// Passed reports whether no check failed
func (r Result) Passed() bool {
	return len(r.Errors) == 0
}

// Verifier turns aggregate disagreements into failures
type Verifier struct {
	rules Rules
}

// NewVerifier creates a verifier for the given rules
func NewVerifier(rules Rules) *Verifier {
	return &Verifier{rules: rules}
}

// Verify runs all checks without stopping at the first failure
func (v *Verifier) Verify(summary model.Summary, results model.ProbeResults) Result {
	errs := make([]string, 0)

	if summary.TotalItems < v.rules.MinClaims {
		errs = append(errs, fmt.Sprintf("Expected >=%d audit items, got %d", v.rules.MinClaims, summary.TotalItems))
	}

	for _, section := range v.rules.RequiredSections {
		if _, ok := summary.BySection.Get(section); !ok {
			errs = append(errs, fmt.Sprintf("Missing required section in parsed output: %s", section))
		}
	}

	// A declared gap without code evidence is only acceptable when no
	// required probe covers it.
	for _, result := range results {
		if result.RequiredIfClaimPresent && result.MatchedClaimCount > 0 && !result.EvidenceFound {
			errs = append(errs, fmt.Sprintf("Probe %s matched %d claim(s) but found no evidence", result.ProbeID, result.MatchedClaimCount))
		}
	}

	return Result{Errors: errs}
}
