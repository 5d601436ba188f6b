package model

import (
	"encoding/json"
	"fmt"
)

// Probe is a declarative evidence check: claims whose feature matches
// FeaturePattern are corroborated when TargetFile contains every marker.
// FeaturePattern is a case-insensitive regexp searched unanchored,
// TargetFile is relative to the repository root and RequiredMarkers are
// plain substrings.
type Probe struct {
	ID                     string   `json:"id" yaml:"id"`
	Description            string   `json:"description" yaml:"description"`
	FeaturePattern         string   `json:"feature_pattern" yaml:"feature_pattern"`
	TargetFile             string   `json:"target_file" yaml:"target_file"`
	RequiredMarkers        []string `json:"required_markers" yaml:"required_markers"`
	RequiredIfClaimPresent bool     `json:"required_if_claim_present" yaml:"required_if_claim_present"`
}

// ProbeResult is the outcome of one probe in one run
type ProbeResult struct {
	ProbeID                string `json:"-"`
	Description            string `json:"description"`
	MatchedClaimCount      int    `json:"matched_claim_count"`
	EvidenceFound          bool   `json:"evidence_found"`
	RequiredIfClaimPresent bool   `json:"required_if_claim_present"`
}

// ProbeResults keeps probe results in catalog order.
// It serializes as a JSON object keyed by probe ID in that same order.
type ProbeResults []ProbeResult

// MarshalJSON writes the results as an object, preserving order
func (r ProbeResults) MarshalJSON() ([]byte, error) {
	return encodeObject(len(r), func(i int) (string, any) {
		return r[i].ProbeID, r[i]
	})
}

// UnmarshalJSON reads an object of results, keeping the order of its keys
func (r *ProbeResults) UnmarshalJSON(data []byte) error {
	results := make(ProbeResults, 0)
	present, err := decodeObject(data, func(key string, dec *json.Decoder) error {
		var result ProbeResult
		if err := dec.Decode(&result); err != nil {
			return err
		}
		result.ProbeID = key
		results = append(results, result)
		return nil
	})
	if err != nil {
		return fmt.Errorf("probe results: %w", err)
	}
	if !present {
		*r = nil
		return nil
	}

	*r = results
	return nil
}
