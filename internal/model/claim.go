package model

import "strings"

// Claim is one checklist entry: what the document says about a feature
type Claim struct {
	ID             string         `json:"item_id"`         // Slug of section, subsection and feature
	Section        string         `json:"section"`         // Nearest preceding "##" header
	Subsection     string         `json:"subsection"`      // Nearest "###" header since the last section
	Feature        string         `json:"feature"`         // Text before the first separator
	Checked        bool           `json:"checked"`         // "- [x]" entry
	DeclaredStatus DeclaredStatus `json:"declared_status"` // Normalized status
	Note           string         `json:"note"`            // Trailing annotation, separators preserved
	SourceLine     int            `json:"source_line"`     // 1-based line in the audit document
	Evidence       []string       `json:"stale_evidence"`  // Probe IDs that found code evidence
}

// DeclaredStatus is the implementation status a checklist entry declares
type DeclaredStatus string

const (
	StatusImplemented DeclaredStatus = "implemented"
	StatusPartial     DeclaredStatus = "partial"
	StatusMissing     DeclaredStatus = "missing"
	StatusUnspecified DeclaredStatus = "unspecified"
)

// Statuses lists every declared status in report order
var Statuses = []DeclaredStatus{StatusImplemented, StatusPartial, StatusMissing, StatusUnspecified}

// NormalizeStatus derives the declared status of an entry.
// A checked box always wins over a textual status.
func NormalizeStatus(checked bool, raw string) DeclaredStatus {
	if checked {
		return StatusImplemented
	}

	switch DeclaredStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusImplemented:
		return StatusImplemented
	case StatusPartial:
		return StatusPartial
	case StatusMissing:
		return StatusMissing
	default:
		return StatusUnspecified
	}
}

// UnderReported reports whether probes may attach evidence to a claim with this status
func (s DeclaredStatus) UnderReported() bool {
	return s == StatusPartial || s == StatusMissing || s == StatusUnspecified
}

// HasEvidence reports whether any probe flagged the claim
func (c Claim) HasEvidence() bool {
	return len(c.Evidence) > 0
}

// AddEvidence appends a probe ID unless it is already recorded.
// Returns false for duplicates.
func (c *Claim) AddEvidence(probeID string) bool {
	for _, existing := range c.Evidence {
		if existing == probeID {
			return false
		}
	}
	c.Evidence = append(c.Evidence, probeID)
	return true
}

// Clone returns a copy that shares no evidence storage with c
func (c Claim) Clone() Claim {
	evidence := make([]string, len(c.Evidence))
	copy(evidence, c.Evidence)
	c.Evidence = evidence
	return c
}
