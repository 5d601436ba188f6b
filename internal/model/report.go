package model

import (
	"encoding/json"
	"fmt"
)

// UnsectionedLabel is the by_section key for claims that precede every "##" header
const UnsectionedLabel = "(unsectioned)"

// Report is the complete reconciliation payload written as JSON
type Report struct {
	AuditFile    string       `json:"audit_file"`    // Path of the audit document as given
	Summary      Summary      `json:"summary"`       // Aggregate counts
	ProbeResults ProbeResults `json:"probe_results"` // Keyed by probe ID, catalog order
	Items        []Claim      `json:"items"`         // Every claim, document order
}

// Summary aggregates claims by declared status and section
type Summary struct {
	TotalItems         int           `json:"total_items"`
	ByStatus           StatusCounts  `json:"by_status"`
	BySection          SectionCounts `json:"by_section"`           // Document order
	StaleEvidenceItems int           `json:"stale_evidence_items"` // Claims with at least one evidence entry
}

// StatusCounts is a four-way tally; every status is always present
type StatusCounts struct {
	Implemented int `json:"implemented"`
	Partial     int `json:"partial"`
	Missing     int `json:"missing"`
	Unspecified int `json:"unspecified"`
}

// Add counts one claim with the given status
func (c *StatusCounts) Add(status DeclaredStatus) {
	switch status {
	case StatusImplemented:
		c.Implemented++
	case StatusPartial:
		c.Partial++
	case StatusMissing:
		c.Missing++
	default:
		c.Unspecified++
	}
}

// Get returns the count for a status
func (c StatusCounts) Get(status DeclaredStatus) int {
	switch status {
	case StatusImplemented:
		return c.Implemented
	case StatusPartial:
		return c.Partial
	case StatusMissing:
		return c.Missing
	case StatusUnspecified:
		return c.Unspecified
	default:
		return 0
	}
}

// SectionCount is the tally for one "##" section
type SectionCount struct {
	Section string
	Counts  StatusCounts
}

// SectionCounts keeps sections in the order they first appear in the
// document. It serializes as a JSON object keyed by section name.
type SectionCounts []SectionCount

// Get returns the counts for a section
func (s SectionCounts) Get(section string) (StatusCounts, bool) {
	for _, sc := range s {
		if sc.Section == section {
			return sc.Counts, true
		}
	}
	return StatusCounts{}, false
}

// Add counts one claim under section, appending the section on first use
func (s *SectionCounts) Add(section string, status DeclaredStatus) {
	for i := range *s {
		if (*s)[i].Section == section {
			(*s)[i].Counts.Add(status)
			return
		}
	}
	sc := SectionCount{Section: section}
	sc.Counts.Add(status)
	*s = append(*s, sc)
}

// MarshalJSON writes the sections as an object, preserving order
func (s SectionCounts) MarshalJSON() ([]byte, error) {
	return encodeObject(len(s), func(i int) (string, any) {
		return s[i].Section, s[i].Counts
	})
}

// UnmarshalJSON reads an object of section counts, keeping key order
func (s *SectionCounts) UnmarshalJSON(data []byte) error {
	sections := make(SectionCounts, 0)
	present, err := decodeObject(data, func(key string, dec *json.Decoder) error {
		var counts StatusCounts
		if err := dec.Decode(&counts); err != nil {
			return err
		}
		sections = append(sections, SectionCount{Section: key, Counts: counts})
		return nil
	})
	if err != nil {
		return fmt.Errorf("section counts: %w", err)
	}
	if !present {
		*s = nil
		return nil
	}

	*s = sections
	return nil
}

// FlaggedClaims returns claims carrying evidence, in document order
func (r *Report) FlaggedClaims() []Claim {
	var flagged []Claim
	for _, item := range r.Items {
		if item.HasEvidence() {
			flagged = append(flagged, item)
		}
	}
	return flagged
}
