package summary

import "github.com/ppiankov/auditmatrix/internal/model"

// Summarizer aggregates claims into status and section counts
type Summarizer struct{}

// NewSummarizer creates a new summarizer
func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// Summarize tallies claims by declared status, overall and per section.
// Sections keep first-appearance order. Claims without a section are
// counted under model.UnsectionedLabel.
func (s *Summarizer) Summarize(claims []model.Claim) model.Summary {
	summary := model.Summary{
		TotalItems: len(claims),
		BySection:  make(model.SectionCounts, 0),
	}

	for _, c := range claims {
		summary.ByStatus.Add(c.DeclaredStatus)

		section := c.Section
		if section == "" {
			section = model.UnsectionedLabel
		}
		summary.BySection.Add(section, c.DeclaredStatus)

		if c.HasEvidence() {
			summary.StaleEvidenceItems++
		}
	}

	return summary
}
