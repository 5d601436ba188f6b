package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/auditmatrix/internal/model"
)

func sampleClaims() []model.Claim {
	return []model.Claim{
		{Feature: "orphan", DeclaredStatus: model.StatusMissing},
		{Section: "JS Events API", Feature: "click", DeclaredStatus: model.StatusImplemented},
		{Section: "JS Events API", Feature: "dblclick", DeclaredStatus: model.StatusMissing, Evidence: []string{"events-dblclick-dispatch"}},
		{Section: "JS Events API", Feature: "keyboard", DeclaredStatus: model.StatusUnspecified},
		{Section: "CSS Properties", Feature: "grid", DeclaredStatus: model.StatusPartial, Evidence: []string{"a", "b"}},
		{Section: "CSS Properties", Feature: "flex", DeclaredStatus: model.StatusImplemented},
	}
}

func TestSummarize_Counts(t *testing.T) {
	s := NewSummarizer().Summarize(sampleClaims())

	assert.Equal(t, 6, s.TotalItems)
	assert.Equal(t, model.StatusCounts{Implemented: 2, Partial: 1, Missing: 2, Unspecified: 1}, s.ByStatus)
	assert.Equal(t, 2, s.StaleEvidenceItems)

	assert.Equal(t, model.SectionCounts{
		{Section: model.UnsectionedLabel, Counts: model.StatusCounts{Missing: 1}},
		{Section: "JS Events API", Counts: model.StatusCounts{Implemented: 1, Missing: 1, Unspecified: 1}},
		{Section: "CSS Properties", Counts: model.StatusCounts{Implemented: 1, Partial: 1}},
	}, s.BySection, "sections in first-appearance order")
}

func TestSummarize_RevisitedSectionKeepsFirstPosition(t *testing.T) {
	s := NewSummarizer().Summarize([]model.Claim{
		{Section: "Zeta", DeclaredStatus: model.StatusMissing},
		{Section: "Alpha", DeclaredStatus: model.StatusImplemented},
		{Section: "Zeta", DeclaredStatus: model.StatusPartial},
	})

	require.Len(t, s.BySection, 2)
	assert.Equal(t, "Zeta", s.BySection[0].Section)
	assert.Equal(t, model.StatusCounts{Partial: 1, Missing: 1}, s.BySection[0].Counts)
	assert.Equal(t, "Alpha", s.BySection[1].Section)
}

func TestSummarize_Invariants(t *testing.T) {
	s := NewSummarizer().Summarize(sampleClaims())

	total := 0
	for _, status := range model.Statuses {
		total += s.ByStatus.Get(status)
	}
	assert.Equal(t, s.TotalItems, total)

	for _, status := range model.Statuses {
		column := 0
		for _, sc := range s.BySection {
			column += sc.Counts.Get(status)
		}
		assert.Equal(t, s.ByStatus.Get(status), column, "section column for %s", status)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := NewSummarizer().Summarize(nil)

	assert.Equal(t, 0, s.TotalItems)
	assert.Equal(t, model.StatusCounts{}, s.ByStatus)
	assert.NotNil(t, s.BySection)
	assert.Empty(t, s.BySection)
	assert.Equal(t, 0, s.StaleEvidenceItems)
}
