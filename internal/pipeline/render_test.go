package pipeline

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/auditmatrix/internal/model"
	"github.com/ppiankov/auditmatrix/internal/verify"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func browserReport(t *testing.T) *model.Report {
	t.Helper()
	p := newTestPipeline(t, browserFixture(t), nil)
	report, err := p.Run("docs/AUDIT_FULL.md", "repo")
	require.NoError(t, err)
	return report
}

func TestMarkdownReport_Golden(t *testing.T) {
	g := newGoldie(t)
	g.Assert(t, "browser_audit", []byte(MarkdownReport(browserReport(t))))
}

func TestMarkdownReport_NothingFlagged(t *testing.T) {
	report := &model.Report{
		AuditFile: "checklist.md",
		Summary: model.Summary{
			TotalItems: 1,
			ByStatus:   model.StatusCounts{Implemented: 1},
			BySection: model.SectionCounts{
				{Section: "CSS Properties", Counts: model.StatusCounts{Implemented: 1}},
			},
		},
		ProbeResults: model.ProbeResults{
			{ProbeID: "events-dblclick-dispatch", Description: "dblclick dispatch exists", RequiredIfClaimPresent: true},
		},
		Items: []model.Claim{{
			ID:             "css-properties-display",
			Section:        "CSS Properties",
			Feature:        "display",
			Checked:        true,
			DeclaredStatus: model.StatusImplemented,
			SourceLine:     3,
			Evidence:       []string{},
		}},
	}

	g := newGoldie(t)
	g.Assert(t, "nothing_flagged", []byte(MarkdownReport(report)))
}

func TestEncodeJSON_ASCIIOnly(t *testing.T) {
	data, err := EncodeJSON(browserReport(t))
	require.NoError(t, err)

	for i, b := range data {
		if b >= utf8.RuneSelf {
			t.Fatalf("non-ASCII byte 0x%x at offset %d", b, i)
		}
	}
	assert.Contains(t, string(data), `caf\u00e9 ligatures`)
	assert.True(t, bytes.HasSuffix(data, []byte("}\n")))
	assert.True(t, bytes.HasPrefix(data, []byte("{\n  \"audit_file\"")))
}

func TestEncodeJSON_KeyOrder(t *testing.T) {
	data, err := EncodeJSON(browserReport(t))
	require.NoError(t, err)
	text := string(data)

	order := []string{`"audit_file"`, `"summary"`, `"probe_results"`, `"items"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, key)
		require.NotEqual(t, -1, idx, key)
		assert.Greater(t, idx, last, "%s out of order", key)
		last = idx
	}

	statuses := []string{`"implemented"`, `"partial"`, `"missing"`, `"unspecified"`}
	byStatus := strings.Index(text, `"by_status"`)
	last = byStatus
	for _, key := range statuses {
		idx := strings.Index(text[byStatus:], key) + byStatus
		assert.Greater(t, idx, last, "%s out of order", key)
		last = idx
	}

	probes := []string{
		`"events-keyboard-dispatch": {`,
		`"events-dblclick-dispatch": {`,
		`"events-contextmenu-dispatch": {`,
		`"events-form-dispatch": {`,
	}
	last = strings.Index(text, `"probe_results"`)
	for _, key := range probes {
		idx := strings.Index(text, key)
		require.NotEqual(t, -1, idx, key)
		assert.Greater(t, idx, last, "%s out of order", key)
		last = idx
	}
}

func TestEncodeJSON_SectionsInDocumentOrder(t *testing.T) {
	fsys := afero.NewMemMapFs()
	doc := "## Zeta\n- [ ] last letter — missing\n## Alpha\n- [x] first letter\n## Zeta\n- [x] again\n"
	require.NoError(t, afero.WriteFile(fsys, "audit.md", []byte(doc), 0o644))

	report, err := newTestPipeline(t, fsys, nil).Run("audit.md", ".")
	require.NoError(t, err)
	data, err := EncodeJSON(report)
	require.NoError(t, err)
	text := string(data)

	zeta := strings.Index(text, `"Zeta": {`)
	alpha := strings.Index(text, `"Alpha": {`)
	require.NotEqual(t, -1, zeta)
	require.NotEqual(t, -1, alpha)
	assert.Less(t, zeta, alpha, "sections keep first-appearance order")
	assert.Equal(t, 1, strings.Count(text, `"Zeta": {`))

	var decoded model.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.Summary.BySection, decoded.Summary.BySection)
}

func TestEncodeJSON_Deterministic(t *testing.T) {
	first, err := EncodeJSON(browserReport(t))
	require.NoError(t, err)
	second, err := EncodeJSON(browserReport(t))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncodeJSON_RoundTrip(t *testing.T) {
	original := browserReport(t)
	data, err := EncodeJSON(original)
	require.NoError(t, err)

	var decoded model.Report
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, original.AuditFile, decoded.AuditFile)
	assert.Equal(t, original.Summary, decoded.Summary)
	assert.Equal(t, original.ProbeResults, decoded.ProbeResults)
	assert.Equal(t, original.Items, decoded.Items)

	v := verify.NewVerifier(verify.RulesFromConfig(model.DefaultConfig().Verify))
	assert.Equal(t,
		v.Verify(original.Summary, original.ProbeResults).Errors,
		v.Verify(decoded.Summary, decoded.ProbeResults).Errors,
	)
}

func TestASCIIOnly_SurrogatePairs(t *testing.T) {
	got := asciiOnly([]byte(`"a😀b"`))
	assert.Equal(t, `"a\ud83d\ude00b"`, string(got))

	var s string
	require.NoError(t, json.Unmarshal(got, &s))
	assert.Equal(t, "a😀b", s)
}

func TestRenderSummary(t *testing.T) {
	report := browserReport(t)
	r := NewRenderer(nil)

	var buf bytes.Buffer
	r.RenderSummary(&buf, report, nil)
	out := buf.String()
	assert.Contains(t, out, "docs/AUDIT_FULL.md")
	assert.Contains(t, out, "implemented=2 partial=2 missing=2 unspecified=1")
	assert.Contains(t, out, "2/4 with evidence")
	assert.NotContains(t, out, "verify")

	buf.Reset()
	result := verify.Result{Errors: []string{"a", "b"}}
	r.RenderSummary(&buf, report, &result)
	assert.Contains(t, buf.String(), "2 error(s)")

	buf.Reset()
	r.RenderSummary(&buf, report, &verify.Result{Errors: []string{}})
	assert.Contains(t, buf.String(), "passed")
}
