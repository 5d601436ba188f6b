package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"

	"github.com/ppiankov/auditmatrix/internal/model"
	"github.com/ppiankov/auditmatrix/internal/verify"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true)
	summaryLabelStyle = lipgloss.NewStyle().Faint(true)
	summaryOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	summaryWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	summaryFailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Renderer writes reports to disk and to the console
type Renderer struct {
	fs afero.Fs
}

// NewRenderer creates a renderer writing through fsys
func NewRenderer(fsys afero.Fs) *Renderer {
	return &Renderer{fs: fsys}
}

// RenderJSON writes the structured report
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := EncodeJSON(report)
	if err != nil {
		return err
	}
	return r.write(path, data)
}

// RenderMarkdown writes the human-readable report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return r.write(path, []byte(MarkdownReport(report)))
}

func (r *Renderer) write(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := afero.WriteFile(r.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// EncodeJSON serializes the report with two-space indentation, a trailing
// newline and only ASCII bytes. Struct fields keep declaration order and
// map keys are sorted, so identical inputs give identical bytes.
func EncodeJSON(report *model.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return asciiOnly(buf.Bytes()), nil
}

// asciiOnly rewrites every non-ASCII rune as a \uXXXX escape. Valid only
// for encoder output, where such runes can appear inside strings alone.
func asciiOnly(data []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		if data[0] < utf8.RuneSelf {
			buf.WriteByte(data[0])
			data = data[1:]
			continue
		}

		r, size := utf8.DecodeRune(data)
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&buf, `\u%04x\u%04x`, hi, lo)
		} else {
			fmt.Fprintf(&buf, `\u%04x`, r)
		}
		data = data[size:]
	}

	return buf.Bytes()
}

// MarkdownReport renders the summary, probe results and flagged claims
func MarkdownReport(report *model.Report) string {
	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("# Audit Reconciliation Matrix")
	add("")
	add("Generated from `%s` with code-evidence probes.", filepath.Base(report.AuditFile))
	add("")

	add("## Summary")
	add("")
	add("- Total checklist items: %d", report.Summary.TotalItems)
	add("- Status counts: %s", formatStatusCounts(report.Summary.ByStatus, ", "))
	add("- Items flagged with stale evidence: %d", report.Summary.StaleEvidenceItems)
	add("")

	add("## Probe Results")
	add("")
	for _, result := range report.ProbeResults {
		add("- `%s`: claims=%d, evidence_found=%t", result.ProbeID, result.MatchedClaimCount, result.EvidenceFound)
	}
	add("")

	add("## Flagged Claims")
	add("")
	flagged := report.FlaggedClaims()
	if len(flagged) == 0 {
		add("- None")
	}
	for _, item := range flagged {
		add("- Line %d: `%s` (%s / %s) -> evidence: %s",
			item.SourceLine, item.Feature, item.Section, item.Subsection, strings.Join(item.Evidence, ", "))
	}

	return strings.Join(lines, "\n") + "\n"
}

// formatStatusCounts renders "implemented=N" pairs in report order
func formatStatusCounts(counts model.StatusCounts, sep string) string {
	parts := make([]string, 0, len(model.Statuses))
	for _, status := range model.Statuses {
		parts = append(parts, fmt.Sprintf("%s=%d", status, counts.Get(status)))
	}
	return strings.Join(parts, sep)
}

// RenderSummary prints a short console summary. verification may be nil
// when strict mode is off.
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report, verification *verify.Result) {
	s := report.Summary

	fmt.Fprintln(w, summaryTitleStyle.Render("Audit reconciliation: "+report.AuditFile))
	fmt.Fprintf(w, "  %s %d\n", summaryLabelStyle.Render("claims:     "), s.TotalItems)
	fmt.Fprintf(w, "  %s %s\n", summaryLabelStyle.Render("status:     "), formatStatusCounts(s.ByStatus, " "))

	found := 0
	for _, result := range report.ProbeResults {
		if result.EvidenceFound {
			found++
		}
	}
	fmt.Fprintf(w, "  %s %d/%d with evidence\n", summaryLabelStyle.Render("probes:     "), found, len(report.ProbeResults))

	stale := fmt.Sprintf("%d", s.StaleEvidenceItems)
	if s.StaleEvidenceItems > 0 {
		stale = summaryWarnStyle.Render(stale)
	}
	fmt.Fprintf(w, "  %s %s\n", summaryLabelStyle.Render("stale:      "), stale)

	if verification == nil {
		return
	}
	if verification.Passed() {
		fmt.Fprintf(w, "  %s %s\n", summaryLabelStyle.Render("verify:     "), summaryOKStyle.Render("passed"))
		return
	}
	fmt.Fprintf(w, "  %s %s\n", summaryLabelStyle.Render("verify:     "),
		summaryFailStyle.Render(fmt.Sprintf("%d error(s)", len(verification.Errors))))
}
