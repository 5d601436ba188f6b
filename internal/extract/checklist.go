package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/auditmatrix/internal/model"
)

// FieldSeparator splits a checkbox body into feature, status and note
const FieldSeparator = " — "

var (
	checkboxPattern = regexp.MustCompile(`^- \[(?P<check>[ xX])\] (?P<body>.+?)\s*$`)
	headerPattern   = regexp.MustCompile(`^(?P<level>#{2,3})[\s\p{Zs}]+(?P<title>.+?)[\s\p{Zs}]*$`)
)

// ChecklistParser turns an audit document into claims
type ChecklistParser struct{}

// NewChecklistParser creates a new checklist parser
func NewChecklistParser() *ChecklistParser {
	return &ChecklistParser{}
}

// Parse scans the document line by line and returns one claim per
// checkbox entry, in document order. Unrecognized lines are skipped.
func (p *ChecklistParser) Parse(text string) []model.Claim {
	section := ""
	subsection := ""
	claims := make([]model.Claim, 0)

	for i, rawLine := range splitLines(text) {
		line := strings.TrimSpace(rawLine)

		if m := headerPattern.FindStringSubmatch(line); m != nil {
			title := m[headerPattern.SubexpIndex("title")]
			switch m[headerPattern.SubexpIndex("level")] {
			case "##":
				section = title
				subsection = ""
			case "###":
				subsection = title
			}
			continue
		}

		m := checkboxPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		checked := strings.EqualFold(m[checkboxPattern.SubexpIndex("check")], "x")
		feature, rawStatus, note := splitBody(m[checkboxPattern.SubexpIndex("body")])

		claims = append(claims, model.Claim{
			ID:             Slugify(section + "-" + subsection + "-" + feature),
			Section:        section,
			Subsection:     subsection,
			Feature:        feature,
			Checked:        checked,
			DeclaredStatus: model.NormalizeStatus(checked, rawStatus),
			Note:           note,
			SourceLine:     i + 1,
			Evidence:       []string{},
		})
	}

	return claims
}

// splitBody separates "feature — status — note — more note"
func splitBody(body string) (feature, status, note string) {
	parts := strings.Split(body, FieldSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	feature = parts[0]
	if len(parts) >= 2 {
		status = parts[1]
	}
	if len(parts) >= 3 {
		note = strings.TrimSpace(strings.Join(parts[2:], FieldSeparator))
	}
	return feature, status, note
}

// splitLines splits on \n, \r\n and lone \r
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
