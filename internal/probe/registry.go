package probe

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/auditmatrix/internal/model"
)

// DefaultCatalog returns the built-in probes. Each call returns a fresh
// slice so callers can append without touching the defaults.
func DefaultCatalog() []model.Probe {
	return []model.Probe{
		{
			ID:                     "events-keyboard-dispatch",
			Description:            "Keyboard dispatch exists in shell path",
			FeaturePattern:         `^Keyboard events \(keydown, keyup, keypress\)`,
			TargetFile:             "src/shell/browser_window.mm",
			RequiredMarkers:        []string{"dispatch_keyboard_event(", "didKeyEvent"},
			RequiredIfClaimPresent: true,
		},
		{
			ID:                     "events-dblclick-dispatch",
			Description:            "dblclick dispatch exists",
			FeaturePattern:         `^dblclick$`,
			TargetFile:             "src/shell/browser_window.mm",
			RequiredMarkers:        []string{`"dblclick"`, "didDoubleClickAtX"},
			RequiredIfClaimPresent: true,
		},
		{
			ID:                     "events-contextmenu-dispatch",
			Description:            "contextmenu dispatch exists",
			FeaturePattern:         `^contextmenu$`,
			TargetFile:             "src/shell/browser_window.mm",
			RequiredMarkers:        []string{`"contextmenu"`, "didContextMenuAtX"},
			RequiredIfClaimPresent: true,
		},
		{
			ID:                     "events-form-dispatch",
			Description:            "submit/reset default-action dispatch exists",
			FeaturePattern:         `^Form events \(submit, reset\)`,
			TargetFile:             "src/js/js_dom_bindings.cpp",
			RequiredMarkers:        []string{`"submit"`, `"reset"`, "dispatch_event_propagated("},
			RequiredIfClaimPresent: true,
		},
	}
}

// Resolve builds the effective catalog: the built-ins (when enabled)
// followed by extra probes, validated as a whole.
func Resolve(builtin bool, extra []model.Probe) ([]model.Probe, error) {
	var catalog []model.Probe
	if builtin {
		catalog = DefaultCatalog()
	}
	catalog = append(catalog, extra...)

	if err := Validate(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Validate rejects catalogs the engine cannot evaluate uniformly
func Validate(catalog []model.Probe) error {
	seen := make(map[string]bool, len(catalog))
	for i, p := range catalog {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("probe #%d: empty id", i+1)
		}
		if seen[p.ID] {
			return fmt.Errorf("probe %s: duplicate id", p.ID)
		}
		seen[p.ID] = true

		if strings.TrimSpace(p.TargetFile) == "" {
			return fmt.Errorf("probe %s: empty target file", p.ID)
		}
		if _, err := compileMatcher(p.FeaturePattern); err != nil {
			return fmt.Errorf("probe %s: invalid feature pattern: %w", p.ID, err)
		}
	}
	return nil
}

func compileMatcher(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}
