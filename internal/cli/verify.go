package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ppiankov/auditmatrix/internal/model"
	"github.com/ppiankov/auditmatrix/internal/verify"
)

var verifyFlagKeys = map[string]string{
	"json":             "output.json",
	"min-claims":       "verify.min_claims",
	"required-section": "verify.required_sections",
}

func newVerifyCommand(a *app) *cobra.Command {
	defaults := model.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a generated audit matrix against the verification rules",
		Long: `Verify loads a JSON matrix written by 'auditmatrix generate' and applies
the verification rules without touching the checklist or the repository.

Every violated rule is printed on stderr as a VERIFY ERROR line and the
command exits with status 1.

Example:
  auditmatrix verify --json docs/audit_matrix.json
  auditmatrix verify --min-claims 100 --required-section "CSS Properties"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVerify(cmd)
		},
	}

	cmd.Flags().String("json", defaults.Output.JSON, "audit matrix JSON to verify")
	cmd.Flags().Int("min-claims", defaults.Verify.MinClaims, "minimum number of parsed claims")
	cmd.Flags().StringSlice("required-section", defaults.Verify.RequiredSections, "section that must be present (repeatable)")

	return cmd
}

func (a *app) runVerify(cmd *cobra.Command) error {
	cfg, err := a.loadConfig(cmd, verifyFlagKeys)
	if err != nil {
		return err
	}

	report, err := readReport(a.fs, cfg.Output.JSON)
	if err != nil {
		return WrapExitError(ExitCommandError, "verify failed", err)
	}

	result := verify.NewVerifier(verify.RulesFromConfig(cfg.Verify)).Verify(report.Summary, report.ProbeResults)
	if err := reportVerification(cmd.ErrOrStderr(), result); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d claims, %d probes, verification passed\n",
		cfg.Output.JSON, report.Summary.TotalItems, len(report.ProbeResults))
	return nil
}

// readReport decodes a previously written audit matrix
func readReport(fsys afero.Fs, path string) (*model.Report, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &report, nil
}
