package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/auditmatrix/internal/model"
	"github.com/ppiankov/auditmatrix/internal/pipeline"
	"github.com/ppiankov/auditmatrix/internal/probe"
	"github.com/ppiankov/auditmatrix/internal/verify"
)

var generateFlagKeys = map[string]string{
	"audit":     "audit.document",
	"repo-root": "audit.repo_root",
	"max-bytes": "audit.max_bytes",
	"json-out":  "output.json",
	"md-out":    "output.markdown",
	"summary":   "output.summary",
	"verify":    "verify.strict",
	"probes":    "probes.catalog",
}

func newGenerateCommand(a *app) *cobra.Command {
	defaults := model.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Reconcile the audit checklist against source evidence",
		Long: `Generate parses the audit checklist, runs every probe against the
repository and writes a JSON matrix and a Markdown report.

With --verify the run also checks the result against the verification
rules and exits with status 1 when any rule fails.

Item ids fold diacritics before slugging ("Café" becomes "cafe"). Ids of
non-ASCII features therefore differ from ids produced by slugging that
only drops non-alphanumerics ("caf").

Example:
  auditmatrix generate
  auditmatrix generate --audit AUDIT_FULL.md --repo-root . --verify
  auditmatrix generate --probes probes.yaml --no-builtin-probes --md-out ""`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd)
		},
	}

	// Input flags
	cmd.Flags().String("audit", defaults.Audit.Document, "audit checklist markdown")
	cmd.Flags().String("repo-root", defaults.Audit.RepoRoot, "repository root probe targets resolve against")
	cmd.Flags().Int64("max-bytes", defaults.Audit.MaxBytes, "max audit document size (0 disables)")

	// Output flags
	cmd.Flags().String("json-out", defaults.Output.JSON, "output JSON path (empty skips)")
	cmd.Flags().String("md-out", defaults.Output.Markdown, "output Markdown path (empty skips)")
	cmd.Flags().Bool("summary", defaults.Output.Summary, "print a console summary on stderr")

	// Probe and verification flags
	cmd.Flags().Bool("verify", defaults.Verify.Strict, "fail when verification rules are violated")
	cmd.Flags().String("probes", defaults.Probes.Catalog, "YAML probe catalog appended to the built-in probes")
	cmd.Flags().Bool("no-builtin-probes", false, "use only the probes from --probes")

	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command) error {
	cfg, err := a.loadConfig(cmd, generateFlagKeys)
	if err != nil {
		return err
	}
	if noBuiltin, _ := cmd.Flags().GetBool("no-builtin-probes"); noBuiltin {
		cfg.Probes.Builtin = false
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	catalog, err := a.resolveCatalog(cfg.Probes)
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg, a.fs, catalog, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "build pipeline", err)
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Audit: %s\n", cfg.Audit.Document)
		fmt.Fprintf(cmd.ErrOrStderr(), "Repository: %s\n", cfg.Audit.RepoRoot)
		fmt.Fprintf(cmd.ErrOrStderr(), "Probes: %d\n\n", len(catalog))
	}

	report, err := p.Run(cfg.Audit.Document, cfg.Audit.RepoRoot)
	if err != nil {
		return WrapExitError(ExitCommandError, "generate failed", err)
	}

	if err := p.RenderReport(report, cfg.Output.JSON, cfg.Output.Markdown); err != nil {
		return WrapExitError(ExitCommandError, "render failed", err)
	}

	var verification *verify.Result
	if cfg.Verify.Strict {
		result := p.Verify(report)
		verification = &result
		logger.Debug("verification finished", zap.Int("errors", len(result.Errors)))
	}

	if cfg.Output.Summary {
		p.RenderSummary(cmd.ErrOrStderr(), report, verification)
	}

	if verification != nil {
		return reportVerification(cmd.ErrOrStderr(), *verification)
	}
	return nil
}

// resolveCatalog loads the optional catalog file and merges it with the
// built-in probes
func (a *app) resolveCatalog(cfg model.ProbesConfig) ([]model.Probe, error) {
	var extra []model.Probe
	if cfg.Catalog != "" {
		loaded, err := probe.LoadCatalog(a.fs, cfg.Catalog)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "load probe catalog", err)
		}
		extra = loaded
	}

	catalog, err := probe.Resolve(cfg.Builtin, extra)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid probe catalog", err)
	}
	return catalog, nil
}
