package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ppiankov/auditmatrix/internal/model"
	"github.com/ppiankov/auditmatrix/internal/pipeline"
)

var probesFlagKeys = map[string]string{
	"probes": "probes.catalog",
}

var probeHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var probeCellStyle = lipgloss.NewStyle().Padding(0, 1)

func newProbesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probes",
		Short: "List the effective probe catalog",
		Long: `Probes prints the catalog generate would run: the built-in probes
followed by those from the --probes catalog file, in evaluation order.

Example:
  auditmatrix probes
  auditmatrix probes --probes probes.yaml --no-builtin-probes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd, probesFlagKeys)
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

			// List what generate would evaluate, after compilation
			p, err := pipeline.NewPipeline(cfg, a.fs, catalog, logger)
			if err != nil {
				return WrapExitError(ExitCommandError, "build pipeline", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderProbeTable(p.Probes()))
			return nil
		},
	}

	cmd.Flags().String("probes", "", "YAML probe catalog appended to the built-in probes")
	cmd.Flags().Bool("no-builtin-probes", false, "list only the probes from --probes")

	return cmd
}

func renderProbeTable(catalog []model.Probe) string {
	if len(catalog) == 0 {
		return "No probes configured"
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TARGET", "MARKERS", "REQUIRED", "DESCRIPTION").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return probeHeaderStyle
			}
			return probeCellStyle
		})

	for _, p := range catalog {
		t.Row(p.ID, p.TargetFile, strings.Join(p.RequiredMarkers, ", "),
			fmt.Sprintf("%t", p.RequiredIfClaimPresent), p.Description)
	}
	return t.Render()
}
