package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/auditmatrix/internal/model"
)

func newConfigCommand(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage Auditmatrix configuration",
		Long: `Manage Auditmatrix configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (AUDITMATRIX_*)
3. Config file (~/.auditmatrix/config.yaml)
4. Defaults`,
	}

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  `Display the effective configuration after merging defaults, config file and environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd, nil)
			if err != nil {
				return err
			}

			if configFile := a.v.ConfigFileUsed(); configFile != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Configuration file: %s\n\n", configFile)
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "No configuration file found (using defaults)\n\n")
			}

			yamlData, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("error marshaling config: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), string(yamlData))
			return nil
		},
	}

	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Initialize default configuration file",
		Long:  `Create a default configuration file (default: ~/.auditmatrix/config.yaml) with all available options.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := ""
			if len(args) == 1 {
				configPath = args[0]
			} else {
				home, err := os.UserHomeDir()
				if err != nil {
					return WrapExitError(ExitCommandError, "error finding home directory", err)
				}
				configPath = filepath.Join(home, ".auditmatrix", "config.yaml")
			}

			if err := writeDefaultConfig(a.fs, configPath); err != nil {
				return WrapExitError(ExitCommandError, "config init failed", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created default configuration: %s\n", configPath)
			fmt.Fprintf(cmd.OutOrStdout(), "\nTo view the configuration:\n")
			fmt.Fprintf(cmd.OutOrStdout(), "  auditmatrix config show\n")
			return nil
		},
	}

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	return configCmd
}

const configHeader = `# Auditmatrix Configuration File
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (AUDITMATRIX_*, e.g. AUDITMATRIX_VERIFY_MIN_CLAIMS)
#   3. This config file
#   4. Built-in defaults

`

const configFooter = `
# Probe catalog files extend the built-in probes:
#   probes:
#     - id: layout-grid
#       description: Grid layout implemented
#       feature_pattern: '^display: grid'
#       target_file: src/layout/grid.cpp
#       required_markers: ["GridLayout::layout("]
`

// writeDefaultConfig refuses to overwrite an existing file
func writeDefaultConfig(fsys afero.Fs, path string) error {
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if exists {
		return fmt.Errorf("config file already exists: %s (delete it first to recreate)", path)
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	content := configHeader + string(yamlData) + configFooter
	if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	return nil
}
