package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/auditmatrix/internal/model"
	"github.com/ppiankov/auditmatrix/internal/util"
)

// Version is overridden at build time with -ldflags
var Version = "v0.1.0"

// app carries state shared by every subcommand of one root command
type app struct {
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string

	v  *viper.Viper
	fs afero.Fs
}

// NewRootCommand builds the command tree. Each call gets its own viper
// instance so commands can be executed repeatedly in tests.
func NewRootCommand() *cobra.Command {
	return newRootCommand(afero.NewOsFs())
}

func newRootCommand(fsys afero.Fs) *cobra.Command {
	a := &app{v: viper.New(), fs: fsys}
	a.v.SetFs(fsys)

	rootCmd := &cobra.Command{
		Use:   "auditmatrix",
		Short: "Auditmatrix - reconcile a feature checklist against source evidence",
		Long: `Auditmatrix reads a markdown feature checklist, normalizes every item
into a claim with a declared status, and runs code-evidence probes against
the repository the checklist describes.

Claims declared partial, missing or unspecified whose probes find every
required marker in source are flagged as stale: the checklist is
under-reporting the implementation.

Auditmatrix does not analyze code semantics. A probe is a literal
substring check, nothing more.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.auditmatrix/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (forces debug logging)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format (console, structured)")

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newGenerateCommand(a))
	rootCmd.AddCommand(newVerifyCommand(a))
	rootCmd.AddCommand(newProbesCommand(a))
	rootCmd.AddCommand(newConfigCommand(a))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Display the version number for Auditmatrix.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "auditmatrix %s\n", Version)
		},
	}
}

// initConfig reads in config file and ENV variables
func (a *app) initConfig(cmd *cobra.Command) error {
	setDefaults(a.v, model.DefaultConfig())

	if a.cfgFile != "" {
		// Use config file from the flag
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".auditmatrix"))
		}
		a.v.SetConfigType("yaml")
		a.v.SetConfigName("config")
	}

	// Read in environment variables that match AUDITMATRIX_*
	a.v.SetEnvPrefix("AUDITMATRIX")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return WrapExitError(ExitCommandError, "read config", err)
		}
		return nil
	}

	if a.verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", a.v.ConfigFileUsed())
	}
	return nil
}

// setDefaults registers every config key so env variables resolve even
// without a config file
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("audit.document", cfg.Audit.Document)
	v.SetDefault("audit.repo_root", cfg.Audit.RepoRoot)
	v.SetDefault("audit.max_bytes", cfg.Audit.MaxBytes)
	v.SetDefault("output.json", cfg.Output.JSON)
	v.SetDefault("output.markdown", cfg.Output.Markdown)
	v.SetDefault("output.summary", cfg.Output.Summary)
	v.SetDefault("verify.strict", cfg.Verify.Strict)
	v.SetDefault("verify.min_claims", cfg.Verify.MinClaims)
	v.SetDefault("verify.required_sections", cfg.Verify.RequiredSections)
	v.SetDefault("probes.catalog", cfg.Probes.Catalog)
	v.SetDefault("probes.builtin", cfg.Probes.Builtin)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}

// globalFlagKeys maps persistent flags to config keys
var globalFlagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
}

// loadConfig resolves the effective configuration for cmd. flagKeys maps
// the command's flag names to config keys; only flags set on the command
// line override lower layers.
func (a *app) loadConfig(cmd *cobra.Command, flagKeys map[string]string) (*model.Config, error) {
	bind := func(keys map[string]string) error {
		for name, key := range keys {
			flag := cmd.Flags().Lookup(name)
			if flag == nil || !flag.Changed {
				continue
			}
			if err := a.v.BindPFlag(key, flag); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
		return nil
	}
	if err := bind(globalFlagKeys); err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if err := bind(flagKeys); err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}

	cfg := model.DefaultConfig()
	if err := a.v.Unmarshal(cfg); err != nil {
		return nil, WrapExitError(ExitCommandError, "decode config", err)
	}

	cfg.Output.Verbose = a.verbose
	if a.verbose {
		cfg.Log.Level = string(util.LogLevelDebug)
	}
	return cfg, nil
}

// newLogger builds the run logger on the command's stderr
func newLogger(cfg *model.Config, w io.Writer) (*zap.Logger, error) {
	logger, err := util.NewLogger(util.LogLevel(cfg.Log.Level), util.LogFormat(cfg.Log.Format), w)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "configure logging", err)
	}
	return logger, nil
}
