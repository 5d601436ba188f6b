package model

// Config holds all auditmatrix settings.
// Priority: CLI flags > AUDITMATRIX_* env > config file > DefaultConfig.
type Config struct {
	Audit  AuditConfig  `yaml:"audit" mapstructure:"audit"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Verify VerifyConfig `yaml:"verify" mapstructure:"verify"`
	Probes ProbesConfig `yaml:"probes" mapstructure:"probes"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// AuditConfig locates the checklist and the code it describes
type AuditConfig struct {
	Document string `yaml:"document" mapstructure:"document"`   // Checklist markdown
	RepoRoot string `yaml:"repo_root" mapstructure:"repo_root"` // Probe target files resolve against this
	MaxBytes int64  `yaml:"max_bytes" mapstructure:"max_bytes"` // Refuse larger documents; 0 disables
}

// OutputConfig controls where reports go
type OutputConfig struct {
	JSON     string `yaml:"json" mapstructure:"json"`
	Markdown string `yaml:"markdown" mapstructure:"markdown"`
	Summary  bool   `yaml:"summary" mapstructure:"summary"` // Console summary on stderr
	Verbose  bool   `yaml:"-" mapstructure:"-"`
}

// VerifyConfig holds the strict verification thresholds
type VerifyConfig struct {
	Strict           bool     `yaml:"strict" mapstructure:"strict"`
	MinClaims        int      `yaml:"min_claims" mapstructure:"min_claims"`
	RequiredSections []string `yaml:"required_sections" mapstructure:"required_sections"`
}

// ProbesConfig selects the probe catalog
type ProbesConfig struct {
	Catalog string `yaml:"catalog" mapstructure:"catalog"` // Optional YAML catalog appended to the built-ins
	Builtin bool   `yaml:"builtin" mapstructure:"builtin"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // console, structured
}

// DefaultMinClaims guards against a parser regression that drops most of the document
const DefaultMinClaims = 600

// DefaultRequiredSections are headings the audit document must keep
func DefaultRequiredSections() []string {
	return []string{"CSS Properties", "JS Events API", "Networking & Protocols"}
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Audit: AuditConfig{
			Document: "AUDIT_FULL.md",
			RepoRoot: ".",
			MaxBytes: 16_000_000,
		},
		Output: OutputConfig{
			JSON:     "docs/audit_matrix.json",
			Markdown: "docs/audit_matrix.md",
			Summary:  true,
		},
		Verify: VerifyConfig{
			Strict:           false,
			MinClaims:        DefaultMinClaims,
			RequiredSections: DefaultRequiredSections(),
		},
		Probes: ProbesConfig{
			Catalog: "",
			Builtin: true,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}
