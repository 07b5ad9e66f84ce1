// Package config provides configuration management for the archgate CLI.
//
// Configuration is layered: built-in defaults, then archgate.yaml found in
// the project root, then ARCHGATE_* environment variables, then explicitly
// set command-line flags.
package config

import (
	"github.com/leapstack-labs/archgate/pkg/arch"
	"github.com/leapstack-labs/archgate/pkg/gate"
)

// Config holds all CLI configuration options.
type Config struct {
	Rules         RulesConfig `koanf:"rules"`
	Skip          bool        `koanf:"skip"`
	NoFailOnError bool        `koanf:"noFailOnError"`
	// Packaging overrides build unit detection: module, workspace or none.
	Packaging  string        `koanf:"packaging"`
	Dir        string        `koanf:"dir"`
	Patterns   []string      `koanf:"patterns"`
	Tests      bool          `koanf:"tests"`
	BuildFlags []string      `koanf:"buildFlags"`
	Output     string        `koanf:"output"`
	Verbose    bool          `koanf:"verbose"`
	History    HistoryConfig `koanf:"history"`

	// ProjectRoot is where the config file was found, or the working
	// directory. Relative paths are resolved against it.
	ProjectRoot string `koanf:"-"`
}

// RulesConfig lists the rules to run.
type RulesConfig struct {
	PreConfiguredRules []string           `koanf:"preConfiguredRules"`
	ConfigurableRules  []ConfigurableRule `koanf:"configurableRules"`
}

// ConfigurableRule enables a configurable rule or rule pack.
type ConfigurableRule struct {
	Rule    string   `koanf:"rule"`
	Checks  []string `koanf:"checks"`
	ApplyOn *ApplyOn `koanf:"applyOn"`
}

// ApplyOn narrows a configurable rule to part of the code base.
type ApplyOn struct {
	BasePackage string `koanf:"basePackage"`
	Scope       string `koanf:"scope"`
}

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// Default configuration values.
const (
	DefaultOutput      = "auto" // TTY=text, non-TTY=markdown
	DefaultHistoryPath = ".archgate/history.db"
)

// DefaultPatterns are loaded when no patterns are configured.
var DefaultPatterns = []string{"./..."}

// ConfigurableSpecs converts the configured rules for the engine. Scope kinds
// are passed through unvalidated; the engine reports bad ones.
func (c *Config) ConfigurableSpecs() []gate.ConfigurableRuleSpec {
	specs := make([]gate.ConfigurableRuleSpec, 0, len(c.Rules.ConfigurableRules))
	for _, r := range c.Rules.ConfigurableRules {
		spec := gate.ConfigurableRuleSpec{Rule: r.Rule, Checks: r.Checks}
		if r.ApplyOn != nil {
			spec.Scope = &arch.Scope{
				BasePackage: r.ApplyOn.BasePackage,
				Kind:        arch.ScopeKind(r.ApplyOn.Scope),
			}
		}
		specs = append(specs, spec)
	}
	return specs
}

// Request builds the engine request for a build unit of the given kind.
func (c *Config) Request(unit gate.UnitKind) gate.Request {
	return gate.Request{
		Skip:          c.Skip,
		Unit:          unit,
		PreConfigured: c.Rules.PreConfiguredRules,
		Configurable:  c.ConfigurableSpecs(),
		NoFailOnError: c.NoFailOnError,
	}
}
