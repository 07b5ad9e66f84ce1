package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/archgate/internal/buildunit"
)

var validOutputs = []string{"auto", "text", "markdown", "json"}

// Validate checks values that the engine does not validate itself.
func (c *Config) Validate() error {
	var errs []error

	if c.Output != "" && !slices.Contains(validOutputs, c.Output) {
		errs = append(errs, fmt.Errorf("invalid output %q: must be one of %s", c.Output, strings.Join(validOutputs, ", ")))
	}
	// A skipped run never reads packaging.
	if c.Packaging != "" && !c.Skip {
		if _, ok := buildunit.ParseKind(c.Packaging); !ok {
			errs = append(errs, fmt.Errorf("invalid packaging %q: must be module, workspace, or none", c.Packaging))
		}
	}
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, errors.New("history.path is required when history is enabled"))
	}
	for i, r := range c.Rules.ConfigurableRules {
		if strings.TrimSpace(r.Rule) == "" {
			errs = append(errs, fmt.Errorf("rules.configurableRules[%d]: rule is required", i))
		}
	}

	return errors.Join(errs...)
}
