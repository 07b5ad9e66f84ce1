package gate

import (
	"slices"

	"github.com/leapstack-labs/archgate/pkg/arch"
)

// ConfigurableRuleSpec enables one configurable rule. Checks selects checks by
// name (empty means all, in catalog order) and Scope optionally narrows the
// universe the checks see.
type ConfigurableRuleSpec struct {
	Rule   string
	Checks []string
	Scope  *arch.Scope
}

// Label names the spec in logs and errors.
func (s ConfigurableRuleSpec) Label() string {
	if s.Scope == nil {
		return s.Rule
	}
	return s.Rule + " on " + s.Scope.String()
}

// RuleSet is the validated set of rules to run. Build it with NewRuleSet.
type RuleSet struct {
	preConfigured []string
	configurable  []ConfigurableRuleSpec
}

// NewRuleSet copies the inputs and checks that at least one rule is present.
// Identifiers, check names and scopes are validated later, during
// resolution.
func NewRuleSet(preConfigured []string, configurable []ConfigurableRuleSpec) (*RuleSet, error) {
	if len(preConfigured) == 0 && len(configurable) == 0 {
		return nil, &ConfigurationError{Err: ErrNoRules}
	}

	rs := &RuleSet{
		preConfigured: slices.Clone(preConfigured),
		configurable:  make([]ConfigurableRuleSpec, len(configurable)),
	}
	for i, spec := range configurable {
		c := ConfigurableRuleSpec{Rule: spec.Rule, Checks: slices.Clone(spec.Checks)}
		if spec.Scope != nil {
			scope := *spec.Scope
			c.Scope = &scope
		}
		rs.configurable[i] = c
	}
	return rs, nil
}

// PreConfigured returns the pre-configured rule identifiers in order.
func (rs *RuleSet) PreConfigured() []string {
	return slices.Clone(rs.preConfigured)
}

// Configurable returns the configurable rule specs in order.
func (rs *RuleSet) Configurable() []ConfigurableRuleSpec {
	out := make([]ConfigurableRuleSpec, len(rs.configurable))
	for i, spec := range rs.configurable {
		out[i] = ConfigurableRuleSpec{Rule: spec.Rule, Checks: slices.Clone(spec.Checks)}
		if spec.Scope != nil {
			scope := *spec.Scope
			out[i].Scope = &scope
		}
	}
	return out
}
