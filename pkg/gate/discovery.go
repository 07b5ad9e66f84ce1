package gate

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/archgate/pkg/arch"
	"github.com/leapstack-labs/archgate/pkg/rules"
)

// Resolver turns rule identifiers into rules. Implementations return an error
// wrapping ErrRuleNotFound when nothing is registered under the identifier.
type Resolver interface {
	ResolveRule(id string) (rules.Rule, error)
	ResolveProvider(id string) (rules.CheckProvider, error)
}

// RegistryResolver resolves identifiers against a rules registry.
type RegistryResolver struct {
	Registry *rules.Registry
}

// NewRegistryResolver returns a resolver over reg, or the global registry when
// reg is nil.
func NewRegistryResolver(reg *rules.Registry) *RegistryResolver {
	if reg == nil {
		reg = rules.Default()
	}
	return &RegistryResolver{Registry: reg}
}

// ResolveRule implements Resolver.
func (r *RegistryResolver) ResolveRule(id string) (rules.Rule, error) {
	if rule, ok := r.Registry.Rule(id); ok {
		return rule, nil
	}
	if _, ok := r.Registry.Provider(id); ok {
		return nil, fmt.Errorf("%w: %s is not a pre-configured rule", ErrRuleNotFound, id)
	}
	return nil, fmt.Errorf("%w: %s", ErrRuleNotFound, id)
}

// ResolveProvider implements Resolver.
func (r *RegistryResolver) ResolveProvider(id string) (rules.CheckProvider, error) {
	if p, ok := r.Registry.Provider(id); ok {
		return p, nil
	}
	if _, ok := r.Registry.Rule(id); ok {
		return nil, fmt.Errorf("%w: %s is not a configurable rule", ErrRuleNotFound, id)
	}
	return nil, fmt.Errorf("%w: %s", ErrRuleNotFound, id)
}

// Catalog is the ordered set of named checks a configurable rule exposes.
type Catalog struct {
	RuleID string
	names  []string
	checks map[string]arch.Check
}

// Names returns check names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Lookup returns the check registered under name.
func (c *Catalog) Lookup(name string) (arch.Check, bool) {
	check, ok := c.checks[name]
	return check, ok
}

// Len returns the number of checks.
func (c *Catalog) Len() int { return len(c.names) }

// Entries returns every check in catalog order.
func (c *Catalog) Entries() []arch.NamedCheck {
	out := make([]arch.NamedCheck, len(c.names))
	for i, n := range c.names {
		out[i] = arch.NamedCheck{Name: n, Check: c.checks[n]}
	}
	return out
}

// Discover resolves id to a check provider and builds its catalog.
func Discover(resolver Resolver, id string) (*Catalog, error) {
	p, err := resolver.ResolveProvider(id)
	if err != nil {
		return nil, &RuleResolutionError{RuleID: id, Err: err}
	}
	return NewCatalog(id, p.Checks())
}

// NewCatalog builds a catalog from checks in order. Duplicate or empty names
// and nil checks are resolution errors.
func NewCatalog(id string, checks []arch.NamedCheck) (*Catalog, error) {
	c := &Catalog{RuleID: id, checks: make(map[string]arch.Check, len(checks))}
	for _, nc := range checks {
		switch {
		case nc.Name == "":
			return nil, &RuleResolutionError{RuleID: id, Err: errors.New("check with empty name")}
		case nc.Check == nil:
			return nil, &RuleResolutionError{RuleID: id, Err: fmt.Errorf("check %s has no implementation", nc.Name)}
		}
		if _, dup := c.checks[nc.Name]; dup {
			return nil, &RuleResolutionError{RuleID: id, Err: fmt.Errorf("duplicate check name %s", nc.Name)}
		}
		c.names = append(c.names, nc.Name)
		c.checks[nc.Name] = nc.Check
	}
	return c, nil
}
