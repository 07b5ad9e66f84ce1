// Package rules defines the rule types archgate executes and the registry
// that makes them resolvable by identifier.
//
// There are two kinds of rules:
//
//   - Rule: a pre-configured rule carrying exactly one check. It is enabled by
//     listing its identifier and always runs against the whole universe.
//   - CheckProvider: a configurable rule exposing an ordered catalog of named
//     checks. Configuration selects some or all of them and may narrow the
//     universe with a scope.
//
// Built-in rules register themselves from init() in pkg/rules/builtin.
package rules

import "github.com/leapstack-labs/archgate/pkg/arch"

// Rule is a pre-configured rule with a single implicit check.
type Rule interface {
	ID() string
	Group() string
	Check() arch.Check
}

// CheckProvider is a configurable rule exposing named checks.
type CheckProvider interface {
	ID() string
	Group() string
	Description() string
	// Checks returns the catalog in declaration order. Names should be unique.
	Checks() []arch.NamedCheck
}

// RuleDef is the plain-data form of a Rule.
type RuleDef struct {
	Name      string
	GroupName string
	// Rationale explains the rule in listings. The check description is what
	// violations report.
	Rationale string
	Impl      arch.Check
}

// ID implements Rule.
func (d RuleDef) ID() string { return d.Name }

// Group implements Rule.
func (d RuleDef) Group() string { return d.GroupName }

// Check implements Rule.
func (d RuleDef) Check() arch.Check { return d.Impl }

// ProviderDef is the plain-data form of a CheckProvider.
type ProviderDef struct {
	Name      string
	GroupName string
	Doc       string
	Catalog   []arch.NamedCheck
}

// ID implements CheckProvider.
func (d ProviderDef) ID() string { return d.Name }

// Group implements CheckProvider.
func (d ProviderDef) Group() string { return d.GroupName }

// Description implements CheckProvider.
func (d ProviderDef) Description() string { return d.Doc }

// Checks implements CheckProvider.
func (d ProviderDef) Checks() []arch.NamedCheck {
	out := make([]arch.NamedCheck, len(d.Catalog))
	copy(out, d.Catalog)
	return out
}

// Kind distinguishes pre-configured rules from check providers in listings.
type Kind string

// Rule kinds.
const (
	KindPreConfigured Kind = "preconfigured"
	KindConfigurable  Kind = "configurable"
)

// Info describes a registered rule for listings.
type Info struct {
	ID          string      `json:"id"`
	Kind        Kind        `json:"kind"`
	Group       string      `json:"group"`
	Description string      `json:"description"`
	Checks      []CheckInfo `json:"checks"`
}

// CheckInfo describes one check of a rule.
type CheckInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RuleInfo describes a pre-configured rule.
func RuleInfo(r Rule) Info {
	desc := r.Check().Description()
	if d, ok := r.(RuleDef); ok && d.Rationale != "" {
		desc = d.Rationale
	}
	return Info{
		ID:          r.ID(),
		Kind:        KindPreConfigured,
		Group:       r.Group(),
		Description: desc,
		Checks:      []CheckInfo{{Name: r.ID(), Description: r.Check().Description()}},
	}
}

// ProviderInfo describes a check provider and its catalog.
func ProviderInfo(p CheckProvider) Info {
	info := Info{
		ID:          p.ID(),
		Kind:        KindConfigurable,
		Group:       p.Group(),
		Description: p.Description(),
	}
	for _, c := range p.Checks() {
		info.Checks = append(info.Checks, CheckInfo{Name: c.Name, Description: c.Check.Description()})
	}
	return info
}
