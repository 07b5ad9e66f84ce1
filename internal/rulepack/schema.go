package rulepack

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/archgate/pkg/arch"
)

// CheckSpec is the declarative form of one check, shared by YAML packs and
// the "checks" list of Starlark packs.
type CheckSpec struct {
	Name        string     `yaml:"name" mapstructure:"name"`
	Description string     `yaml:"description" mapstructure:"description"`
	That        ThatSpec   `yaml:"that" mapstructure:"that"`
	Should      ShouldSpec `yaml:"should" mapstructure:"should"`
	Because     string     `yaml:"because" mapstructure:"because"`
	Priority    string     `yaml:"priority" mapstructure:"priority"`
}

// ThatSpec selects types. All set fields must match.
type ThatSpec struct {
	Package    []string `yaml:"package" mapstructure:"package"`
	NameSuffix string   `yaml:"nameSuffix" mapstructure:"nameSuffix"`
	NamePrefix string   `yaml:"namePrefix" mapstructure:"namePrefix"`
	Kind       string   `yaml:"kind" mapstructure:"kind"`
	Scope      string   `yaml:"scope" mapstructure:"scope"`
	Directive  string   `yaml:"directive" mapstructure:"directive"`
}

// ShouldSpec lists the conditions selected types must meet.
type ShouldSpec struct {
	NotImport         []string `yaml:"notImport" mapstructure:"notImport"`
	NotReference      []string `yaml:"notReference" mapstructure:"notReference"`
	ResideInPackage   []string `yaml:"resideInPackage" mapstructure:"resideInPackage"`
	HaveNameSuffix    string   `yaml:"haveNameSuffix" mapstructure:"haveNameSuffix"`
	NotHaveNamePrefix string   `yaml:"notHaveNamePrefix" mapstructure:"notHaveNamePrefix"`
	BeInTestFiles     bool     `yaml:"beInTestFiles" mapstructure:"beInTestFiles"`
}

// Compile builds the check described by spec.
func (spec CheckSpec) Compile() (arch.NamedCheck, error) {
	if spec.Name == "" {
		return arch.NamedCheck{}, errors.New("check without a name")
	}

	preds, err := spec.That.predicates()
	if err != nil {
		return arch.NamedCheck{}, fmt.Errorf("check %s: %w", spec.Name, err)
	}
	conds := spec.Should.conditions()
	if len(conds) == 0 {
		return arch.NamedCheck{}, fmt.Errorf("check %s: should needs at least one condition", spec.Name)
	}
	priority, err := arch.ParsePriority(spec.Priority)
	if err != nil {
		return arch.NamedCheck{}, fmt.Errorf("check %s: %w", spec.Name, err)
	}

	rule := arch.Types().That(preds...).Should(conds...).WithPriority(priority)
	if spec.Because != "" {
		rule.Because(spec.Because)
	}
	if spec.Description != "" {
		rule.As(spec.Description)
	}
	return arch.NamedCheck{Name: spec.Name, Check: rule}, nil
}

func (s ThatSpec) predicates() ([]arch.Predicate, error) {
	var preds []arch.Predicate
	if len(s.Package) > 0 {
		preds = append(preds, arch.ResideInPackage(s.Package...))
	}
	if s.NamePrefix != "" {
		preds = append(preds, arch.HaveNamePrefix(s.NamePrefix))
	}
	if s.NameSuffix != "" {
		preds = append(preds, arch.HaveNameSuffix(s.NameSuffix))
	}
	if s.Kind != "" {
		switch k := arch.Kind(s.Kind); k {
		case arch.KindStruct, arch.KindInterface, arch.KindFunc, arch.KindAlias, arch.KindOther:
			preds = append(preds, arch.HaveKind(k))
		default:
			return nil, fmt.Errorf("unknown kind %q", s.Kind)
		}
	}
	if s.Scope != "" {
		kind, err := arch.ParseScopeKind(s.Scope)
		if err != nil {
			return nil, err
		}
		switch kind {
		case arch.ScopeMain:
			preds = append(preds, arch.AreNotInTestFiles())
		case arch.ScopeTest:
			preds = append(preds, arch.AreInTestFiles())
		}
	}
	if s.Directive != "" {
		preds = append(preds, arch.HaveDirective(s.Directive))
	}
	return preds, nil
}

func (s ShouldSpec) conditions() []arch.Condition {
	var conds []arch.Condition
	if len(s.NotImport) > 0 {
		conds = append(conds, arch.NotImport(s.NotImport...))
	}
	if len(s.NotReference) > 0 {
		conds = append(conds, arch.NotReference(s.NotReference...))
	}
	if len(s.ResideInPackage) > 0 {
		conds = append(conds, arch.ResideInAPackage(s.ResideInPackage...))
	}
	if s.HaveNameSuffix != "" {
		conds = append(conds, arch.HaveNameEndingWith(s.HaveNameSuffix))
	}
	if s.NotHaveNamePrefix != "" {
		conds = append(conds, arch.NotHaveNameStartingWith(s.NotHaveNamePrefix))
	}
	if s.BeInTestFiles {
		conds = append(conds, arch.BeDeclaredInTestFiles())
	}
	return conds
}
