package gate

import (
	"slices"

	"github.com/leapstack-labs/archgate/pkg/arch"
)

// Select picks the checks a spec asks for. No names selects the whole catalog
// in catalog order. Otherwise checks come back in request order, repeated
// names once, and every name missing from the catalog is reported together.
func Select(spec ConfigurableRuleSpec, cat *Catalog) ([]arch.NamedCheck, error) {
	if len(spec.Checks) == 0 {
		return cat.Entries(), nil
	}

	var (
		selected []arch.NamedCheck
		missing  []string
		seen     = make(map[string]bool, len(spec.Checks))
	)
	for _, name := range spec.Checks {
		if seen[name] {
			continue
		}
		seen[name] = true
		check, ok := cat.Lookup(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		selected = append(selected, arch.NamedCheck{Name: name, Check: check})
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, &UnknownCheckError{RuleID: spec.Rule, Missing: missing}
	}
	return selected, nil
}
