package gate

import (
	"strings"

	"github.com/leapstack-labs/archgate/pkg/arch"
)

// ApplyScope narrows u to the types inside scope. A nil scope returns u.
func ApplyScope(u arch.Universe, scope *arch.Scope) arch.Universe {
	if scope == nil {
		return u
	}
	return u.Filter(scope.Matches)
}

// withoutIgnored drops types carrying an "//arch:ignore" directive that
// names ruleID. A directive may name several rules, and anything after "--"
// is a free-form reason.
func withoutIgnored(u arch.Universe, ruleID string) arch.Universe {
	return u.Filter(func(t arch.Type) bool {
		for _, d := range t.Directives {
			if ignores(d, ruleID) {
				return false
			}
		}
		return true
	})
}

func ignores(directive, ruleID string) bool {
	fields := strings.Fields(directive)
	if len(fields) == 0 || fields[0] != "ignore" {
		return false
	}
	for _, f := range fields[1:] {
		if f == "--" {
			break
		}
		if f == ruleID {
			return true
		}
	}
	return false
}
