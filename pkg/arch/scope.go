package arch

import (
	"fmt"
	"strings"
)

// ScopeKind selects main code, test code, or both.
type ScopeKind string

// Scope kinds. The empty kind selects both main and test code.
const (
	ScopeAll  ScopeKind = ""
	ScopeMain ScopeKind = "main"
	ScopeTest ScopeKind = "test"
)

// ParseScopeKind validates a scope kind string.
func ParseScopeKind(s string) (ScopeKind, error) {
	switch k := ScopeKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ScopeAll, ScopeMain, ScopeTest:
		return k, nil
	case "all":
		return ScopeAll, nil
	default:
		return ScopeAll, fmt.Errorf("invalid scope %q: must be main, test, or empty", s)
	}
}

// Scope restricts a check to types under a base package and of a given kind.
type Scope struct {
	BasePackage string
	Kind        ScopeKind
}

// MatchesName reports whether a fully-qualified type name lies under the base
// package. Matching is by path segment: base "a/b" matches "a/b.T" and
// "a/b/c.T" but not "a/bc.T". A base containing "..." is matched as a
// package pattern instead.
func (s Scope) MatchesName(fullName string) bool {
	if s.BasePackage == "" {
		return true
	}
	i := strings.LastIndex(fullName, ".")
	if i < 0 {
		return false
	}
	return packageUnder(fullName[:i], s.BasePackage)
}

// Matches reports whether t is inside the scope.
func (s Scope) Matches(t Type) bool {
	if s.BasePackage != "" && !packageUnder(t.Package, s.BasePackage) {
		return false
	}
	switch s.Kind {
	case ScopeMain:
		return !t.Test
	case ScopeTest:
		return t.Test
	default:
		return true
	}
}

func (s Scope) String() string {
	base := s.BasePackage
	if base == "" {
		base = "<all packages>"
	}
	if s.Kind == ScopeAll {
		return base
	}
	return base + " (" + string(s.Kind) + ")"
}

func packageUnder(pkg, base string) bool {
	// External test packages ("p_test") belong to the package they test.
	pkg = strings.TrimSuffix(pkg, "_test")
	if strings.Contains(base, "...") {
		return MatchPattern(base, pkg)
	}
	return pkg == base || strings.HasPrefix(pkg, base+"/")
}
