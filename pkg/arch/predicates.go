package arch

import (
	"regexp"
	"strings"
)

// Predicate selects the types a rule applies to.
type Predicate struct {
	Description string
	Match       func(Type) bool
}

// ResideInPackage selects types whose package matches any of the patterns.
func ResideInPackage(patterns ...string) Predicate {
	return Predicate{
		Description: "reside in a package " + quoteList(patterns),
		Match: func(t Type) bool {
			_, ok := matchAny(patterns, t.Package)
			return ok
		},
	}
}

// ResideOutsideOfPackage selects types whose package matches none of the
// patterns.
func ResideOutsideOfPackage(patterns ...string) Predicate {
	return Predicate{
		Description: "reside outside of package " + quoteList(patterns),
		Match: func(t Type) bool {
			_, ok := matchAny(patterns, t.Package)
			return !ok
		},
	}
}

// HaveNameSuffix selects types whose name ends with suffix.
func HaveNameSuffix(suffix string) Predicate {
	return Predicate{
		Description: "have name ending with '" + suffix + "'",
		Match:       func(t Type) bool { return strings.HasSuffix(t.Name, suffix) },
	}
}

// HaveNamePrefix selects types whose name starts with prefix.
func HaveNamePrefix(prefix string) Predicate {
	return Predicate{
		Description: "have name starting with '" + prefix + "'",
		Match:       func(t Type) bool { return strings.HasPrefix(t.Name, prefix) },
	}
}

// HaveNameMatching selects types whose name matches the regular expression.
func HaveNameMatching(expr string) Predicate {
	re := regexp.MustCompile(expr)
	return Predicate{
		Description: "have name matching '" + expr + "'",
		Match:       func(t Type) bool { return re.MatchString(t.Name) },
	}
}

// HaveKind selects types of the given declaration kind.
func HaveKind(k Kind) Predicate {
	return Predicate{
		Description: "are " + string(k) + "s",
		Match:       func(t Type) bool { return t.Kind == k },
	}
}

// AreInterfaces selects interface types.
func AreInterfaces() Predicate { return HaveKind(KindInterface) }

// AreStructs selects struct types.
func AreStructs() Predicate { return HaveKind(KindStruct) }

// AreExported selects exported types.
func AreExported() Predicate {
	return Predicate{
		Description: "are exported",
		Match:       func(t Type) bool { return t.Exported },
	}
}

// AreInTestFiles selects types declared in _test.go files.
func AreInTestFiles() Predicate {
	return Predicate{
		Description: "are declared in test files",
		Match:       func(t Type) bool { return t.Test },
	}
}

// AreNotInTestFiles selects types declared outside _test.go files.
func AreNotInTestFiles() Predicate {
	return Predicate{
		Description: "are declared outside test files",
		Match:       func(t Type) bool { return !t.Test },
	}
}

// HaveDirective selects types annotated with an "//arch:<name>" directive.
func HaveDirective(name string) Predicate {
	return Predicate{
		Description: "are annotated with //arch:" + name,
		Match:       func(t Type) bool { return t.HasDirective(name) },
	}
}

// ImplementError selects types whose value or pointer implements error.
func ImplementError() Predicate {
	return Predicate{
		Description: "implement error",
		Match:       func(t Type) bool { return t.ImplementsError },
	}
}

// Not negates a predicate.
func Not(p Predicate) Predicate {
	return Predicate{
		Description: "do not " + p.Description,
		Match:       func(t Type) bool { return !p.Match(t) },
	}
}

// InScope selects the types inside s.
func InScope(s Scope) Predicate {
	return Predicate{
		Description: "are in " + s.String(),
		Match:       s.Matches,
	}
}

// HaveMethod selects types declaring a method with the given name.
func HaveMethod(name string) Predicate {
	return Predicate{
		Description: "have method " + name,
		Match: func(t Type) bool {
			for _, m := range t.Methods {
				if m == name {
					return true
				}
			}
			return false
		},
	}
}
