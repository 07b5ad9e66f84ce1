package arch

import (
	"fmt"
	"regexp"
	"strings"
)

// Condition is a requirement evaluated per selected type. Test returns one
// message per offending occurrence and nothing when the type complies.
type Condition struct {
	Description string
	Test        func(Type) []string
}

// NotImport requires that the declaring file imports no package matching the
// patterns.
func NotImport(patterns ...string) Condition {
	return Condition{
		Description: "not import " + quoteList(patterns),
		Test: func(t Type) []string {
			var out []string
			for _, imp := range t.Imports {
				if _, ok := matchAny(patterns, imp); ok {
					out = append(out, fmt.Sprintf("%s imports %s in (%s)", t.FullName(), imp, t.File))
				}
			}
			return out
		},
	}
}

// NotReference requires that the type uses no qualified identifier matching
// the patterns, e.g. "os.Stdout" or "fmt.Print...".
func NotReference(patterns ...string) Condition {
	return Condition{
		Description: "not reference " + quoteList(patterns),
		Test: func(t Type) []string {
			var out []string
			for _, ref := range t.References {
				if _, ok := matchAny(patterns, ref); ok {
					out = append(out, fmt.Sprintf("%s references %s in (%s)", t.FullName(), ref, t.File))
				}
			}
			return out
		},
	}
}

// ResideInAPackage requires the type's package to match one of the patterns.
func ResideInAPackage(patterns ...string) Condition {
	return Condition{
		Description: "reside in a package " + quoteList(patterns),
		Test: func(t Type) []string {
			if _, ok := matchAny(patterns, t.Package); ok {
				return nil
			}
			return []string{fmt.Sprintf("%s does not reside in a package %s in (%s)", t.FullName(), quoteList(patterns), t.File)}
		},
	}
}

// HaveNameEndingWith requires the type name to end with suffix.
func HaveNameEndingWith(suffix string) Condition {
	return Condition{
		Description: "have name ending with '" + suffix + "'",
		Test: func(t Type) []string {
			if strings.HasSuffix(t.Name, suffix) {
				return nil
			}
			return []string{fmt.Sprintf("%s does not have name ending with '%s' in (%s)", t.FullName(), suffix, t.File)}
		},
	}
}

// NotHaveNameStartingWith forbids the type name from starting with prefix.
func NotHaveNameStartingWith(prefix string) Condition {
	return Condition{
		Description: "not have name starting with '" + prefix + "'",
		Test: func(t Type) []string {
			if !strings.HasPrefix(t.Name, prefix) {
				return nil
			}
			return []string{fmt.Sprintf("%s has name starting with '%s' in (%s)", t.FullName(), prefix, t.File)}
		},
	}
}

// NotHaveNameMatching forbids the type name from matching expr.
func NotHaveNameMatching(expr string) Condition {
	re := regexp.MustCompile(expr)
	return Condition{
		Description: "not have name matching '" + expr + "'",
		Test: func(t Type) []string {
			if !re.MatchString(t.Name) {
				return nil
			}
			return []string{fmt.Sprintf("%s has name matching '%s' in (%s)", t.FullName(), expr, t.File)}
		},
	}
}

// BeDeclaredInTestFiles requires the type to live in a _test.go file.
func BeDeclaredInTestFiles() Condition {
	return Condition{
		Description: "be declared in test files",
		Test: func(t Type) []string {
			if t.Test {
				return nil
			}
			return []string{fmt.Sprintf("%s is declared in non-test file (%s)", t.FullName(), t.File)}
		},
	}
}
