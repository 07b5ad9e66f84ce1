package arch

import (
	"slices"
	"strings"
)

// Kind is the declaration kind of a named type.
type Kind string

// Type kinds.
const (
	KindStruct    Kind = "struct"
	KindInterface Kind = "interface"
	KindFunc      Kind = "func"
	KindAlias     Kind = "alias"
	KindOther     Kind = "other"
)

// Field is a named field of a struct type.
type Field struct {
	Name     string
	Type     string
	Tag      string
	Exported bool
}

// Type is a named type declared in a Go package.
type Type struct {
	// Package is the import path of the declaring package.
	Package string
	// Name is the declared type name.
	Name string
	Kind Kind
	// File is the base name of the declaring file.
	File string
	// Test is true when the type is declared in a _test.go file.
	Test     bool
	Exported bool

	// Imports lists the import paths of the declaring file.
	Imports []string
	// References lists qualified identifiers from other packages used by the
	// type's fields and method bodies, as "importpath.Name".
	References []string
	Methods    []string
	Fields     []Field
	Embeds     []string
	// Directives holds "//arch:" comment directives with the prefix removed.
	Directives []string

	ImplementsError bool
}

// FullName returns the fully-qualified name "importpath.Name".
func (t Type) FullName() string {
	return t.Package + "." + t.Name
}

// HasDirective reports whether the type carries the given directive. A
// directive matches on its first word, so "ignore" matches "ignore NoIoutil".
func (t Type) HasDirective(name string) bool {
	for _, d := range t.Directives {
		if d == name || strings.HasPrefix(d, name+" ") {
			return true
		}
	}
	return false
}

// Universe is an immutable, ordered collection of types.
type Universe struct {
	types []Type
}

// NewUniverse returns a universe over a copy of types, keeping their order.
func NewUniverse(types []Type) Universe {
	return Universe{types: slices.Clone(types)}
}

// Types returns a copy of the types in the universe.
func (u Universe) Types() []Type {
	return slices.Clone(u.types)
}

// Len returns the number of types.
func (u Universe) Len() int {
	return len(u.types)
}

// Filter returns the sub-universe of types for which keep returns true.
func (u Universe) Filter(keep func(Type) bool) Universe {
	out := make([]Type, 0, len(u.types))
	for _, t := range u.types {
		if keep(t) {
			out = append(out, t)
		}
	}
	return Universe{types: out}
}

// Lookup finds a type by fully-qualified name.
func (u Universe) Lookup(fullName string) (Type, bool) {
	for _, t := range u.types {
		if t.FullName() == fullName {
			return t, true
		}
	}
	return Type{}, false
}

// Packages returns the distinct package paths in the universe, sorted.
func (u Universe) Packages() []string {
	seen := make(map[string]bool)
	var pkgs []string
	for _, t := range u.types {
		if !seen[t.Package] {
			seen[t.Package] = true
			pkgs = append(pkgs, t.Package)
		}
	}
	slices.Sort(pkgs)
	return pkgs
}
