// Package arch is the architecture model archgate checks run against.
//
// A Universe is the set of named Go types loaded from a module (test files
// included). A Check evaluates a Universe and returns zero or more
// Violations. Checks are usually written with the fluent rule builder:
//
//	arch.Types().
//		That(arch.ResideInPackage("example.com/app/internal/...")).
//		Should(arch.NotImport("example.com/app/cmd/...")).
//		Because("cmd wires internal packages, never the reverse")
//
// Package patterns follow the go command convention: "..." matches any
// string, and a trailing "/..." also matches the package itself.
//
// This package has no dependencies outside the standard library so that
// rule packs and user code can import it without pulling the loader in.
package arch
