package gate

import "fmt"

// UnitKind is the kind of build unit being checked.
type UnitKind string

// Build unit kinds.
const (
	// UnitModule is a directory with a go.mod.
	UnitModule UnitKind = "module"
	// UnitWorkspace is a go.work aggregating other modules and holding no code
	// of its own.
	UnitWorkspace UnitKind = "workspace"
	// UnitNone has neither go.mod nor go.work.
	UnitNone UnitKind = "none"
)

// Checkable reports whether code in a unit of this kind can be checked. The
// empty kind is treated as a module.
func (k UnitKind) Checkable() bool {
	return k == UnitModule || k == ""
}

// ShouldSkip decides whether a run is skipped and why. The skip flag wins over
// the unit kind.
func ShouldSkip(skip bool, kind UnitKind) (string, bool) {
	if skip {
		return "skip flag is set, so skipping execution", true
	}
	if !kind.Checkable() {
		return fmt.Sprintf("module packaging is '%s', so skipping execution", kind), true
	}
	return "", false
}
