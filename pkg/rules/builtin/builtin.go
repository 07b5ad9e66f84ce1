// Package builtin provides the rules archgate ships with. Importing it
// registers them in the global rules registry.
package builtin

import "github.com/leapstack-labs/archgate/pkg/rules"

// Groups used by built-in rules.
const (
	GroupTesting = "testing"
	GroupStyle   = "style"
	GroupLayers  = "layering"
	GroupNaming  = "naming"
)

func init() {
	rules.RegisterRule(NoMonkeyPatching)
	rules.RegisterRule(NoIoutil)
	rules.RegisterRule(NoInterfaceIPrefix)
	rules.RegisterRule(NoStandardStreams)
	rules.RegisterProvider(Layering)
	rules.RegisterProvider(Naming)
}
