package builtin

import (
	"github.com/leapstack-labs/archgate/pkg/arch"
	"github.com/leapstack-labs/archgate/pkg/rules"
)

// NoMonkeyPatching forbids run-time function patching libraries.
var NoMonkeyPatching = rules.RuleDef{
	Name:      "builtin.NoMonkeyPatching",
	GroupName: GroupTesting,
	Rationale: "Monkey patching rewrites machine code at run time; seams belong in interfaces and constructor arguments.",
	Impl: arch.Types().
		Should(arch.NotImport(
			"bou.ke/monkey",
			"github.com/bouk/monkey",
			"github.com/agiledragon/gomonkey...",
			"github.com/undefinedlabs/go-mpatch",
		)).
		As("types should not use monkey patching").
		Report(func(t arch.Type, _ string) string {
			return "Favor interfaces and proper dependency injection - " + t.FullName()
		}),
}

// NoIoutil forbids the deprecated io/ioutil package.
var NoIoutil = rules.RuleDef{
	Name:      "builtin.NoIoutil",
	GroupName: GroupStyle,
	Rationale: "io/ioutil is deprecated since Go 1.16.",
	Impl: arch.Types().
		Should(arch.NotImport("io/ioutil")).
		Because("its functions moved to io and os"),
}

// NoInterfaceIPrefix forbids Hungarian-style interface names such as IReader.
var NoInterfaceIPrefix = rules.RuleDef{
	Name:      "builtin.NoInterfaceIPrefix",
	GroupName: GroupStyle,
	Rationale: "Go interfaces are named for what they do, not what they are.",
	Impl: arch.Types().
		That(arch.AreInterfaces()).
		Should(arch.NotHaveNameMatching(`^I[A-Z]`)),
}

// NoStandardStreams forbids library code from writing to the process streams.
var NoStandardStreams = rules.RuleDef{
	Name:      "builtin.NoStandardStreams",
	GroupName: GroupStyle,
	Rationale: "Library code should write to an injected io.Writer or logger; only commands own stdout and stderr.",
	Impl: arch.Types().
		That(arch.AreNotInTestFiles(), arch.ResideOutsideOfPackage(".../cmd/...")).
		Should(arch.NotReference("os.Stdout", "os.Stderr", "fmt.Print...", "log.Print...")).
		Because("output belongs to the caller"),
}
