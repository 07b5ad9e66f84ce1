package builtin

import (
	"github.com/leapstack-labs/archgate/pkg/arch"
	"github.com/leapstack-labs/archgate/pkg/rules"
)

// Layering checks the conventional pkg/internal/cmd layout. Apply it with a
// scope to limit it to one module.
var Layering = rules.ProviderDef{
	Name:      "builtin.Layering",
	GroupName: GroupLayers,
	Doc:       "Dependency direction between pkg, internal and cmd packages.",
	Catalog: []arch.NamedCheck{
		{
			Name: "pkgDoesNotImportInternal",
			Check: arch.Types().
				That(arch.ResideInPackage(".../pkg/...")).
				Should(arch.NotImport(".../internal/...")).
				Because("public packages must stay usable outside the module"),
		},
		{
			Name: "nothingImportsCmd",
			Check: arch.Types().
				That(arch.ResideOutsideOfPackage(".../cmd/...")).
				Should(arch.NotImport(".../cmd/...")),
		},
		{
			Name: "testHelpersStayInTests",
			Check: arch.Types().
				That(arch.HaveNameMatching(`^(?:[Ff]ake|[Mm]ock|[Ss]tub)[A-Z]`)).
				Should(arch.BeDeclaredInTestFiles()),
		},
	},
}

// Naming checks type naming conventions.
var Naming = rules.ProviderDef{
	Name:      "builtin.Naming",
	GroupName: GroupNaming,
	Doc:       "Type naming conventions.",
	Catalog: []arch.NamedCheck{
		{
			Name: "errorTypesEndWithError",
			Check: arch.Types().
				That(arch.ImplementError(), arch.AreStructs()).
				Should(arch.HaveNameEndingWith("Error")),
		},
		{
			Name: "interfacesWithoutIPrefix",
			Check: arch.Types().
				That(arch.AreInterfaces()).
				Should(arch.NotHaveNameMatching(`^I[A-Z]`)),
		},
		{
			Name: "handlersEndWithHandler",
			Check: arch.Types().
				That(arch.HaveMethod("ServeHTTP")).
				Should(arch.HaveNameEndingWith("Handler")),
		},
	},
}
