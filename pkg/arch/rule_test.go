package arch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUniverse() Universe {
	return NewUniverse([]Type{
		{
			Package: "example.com/app/internal/store",
			Name:    "Store",
			Kind:    KindStruct,
			File:    "store.go",
			Imports: []string{"database/sql", "io/ioutil"},
		},
		{
			Package:    "example.com/app/internal/http",
			Name:       "UserHandler",
			Kind:       KindStruct,
			File:       "user.go",
			Imports:    []string{"net/http", "example.com/app/internal/store"},
			References: []string{"os.Exit", "net/http.Error"},
		},
		{
			Package: "example.com/app/internal/http",
			Name:    "IRouter",
			Kind:    KindInterface,
			File:    "router.go",
		},
		{
			Package: "example.com/app/internal/http",
			Name:    "fakeStore",
			Kind:    KindStruct,
			File:    "user_test.go",
			Test:    true,
			Imports: []string{"testing", "io/ioutil"},
		},
	})
}

func TestRule_Description(t *testing.T) {
	tests := []struct {
		name string
		rule *Rule
		want string
	}{
		{
			name: "no predicates",
			rule: Types().Should(NotImport("io/ioutil")),
			want: "types should not import 'io/ioutil'",
		},
		{
			name: "predicates and reason",
			rule: Types().
				That(ResideInPackage("example.com/app/internal/..."), AreInterfaces()).
				Should(NotHaveNameStartingWith("I")).
				Because("Go interfaces are not prefixed"),
			want: "types that reside in a package 'example.com/app/internal/...' and are interfaces should not have name starting with 'I', because Go interfaces are not prefixed",
		},
		{
			name: "explicit description",
			rule: Types().Should(NotImport("bou.ke/monkey")).As("types should not use monkey patching"),
			want: "types should not use monkey patching",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Description())
		})
	}
}

func TestRule_Evaluate(t *testing.T) {
	u := sampleUniverse()

	t.Run("collects every offending import in universe order", func(t *testing.T) {
		vs, err := Types().Should(NotImport("io/ioutil")).Evaluate(u)
		require.NoError(t, err)
		require.Len(t, vs, 1)
		assert.Equal(t, PriorityMedium, vs[0].Priority)
		assert.Equal(t, []string{
			"example.com/app/internal/store.Store imports io/ioutil in (store.go)",
			"example.com/app/internal/http.fakeStore imports io/ioutil in (user_test.go)",
		}, vs[0].Details)
	})

	t.Run("passing rule returns nothing", func(t *testing.T) {
		vs, err := Types().That(AreInterfaces()).Should(NotImport("io/ioutil")).Evaluate(u)
		require.NoError(t, err)
		assert.Empty(t, vs)
	})

	t.Run("report rewrites details once per type", func(t *testing.T) {
		rule := Types().
			Should(NotImport("io/ioutil", "database/sql")).
			Report(func(t Type, _ string) string { return "Use os and io - " + t.FullName() })
		vs, err := rule.Evaluate(u)
		require.NoError(t, err)
		require.Len(t, vs, 1)
		assert.Equal(t, []string{
			"Use os and io - example.com/app/internal/store.Store",
			"Use os and io - example.com/app/internal/http.fakeStore",
		}, vs[0].Details)
	})

	t.Run("references use wildcard patterns", func(t *testing.T) {
		vs, err := Types().Should(NotReference("os.Exit", "net/http.Err...")).WithPriority(PriorityHigh).Evaluate(u)
		require.NoError(t, err)
		require.Len(t, vs, 1)
		assert.Equal(t, "HIGH", vs[0].Priority.String())
		assert.Equal(t, 2, vs[0].Count())
	})

	t.Run("conditions on names and packages", func(t *testing.T) {
		vs, err := Types().
			That(HaveNameSuffix("Handler")).
			Should(ResideInAPackage("example.com/app/internal/http"), HaveNameEndingWith("Handler")).
			Evaluate(u)
		require.NoError(t, err)
		assert.Empty(t, vs)

		vs, err = Types().That(AreNotInTestFiles(), Not(AreInterfaces())).Should(BeDeclaredInTestFiles()).Evaluate(u)
		require.NoError(t, err)
		require.Len(t, vs, 1)
		assert.Len(t, vs[0].Details, 2)
	})
}

func TestRuleBuilder_SharedBase(t *testing.T) {
	u := NewUniverse([]Type{
		{Package: "example.com/app/api", Name: "FooX", Kind: KindInterface, File: "foo.go"},
		{Package: "example.com/app/api", Name: "BarX", Kind: KindInterface, File: "bar.go"},
	})

	interfaces := Types().That(AreInterfaces())
	fooRule := interfaces.That(HaveNamePrefix("Foo")).Should(NotHaveNameStartingWith("Foo"))
	barRule := interfaces.That(HaveNamePrefix("Bar")).Should(NotHaveNameStartingWith("Bar"))

	assert.Equal(t, "types that are interfaces and have name starting with 'Foo' should not have name starting with 'Foo'", fooRule.Description())
	assert.Equal(t, "types that are interfaces and have name starting with 'Bar' should not have name starting with 'Bar'", barRule.Description())

	vs, err := barRule.Evaluate(u)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, []string{"example.com/app/api.BarX has name starting with 'Bar' in (bar.go)"}, vs[0].Details)

	vs, err = fooRule.Evaluate(u)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, []string{"example.com/app/api.FooX has name starting with 'Foo' in (foo.go)"}, vs[0].Details)

	all, err := interfaces.Should(NotHaveNameStartingWith("X")).Evaluate(u)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, "types that are interfaces should not have name starting with 'X'", interfaces.Should(NotHaveNameStartingWith("X")).Description())
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		s       string
		want    bool
	}{
		{"net/http", "net/http", true},
		{"net/http", "net/http/httptest", false},
		{"net/...", "net", true},
		{"net/...", "net/http", true},
		{"net/...", "network", false},
		{".../internal/...", "example.com/app/internal/store", true},
		{"fmt.Print...", "fmt.Println", true},
		{"fmt.Print...", "fmt.Sprintf", false},
		{"a.b", "axb", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"~"+tt.s, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchPattern(tt.pattern, tt.s))
		})
	}
}

func TestMatchPattern_WildcardPrefix(t *testing.T) {
	assert.True(t, MatchPattern(".../internal/http/...", "example.com/app/internal/http"))
	assert.True(t, MatchPattern(".../cmd/...", "example.com/app/cmd"))
	assert.False(t, MatchPattern(".../cmd/...", "example.com/app/cmdline"))
}
