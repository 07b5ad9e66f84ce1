package rulepack

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/archgate/pkg/arch"
	"github.com/leapstack-labs/archgate/pkg/gate"
	"github.com/leapstack-labs/archgate/pkg/rules"
)

func writePack(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func packUniverse() arch.Universe {
	return arch.NewUniverse([]arch.Type{
		{Package: "example.com/app/internal/http", Name: "UserHandler", Kind: arch.KindStruct, File: "user.go",
			Imports: []string{"database/sql", "net/http"}, References: []string{"database/sql.DB", "os.Exit"}},
		{Package: "example.com/app/internal/http", Name: "Router", Kind: arch.KindStruct, File: "router.go",
			Imports: []string{"net/http"}},
		{Package: "example.com/app/internal/http", Name: "fakeDB", Kind: arch.KindStruct, File: "user_test.go", Test: true,
			Imports: []string{"database/sql"}},
		{Package: "example.com/app/internal/store", Name: "Store", Kind: arch.KindStruct, File: "store.go",
			Imports: []string{"database/sql"}},
	})
}

const layersYAML = `description: HTTP layer rules
checks:
  - name: handlersSkipSQL
    that:
      package: [".../internal/http/..."]
      nameSuffix: Handler
    should:
      notImport: [database/sql]
    because: handlers go through the store
  - name: prodCodeNoExit
    description: production code should not exit the process
    that:
      scope: main
    should:
      notReference: [os.Exit]
    priority: high
`

func TestLoadYAML(t *testing.T) {
	path := writePack(t, t.TempDir(), "rules/layers.yaml", layersYAML)

	p, err := Load("rules/layers.yaml", path, nil)
	require.NoError(t, err)
	assert.Equal(t, "rules/layers.yaml", p.ID())
	assert.Equal(t, "HTTP layer rules", p.Description())
	assert.Equal(t, Group, p.Group())

	checks := p.Checks()
	require.Len(t, checks, 2)
	assert.Equal(t, "handlersSkipSQL", checks[0].Name)
	assert.Equal(t,
		"types that reside in a package '.../internal/http/...' and have name ending with 'Handler' should not import 'database/sql', because handlers go through the store",
		checks[0].Check.Description())

	vs, err := checks[0].Check.Evaluate(packUniverse())
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, []string{"example.com/app/internal/http.UserHandler imports database/sql in (user.go)"}, vs[0].Details)

	vs, err = checks[1].Check.Evaluate(packUniverse())
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, "production code should not exit the process", vs[0].Description)
	assert.Equal(t, arch.PriorityHigh, vs[0].Priority)
}

func TestLoadYAML_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown field", "checks:\n  - name: x\n    shuold:\n      notImport: [a]\n", "shuold"},
		{"no conditions", "checks:\n  - name: x\n", "at least one condition"},
		{"no name", "checks:\n  - should:\n      notImport: [a]\n", "without a name"},
		{"bad kind", "checks:\n  - name: x\n    that:\n      kind: class\n    should:\n      notImport: [a]\n", "unknown kind"},
		{"bad priority", "checks:\n  - name: x\n    should:\n      notImport: [a]\n    priority: urgent\n", "invalid priority"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePack(t, t.TempDir(), "p.yml", tt.content)
			_, err := Load("p.yml", path, nil)
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

const layersStar = `"""Handler rules written in Starlark."""

def _is_handler(t):
    return t.name.endswith("Handler")

def handlers_do_not_exit(t):
    """handlers should not call os.Exit"""
    if _is_handler(t) and "os.Exit" in t.references:
        return ["%s calls os.Exit in (%s)" % (t.full_name, t.file)]
    return None

def tests_stay_small(t):
    if t.test and len(t.imports) > 3:
        return "%s imports too much" % t.full_name

checks = [
    {
        "name": "storeOwnsSQL",
        "that": {"scope": "main"},
        "should": {"resideInPackage": ".../internal/store", "notImport": ["net/http"]},
    },
]
`

func TestLoadStarlark(t *testing.T) {
	path := writePack(t, t.TempDir(), "layers.star", layersStar)

	p, err := Load("layers.star", path, nil)
	require.NoError(t, err)
	assert.Equal(t, "Handler rules written in Starlark.", p.Description())

	checks := p.Checks()
	var names []string
	for _, c := range checks {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"handlers_do_not_exit", "tests_stay_small", "storeOwnsSQL"}, names)
	assert.Equal(t, "handlers should not call os.Exit", checks[0].Check.Description())
	assert.Equal(t, "types should satisfy tests_stay_small", checks[1].Check.Description())

	vs, err := checks[0].Check.Evaluate(packUniverse())
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, []string{"example.com/app/internal/http.UserHandler calls os.Exit in (user.go)"}, vs[0].Details)

	vs, err = checks[1].Check.Evaluate(packUniverse())
	require.NoError(t, err)
	assert.Empty(t, vs)

	vs, err = checks[2].Check.Evaluate(packUniverse())
	require.NoError(t, err)
	require.Len(t, vs, 1)
	// UserHandler and Router fail both conditions; Store passes.
	assert.Len(t, vs[0].Details, 4)
}

func TestLoadStarlark_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax error", "def broken(:\n    return 1\n", "layers.star"},
		{"wrong arity", "def two(a, b):\n    return None\n", "exactly one parameter"},
		{"bad checks list", "checks = [{\"name\": \"x\", \"bogus\": 1}]\n", "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePack(t, t.TempDir(), "layers.star", tt.content)
			_, err := Load("layers.star", path, nil)
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, path, loadErr.File)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStarlarkCheck_RuntimeError(t *testing.T) {
	path := writePack(t, t.TempDir(), "bad.star", "def explode(t):\n    return 1 // 0\n\ndef wrong(t):\n    return 42\n")

	p, err := Load("bad.star", path, nil)
	require.NoError(t, err)
	checks := p.Checks()

	_, err = checks[0].Check.Evaluate(packUniverse())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explode on example.com/app/internal/http.UserHandler")

	_, err = checks[1].Check.Evaluate(packUniverse())
	assert.ErrorContains(t, err, "want list of strings")
}

func TestResolver(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "rules/layers.yaml", layersYAML)

	reg := rules.NewRegistry()
	reg.RegisterRule(rules.RuleDef{Name: "x.Rule", Impl: arch.Types().Should(arch.NotImport("a"))})
	r := NewResolver(dir, gate.NewRegistryResolver(reg), nil)

	p, err := r.ResolveProvider("rules/layers.yaml")
	require.NoError(t, err)
	again, err := r.ResolveProvider("rules/layers.yaml")
	require.NoError(t, err)
	assert.Same(t, p, again)

	_, err = r.ResolveRule("rules/layers.yaml")
	assert.ErrorIs(t, err, gate.ErrRuleNotFound)

	rule, err := r.ResolveRule("x.Rule")
	require.NoError(t, err)
	assert.Equal(t, "x.Rule", rule.ID())

	_, err = r.ResolveProvider("rules/missing.yaml")
	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)

	r.Reset()
	fresh, err := r.ResolveProvider("rules/layers.yaml")
	require.NoError(t, err)
	assert.NotSame(t, p, fresh)
}

func TestResolver_EngineIntegration(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "layers.star", layersStar)

	loader := gate.UniverseLoaderFunc(func(_ context.Context) (arch.Universe, error) {
		return packUniverse(), nil
	})
	e := gate.New(NewResolver(dir, nil, nil), loader)

	_, err := e.Run(context.Background(), gate.Request{
		Configurable: []gate.ConfigurableRuleSpec{{Rule: "layers.star", Checks: []string{"handlers_do_not_exit", "nope"}}},
	})
	var unknown *gate.UnknownCheckError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"nope"}, unknown.Missing)

	out, err := e.Run(context.Background(), gate.Request{
		Configurable: []gate.ConfigurableRuleSpec{{
			Rule:   "layers.star",
			Checks: []string{"handlers_do_not_exit"},
			Scope:  &arch.Scope{BasePackage: "example.com/app/internal/http", Kind: arch.ScopeMain},
		}},
		NoFailOnError: true,
	})
	require.NoError(t, err)
	require.Len(t, out.Violations, 1)
	assert.Equal(t, "layers.star#handlers_do_not_exit", out.Violations[0].Label())
}
