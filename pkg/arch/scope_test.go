package arch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_MatchesName(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		fqn   string
		match bool
	}{
		{"empty base matches all", "", "example.com/x.T", true},
		{"type in base package", "example.com/app", "example.com/app.Server", true},
		{"type in sub package", "example.com/app", "example.com/app/internal.Store", true},
		{"sibling with shared prefix", "example.com/app", "example.com/apps.T", false},
		{"dotted module path", "example", "example.com/app.T", false},
		{"external test package", "example.com/app", "example.com/app_test.T", true},
		{"no dot", "example.com/app", "example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Scope{BasePackage: tt.base}
			assert.Equal(t, tt.match, s.MatchesName(tt.fqn))
		})
	}
}

func TestScope_Matches(t *testing.T) {
	main := Type{Package: "example.com/app/svc", Name: "Service"}
	test := Type{Package: "example.com/app/svc", Name: "fakeClock", Test: true}
	other := Type{Package: "example.com/lib", Name: "Util"}

	tests := []struct {
		name  string
		scope Scope
		want  []bool
	}{
		{"all kinds", Scope{BasePackage: "example.com/app"}, []bool{true, true, false}},
		{"main only", Scope{BasePackage: "example.com/app", Kind: ScopeMain}, []bool{true, false, false}},
		{"test only", Scope{BasePackage: "example.com/app", Kind: ScopeTest}, []bool{false, true, false}},
		{"no base", Scope{Kind: ScopeMain}, []bool{true, false, true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []bool{tt.scope.Matches(main), tt.scope.Matches(test), tt.scope.Matches(other)}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseScopeKind(t *testing.T) {
	for in, want := range map[string]ScopeKind{"": ScopeAll, "all": ScopeAll, "Main": ScopeMain, " test ": ScopeTest} {
		got, err := ParseScopeKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseScopeKind("bench")
	assert.ErrorContains(t, err, "invalid scope")
}

func TestScope_PatternBase(t *testing.T) {
	s := Scope{BasePackage: ".../internal/..."}
	assert.True(t, s.MatchesName("example.com/app/internal/db.Store"))
	assert.False(t, s.MatchesName("example.com/app/pkg/api.Client"))
}
