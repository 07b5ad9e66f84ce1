package loader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/archgate/internal/testutil"
	"github.com/leapstack-labs/archgate/pkg/arch"
)

// writeModule creates a throwaway module from a map of relative paths.
func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	testutil.RequireGo(t)
	return testutil.WriteFiles(t, files)
}

const storeSrc = `package store

import (
	"errors"
	"io/ioutil"
	"os"
)

// Store keeps records on disk.
//
//arch:ignore builtin.NoIoutil
type Store struct {
	Path string ` + "`json:\"path\"`" + `
	*os.File
}

func (s *Store) Read() ([]byte, error) {
	return ioutil.ReadFile(s.Path)
}

func (s Store) Close() error { return errors.ErrUnsupported }

type Reader interface {
	Read() ([]byte, error)
}

type NotFoundError struct{ Key string }

func (e *NotFoundError) Error() string { return "not found: " + e.Key }

type Alias = Store

type Pair[T any] struct{ A, B T }

func (p Pair[T]) First() T { return p.A }
`

const storeTestSrc = `package store

import "testing"

type fakeClock struct{}

func TestStore(t *testing.T) {}
`

const externalTestSrc = `package store_test

import (
	"fmt"
	"testing"
)

type helper struct{}

func (helper) Print() { fmt.Println("x") }

func TestExternal(t *testing.T) {}
`

func TestLoader_Load(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod":                        "module example.com/app\n\ngo 1.22\n",
		"internal/store/store.go":       storeSrc,
		"internal/store/store_test.go":  storeTestSrc,
		"internal/store/export_test.go": externalTestSrc,
	})

	u, err := New(Config{Dirs: []string{dir}, Tests: true, Logger: testutil.NewTestLogger(t)}).Load(context.Background())
	require.NoError(t, err)

	var got []string
	for _, typ := range u.Types() {
		got = append(got, typ.FullName())
	}
	assert.Equal(t, []string{
		"example.com/app/internal/store.Alias",
		"example.com/app/internal/store.NotFoundError",
		"example.com/app/internal/store.Pair",
		"example.com/app/internal/store.Reader",
		"example.com/app/internal/store.Store",
		"example.com/app/internal/store.fakeClock",
		"example.com/app/internal/store_test.helper",
	}, got)

	store, ok := u.Lookup("example.com/app/internal/store.Store")
	require.True(t, ok)
	assert.Equal(t, arch.KindStruct, store.Kind)
	assert.Equal(t, "store.go", store.File)
	assert.False(t, store.Test)
	assert.True(t, store.Exported)
	assert.Equal(t, []string{"errors", "io/ioutil", "os"}, store.Imports)
	assert.Equal(t, []string{"Close", "Read"}, store.Methods)
	assert.Equal(t, []string{"os.File"}, store.Embeds)
	require.Len(t, store.Fields, 1)
	assert.Equal(t, arch.Field{Name: "Path", Type: "string", Tag: `json:"path"`, Exported: true}, store.Fields[0])
	assert.Equal(t, []string{"os.File", "io/ioutil.ReadFile", "errors.ErrUnsupported"}, store.References)
	assert.Equal(t, []string{"ignore builtin.NoIoutil"}, store.Directives)
	assert.False(t, store.ImplementsError)

	nf, _ := u.Lookup("example.com/app/internal/store.NotFoundError")
	assert.True(t, nf.ImplementsError)

	reader, _ := u.Lookup("example.com/app/internal/store.Reader")
	assert.Equal(t, arch.KindInterface, reader.Kind)

	alias, _ := u.Lookup("example.com/app/internal/store.Alias")
	assert.Equal(t, arch.KindAlias, alias.Kind)

	pair, _ := u.Lookup("example.com/app/internal/store.Pair")
	assert.Equal(t, []string{"First"}, pair.Methods)

	fake, _ := u.Lookup("example.com/app/internal/store.fakeClock")
	assert.True(t, fake.Test)
	assert.Equal(t, "store_test.go", fake.File)

	helper, _ := u.Lookup("example.com/app/internal/store_test.helper")
	assert.Equal(t, []string{"fmt.Println"}, helper.References)
}

func TestLoader_WithoutTests(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod":                       "module example.com/app\n\ngo 1.22\n",
		"internal/store/store.go":      storeSrc,
		"internal/store/store_test.go": storeTestSrc,
	})

	u, err := New(Config{Dirs: []string{dir}}).Load(context.Background())
	require.NoError(t, err)
	for _, typ := range u.Types() {
		assert.False(t, typ.Test, typ.FullName())
	}
}

func TestLoader_Errors(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod": "module example.com/broken\n\ngo 1.22\n",
		"a/a.go": "package a\n\ntype A struct{ B undefinedType }\n",
	})

	_, err := New(Config{Dirs: []string{dir}}).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefinedType")

	u, err := New(Config{Dirs: []string{dir}, AllowErrors: true}).Load(context.Background())
	require.NoError(t, err)
	_, ok := u.Lookup("example.com/broken/a.A")
	assert.True(t, ok)
}

func TestLoader_MultipleDirs(t *testing.T) {
	first := writeModule(t, map[string]string{
		"go.mod": "module example.com/one\n\ngo 1.22\n",
		"z.go":   "package one\n\ntype Z struct{}\n",
	})
	second := writeModule(t, map[string]string{
		"go.mod": "module example.com/two\n\ngo 1.22\n",
		"a.go":   "package two\n\ntype A struct{}\n",
	})

	u, err := New(Config{Dirs: []string{first, second}}).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, u.Len())
	assert.Equal(t, "example.com/one.Z", u.Types()[0].FullName())
	assert.Equal(t, "example.com/two.A", u.Types()[1].FullName())
}
