// Package buildunit classifies the directory archgate runs in.
package buildunit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"

	"github.com/leapstack-labs/archgate/pkg/gate"
)

// Unit describes a build unit.
type Unit struct {
	Dir  string
	Kind gate.UnitKind
	// ModulePath is set for modules.
	ModulePath string
	// Uses lists the module directories of a workspace.
	Uses []string
}

// Detect inspects dir: a go.mod makes it a module, a go.work alone makes it
// a workspace, and neither makes it none.
func Detect(dir string) (Unit, error) {
	u := Unit{Dir: dir, Kind: gate.UnitNone}

	gomod := filepath.Join(dir, "go.mod")
	data, err := os.ReadFile(gomod) //nolint:gosec // G304: path is the project root
	switch {
	case err == nil:
		f, err := modfile.ParseLax(gomod, data, nil)
		if err != nil {
			return u, fmt.Errorf("parsing %s: %w", gomod, err)
		}
		u.Kind = gate.UnitModule
		if f.Module != nil {
			u.ModulePath = f.Module.Mod.Path
		}
		return u, nil
	case !errors.Is(err, fs.ErrNotExist):
		return u, fmt.Errorf("reading %s: %w", gomod, err)
	}

	gowork := filepath.Join(dir, "go.work")
	data, err = os.ReadFile(gowork) //nolint:gosec // G304: path is the project root
	switch {
	case err == nil:
		w, err := modfile.ParseWork(gowork, data, nil)
		if err != nil {
			return u, fmt.Errorf("parsing %s: %w", gowork, err)
		}
		u.Kind = gate.UnitWorkspace
		for _, use := range w.Use {
			u.Uses = append(u.Uses, use.Path)
		}
		return u, nil
	case !errors.Is(err, fs.ErrNotExist):
		return u, fmt.Errorf("reading %s: %w", gowork, err)
	}

	return u, nil
}

// ParseKind converts a configured packaging override. The empty string means
// "detect".
func ParseKind(s string) (gate.UnitKind, bool) {
	switch k := gate.UnitKind(s); k {
	case gate.UnitModule, gate.UnitWorkspace, gate.UnitNone:
		return k, true
	default:
		return "", false
	}
}
