// Package loader builds the type universe from Go source using
// golang.org/x/tools/go/packages.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"github.com/leapstack-labs/archgate/pkg/arch"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedImports |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

// maxReportedErrors caps how many package errors are joined into one error.
const maxReportedErrors = 10

// Config controls what is loaded.
type Config struct {
	// Dirs are loaded concurrently; each is the working directory for its
	// patterns. Defaults to ".".
	Dirs []string
	// Patterns are go command package patterns. Defaults to "./...".
	Patterns []string
	// Tests includes _test.go files and external test packages.
	Tests bool
	// AllowErrors keeps going when packages have type or syntax errors.
	AllowErrors bool
	// BuildFlags are passed to the go command, e.g. "-tags=integration".
	BuildFlags []string
	Logger     *slog.Logger
}

// Loader loads types from Go packages. It implements gate.UniverseLoader.
type Loader struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a loader.
func New(cfg Config) *Loader {
	if len(cfg.Dirs) == 0 {
		cfg.Dirs = []string{"."}
	}
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = []string{"./..."}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{cfg: cfg, logger: logger}
}

// Load loads every configured directory and returns the merged universe
// sorted by full name, main declarations before test declarations.
func (l *Loader) Load(ctx context.Context) (arch.Universe, error) {
	results := make([][]arch.Type, len(l.cfg.Dirs))

	g, ctx := errgroup.WithContext(ctx)
	for i, dir := range l.cfg.Dirs {
		g.Go(func() error {
			types, err := l.loadDir(ctx, dir)
			if err != nil {
				return fmt.Errorf("loading %s: %w", dir, err)
			}
			results[i] = types
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return arch.Universe{}, err
	}

	seen := make(map[string]bool)
	var all []arch.Type
	for _, types := range results {
		for _, t := range types {
			key := t.FullName()
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, t)
		}
	}
	slices.SortStableFunc(all, func(a, b arch.Type) int {
		if c := strings.Compare(a.FullName(), b.FullName()); c != 0 {
			return c
		}
		return strings.Compare(a.File, b.File)
	})

	l.logger.Debug("loaded types", "dirs", len(l.cfg.Dirs), "types", len(all))
	return arch.NewUniverse(all), nil
}

func (l *Loader) loadDir(ctx context.Context, dir string) ([]arch.Type, error) {
	pcfg := &packages.Config{
		Context:    ctx,
		Mode:       loadMode,
		Dir:        dir,
		Tests:      l.cfg.Tests,
		BuildFlags: l.cfg.BuildFlags,
	}
	pkgs, err := packages.Load(pcfg, l.cfg.Patterns...)
	if err != nil {
		return nil, err
	}

	if !l.cfg.AllowErrors {
		if err := packageErrors(pkgs); err != nil {
			return nil, err
		}
	}

	var types []arch.Type
	for _, pkg := range pkgs {
		// The synthesized test main has no user declarations.
		if strings.HasSuffix(pkg.PkgPath, ".test") {
			continue
		}
		l.logger.Debug("extracting package", "id", pkg.ID, "files", len(pkg.Syntax))
		types = append(types, extract(pkg)...)
	}
	return types, nil
}

func packageErrors(pkgs []*packages.Package) error {
	var errs []error
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			if len(errs) < maxReportedErrors {
				errs = append(errs, errors.New(e.Error()))
			}
		}
	})
	return errors.Join(errs...)
}
