package rulepack

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/leapstack-labs/archgate/pkg/gate"
	"github.com/leapstack-labs/archgate/pkg/rules"
)

// Resolver resolves rule pack paths and falls back to another resolver for
// everything else. Packs are loaded once per resolver.
type Resolver struct {
	baseDir  string
	fallback gate.Resolver
	logger   *slog.Logger

	mu    sync.Mutex
	packs map[string]*Pack
}

// NewResolver creates a resolver. Relative pack paths are resolved against
// baseDir. A nil fallback resolves against the global rules registry.
func NewResolver(baseDir string, fallback gate.Resolver, logger *slog.Logger) *Resolver {
	if fallback == nil {
		fallback = gate.NewRegistryResolver(nil)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		baseDir:  baseDir,
		fallback: fallback,
		logger:   logger,
		packs:    make(map[string]*Pack),
	}
}

// ResolveRule implements gate.Resolver. Packs are always configurable.
func (r *Resolver) ResolveRule(id string) (rules.Rule, error) {
	if IsPackID(id) {
		return nil, fmt.Errorf("%w: rule pack %s is not a pre-configured rule", gate.ErrRuleNotFound, id)
	}
	return r.fallback.ResolveRule(id)
}

// ResolveProvider implements gate.Resolver.
func (r *Resolver) ResolveProvider(id string) (rules.CheckProvider, error) {
	if !IsPackID(id) {
		return r.fallback.ResolveProvider(id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.packs[id]; ok {
		return p, nil
	}

	path := id
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	p, err := Load(id, path, r.logger)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("loaded rule pack", "pack", id, "checks", len(p.checks))
	r.packs[id] = p
	return p, nil
}

// Reset drops cached packs so edited files are re-read.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packs = make(map[string]*Pack)
}
