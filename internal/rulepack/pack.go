// Package rulepack loads configurable rules from files. A pack is a YAML
// document of declarative checks or a Starlark script whose public functions
// are checks. Either way it becomes a rules.CheckProvider whose identifier is
// the path it was configured with.
package rulepack

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/archgate/pkg/arch"
)

// Group is the rules group reported for packs.
const Group = "pack"

// Pack is a loaded rule pack. It implements rules.CheckProvider.
type Pack struct {
	id     string
	path   string
	doc    string
	checks []arch.NamedCheck
}

// ID implements rules.CheckProvider.
func (p *Pack) ID() string { return p.id }

// Group implements rules.CheckProvider.
func (p *Pack) Group() string { return Group }

// Description implements rules.CheckProvider.
func (p *Pack) Description() string { return p.doc }

// Checks implements rules.CheckProvider.
func (p *Pack) Checks() []arch.NamedCheck {
	out := make([]arch.NamedCheck, len(p.checks))
	copy(out, p.checks)
	return out
}

// Path returns the file the pack was loaded from.
func (p *Pack) Path() string { return p.path }

// IsPackID reports whether id names a rule pack file rather than a registered
// rule.
func IsPackID(id string) bool {
	switch strings.ToLower(filepath.Ext(id)) {
	case ".yaml", ".yml", ".star":
		return true
	default:
		return false
	}
}

// LoadError reports a rule pack that could not be read or compiled.
type LoadError struct {
	File    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("rule pack %s: %s", e.File, e.Message)
}

// Load reads the pack at path. id is the identifier the pack is known by.
// Starlark print output goes to logger at debug level.
func Load(id, path string, logger *slog.Logger) (*Pack, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(id, path)
	case ".star":
		return loadStarlark(id, path, logger)
	default:
		return nil, &LoadError{File: path, Message: "unsupported extension"}
	}
}
