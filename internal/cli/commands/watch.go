package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// skipWatchDir reports directories that never hold checked code.
func skipWatchDir(name string) bool {
	if name == "vendor" || name == "testdata" || name == "node_modules" {
		return true
	}
	return len(name) > 1 && name[0] == '.'
}

// isWatchedFile reports whether a change to path can change the result.
func isWatchedFile(path string) bool {
	switch filepath.Base(path) {
	case "go.mod", "go.work":
		return true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go", ".yaml", ".yml", ".star":
		return true
	}
	return false
}

// addWatchDirs recursively adds a directory to the watcher.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipWatchDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func isConfigFile(path string) bool {
	switch filepath.Base(path) {
	case "archgate.yaml", "archgate.yml":
		return true
	}
	return false
}

// runWatch runs check once, then again after every relevant change until
// ctx is cancelled. Failing runs are reported and watching continues. When
// the config file changes, reload builds a fresh command context first.
func runWatch(ctx context.Context, cc *CommandContext, reload func() (*CommandContext, error), check func(*CommandContext) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	roots := []string{cc.Cfg.Dir}
	if cc.Cfg.ProjectRoot != cc.Cfg.Dir {
		roots = append(roots, cc.Cfg.ProjectRoot)
	}
	for _, root := range roots {
		if err := addWatchDirs(watcher, root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
	}

	rerun := func() {
		if err := check(cc); err != nil {
			if errors.Is(err, ErrViolations) {
				cc.Logger.Debug("check failed", "error", err)
			} else {
				cc.Renderer.Error(err.Error())
			}
		}
		cc.Renderer.Muted("Watching for changes. Press Ctrl+C to stop.")
	}
	rerun()

	// Runs are serialized through trigger so a slow check never overlaps
	// the next one.
	trigger := make(chan struct{}, 1)
	var (
		debounceTimer *time.Timer
		configChanged bool
	)
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-trigger:
			if configChanged {
				configChanged = false
				fresh, err := reload()
				if err != nil {
					cc.Renderer.Error(err.Error())
					continue
				}
				cc = fresh
			} else {
				cc.Resolver.Reset()
			}
			rerun()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipWatchDir(info.Name()) {
					if err := addWatchDirs(watcher, event.Name); err != nil {
						cc.Logger.Warn("watch failed", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if !isWatchedFile(event.Name) {
				continue
			}

			cc.Logger.Debug("change detected", "file", event.Name, "op", event.Op.String())
			if isConfigFile(event.Name) {
				configChanged = true
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cc.Logger.Error("watcher error", "error", err)
		}
	}
}
