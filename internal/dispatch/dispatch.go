// Package dispatch implements the client-side multiplexer: it works out
// which tool the binary was invoked as, resolves an executable script for
// it through the cache and the fetch layer, and hands control over.
package dispatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/poortools/poor/internal/cache"
	"github.com/poortools/poor/internal/fetch"
)

// Dispatcher resolves a tool invocation to an executable script.
type Dispatcher struct {
	cache   *cache.Cache
	fetcher fetch.Fetcher
	log     *log.Logger

	// ForceRefresh re-fetches even when a usable cache entry exists, and
	// makes fetch failures fatal instead of falling back to the cache.
	ForceRefresh bool

	// NoCache fetches into a throwaway file and leaves the cache alone.
	NoCache bool
}

// New creates a Dispatcher over the given cache and fetch source.
func New(c *cache.Cache, f fetch.Fetcher, logger *log.Logger) *Dispatcher {
	return &Dispatcher{cache: c, fetcher: f, log: logger}
}

// Resolve produces the path of an executable script for the tool,
// fetching and caching as the policy dictates.
//
// A forced refresh that fails to fetch is fatal: stale code is never run
// when the caller explicitly asked for fresh code. Any other fetch failure
// falls back to an existing cache entry with a warning, and is fatal only
// when nothing is cached.
func (d *Dispatcher) Resolve(ctx context.Context, tool string) (string, error) {
	cached, haveCached := d.cache.Get(tool)

	if haveCached && !d.ForceRefresh && !d.NoCache {
		d.log.Debug("using cached tool", "tool", tool, "path", cached)
		return cached, nil
	}

	script, err := d.fetcher.Fetch(ctx, tool)
	if err != nil {
		if d.ForceRefresh {
			return "", fmt.Errorf("forced refresh of %s: %w", tool, err)
		}
		if haveCached {
			d.log.Warn("fetch failed, using cached copy", "tool", tool, "err", err)
			return cached, nil
		}
		return "", fmt.Errorf("no cached copy of %s and fetch failed: %w", tool, err)
	}

	if d.NoCache {
		return stageTemp(tool, script)
	}

	path, err := d.cache.Put(tool, script)
	if err != nil {
		return "", fmt.Errorf("caching %s: %w", tool, err)
	}
	d.log.Debug("fetched tool", "tool", tool, "source", d.fetcher.Source(tool))
	return path, nil
}

// stageTemp writes the script to a throwaway executable file, leaving the
// cache untouched.
func stageTemp(tool string, script []byte) (string, error) {

	f, err := os.CreateTemp("", "poor-"+tool+"-*")
	if err != nil {
		return "", fmt.Errorf("staging %s: %w", tool, err)
	}
	if _, err := f.Write(script); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("staging %s: %w", tool, err)
	}
	if err := f.Chmod(0o755); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("staging %s: %w", tool, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("staging %s: %w", tool, err)
	}
	return f.Name(), nil
}

// Run resolves the tool and executes it with args, replacing the current
// process where the platform supports it. It only returns on error.
func (d *Dispatcher) Run(ctx context.Context, tool string, args []string) error {
	path, err := d.Resolve(ctx, tool)
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	return execScript(abs, args)
}
