package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/poortools/poor/internal/cache"
	"github.com/poortools/poor/internal/config"
	"github.com/poortools/poor/internal/fetch"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	cfg   config.Config
	cache *cache.Cache
	log   *log.Logger
}

// newDeps assembles configuration, cache and logger. Called lazily by
// commands that need them.
func newDeps() (*deps, error) {
	path, err := config.Path()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path, os.Getenv)
	if err != nil {
		return nil, err
	}

	logger := log.New(os.Stderr)
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir, err = cache.DefaultRoot()
		if err != nil {
			return nil, err
		}
	}

	return &deps{
		cfg:   cfg,
		cache: cache.New(cacheDir),
		log:   logger,
	}, nil
}

// newFetcher picks the tool source: a local directory override when set,
// the remote server otherwise.
func (d *deps) newFetcher() (fetch.Fetcher, error) {
	if d.cfg.ToolsDir != "" {
		return fetch.NewDirSource(d.cfg.ToolsDir), nil
	}
	return d.newRemote()
}

// newRemote always returns the server-backed source, for commands that
// talk to the server regardless of a local override.
func (d *deps) newRemote() (*fetch.RemoteSource, error) {
	remote, err := fetch.NewRemoteSource(d.cfg.ServerURL, d.cfg.Downloader)
	if err != nil {
		return nil, fmt.Errorf("setting up transport: %w", err)
	}
	return remote, nil
}
