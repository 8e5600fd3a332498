// Package config assembles the client-side configuration from the config
// file and the environment. Environment variables win over the file, and
// both lose to explicit flags applied by the commands.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config drives the poor client.
type Config struct {
	// ServerURL is the poor-tools server origin.
	ServerURL string `json:"server_url"`

	// ToolsDir, when set, serves tools from a local directory instead of
	// the server.
	ToolsDir string `json:"tools_dir"`

	// CacheDir overrides the platform cache location.
	CacheDir string `json:"cache_dir"`

	// Downloader forces curl or wget; empty autodetects.
	Downloader string `json:"downloader"`

	// ForceRefresh re-fetches even when a cached copy exists.
	ForceRefresh bool `json:"force_refresh"`

	// NoCache fetches into a throwaway location on every run.
	NoCache bool `json:"no_cache"`

	// Debug enables debug logging.
	Debug bool `json:"debug"`
}

// DefaultServerURL is used when neither the file nor the environment names
// a server.
const DefaultServerURL = "http://localhost:7667"

// Path returns the config file location, ~/.poor/config.json.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home dir: %w", err)
	}
	return filepath.Join(home, ".poor", "config.json"), nil
}

// Load reads the config file (if present) and applies environment
// overrides. getenv is injectable for tests; pass os.Getenv.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Config{ServerURL: DefaultServerURL}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// No file is the common case.
		case err != nil:
			return cfg, fmt.Errorf("reading config: %w", err)
		default:
			// The file allows comments and trailing commas.
			std, err := hujson.Standardize(data)
			if err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
			if err := json.Unmarshal(std, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
			if cfg.ServerURL == "" {
				cfg.ServerURL = DefaultServerURL
			}
		}
	}

	applyEnv(&cfg, getenv)
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv("POOR_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := getenv("POOR_TOOLS_DIR"); v != "" {
		cfg.ToolsDir = v
	}
	if v := getenv("POOR_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
	if v := getenv("POOR_DOWNLOADER"); v != "" {
		cfg.Downloader = v
	}
	if isTruthy(getenv("POOR_REFRESH")) {
		cfg.ForceRefresh = true
	}
	if isTruthy(getenv("POOR_NO_CACHE")) {
		cfg.NoCache = true
	}
	if isTruthy(getenv("POOR_DEBUG")) {
		cfg.Debug = true
	}
}

func isTruthy(v string) bool {
	switch v {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
