package config

import (
	"os"
	"path/filepath"
	"testing"
)

func noEnv(string) string { return "" }

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.json"), noEnv)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ServerURL != DefaultServerURL {
		t.Errorf("ServerURL = %q, want %q", cfg.ServerURL, DefaultServerURL)
	}
	if cfg.ForceRefresh || cfg.NoCache || cfg.Debug {
		t.Error("boolean options set without any source")
	}
}

func TestLoad_FileWithComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
	// the lab server
	"server_url": "http://lab:7667",
	"downloader": "wget", // wget-only host
}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, noEnv)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ServerURL != "http://lab:7667" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.Downloader != "wget" {
		t.Errorf("Downloader = %q", cfg.Downloader)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"server_url": "http://file:1"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, envMap(map[string]string{
		"POOR_URL":      "http://env:2",
		"POOR_REFRESH":  "1",
		"POOR_NO_CACHE": "true",
		"POOR_DEBUG":    "yes",
	}))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ServerURL != "http://env:2" {
		t.Errorf("ServerURL = %q, want env value", cfg.ServerURL)
	}
	if !cfg.ForceRefresh || !cfg.NoCache || !cfg.Debug {
		t.Errorf("booleans = %+v, want all set", cfg)
	}
}

func TestLoad_FalseyEnvIgnored(t *testing.T) {
	cfg, err := Load("", envMap(map[string]string{
		"POOR_REFRESH": "0",
		"POOR_DEBUG":   "false",
	}))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ForceRefresh || cfg.Debug {
		t.Error("falsey env values enabled options")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path, noEnv); err == nil {
		t.Error("Load() accepted malformed config")
	}
}

func TestLoad_ToolsDirEnv(t *testing.T) {
	cfg, err := Load("", envMap(map[string]string{"POOR_TOOLS_DIR": "/srv/tools"}))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ToolsDir != "/srv/tools" {
		t.Errorf("ToolsDir = %q", cfg.ToolsDir)
	}
}
