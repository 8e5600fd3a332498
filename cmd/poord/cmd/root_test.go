package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "poord.yaml")
	body := "bind_host: filehost\nbind_port: 1111\nlog_level: debug\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("POOR_BIND_HOST", "envhost")
	t.Setenv("POOR_BIND_PORT", "2222")
	t.Setenv("POOR_SCRIPT_DIR", "")

	if err := rootCmd.Flags().Set("config", cfgPath); err != nil {
		t.Fatal(err)
	}
	if err := rootCmd.Flags().Set("port", "3333"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = rootCmd.Flags().Set("config", "")
		_ = rootCmd.Flags().Set("port", "0")
	})

	cfg, err := buildConfig(rootCmd)
	if err != nil {
		t.Fatalf("buildConfig() error: %v", err)
	}

	// env beats file, flag beats env.
	if cfg.BindHost != "envhost" {
		t.Errorf("BindHost = %q, want envhost", cfg.BindHost)
	}
	if cfg.BindPort != 3333 {
		t.Errorf("BindPort = %d, want 3333", cfg.BindPort)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug (from file)", cfg.LogLevel)
	}
}

func TestBuildConfig_BadPortEnv(t *testing.T) {
	t.Setenv("POOR_BIND_PORT", "not-a-port")

	if _, err := buildConfig(rootCmd); err == nil {
		t.Error("buildConfig() accepted a malformed POOR_BIND_PORT")
	}
}
