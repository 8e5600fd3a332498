package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/poortools/poor/internal/assets"
	"github.com/poortools/poor/internal/catalog"
	"github.com/poortools/poor/internal/installer"
	"github.com/poortools/poor/internal/server"
	"github.com/poortools/poor/internal/template"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "poord",
	Short: "Serve composed poor-tools scripts and installers over HTTP",
	Long: `poord serves the poor-tools catalog: each tool script is composed
from shared library fragments at request time and delivered as plain text,
alongside generated per-tool and catalog-wide installers.

Without --script-dir the embedded tool set is served.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("poord %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.Flags().String("config", "", "YAML config file")
	rootCmd.Flags().String("host", "", "bind host (overrides config)")
	rootCmd.Flags().Int("port", 0, "bind port (overrides config)")
	rootCmd.Flags().String("script-dir", "", "serve tools from this directory instead of the embedded set")
	rootCmd.Flags().Bool("validate", false, "parse every rendered script as POSIX sh before serving")
	rootCmd.Flags().String("log-level", "", "debug, info, warn or error")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "poord"})
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	fsys, err := scriptFS(cfg)
	if err != nil {
		return err
	}

	cat, err := catalog.Discover(fsys, Commit)
	if err != nil {
		return fmt.Errorf("discovering tools: %w", err)
	}
	if len(cat.Names()) == 0 {
		return fmt.Errorf("no tools found in script source")
	}

	store, err := template.LoadStore(fsys, "lib", "templates")
	if err != nil {
		return fmt.Errorf("loading fragments: %w", err)
	}

	resolver := template.NewResolver(store)
	gen := installer.New(cat, store, resolver)
	srv := server.New(cfg, cat, resolver, gen, Commit, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

// buildConfig assembles the server configuration: flags beat environment,
// environment beats the config file, the file beats defaults.
func buildConfig(cmd *cobra.Command) (server.Config, error) {
	cfg := server.DefaultConfig()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := server.LoadConfigFile(path, cfg)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if v := os.Getenv("POOR_BIND_HOST"); v != "" {
		cfg.BindHost = v
	}
	if v := os.Getenv("POOR_BIND_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("parsing POOR_BIND_PORT: %w", err)
		}
		cfg.BindPort = port
	}
	if v := os.Getenv("POOR_SCRIPT_DIR"); v != "" {
		cfg.ScriptDir = v
	}

	if v, _ := cmd.Flags().GetString("host"); v != "" {
		cfg.BindHost = v
	}
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		cfg.BindPort = v
	}
	if v, _ := cmd.Flags().GetString("script-dir"); v != "" {
		cfg.ScriptDir = v
	}
	if v, _ := cmd.Flags().GetBool("validate"); v {
		cfg.Validate = true
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

// scriptFS picks the tool source: an on-disk tree when configured, the
// embedded set otherwise.
func scriptFS(cfg server.Config) (fs.FS, error) {
	if cfg.ScriptDir == "" {
		return assets.Tools(), nil
	}
	info, err := os.Stat(cfg.ScriptDir)
	if err != nil {
		return nil, fmt.Errorf("script dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("script dir %s is not a directory", cfg.ScriptDir)
	}
	return os.DirFS(cfg.ScriptDir), nil
}
