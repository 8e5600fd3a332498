package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// errUsage marks argument-validation failures so they exit with a status
// distinct from operational failures.
var errUsage = errors.New("usage error")

var rootCmd = &cobra.Command{
	Use:   "poor",
	Short: "Fetch and run poor-tools from a poor-tools server",
	Long: `poor is the client multiplexer for poor-tools.

Run a tool directly (poor nmap -p 80 host), or symlink a tool name to the
poor binary and invoke the link. Fetched scripts are cached per user and
reused offline.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("poor %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// exactArgs is cobra.ExactArgs with the usage-error marker attached.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%w: %s expects %d argument(s), got %d", errUsage, cmd.Name(), n, len(args))
		}
		return nil
	}
}

// maxArgs is cobra.MaximumNArgs with the usage-error marker attached.
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > n {
			return fmt.Errorf("%w: %s takes at most %d argument(s)", errUsage, cmd.Name(), n)
		}
		return nil
	}
}

// IsControlVerb reports whether name is a poor subcommand rather than a
// tool to dispatch.
func IsControlVerb(name string) bool {
	if name == "help" || name == "completion" {
		return true
	}
	for _, c := range rootCmd.Commands() {
		if c.Name() == name {
			return true
		}
		for _, alias := range c.Aliases {
			if alias == name {
				return true
			}
		}
	}
	return false
}

// ExecuteArgs runs the root command with an explicit argument vector and
// returns the process exit code.
func ExecuteArgs(args []string) int {
	rootCmd.SetArgs(args)
	return Execute()
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if isUsageError(err) {
			_ = rootCmd.Usage()
			return 2
		}
		return 1
	}
	return 0
}

func isUsageError(err error) bool {
	if errors.Is(err, errUsage) {
		return true
	}
	// cobra reports flag and command resolution failures as plain errors.
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag") ||
		strings.HasPrefix(msg, "unknown command")
}
