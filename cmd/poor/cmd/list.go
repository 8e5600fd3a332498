package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var listHeadingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached tools, or the server catalog with --remote",
	Args:  maxArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		remote, _ := cmd.Flags().GetBool("remote")
		var names []string
		var heading string
		if remote {
			heading = "Available on " + d.cfg.ServerURL
			names, err = fetchRemoteNames(d)
			if err != nil {
				return err
			}
		} else {
			heading = "Cached in " + d.cache.Root()
			names, err = cachedNames(d)
			if err != nil {
				return err
			}
		}

		if isTerminal(os.Stdout) {
			fmt.Println(listHeadingStyle.Render(heading))
		}
		if len(names) == 0 && !remote {
			fmt.Println("(nothing cached yet)")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func cachedNames(d *deps) ([]string, error) {
	entries, err := os.ReadDir(d.cache.Root())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// isTerminal reports whether f is attached to a terminal; styled headings
// are suppressed for pipes.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func init() {
	listCmd.Flags().Bool("remote", false, "list the server catalog instead of the local cache")
	rootCmd.AddCommand(listCmd)
}
