package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/poortools/poor/internal/catalog"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <tool>",
	Short: "Remove an installed tool binary and its cache entry",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tool := args[0]
		dest, _ := cmd.Flags().GetString("dest")
		if dest == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("locating home dir: %w", err)
			}
			dest = filepath.Join(home, ".local", "bin")
		}

		d, err := newDeps()
		if err != nil {
			return err
		}

		// The binary may be installed under either naming mode.
		removed := false
		for _, name := range candidateNames(tool) {
			path := filepath.Join(dest, name)
			if _, err := os.Lstat(path); err != nil {
				continue
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("removing %s: %w", path, err)
			}
			fmt.Printf("Removed %s\n", path)
			removed = true
		}
		if !removed {
			fmt.Printf("%s not found in %s, nothing to do\n", tool, dest)
		}

		// The cache is keyed by dispatched name, so the same tool may be
		// cached under more than one spelling.
		for _, name := range candidateNames(tool) {
			if err := d.cache.Clear(name); err != nil {
				return err
			}
		}
		return nil
	},
}

// candidateNames lists the file names a tool may be installed under,
// deduplicated: the name as given, prefixed, and prefix-stripped.
func candidateNames(tool string) []string {
	seen := map[string]bool{tool: true}
	names := []string{tool}
	for _, n := range []string{catalog.BinaryName(tool, false), catalog.BinaryName(tool, true)} {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	return names
}

func init() {
	uninstallCmd.Flags().String("dest", "", "directory the tool was installed to (default ~/.local/bin)")
	rootCmd.AddCommand(uninstallCmd)
}
