package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local script cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [tool]",
	Short: "Remove one cached tool, or the whole cache",
	Args:  maxArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}

		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		if err := d.cache.Clear(name); err != nil {
			return err
		}

		if name == "" {
			fmt.Println("Cache cleared")
		} else {
			fmt.Printf("Removed %s from cache\n", name)
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
