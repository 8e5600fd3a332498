package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poortools/poor/internal/tui"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick a tool from the server catalog and install it",
	Args:  maxArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps()
		if err != nil {
			return err
		}
		remote, err := d.newRemote()
		if err != nil {
			return err
		}

		data, err := remote.Fetch(context.Background(), "list/json")
		if err != nil {
			return fmt.Errorf("fetching catalog: %w", err)
		}

		var listing struct {
			Tools []struct {
				Name        string `json:"name"`
				Description string `json:"description"`
				Version     string `json:"version"`
			} `json:"tools"`
		}
		if err := json.Unmarshal(data, &listing); err != nil {
			return fmt.Errorf("parsing catalog: %w", err)
		}

		items := make([]tui.ToolItem, 0, len(listing.Tools))
		for _, t := range listing.Tools {
			items = append(items, tui.ToolItem{
				Name:        t.Name,
				Description: t.Description,
				Version:     t.Version,
			})
		}

		chosen, err := tui.Pick(items)
		if err != nil {
			return err
		}
		if chosen == "" {
			return nil
		}

		script, err := remote.Fetch(context.Background(), chosen+"/install")
		if err != nil {
			return fmt.Errorf("fetching installer: %w", err)
		}
		return runInstaller(script, nil)
	},
}

func init() {
	rootCmd.AddCommand(pickCmd)
}
