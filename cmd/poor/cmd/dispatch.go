package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/poortools/poor/internal/dispatch"
)

// Dispatch impersonates a tool: resolve a script for it and exec it with
// args. It returns a process exit code and only returns at all when
// resolution or exec failed, since a successful exec replaces the process.
func Dispatch(tool string, args []string) int {
	d, err := newDeps()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fetcher, err := d.newFetcher()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	mux := dispatch.New(d.cache, fetcher, d.log)
	mux.ForceRefresh = d.cfg.ForceRefresh
	mux.NoCache = d.cfg.NoCache

	if err := mux.Run(context.Background(), tool, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
