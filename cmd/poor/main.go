package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/poortools/poor/cmd/poor/cmd"
	"github.com/poortools/poor/internal/dispatch"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Classify the invocation before any CLI parsing: a symlink named
	// after a tool turns this binary into that tool.
	id, err := dispatch.ResolveInvocation(os.Args[0], "poor")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	tool, cliArgs := classify(id, os.Args[1:])
	if tool != "" {
		return cmd.Dispatch(tool, cliArgs)
	}
	return cmd.ExecuteArgs(cliArgs)
}

// classify turns the resolved identity plus the raw arguments into a
// dispatch decision: a tool to impersonate, or the CLI argument vector.
//
// An identity that names a control verb (a link called "install") selects
// the subcommand of that name, never a tool fetch. Invoked as poor itself,
// a first argument that is not a control verb or a flag is an explicit
// tool dispatch, `poor nmap -p 80 host`.
func classify(id dispatch.Identity, args []string) (tool string, cliArgs []string) {
	if id.Tool != "" {
		if cmd.IsControlVerb(id.Tool) {
			return "", append([]string{id.Tool}, args...)
		}
		return id.Tool, args
	}

	if len(args) > 0 && !strings.HasPrefix(args[0], "-") && !cmd.IsControlVerb(args[0]) {
		return args[0], args[1:]
	}
	return "", args
}
