package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	poorMain := func() {
		os.Exit(run())
	}
	testscript.Main(m, map[string]func(){
		"poor": poorMain,
		// symlink_dispatch.txt execs the binary through symlinks with these
		// names; testscript.Main dispatches on argv[0], so each name must be
		// registered for the invocation to reach run() at all.
		"greet":   poorMain,
		"version": poorMain,
		"install": poorMain,
	})
}

func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:                 filepath.Join("testdata", "script"),
		RequireExplicitExec: true,
		Setup: func(e *testscript.Env) error {
			// Keep ~/.poor/ and the default cache inside the temp dir.
			e.Vars = append(e.Vars, "HOME="+e.WorkDir)
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			// file-contains asserts that a file contains (or doesn't contain) a substring.
			// Usage: [!] file-contains <path> <substring>
			"file-contains": cmdFileContains,

			// is-executable asserts that a path has the executable bit set.
			// Usage: [!] is-executable <path>
			"is-executable": cmdIsExecutable,

			// link-poor symlinks a name to the poor binary, for exercising
			// invoked-name dispatch.
			// Usage: link-poor <name>
			"link-poor": cmdLinkPoor,
		},
	})
}

// cmdLinkPoor creates a symlink to the poor binary under a chosen name.
func cmdLinkPoor(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("link-poor does not support negation")
	}
	if len(args) != 1 {
		ts.Fatalf("usage: link-poor <name>")
	}

	var bin string
	for _, dir := range filepath.SplitList(ts.Getenv("PATH")) {
		cand := filepath.Join(dir, "poor")
		if info, err := os.Stat(cand); err == nil && info.Mode().IsRegular() {
			bin = cand
			break
		}
	}
	if bin == "" {
		ts.Fatalf("poor binary not found on PATH")
	}

	link := ts.MkAbs(args[0])
	if err := os.Symlink(bin, link); err != nil {
		ts.Fatalf("symlink %s -> %s: %v", link, bin, err)
	}
}

// cmdFileContains checks if a file contains a substring.
func cmdFileContains(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) < 2 {
		ts.Fatalf("usage: file-contains <path> <substring>")
	}
	path := ts.MkAbs(args[0])
	substr := args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		ts.Fatalf("reading %s: %v", args[0], err)
	}

	contains := strings.Contains(string(data), substr)
	if neg {
		if contains {
			ts.Fatalf("file %s contains %q (expected not to)", args[0], substr)
		}
	} else {
		if !contains {
			ts.Fatalf("file %s does not contain %q\nContent:\n%s", args[0], substr, string(data))
		}
	}
}

// cmdIsExecutable checks the executable bit on a path.
func cmdIsExecutable(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 1 {
		ts.Fatalf("usage: is-executable <path>")
	}
	path := ts.MkAbs(args[0])
	info, err := os.Stat(path)
	if err != nil {
		ts.Fatalf("%s: %v", args[0], err)
	}

	executable := info.Mode().Perm()&0o111 != 0
	if neg {
		if executable {
			ts.Fatalf("%s is executable (expected not to be)", args[0])
		}
	} else {
		if !executable {
			ts.Fatalf("%s is not executable (mode: %s)", args[0], info.Mode())
		}
	}
}
