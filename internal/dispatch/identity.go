package dispatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxSymlinkHops bounds the chain walk independently of cycle detection,
// matching the kernel's own resolution limit.
const maxSymlinkHops = 40

// CycleError reports a symlink chain that revisits a link.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular symlink chain: %s", strings.Join(e.Chain, " -> "))
}

// Identity is the outcome of invocation-name resolution.
type Identity struct {
	// Tool is the resolved tool identity, empty when Multiplex is set.
	Tool string

	// Multiplex reports that the program was invoked under its own name
	// and should behave as the control CLI rather than impersonate a tool.
	Multiplex bool
}

// ResolveInvocation determines which tool the program was invoked as.
//
// The invocation path is walked hop by hop, resolving every symlink to an
// absolute target until a non-symlink terminal is reached. Each hop's base
// name is recorded; the identity is the first name along the chain that is
// not selfName, so a link named poornmap pointing at the poor binary
// dispatches as poornmap. A chain consisting only of selfName means the
// control CLI was invoked directly.
//
// A chain that revisits a path fails with CycleError; it never loops and
// never guesses.
func ResolveInvocation(argv0, selfName string) (Identity, error) {
	path := argv0
	chain := []string{filepath.Base(path)}
	visited := map[string]bool{}

	for hop := 0; hop < maxSymlinkHops; hop++ {
		info, err := os.Lstat(path)
		if err != nil {
			// Bare PATH invocation with no file to inspect; the base
			// name is the whole identity.
			return identityFrom(chain, selfName), nil
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return identityFrom(chain, selfName), nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return Identity{}, fmt.Errorf("resolving %s: %w", path, err)
		}
		if visited[abs] {
			return Identity{}, &CycleError{Chain: chain}
		}
		visited[abs] = true

		target, err := os.Readlink(path)
		if err != nil {
			return Identity{}, fmt.Errorf("reading link %s: %w", path, err)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}

		path = target
		chain = append(chain, filepath.Base(path))
	}

	return Identity{}, &CycleError{Chain: chain}
}

// identityFrom picks the tool identity out of a resolved chain: the name
// nearest the invocation that is not the program's own.
func identityFrom(chain []string, selfName string) Identity {
	for _, name := range chain {
		if name != selfName {
			return Identity{Tool: name}
		}
	}
	return Identity{Multiplex: true}
}
