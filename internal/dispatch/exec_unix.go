//go:build unix

package dispatch

import (
	"fmt"
	"os"
	"syscall"
)

// execScript replaces the current process with the script so exit status
// and signal behavior pass through untouched.
func execScript(path string, args []string) error {
	argv := append([]string{path}, args...)
	if err := syscall.Exec(path, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	return nil
}
