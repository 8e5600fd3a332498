//go:build !unix

package dispatch

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// execScript runs the script as a child and mirrors its exit code; process
// replacement is not available here.
func execScript(path string, args []string) error {
	cmd := exec.Command(path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		os.Exit(0)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.ExitCode())
	}
	return fmt.Errorf("running %s: %w", path, err)
}
