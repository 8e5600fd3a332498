// Package fetch obtains tool scripts from a poor-tools server or a local
// directory. Remote transfers shell out to curl or wget rather than using a
// built-in HTTP client, so the binary behaves like the installers it
// distributes and honors the same proxy environment.
package fetch

import (
	"context"
	"fmt"
)

// Fetcher obtains the script body for a tool.
type Fetcher interface {
	// Fetch returns the script for the named tool.
	Fetch(ctx context.Context, tool string) ([]byte, error)

	// Source describes where the named tool would come from, for logging.
	Source(tool string) string
}

// TransportError wraps a failed transfer with its origin.
type TransportError struct {
	Source string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Source, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
