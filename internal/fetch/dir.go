package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirSource serves tools from a local directory instead of a server. It
// backs the POOR_TOOLS_DIR override used for development and air-gapped
// hosts.
type DirSource struct {
	dir string
}

// NewDirSource returns a Fetcher reading scripts from dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (d *DirSource) Source(tool string) string {
	return filepath.Join(d.dir, tool)
}

func (d *DirSource) Fetch(_ context.Context, tool string) ([]byte, error) {
	path := d.Source(tool)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &TransportError{Source: path, Err: err}
	}
	if len(data) == 0 {
		return nil, &TransportError{Source: path, Err: fmt.Errorf("empty script")}
	}
	return data, nil
}
