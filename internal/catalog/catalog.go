// Package catalog enumerates the installable tool identities and their raw
// script sources. Discovery scans a flat script directory once at startup;
// the catalog is read-only afterwards and safe for concurrent reads.
package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// ErrNotFound reports an unknown tool identity. It is distinct from render
// failures so callers can answer "no such tool" instead of "template error".
var ErrNotFound = errors.New("tool not found")

// Tool describes one cataloged tool.
type Tool struct {
	// Name is the canonical identity the tool is served under, e.g. "poorcurl".
	Name string
	// Source is the raw (un-rendered) script text.
	Source string
	// Description, Icon and Version come from the script's comment headers.
	Description string
	Icon        string
	Version     string
}

// Catalog maps tool identities to their descriptors.
type Catalog struct {
	tools map[string]*Tool
	names []string
}

// Discover scans the root of fsys for tool scripts. A tool script is a
// regular, non-hidden file whose first line is a shebang; subdirectories
// (lib/, templates/) hold fragments, not tools. version fills in script
// headers that defer to the server build version.
func Discover(fsys fs.FS, version string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading script directory: %w", err)
	}

	c := &Catalog{tools: make(map[string]*Tool)}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading script %s: %w", entry.Name(), err)
		}
		source := string(data)
		if !strings.HasPrefix(source, "#!") {
			continue
		}

		tool := &Tool{Name: entry.Name(), Source: source}
		parseHeaders(tool, version)
		c.tools[tool.Name] = tool
		c.names = append(c.names, tool.Name)
	}

	sort.Strings(c.names)
	return c, nil
}

// List returns all tools ordered by canonical name.
func (c *Catalog) List() []*Tool {
	out := make([]*Tool, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.tools[name])
	}
	return out
}

// Names returns the ordered canonical identities.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Get returns the tool cataloged under exactly name.
func (c *Catalog) Get(name string) (*Tool, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	tool, ok := c.tools[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return tool, nil
}

// Resolve normalizes a requested name to a cataloged tool: an exact match,
// the prefixed form of a bare name, or the bare form of a prefixed name.
func (c *Catalog) Resolve(name string) (*Tool, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}

	if tool, ok := c.tools[name]; ok {
		return tool, nil
	}
	if tool, ok := c.tools[Prefix+name]; ok {
		return tool, nil
	}
	if bare, ok := strings.CutPrefix(name, Prefix); ok && bare != "" {
		if tool, ok := c.tools[bare]; ok {
			return tool, nil
		}
	}

	return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
}

// ValidName reports whether name is a safe tool identity: no path
// separators, no parent references, no glob metacharacters. This is the
// guard that keeps request paths from escaping the catalog directory.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\*?[]~")
}

// headerScanLimit bounds how far into a script headers are searched.
const headerScanLimit = 10

// parseHeaders extracts the metadata comment headers from the top of a
// script. Scanning stops at the first non-comment, non-blank line.
func parseHeaders(tool *Tool, version string) {
	tool.Icon = "mdi:wrench"
	tool.Version = version

	scanner := bufio.NewScanner(strings.NewReader(tool.Source))
	for i := 0; scanner.Scan() && i < headerScanLimit; i++ {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, "# description:"):
			tool.Description = strings.TrimSpace(strings.TrimPrefix(line, "# description:"))
		case strings.HasPrefix(line, "# icon:"):
			icon := strings.TrimSpace(strings.TrimPrefix(line, "# icon:"))
			if !strings.HasPrefix(icon, "mdi:") {
				icon = "mdi:" + icon
			}
			tool.Icon = icon
		case strings.HasPrefix(line, "# version:"):
			v := strings.TrimSpace(strings.TrimPrefix(line, "# version:"))
			if v != "" && v != "<GIT_COMMIT_SHA>" {
				tool.Version = v
			}
		case line != "" && !strings.HasPrefix(line, "#"):
			return
		}
	}
}
