// Package installer generates ready-to-run install scripts for cataloged
// tools by rendering the fixed installer template through the template
// resolver. Generated installers are self-contained: the shared fragments
// are inlined, so they run without access to the fragment files.
package installer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/poortools/poor/internal/catalog"
	"github.com/poortools/poor/internal/template"
)

// TemplateName is the fragment-store name of the installer template.
const TemplateName = "templates/tool-installer.sh"

// AllTools is the fixed identity whose installer iterates the full catalog.
const AllTools = "all"

// toolsLine matches the template's default tool list, replaced in bulk mode
// with the live catalog.
var toolsLine = regexp.MustCompile(`(?m)^TOOLS=".*"$`)

// Generator renders installer scripts.
type Generator struct {
	catalog  *catalog.Catalog
	store    *template.Store
	resolver *template.Resolver
}

// New creates a Generator over the given catalog and fragment store.
func New(cat *catalog.Catalog, store *template.Store, resolver *template.Resolver) *Generator {
	return &Generator{catalog: cat, store: store, resolver: resolver}
}

// Generate produces the installer script for the named tool (or AllTools).
// An unknown tool fails with catalog.ErrNotFound before any template work,
// so callers can distinguish "no such tool" from a malformed template.
func (g *Generator) Generate(name, serverURL string, disableTemplating bool) (string, error) {
	toolName := name
	if name != AllTools {
		tool, err := g.catalog.Resolve(name)
		if err != nil {
			return "", err
		}
		toolName = tool.Name
	}

	src, ok := g.store.Get(TemplateName)
	if !ok {
		return "", fmt.Errorf("installer template %s not found", TemplateName)
	}

	if toolName == AllTools {
		src = g.injectToolList(src)
	}

	out, err := g.resolver.Render(TemplateName, src, template.Context{
		ToolName:          toolName,
		ServerURL:         serverURL,
		DisableTemplating: disableTemplating,
	})
	if err != nil {
		return "", fmt.Errorf("generating installer for %s: %w", toolName, err)
	}
	return out, nil
}

// injectToolList swaps the template's static tool list for the catalog's
// current display names, keeping bulk installs in sync with discovery.
func (g *Generator) injectToolList(src string) string {
	names := make([]string, 0, len(g.catalog.Names()))
	for _, name := range g.catalog.Names() {
		names = append(names, catalog.DisplayName(name))
	}
	return toolsLine.ReplaceAllString(src, `TOOLS="`+strings.Join(names, " ")+`"`)
}
