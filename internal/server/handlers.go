package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/poortools/poor/internal/catalog"
	"github.com/poortools/poor/internal/installer"
	"github.com/poortools/poor/internal/template"
)

// reservedNames are endpoint names that never resolve to tools.
var reservedNames = map[string]bool{
	"health":    true,
	"list":      true,
	"install":   true,
	"installer": true,
	"help":      true,
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /list", s.handleList)
	s.mux.HandleFunc("GET /list/json", s.handleListJSON)
	s.mux.HandleFunc("GET /help", s.handleIndex)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("HEAD /{$}", s.handleHeadRoot)
	s.mux.HandleFunc("GET /install", s.handleBulkInstaller)
	s.mux.HandleFunc("GET /install/{$}", s.handleBulkInstaller)
	s.mux.HandleFunc("GET /installer", s.handleBulkInstaller)
	s.mux.HandleFunc("GET /{tool}", s.handleTool)
	s.mux.HandleFunc("GET /{tool}/install", s.handleToolInstaller)
}

// noTemplating reports whether the request disables directive expansion.
func noTemplating(r *http.Request) bool {
	return r.URL.Query().Get("no_templating") == "1"
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHeadRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
}

// handleTool serves a rendered tool script.
func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("tool")
	if reservedNames[name] {
		s.writeError(w, http.StatusNotFound, "reserved endpoint")
		return
	}

	tool, err := s.catalog.Resolve(name)
	if err != nil {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("tool %q not found", name))
		return
	}

	script, err := s.renderTool(tool, serverURL(r), noTemplating(r))
	if err != nil {
		s.log.Error("render failed", "tool", tool.Name, "err", err)
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("rendering %s: %v", tool.Name, err))
		return
	}

	s.writeScript(w, script)
}

// handleToolInstaller serves the generated installer for one tool.
func (s *Server) handleToolInstaller(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("tool")
	if reservedNames[name] {
		s.writeError(w, http.StatusNotFound, "reserved endpoint")
		return
	}
	s.serveInstaller(w, r, name)
}

// handleBulkInstaller serves the catalog-wide installer.
func (s *Server) handleBulkInstaller(w http.ResponseWriter, r *http.Request) {
	s.serveInstaller(w, r, installer.AllTools)
}

func (s *Server) serveInstaller(w http.ResponseWriter, r *http.Request, name string) {
	script, err := s.generator.Generate(name, serverURL(r), noTemplating(r))
	if err != nil {
		// Catalog misses and template failures are distinct conditions.
		if errors.Is(err, catalog.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, fmt.Sprintf("tool %q not found", name))
			return
		}
		s.log.Error("installer generation failed", "tool", name, "err", err)
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("generating installer: %v", err))
		return
	}

	if err := s.validateRendered(name, script, noTemplating(r)); err != nil {
		s.log.Error("installer failed validation", "tool", name, "err", err)
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("generating installer: %v", err))
		return
	}

	s.writeScript(w, script)
}

// handleList serves the catalog: one identity per line for shell scripting,
// or the JSON metadata document when the client asks for JSON.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(strings.ToLower(r.Header.Get("Accept")), "json") {
		s.handleListJSON(w, r)
		return
	}

	var b strings.Builder
	for _, name := range s.catalog.Names() {
		b.WriteString(name)
		b.WriteByte('\n')
	}
	s.writeText(w, b.String())
}

// toolInfo is one entry of the JSON listing.
type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Version     string `json:"version"`
}

func (s *Server) handleListJSON(w http.ResponseWriter, r *http.Request) {
	tools := make([]toolInfo, 0, len(s.catalog.Names()))
	for _, t := range s.catalog.List() {
		tools = append(tools, toolInfo{
			Name:        t.Name,
			Description: t.Description,
			Icon:        t.Icon,
			Version:     t.Version,
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"server_url": serverURL(r),
		"version":    s.version,
		"tools":      tools,
		"count":      len(tools),
	})
}

// handleIndex serves the human-oriented endpoint index.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	origin := serverURL(r)

	var toolLinks, installerLinks []string
	for _, name := range s.catalog.Names() {
		display := catalog.DisplayName(name)
		toolLinks = append(toolLinks, fmt.Sprintf("- %s/%s (alias: /%s)", origin, display, name))
		installerLinks = append(installerLinks, fmt.Sprintf("- %s/%s/install", origin, display))
	}

	body := fmt.Sprintf(`# poor-tools

Available endpoints:

## Individual Tools (direct download):
%s

## Tool Installers (generates installer script):
%s

## Bundle Installer:
- %[3]s/install (or /installer)

## Usage Examples:

# Install curl directly:
curl -sSL %[3]s/curl > ~/.local/bin/poorcurl && chmod +x ~/.local/bin/poorcurl

# Generate and run installer for curl:
curl -sSL %[3]s/curl/install | sh

# Install with options:
curl -sSL %[3]s/curl/install | sh -s -- --dest /usr/local/bin --emulate

# Install all tools:
curl -sSL %[3]s/install | sh

# Get simple tool list for scripting:
curl -sSL %[3]s/list

All script endpoints support ?no_templating=1 to disable include processing.
`, strings.Join(toolLinks, "\n"), strings.Join(installerLinks, "\n"), origin)

	s.writeText(w, body)
}

// renderTool composes a tool script for serving: resolver pass first, then
// the common placeholders the resolver does not own.
func (s *Server) renderTool(tool *catalog.Tool, origin string, disableTemplating bool) (string, error) {
	out, err := s.resolver.Render(tool.Name, tool.Source, template.Context{
		ToolName:          tool.Name,
		ServerURL:         origin,
		DisableTemplating: disableTemplating,
	})
	if err != nil {
		return "", err
	}

	if !disableTemplating {
		out = strings.ReplaceAll(out, "<BASE_URL>", origin)
		out = strings.ReplaceAll(out, "<GIT_COMMIT_SHA>", s.version)
	}

	if err := s.validateRendered(tool.Name, out, disableTemplating); err != nil {
		return "", err
	}
	return out, nil
}

func (s *Server) writeScript(w http.ResponseWriter, script string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("ETag", `"`+template.Checksum(script)+`"`)
	_, _ = w.Write([]byte(script))
}

func (s *Server) writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, "Error: %s\n", msg)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, "encoding response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
	_, _ = w.Write([]byte("\n"))
}
