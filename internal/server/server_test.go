package server

import (
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"

	"github.com/poortools/poor/internal/assets"
	"github.com/poortools/poor/internal/catalog"
	"github.com/poortools/poor/internal/installer"
	"github.com/poortools/poor/internal/template"
)

// newTestServer builds a Server over the given script tree.
func newTestServer(t *testing.T, fsys fs.FS) *Server {
	t.Helper()

	cat, err := catalog.Discover(fsys, "abc12345")
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	store, err := template.LoadStore(fsys, "lib", "templates")
	if err != nil {
		t.Fatalf("LoadStore() error: %v", err)
	}
	resolver := template.NewResolver(store)
	gen := installer.New(cat, store, resolver)

	cfg := DefaultConfig()
	cfg.Validate = true
	return New(cfg, cat, resolver, gen, "abc12345", log.New(io.Discard))
}

// widgetTree is a minimal script tree for exact-output assertions.
func widgetTree() fstest.MapFS {
	return fstest.MapFS{
		"widget": &fstest.MapFile{Data: []byte("#!/bin/sh\n# INCLUDE_FILE: lib/echo.sh\necho hi\n")},
		"lib/echo.sh": &fstest.MapFile{Data: []byte("greet() { echo hello; }\n")},
		"templates/tool-installer.sh": &fstest.MapFile{Data: []byte(
			"#!/bin/sh\n# <TOOL_NAME> installer\n# INCLUDE_FILE: lib/echo.sh\nTOOLS=\"x\"\necho <SERVER_URL>/<TOOL_NAME>\n")},
	}
}

func get(t *testing.T, s *Server, path string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = "host:7667"
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, widgetTree())

	rec := get(t, s, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestToolScript_RenderedExactly(t *testing.T) {
	s := newTestServer(t, widgetTree())

	rec := get(t, s, "/widget")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}

	want := "#!/bin/sh\ngreet() { echo hello; }\necho hi\n"
	if got := rec.Body.String(); got != want {
		t.Errorf("body = %q, want %q", got, want)
	}
}

func TestToolScript_ETagStableAcrossRequests(t *testing.T) {
	s := newTestServer(t, widgetTree())

	first := get(t, s, "/widget")
	second := get(t, s, "/widget")

	if first.Header().Get("ETag") == "" {
		t.Fatal("no ETag set")
	}
	if first.Header().Get("ETag") != second.Header().Get("ETag") {
		t.Error("ETag differs between identical renders")
	}
	if first.Body.String() != second.Body.String() {
		t.Error("bodies differ between identical renders")
	}
}

func TestToolScript_NoTemplatingPassthrough(t *testing.T) {
	s := newTestServer(t, widgetTree())

	rec := get(t, s, "/widget?no_templating=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "# INCLUDE_FILE: lib/echo.sh") {
		t.Errorf("directive lines should remain verbatim:\n%s", rec.Body.String())
	}
}

func TestToolScript_UnknownTool(t *testing.T) {
	s := newTestServer(t, widgetTree())

	rec := get(t, s, "/no-such-tool")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not found") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestToolScript_PrefixAliases(t *testing.T) {
	s := newTestServer(t, assets.Tools())

	bare := get(t, s, "/curl")
	prefixed := get(t, s, "/poorcurl")

	if bare.Code != http.StatusOK || prefixed.Code != http.StatusOK {
		t.Fatalf("statuses = %d, %d, want 200, 200", bare.Code, prefixed.Code)
	}
	if bare.Body.String() != prefixed.Body.String() {
		t.Error("/curl and /poorcurl served different content")
	}
}

func TestToolScript_CommonPlaceholders(t *testing.T) {
	s := newTestServer(t, assets.Tools())

	rec := get(t, s, "/curl")
	body := rec.Body.String()

	if strings.Contains(body, "<BASE_URL>") || strings.Contains(body, "<GIT_COMMIT_SHA>") {
		t.Error("common placeholders not substituted")
	}
	if !strings.Contains(body, "http://host:7667") {
		t.Error("origin not embedded")
	}
	if !strings.Contains(body, "abc12345") {
		t.Error("version not embedded")
	}
}

func TestInstallerEndpoint(t *testing.T) {
	s := newTestServer(t, assets.Tools())

	rec := get(t, s, "/curl/install")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	if !strings.Contains(body, `TOOL="poorcurl"`) {
		t.Error("canonical tool name not bound in installer")
	}
	if !strings.Contains(body, `SERVER_URL="http://host:7667"`) {
		t.Error("origin not bound in installer")
	}
	if strings.Contains(body, "INCLUDE_FILE") {
		t.Error("directives remain in generated installer")
	}
}

func TestInstallerEndpoint_UnknownToolIsNotFound(t *testing.T) {
	s := newTestServer(t, assets.Tools())

	rec := get(t, s, "/no-such-tool/install")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (catalog miss, not a render error)", rec.Code)
	}
}

func TestBulkInstaller(t *testing.T) {
	s := newTestServer(t, assets.Tools())

	for _, path := range []string{"/install", "/installer"} {
		rec := get(t, s, path)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `TOOL="all"`) {
			t.Errorf("GET %s: bulk identity not bound", path)
		}
	}
}

func TestList_PlainText(t *testing.T) {
	s := newTestServer(t, assets.Tools())

	rec := get(t, s, "/list")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d tools, want 5: %v", len(lines), lines)
	}
	for _, line := range lines {
		if strings.ContainsAny(line, " \t") {
			t.Errorf("list line %q is not a bare identity", line)
		}
	}
}

func TestList_JSON(t *testing.T) {
	s := newTestServer(t, assets.Tools())

	for _, tc := range []struct {
		path   string
		header []string
	}{
		{"/list/json", nil},
		{"/list", []string{"Accept", "application/json"}},
	} {
		rec := get(t, s, tc.path, tc.header...)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", tc.path, rec.Code)
		}

		var body struct {
			ServerURL string     `json:"server_url"`
			Version   string     `json:"version"`
			Tools     []toolInfo `json:"tools"`
			Count     int        `json:"count"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("GET %s: decoding: %v", tc.path, err)
		}
		if body.Count != len(body.Tools) || body.Count != 5 {
			t.Errorf("GET %s: count = %d, tools = %d", tc.path, body.Count, len(body.Tools))
		}
		if body.ServerURL != "http://host:7667" {
			t.Errorf("GET %s: server_url = %q", tc.path, body.ServerURL)
		}
	}
}

func TestIndex(t *testing.T) {
	s := newTestServer(t, assets.Tools())

	for _, path := range []string{"/", "/help"} {
		rec := get(t, s, path)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", path, rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "http://host:7667/curl (alias: /poorcurl)") {
			t.Errorf("GET %s: tool links missing:\n%s", path, body)
		}
		if !strings.Contains(body, "/install") {
			t.Errorf("GET %s: installer links missing", path)
		}
	}
}

func TestForwardedProtoOrigin(t *testing.T) {
	s := newTestServer(t, assets.Tools())

	rec := get(t, s, "/list/json", "X-Forwarded-Proto", "https")

	var body struct {
		ServerURL string `json:"server_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if body.ServerURL != "https://host:7667" {
		t.Errorf("server_url = %q, want https origin", body.ServerURL)
	}
}

func TestReservedNamesNeverResolve(t *testing.T) {
	// A script named like an endpoint must not shadow it.
	tree := widgetTree()
	tree["health"] = &fstest.MapFile{Data: []byte("#!/bin/sh\necho fake\n")}
	s := newTestServer(t, tree)

	rec := get(t, s, "/health")
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("reserved endpoint shadowed by a tool script: %q", rec.Body.String())
	}
}
