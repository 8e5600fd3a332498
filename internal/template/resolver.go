package template

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Placeholder tokens substituted during rendering. Substitution replaces the
// full token only; the angle brackets keep a token from matching inside a
// longer identifier.
const (
	TokenToolName  = "<TOOL_NAME>"
	TokenServerURL = "<SERVER_URL>"
)

// Context carries the per-render substitution values.
type Context struct {
	// ToolName is the canonical identity of the tool being rendered.
	ToolName string
	// ServerURL is the serving origin (scheme+host[:port]) embedded in
	// generated download URLs.
	ServerURL string
	// DisableTemplating skips directive expansion entirely, returning the
	// source with only placeholder substitution applied, so callers can
	// inspect the raw composition structure.
	DisableTemplating bool
}

// Resolver expands inclusion directives against a fragment Store. It holds
// no per-render state and is safe for concurrent use.
type Resolver struct {
	store *Store
}

// NewResolver creates a Resolver over the given fragment store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Render produces the final script text for source. name identifies the
// source in diagnostics (usually the tool identity or template path).
//
// Placeholders are substituted first, then every directive is expanded
// depth-first until none remain. A directive referencing an unknown fragment
// or re-entering a fragment already being expanded fails the whole render;
// partial output is never returned.
func (r *Resolver) Render(name, source string, ctx Context) (string, error) {
	out := substitute(source, ctx)

	if ctx.DisableTemplating {
		return out, nil
	}

	expanded, err := r.expand(name, out, []string{name}, map[string]bool{name: true})
	if err != nil {
		return "", err
	}
	return expanded, nil
}

// expand resolves every directive in source. chain and inProgress track the
// fragments currently being expanded: chain for diagnostics, inProgress for
// the cycle check before each expansion.
func (r *Resolver) expand(name, source string, chain []string, inProgress map[string]bool) (string, error) {
	instrs := scan(source)
	var out []string

	for _, in := range instrs {
		switch in.kind {
		case instrLiteral:
			out = append(out, in.text)

		case instrInclude:
			if inProgress[in.name] {
				return "", &CycleError{Chain: append(append([]string{}, chain...), in.name)}
			}

			body, ok := r.store.Get(in.name)
			if !ok {
				return "", &MissingFragmentError{Name: in.name, IncludedFrom: name, Line: in.line}
			}

			inProgress[in.name] = true
			expanded, err := r.expand(in.name, strings.TrimRight(body, "\n"), append(chain, in.name), inProgress)
			if err != nil {
				return "", err
			}
			delete(inProgress, in.name)

			if expanded != "" {
				out = append(out, expanded)
			}
		}
	}

	return strings.Join(out, "\n"), nil
}

// substitute performs literal full-token placeholder replacement.
func substitute(source string, ctx Context) string {
	source = strings.ReplaceAll(source, TokenToolName, ctx.ToolName)
	source = strings.ReplaceAll(source, TokenServerURL, ctx.ServerURL)
	return source
}

// Checksum returns the hex SHA-256 of a rendered script. Renders of the same
// (source, fragments, context) triple always checksum identically.
func Checksum(script string) string {
	sum := sha256.Sum256([]byte(script))
	return hex.EncodeToString(sum[:])
}
