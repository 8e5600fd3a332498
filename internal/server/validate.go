package server

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// validateRendered optionally parses a rendered script as POSIX sh before it
// leaves the server. Skipped when templating is disabled: an un-expanded
// source is allowed to be structurally incomplete.
func (s *Server) validateRendered(name, script string, disabledTemplating bool) error {
	if !s.cfg.Validate || disabledTemplating {
		return nil
	}

	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	if _, err := parser.Parse(strings.NewReader(script), name); err != nil {
		return fmt.Errorf("rendered %s is not valid shell: %w", name, err)
	}
	return nil
}
