package template

import (
	"regexp"
	"strings"
)

// instrKind discriminates scanned line instructions.
type instrKind int

const (
	// instrLiteral is a line emitted verbatim.
	instrLiteral instrKind = iota
	// instrInclude is a line that resolves to a fragment body.
	instrInclude
)

// instruction is one typed line of a scanned script. Scanning the raw text
// into instructions up front keeps expansion (and cycle detection) a
// property of the instruction sequence rather than of ad hoc re-parsing.
type instruction struct {
	kind instrKind
	text string // raw line text, without trailing newline
	name string // fragment name, set for instrInclude
	line int    // 1-based line number in the scanned source
}

// includeDirective matches the comment-style inclusion directive:
//
//	# INCLUDE_FILE: lib/echo.sh
var includeDirective = regexp.MustCompile(`^\s*#\s*INCLUDE_FILE:\s*(.+?)\s*$`)

// templateMarker annotates a source line as an inclusion point:
//
//	. lib/echo.sh # <TEMPLATE>
//	source lib/echo.sh # <TEMPLATE>
//
// The sourcing keeps the un-rendered script runnable from a checkout while
// marking the line for inlining when served.
const templateMarker = "# <TEMPLATE>"

// scan splits source into typed instructions. Lines that do not match a
// recognized directive form are literals, including malformed near-misses
// (those must survive untouched so the output is inspectable).
func scan(source string) []instruction {
	lines := strings.Split(source, "\n")
	instrs := make([]instruction, 0, len(lines))

	for i, line := range lines {
		if name, ok := parseDirective(line); ok {
			instrs = append(instrs, instruction{kind: instrInclude, text: line, name: name, line: i + 1})
			continue
		}
		instrs = append(instrs, instruction{kind: instrLiteral, text: line, line: i + 1})
	}

	return instrs
}

// parseDirective reports whether line is an inclusion directive and, if so,
// the referenced fragment name.
func parseDirective(line string) (string, bool) {
	if m := includeDirective.FindStringSubmatch(line); m != nil {
		return m[1], true
	}

	if strings.Contains(line, templateMarker) {
		head := strings.TrimSpace(strings.SplitN(line, templateMarker, 2)[0])
		switch {
		case strings.HasPrefix(head, "source "):
			return strings.TrimSpace(strings.TrimPrefix(head, "source ")), true
		case strings.HasPrefix(head, ". "):
			return strings.TrimSpace(strings.TrimPrefix(head, ". ")), true
		}
	}

	return "", false
}

// ContainsDirective reports whether any line of source is an inclusion
// directive. Rendered output must never satisfy this when templating is on.
func ContainsDirective(source string) bool {
	for _, line := range strings.Split(source, "\n") {
		if _, ok := parseDirective(line); ok {
			return true
		}
	}
	return false
}
