package template

import (
	"fmt"
	"strings"
)

// MissingFragmentError reports an inclusion directive referencing a fragment
// absent from the Store. The render fails rather than emitting a script with
// the directive silently dropped or left in place.
type MissingFragmentError struct {
	Name         string // the fragment that could not be found
	IncludedFrom string // the script or fragment containing the directive
	Line         int    // 1-based directive line in IncludedFrom
}

func (e *MissingFragmentError) Error() string {
	return fmt.Sprintf("fragment %q not found (included from %s:%d)", e.Name, e.IncludedFrom, e.Line)
}

// CycleError reports an inclusion chain that revisits a fragment already
// being expanded. Chain lists the fragments from the outermost script to the
// repeated name.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("fragment inclusion cycle: %s", strings.Join(e.Chain, " -> "))
}
