// Package assets embeds the default tool set so the server runs standalone.
// A --script-dir override replaces it with an on-disk tree of the same shape:
// tool scripts at the root, shared fragments under lib/, the installer
// template under templates/.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed all:tools
var embedded embed.FS

// Tools returns the embedded script tree rooted at the tool scripts.
func Tools() fs.FS {
	sub, err := fs.Sub(embedded, "tools")
	if err != nil {
		// The subtree is part of the binary; failure here is a build defect.
		panic(err)
	}
	return sub
}
