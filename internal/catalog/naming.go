package catalog

import "strings"

// Prefix is the fixed name prefix carried by installed binaries by default
// and stripped in emulate mode.
const Prefix = "poor"

// prefixExceptions are identities where the prefix is semantically part of
// the name: they are never stripped and never doubled. Checked before the
// generic add/strip rule.
var prefixExceptions = map[string]bool{
	Prefix: true,
}

// IsPrefixException reports whether name is invariant under both naming
// transforms.
func IsPrefixException(name string) bool {
	return prefixExceptions[name]
}

// BinaryName computes the installed binary name for a tool identity.
// Default mode ensures the prefix is present; emulate mode removes it.
func BinaryName(name string, emulate bool) string {
	if prefixExceptions[name] {
		return name
	}
	if emulate {
		if bare, ok := strings.CutPrefix(name, Prefix); ok && bare != "" {
			return bare
		}
		return name
	}
	if strings.HasPrefix(name, Prefix) {
		return name
	}
	return Prefix + name
}

// DisplayName is the short name a tool is advertised under: the canonical
// identity with the prefix stripped, except for prefix-exception names.
func DisplayName(name string) string {
	return BinaryName(name, true)
}
