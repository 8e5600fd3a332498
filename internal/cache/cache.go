// Package cache stores fetched tool scripts as executable files under a
// per-user directory so repeated invocations skip the network.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

// Cache is a directory of executable tool scripts keyed by tool name.
type Cache struct {
	root string
}

// New returns a Cache rooted at dir. The directory is created lazily on
// first Put.
func New(dir string) *Cache {
	return &Cache{root: dir}
}

// DefaultRoot returns the platform cache directory for poor.
func DefaultRoot() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating user cache dir: %w", err)
	}
	return filepath.Join(base, "poor"), nil
}

// Root returns the cache directory.
func (c *Cache) Root() string {
	return c.root
}

// Path returns where the named tool lives in the cache, whether or not it
// is present.
func (c *Cache) Path(name string) string {
	return filepath.Join(c.root, name)
}

// Get returns the path of a cached tool. It reports false when the entry
// is missing or is not an executable regular file.
func (c *Cache) Get(name string) (string, bool) {
	path := c.Path(name)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	if info.Mode().Perm()&0o111 == 0 {
		return "", false
	}
	return path, true
}

// Put writes a tool script into the cache. The script lands under a
// temporary name first and is renamed into place, so a concurrent reader
// never sees a half-written entry.
func (c *Cache) Put(name string, script []byte) (string, error) {
	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return "", fmt.Errorf("creating cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(c.root, "."+name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating cache entry: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(script); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmp.Chmod(0o755); err != nil {
		tmp.Close()
		return "", fmt.Errorf("marking cache entry executable: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing cache entry: %w", err)
	}

	dest := c.Path(name)
	if err := os.Rename(tmpName, dest); err != nil {
		return "", fmt.Errorf("installing cache entry: %w", err)
	}
	return dest, nil
}

// Clear removes one cached tool, or the whole cache when name is empty.
// Clearing something that does not exist is not an error.
func (c *Cache) Clear(name string) error {
	if name == "" {
		if err := os.RemoveAll(c.root); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		return nil
	}

	if err := os.Remove(c.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cached %s: %w", name, err)
	}
	return nil
}
