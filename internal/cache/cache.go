package cache

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DirName is the directory created under the user cache root.
	DirName = "nocta-ui"

	// DirEnv overrides the cache base directory.
	DirEnv = "NOCTA_CACHE_DIR"

	// MetadataSuffix is appended to an entry's filename for its sidecar.
	MetadataSuffix = ".meta"

	// MaxEntryAge is the hard expiry after which entries are purged
	// even for stale-accepting reads.
	MaxEntryAge = 30 * 24 * time.Hour
)

// Context is an explicitly constructed cache handle scoped to one CLI
// invocation. It carries no process-wide state.
type Context struct {
	baseDir string
}

// NewContext resolves the cache base directory: the NOCTA_CACHE_DIR
// override, then the user cache dir, then the OS temp dir.
func NewContext() *Context {
	if dir := strings.TrimSpace(os.Getenv(DirEnv)); dir != "" {
		return &Context{baseDir: dir}
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return &Context{baseDir: filepath.Join(dir, DirName)}
	}
	return &Context{baseDir: filepath.Join(os.TempDir(), DirName)}
}

// NewContextAt returns a Context rooted at an explicit directory.
func NewContextAt(dir string) *Context {
	return &Context{baseDir: dir}
}

// Dir returns the cache base directory.
func (c *Context) Dir() string {
	return c.baseDir
}

// normalizeRelPath keeps only plain path segments, discarding "..", "."
// and volume/root markers so entries cannot escape the cache root.
func normalizeRelPath(relPath string) string {
	var parts []string
	for _, part := range strings.Split(filepath.ToSlash(relPath), "/") {
		if part == "" || part == "." || part == ".." {
			continue
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return "entry"
	}
	return filepath.Join(parts...)
}

func (c *Context) entryPath(relPath string) string {
	return filepath.Join(c.baseDir, normalizeRelPath(relPath))
}

func (c *Context) metadataPath(relPath string) string {
	return c.entryPath(relPath) + MetadataSuffix
}

// ReadText returns a cached entry, or ok=false when no usable entry
// exists. A fresh read (acceptStale=false) rejects entries older than
// ttl; a non-positive ttl rejects every fresh read, forcing
// revalidation. A stale-accepting read returns anything younger than
// MaxEntryAge. Entries past MaxEntryAge are purged on sight.
func (c *Context) ReadText(relPath string, ttl time.Duration, acceptStale bool) (string, bool, error) {
	path := c.entryPath(relPath)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}

	age := time.Since(info.ModTime())
	if age > MaxEntryAge {
		c.purgeEntry(relPath)
		return "", false, nil
	}
	if !acceptStale && age > ttl {
		return "", false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// WriteText stores an entry atomically (temp file + rename).
func (c *Context) WriteText(relPath, contents string) error {
	path := c.entryPath(relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".cache-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(contents); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Touch marks an entry as fresh again without rewriting its body, as
// after a 304 revalidation.
func (c *Context) Touch(relPath string) error {
	now := time.Now()
	return os.Chtimes(c.entryPath(relPath), now, now)
}

// ReadMetadata returns the sidecar bytes for an entry, or nil when absent.
func (c *Context) ReadMetadata(relPath string) ([]byte, error) {
	data, err := os.ReadFile(c.metadataPath(relPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// WriteMetadata stores sidecar bytes next to an entry.
func (c *Context) WriteMetadata(relPath string, contents []byte) error {
	path := c.metadataPath(relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0644)
}

// RemoveMetadata deletes an entry's sidecar if present.
func (c *Context) RemoveMetadata(relPath string) error {
	err := os.Remove(c.metadataPath(relPath))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes the entire cache tree.
func (c *Context) Clear() error {
	if _, err := os.Stat(c.baseDir); os.IsNotExist(err) {
		return nil
	}
	return os.RemoveAll(c.baseDir)
}

func (c *Context) purgeEntry(relPath string) {
	os.Remove(c.entryPath(relPath))
	os.Remove(c.metadataPath(relPath))
}
