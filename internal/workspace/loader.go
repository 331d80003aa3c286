// Package workspace reads and writes source files below a project root.
//
// Loader serves the texts of files referenced from the type registry. The
// same few files are read again for every struct lookup, so their
// normalized text is kept in an in-memory cache and revalidated against the
// file's size and modification time on each access.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maypok86/otter"

	"mcomment/internal/textutil"
)

var (
	// ErrOutsideRoot is returned for paths that leave the workspace root.
	ErrOutsideRoot = errors.New("path escapes workspace root")
	// ErrTooLarge is returned for files above the configured size limit.
	ErrTooLarge = errors.New("file exceeds size limit")
)

// DefaultCacheBytes bounds the total size of cached texts.
const DefaultCacheBytes = 32 << 20

type entry struct {
	text    string
	size    int64
	modTime time.Time
}

// Loader loads normalized file texts relative to a root directory. It is
// safe for concurrent use.
type Loader struct {
	root     string
	maxBytes int64
	cache    otter.Cache[string, entry]
}

// NewLoader returns a loader for root. Files larger than maxBytes are
// rejected; maxBytes <= 0 disables the limit.
func NewLoader(root string, maxBytes int64) (*Loader, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	cache, err := otter.MustBuilder[string, entry](DefaultCacheBytes).
		Cost(func(_ string, e entry) uint32 {
			return uint32(len(e.text)) + 1
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build cache: %w", err)
	}
	return &Loader{root: abs, maxBytes: maxBytes, cache: cache}, nil
}

// Resolve maps a root-relative path (slash or OS separated) to an absolute
// path inside the root. Absolute paths are accepted when they lie inside it.
func (l *Loader) Resolve(rel string) (string, error) {
	p := filepath.FromSlash(rel)
	if !filepath.IsAbs(p) {
		p = filepath.Join(l.root, p)
	}
	p = filepath.Clean(p)
	r, err := filepath.Rel(l.root, p)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", rel, ErrOutsideRoot)
	}
	return p, nil
}

// Load returns the normalized text (UTF-8, LF line endings) of rel.
func (l *Loader) Load(rel string) (string, error) {
	path, err := l.Resolve(rel)
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if e, ok := l.cache.Get(path); ok && e.size == fi.Size() && e.modTime.Equal(fi.ModTime()) {
		return e.text, nil
	}
	text, err := ReadText(path, l.maxBytes)
	if err != nil {
		return "", err
	}
	l.cache.Set(path, entry{text: text, size: fi.Size(), modTime: fi.ModTime()})
	return text, nil
}

// Close releases the cache.
func (l *Loader) Close() { l.cache.Close() }

// ReadText reads path and normalizes it to UTF-8 with LF line endings.
func ReadText(path string, maxBytes int64) (string, error) {
	if maxBytes > 0 {
		fi, err := os.Stat(path)
		if err != nil {
			return "", err
		}
		if fi.Size() > maxBytes {
			return "", fmt.Errorf("%s (%d bytes): %w", path, fi.Size(), ErrTooLarge)
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(textutil.NormalizeUTF8LF(b)), nil
}
