// Package storage persists uploaded car images and builds their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// URLPrefix is the path under which uploaded files are served.
const URLPrefix = "/uploads/"

// ErrUnsupportedType is returned for files whose extension is not an
// accepted image type.
var ErrUnsupportedType = errors.New("unsupported image type")

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// AllowedImage reports whether filename has an accepted image extension.
func AllowedImage(filename string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(filename))]
}

// Local writes files into a directory on disk. Each file gets a fresh
// UUID name that keeps the original extension, so client-supplied names
// never reach the filesystem.
type Local struct {
	Dir     string
	BaseURL string
}

// NewLocal returns a Local store rooted at dir whose URLs start with
// baseURL + URLPrefix.
func NewLocal(dir, baseURL string) *Local {
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Save copies r into a new file and returns its public URL.
func (l *Local) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if !AllowedImage(filename) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(filename))
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", l.Dir, err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(l.Dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return l.URL(name), nil
}

// URL returns the public URL of a stored file name.
func (l *Local) URL(name string) string {
	return l.BaseURL + URLPrefix + name
}
