package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// PublicPrefix is the URL path under which the server exposes the
// filesystem store's root directory.
const PublicPrefix = "/uploads/"

// Filesystem stores objects as files under a root directory. The server
// mounts the root at PublicPrefix, which makes the returned URLs resolvable.
type Filesystem struct {
	root    string
	baseURL string
}

// NewFilesystem returns a filesystem store rooted at root, creating the
// directory if needed.
func NewFilesystem(root, baseURL string) (*Filesystem, error) {
	if root == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload root: %w", err)
	}
	return &Filesystem{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Root returns the local directory holding the objects.
func (f *Filesystem) Root() string { return f.root }

// Upload writes the object under key and returns its public URL. Existing
// objects are never overwritten.
func (f *Filesystem) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	clean, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}

	path := filepath.Join(f.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating object directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating object %s: %w", clean, err)
	}

	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing object %s: %w", clean, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing object %s: %w", clean, err)
	}

	return f.baseURL + PublicPrefix + clean, nil
}

// sanitizeKey rejects keys that could escape the root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty object key")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("absolute object key %q", key)
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("object key %q escapes the root", key)
	}
	return clean, nil
}
