package artifact

import (
	"context"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FSStore serves artifacts from a local directory tree.
//
// Keys map directly onto paths under the root. Keys that are absolute or
// traverse outside the root are rejected with ErrInvalidKey.
type FSStore struct {
	root string
}

var _ Store = (*FSStore)(nil)

// NewFSStore creates a filesystem store rooted at dir. The directory is
// created if it does not exist.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StoreError{Op: "New", Backend: "fs", Err: err}
	}
	return &FSStore{root: dir}, nil
}

// Get opens the artifact at key.
func (s *FSStore) Get(_ context.Context, key string) (*Object, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, &StoreError{Op: "Get", Backend: "fs", Key: key, Err: err}
	}

	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			err = ErrNotFound
		}
		return nil, &StoreError{Op: "Get", Backend: "fs", Key: key, Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &StoreError{Op: "Get", Backend: "fs", Key: key, Err: err}
	}
	if info.IsDir() {
		f.Close()
		return nil, &StoreError{Op: "Get", Backend: "fs", Key: key, Err: ErrNotFound}
	}

	return &Object{
		Body:        f,
		Size:        info.Size(),
		ContentType: contentTypeFor(key),
	}, nil
}

// Put writes an artifact via a temp file and atomic rename.
func (s *FSStore) Put(_ context.Context, key string, body io.Reader, _ int64) error {
	p, err := s.resolve(key)
	if err != nil {
		return &StoreError{Op: "Put", Backend: "fs", Key: key, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return &StoreError{Op: "Put", Backend: "fs", Key: key, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".artifact-*")
	if err != nil {
		return &StoreError{Op: "Put", Backend: "fs", Key: key, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &StoreError{Op: "Put", Backend: "fs", Key: key, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &StoreError{Op: "Put", Backend: "fs", Key: key, Err: err}
	}

	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return &StoreError{Op: "Put", Backend: "fs", Key: key, Err: err}
	}
	return nil
}

// Close is a no-op for the filesystem backend.
func (s *FSStore) Close() error {
	return nil
}

// resolve maps a slash-separated key to a path under the root, rejecting
// escapes.
func (s *FSStore) resolve(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

func contentTypeFor(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
