// Package artifact stores and serves job result artifacts.
//
// Artifacts are addressed by slash-separated keys relative to the store
// root, typically "<run_id>/result.<format>". Two backends are provided:
// a local filesystem store for single-node deployments and an S3 store
// for shared object storage.
package artifact

import (
	"context"
	"errors"
	"io"
)

// Sentinel errors for artifact operations. Callers should use errors.Is
// rather than comparing directly, since backends wrap them in StoreError.
var (
	// ErrNotFound indicates the artifact does not exist.
	ErrNotFound = errors.New("artifact not found")

	// ErrInvalidKey indicates the key is empty or escapes the store root.
	ErrInvalidKey = errors.New("invalid artifact key")

	// ErrAccessDenied indicates the backend rejected the credentials or
	// the operation was forbidden.
	ErrAccessDenied = errors.New("access denied")

	// ErrUnavailable indicates a transient backend failure.
	ErrUnavailable = errors.New("artifact store unavailable")
)

// Object is an opened artifact. The caller owns Body and must close it.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
}

// Store persists and retrieves result artifacts.
type Store interface {
	// Get opens the artifact at key for reading.
	Get(ctx context.Context, key string) (*Object, error)

	// Put writes an artifact at key, replacing any existing object.
	Put(ctx context.Context, key string, body io.Reader, size int64) error

	// Close releases backend resources.
	Close() error
}

// StoreError wraps a backend failure with operation context.
type StoreError struct {
	Op      string
	Backend string
	Key     string
	Err     error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	msg := "artifact " + e.Backend + ": " + e.Op
	if e.Key != "" {
		msg += " " + e.Key
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err indicates a missing artifact.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
