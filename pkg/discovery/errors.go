package discovery

import (
	"errors"
	"fmt"
)

// Sentinel errors for discovery-service operations.
var (
	// ErrNotFound indicates the requested collection does not exist.
	ErrNotFound = errors.New("collection not found")

	// ErrUnavailable indicates the discovery service could not be
	// reached or answered with a server error.
	ErrUnavailable = errors.New("discovery service unavailable")

	// ErrMalformed indicates the service answered with a body that
	// could not be decoded.
	ErrMalformed = errors.New("malformed discovery response")
)

// UpstreamError wraps discovery failures with request context.
type UpstreamError struct {
	// Op is the operation that failed (e.g., "Describe", "Items").
	Op string

	// Collection is the collection name, if applicable.
	Collection string

	// Err is the underlying error.
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Collection != "" {
		return fmt.Sprintf("discovery %s: %s: %v", e.Op, e.Collection, e.Err)
	}
	return fmt.Sprintf("discovery %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error indicates an unknown collection.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnavailable returns true if the error indicates the service could not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
