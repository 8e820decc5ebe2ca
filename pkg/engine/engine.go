// Package engine abstracts the geospatial compute engine that executes
// process graphs.
//
// The control plane only starts execution units and requests interruption;
// scheduling, progress, and completion of the unit are the engine's own
// business. Start must not return before the unit is confirmed started, so
// callers can safely record the returned handle.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/odcplane/odcplane/pkg/processgraph"
)

// Sentinel errors for engine operations.
var (
	// ErrRejected indicates the engine refused the process graph.
	ErrRejected = errors.New("process graph rejected")

	// ErrUnavailable indicates the engine could not be reached or spawned.
	ErrUnavailable = errors.New("engine unavailable")
)

// Handle is an opaque reference to a started execution unit. It is
// persisted alongside the job record and used only for cancellation.
type Handle struct {
	// RunID names the execution unit and its result folder.
	RunID string `json:"run_id"`

	// PID is the worker process id for signal-based interruption.
	PID int `json:"pid,omitempty"`
}

// StartResult is returned once an execution unit has started.
type StartResult struct {
	Handle Handle

	// ResultLocation is the prospective result artifact location,
	// relative to the results root (e.g. "<run_id>/result.nc").
	ResultLocation string
}

// Engine starts and interrupts execution units.
type Engine interface {
	// Start launches execution of the graph asynchronously and returns
	// once the unit is confirmed started.
	Start(ctx context.Context, graph *processgraph.Graph) (StartResult, error)

	// Interrupt requests cooperative cancellation of the unit. It is
	// best-effort and fire-and-forget; the unit may take arbitrarily
	// long to wind down, or ignore the request entirely.
	Interrupt(ctx context.Context, h Handle) error
}

// EngineError wraps engine failures with operation context.
type EngineError struct {
	// Op is the operation that failed ("Start", "Interrupt").
	Op string

	// RunID is the execution unit, if one was assigned.
	RunID string

	// Err is the underlying error.
	Err error
}

func (e *EngineError) Error() string {
	if e.RunID != "" {
		return fmt.Sprintf("engine %s: %s: %v", e.Op, e.RunID, e.Err)
	}
	return fmt.Sprintf("engine %s: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// IsRejected returns true if the error indicates the graph was refused.
func IsRejected(err error) bool {
	return errors.Is(err, ErrRejected)
}

// IsUnavailable returns true if the error indicates the engine could not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
