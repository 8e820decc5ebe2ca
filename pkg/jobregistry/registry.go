// Package jobregistry tracks submitted jobs and persists their records
// across restarts.
//
// The registry is the single owner of job bookkeeping: callers never hold a
// record across calls, they re-read by id. Every mutation rewrites the full
// persisted snapshot before returning, so a crash immediately after Submit
// cannot lose the record.
package jobregistry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/odcplane/odcplane/pkg/engine"
)

// ErrNotFound indicates no record exists for the requested job id.
var ErrNotFound = errors.New("job not found")

// Registry is a durable id-keyed record set with an in-memory mirror.
//
// All mutations run under one mutex: read the current set, apply the
// change, write the snapshot through the store. The critical section never
// spans engine calls or other blocking work.
type Registry struct {
	mu    sync.Mutex
	store Store

	records map[string]JobRecord
	order   []string

	// now is swappable for tests.
	now func() time.Time
}

// New creates a registry backed by store, loading any persisted records.
func New(store Store) (*Registry, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}

	loaded, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load job registry: %w", err)
	}

	r := &Registry{
		store:   store,
		records: make(map[string]JobRecord, len(loaded)),
		now:     time.Now,
	}
	for _, rec := range loaded {
		if _, ok := r.records[rec.JobID]; !ok {
			r.order = append(r.order, rec.JobID)
		}
		r.records[rec.JobID] = rec
	}
	return r, nil
}

// Submit upserts a record for jobID with CreatedAt set to now and writes
// the snapshot through before returning.
//
// Resubmission under an existing id replaces the prior record; the prior
// execution unit is not interrupted here.
func (r *Registry) Submit(jobID string, h engine.Handle, resultLocation string) error {
	if jobID == "" {
		return fmt.Errorf("job_id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec := JobRecord{
		JobID:          jobID,
		Handle:         h,
		ResultLocation: resultLocation,
		CreatedAt:      r.now().UTC(),
	}

	prev, existed := r.records[jobID]
	r.records[jobID] = rec
	if existed {
		// Replacement moves the record to the end of insertion order.
		r.removeFromOrder(jobID)
	}
	r.order = append(r.order, jobID)

	if err := r.store.Save(r.snapshotLocked()); err != nil {
		// Roll back the mirror so memory and disk stay consistent.
		if existed {
			r.records[jobID] = prev
		} else {
			delete(r.records, jobID)
		}
		r.removeFromOrder(jobID)
		if existed {
			r.order = append(r.order, jobID)
		}
		return fmt.Errorf("persist job %s: %w", jobID, err)
	}
	return nil
}

// Lookup returns the record for jobID, or ErrNotFound.
func (r *Registry) Lookup(jobID string) (JobRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[jobID]
	if !ok {
		return JobRecord{}, fmt.Errorf("job %q: %w", jobID, ErrNotFound)
	}
	return rec, nil
}

// Remove deletes the record for jobID if present and writes the snapshot
// through. Removing an absent id is a no-op, not an error.
func (r *Registry) Remove(jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.records[jobID]
	if !ok {
		return nil
	}

	delete(r.records, jobID)
	r.removeFromOrder(jobID)

	if err := r.store.Save(r.snapshotLocked()); err != nil {
		r.records[jobID] = prev
		r.order = append(r.order, jobID)
		return fmt.Errorf("persist removal of job %s: %w", jobID, err)
	}
	return nil
}

// List returns all records in insertion order.
func (r *Registry) List() []JobRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Registry) snapshotLocked() []JobRecord {
	out := make([]JobRecord, 0, len(r.order))
	for _, id := range r.order {
		if rec, ok := r.records[id]; ok {
			out = append(out, rec)
		}
	}
	return out
}

func (r *Registry) removeFromOrder(jobID string) {
	for i, id := range r.order {
		if id == jobID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
