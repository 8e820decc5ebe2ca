package jobregistry

import (
	"time"

	"github.com/odcplane/odcplane/pkg/engine"
)

// JobRecord is the persistent bookkeeping entry for one submitted job.
//
// NOTE: These fields are persisted in jobs.json and are part of the stable
// on-disk contract.
type JobRecord struct {
	JobID          string        `json:"job_id"`
	Handle         engine.Handle `json:"handle"`
	ResultLocation string        `json:"result_location,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}
