// Package controller orchestrates job submission and cancellation across
// the compute engine and the job registry.
package controller

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/odcplane/odcplane/pkg/engine"
	"github.com/odcplane/odcplane/pkg/jobregistry"
	"github.com/odcplane/odcplane/pkg/processgraph"
)

// Registry is the subset of the job registry the controller mutates.
type Registry interface {
	Submit(jobID string, h engine.Handle, resultLocation string) error
	Lookup(jobID string) (jobregistry.JobRecord, error)
	Remove(jobID string) error
	List() []jobregistry.JobRecord
}

// SubmitResult is the client-visible outcome of a submission.
type SubmitResult struct {
	JobID          string `json:"job_id"`
	ResultLocation string `json:"output"`
}

// Controller wires the engine and the registry together. It never retains
// job records across calls; every cancellation re-reads from the registry.
type Controller struct {
	engine   engine.Engine
	registry Registry
	logger   *zap.Logger
}

func New(eng engine.Engine, reg Registry, logger *zap.Logger) (*Controller, error) {
	if eng == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if reg == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{engine: eng, registry: reg, logger: logger}, nil
}

// SubmitJob starts execution of the graph and records the handle.
//
// The registry record is written only after the engine confirms the unit
// has started, so an engine rejection never corrupts registry state.
// Resubmission under an existing id replaces the record without
// interrupting the prior unit.
func (c *Controller) SubmitJob(ctx context.Context, graph *processgraph.Graph) (SubmitResult, error) {
	jobID := graph.JobID()

	started, err := c.engine.Start(ctx, graph)
	if err != nil {
		c.logger.Error("Engine rejected process graph",
			zap.String("job_id", jobID),
			zap.Error(err))
		return SubmitResult{}, err
	}

	if err := c.registry.Submit(jobID, started.Handle, started.ResultLocation); err != nil {
		// The unit is already running but untracked; interrupt it so a
		// persistence failure does not leak a worker.
		if ierr := c.engine.Interrupt(ctx, started.Handle); ierr != nil {
			c.logger.Warn("Failed to interrupt untracked execution unit",
				zap.String("job_id", jobID),
				zap.String("run_id", started.Handle.RunID),
				zap.Error(ierr))
		}
		return SubmitResult{}, err
	}

	c.logger.Info("Job submitted",
		zap.String("job_id", jobID),
		zap.String("run_id", started.Handle.RunID),
		zap.String("result_location", started.ResultLocation))

	return SubmitResult{JobID: jobID, ResultLocation: started.ResultLocation}, nil
}

// CancelJob requests interruption of the job's execution unit and removes
// its record.
//
// The interrupt is best-effort: the record is removed whether or not the
// engine acknowledges in time. Cancellation is requested, not
// confirmed-complete. An unknown id returns jobregistry.ErrNotFound with
// no store mutation.
func (c *Controller) CancelJob(ctx context.Context, jobID string) error {
	rec, err := c.registry.Lookup(jobID)
	if err != nil {
		return err
	}

	if err := c.engine.Interrupt(ctx, rec.Handle); err != nil {
		c.logger.Warn("Interrupt not acknowledged",
			zap.String("job_id", jobID),
			zap.String("run_id", rec.Handle.RunID),
			zap.Error(err))
	}

	if err := c.registry.Remove(jobID); err != nil {
		return err
	}

	c.logger.Info("Job cancelled",
		zap.String("job_id", jobID),
		zap.String("run_id", rec.Handle.RunID))
	return nil
}

// ListJobs returns current registry records for diagnostics.
func (c *Controller) ListJobs() []jobregistry.JobRecord {
	return c.registry.List()
}
