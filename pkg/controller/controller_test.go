package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/odcplane/odcplane/pkg/engine"
	"github.com/odcplane/odcplane/pkg/jobregistry"
	"github.com/odcplane/odcplane/pkg/processgraph"
)

type fakeEngine struct {
	startErr     error
	interruptErr error

	started     []string
	interrupted []engine.Handle
	nextPID     int
}

func (f *fakeEngine) Start(ctx context.Context, graph *processgraph.Graph) (engine.StartResult, error) {
	if f.startErr != nil {
		return engine.StartResult{}, f.startErr
	}
	f.nextPID++
	runID := graph.JobID() + "-run"
	f.started = append(f.started, runID)
	return engine.StartResult{
		Handle:         engine.Handle{RunID: runID, PID: f.nextPID},
		ResultLocation: runID + "/result.nc",
	}, nil
}

func (f *fakeEngine) Interrupt(ctx context.Context, h engine.Handle) error {
	f.interrupted = append(f.interrupted, h)
	return f.interruptErr
}

func parseGraph(t *testing.T, raw string) *processgraph.Graph {
	t.Helper()
	g, err := processgraph.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse graph: %v", err)
	}
	return g
}

func newTestController(t *testing.T, eng engine.Engine) (*Controller, *jobregistry.Registry) {
	t.Helper()
	reg, err := jobregistry.New(jobregistry.NewFileStore(t.TempDir()))
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	c, err := New(eng, reg, nil)
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	return c, reg
}

func TestSubmitJob_RecordsHandle(t *testing.T) {
	eng := &fakeEngine{}
	c, reg := newTestController(t, eng)

	res, err := c.SubmitJob(context.Background(), parseGraph(t, `{"id": "j1", "process_graph": {"n": {"process_id": "load_collection"}}}`))
	if err != nil {
		t.Fatalf("SubmitJob() error: %v", err)
	}
	if res.JobID != "j1" {
		t.Fatalf("unexpected job id: %q", res.JobID)
	}
	if res.ResultLocation != "j1-run/result.nc" {
		t.Fatalf("unexpected result location: %q", res.ResultLocation)
	}

	rec, err := reg.Lookup("j1")
	if err != nil {
		t.Fatalf("Lookup() after submit error: %v", err)
	}
	if rec.Handle.RunID != "j1-run" {
		t.Fatalf("handle not recorded: %+v", rec.Handle)
	}
}

func TestSubmitJob_UnnamedGraphUsesSentinel(t *testing.T) {
	eng := &fakeEngine{}
	c, reg := newTestController(t, eng)

	res, err := c.SubmitJob(context.Background(), parseGraph(t, `{"process_graph": {"n": {"process_id": "load_collection"}}}`))
	if err != nil {
		t.Fatalf("SubmitJob() error: %v", err)
	}
	if res.JobID != processgraph.UnnamedJobID {
		t.Fatalf("unexpected job id: %q", res.JobID)
	}
	if _, err := reg.Lookup(processgraph.UnnamedJobID); err != nil {
		t.Fatalf("unnamed record missing: %v", err)
	}
}

func TestSubmitJob_EngineFailureLeavesRegistryUntouched(t *testing.T) {
	eng := &fakeEngine{startErr: &engine.EngineError{Op: "Start", Err: engine.ErrRejected}}
	c, reg := newTestController(t, eng)

	_, err := c.SubmitJob(context.Background(), parseGraph(t, `{"id": "j1", "process_graph": {"n": {"process_id": "x"}}}`))
	if !engine.IsRejected(err) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if got := reg.List(); len(got) != 0 {
		t.Fatalf("registry mutated on engine failure: %+v", got)
	}
}

func TestCancelJob_RemovesRecordAndInterrupts(t *testing.T) {
	eng := &fakeEngine{}
	c, reg := newTestController(t, eng)

	if _, err := c.SubmitJob(context.Background(), parseGraph(t, `{"id": "j1", "process_graph": {"n": {"process_id": "x"}}}`)); err != nil {
		t.Fatalf("SubmitJob() error: %v", err)
	}

	if err := c.CancelJob(context.Background(), "j1"); err != nil {
		t.Fatalf("CancelJob() error: %v", err)
	}
	if len(eng.interrupted) != 1 || eng.interrupted[0].RunID != "j1-run" {
		t.Fatalf("interrupt not sent: %+v", eng.interrupted)
	}
	if _, err := reg.Lookup("j1"); !errors.Is(err, jobregistry.ErrNotFound) {
		t.Fatalf("record not removed: %v", err)
	}
}

func TestCancelJob_UnknownIDIsNotFoundWithoutMutation(t *testing.T) {
	eng := &fakeEngine{}
	c, reg := newTestController(t, eng)

	err := c.CancelJob(context.Background(), "nope")
	if !errors.Is(err, jobregistry.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(eng.interrupted) != 0 {
		t.Fatalf("interrupt sent for unknown job")
	}
	if got := reg.List(); len(got) != 0 {
		t.Fatalf("registry mutated: %+v", got)
	}
}

func TestCancelJob_RemovesRecordEvenIfInterruptFails(t *testing.T) {
	eng := &fakeEngine{interruptErr: &engine.EngineError{Op: "Interrupt", Err: errors.New("gone")}}
	c, reg := newTestController(t, eng)

	if _, err := c.SubmitJob(context.Background(), parseGraph(t, `{"id": "j1", "process_graph": {"n": {"process_id": "x"}}}`)); err != nil {
		t.Fatalf("SubmitJob() error: %v", err)
	}

	if err := c.CancelJob(context.Background(), "j1"); err != nil {
		t.Fatalf("CancelJob() should tolerate interrupt failure, got %v", err)
	}
	if _, err := reg.Lookup("j1"); !errors.Is(err, jobregistry.ErrNotFound) {
		t.Fatalf("record not removed after best-effort interrupt: %v", err)
	}
}

func TestSubmitJob_ResubmitReplacesWithoutInterrupt(t *testing.T) {
	eng := &fakeEngine{}
	c, reg := newTestController(t, eng)

	graph := `{"id": "j1", "process_graph": {"n": {"process_id": "x"}}}`
	if _, err := c.SubmitJob(context.Background(), parseGraph(t, graph)); err != nil {
		t.Fatalf("first SubmitJob() error: %v", err)
	}
	if _, err := c.SubmitJob(context.Background(), parseGraph(t, graph)); err != nil {
		t.Fatalf("second SubmitJob() error: %v", err)
	}

	if len(eng.interrupted) != 0 {
		t.Fatalf("resubmission must not interrupt the prior unit")
	}
	records := reg.List()
	if len(records) != 1 {
		t.Fatalf("expected single record, got %d", len(records))
	}
	if records[0].Handle.PID != 2 {
		t.Fatalf("most recent handle not retained: %+v", records[0].Handle)
	}
}
