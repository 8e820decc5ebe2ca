package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/odcplane/odcplane/pkg/controller"
	"github.com/odcplane/odcplane/pkg/engine"
	"github.com/odcplane/odcplane/pkg/jobregistry"
	"github.com/odcplane/odcplane/pkg/processgraph"
)

type fakeEngine struct {
	started     int
	interrupted []engine.Handle
	startErr    error
}

func (f *fakeEngine) Start(ctx context.Context, g *processgraph.Graph) (engine.StartResult, error) {
	if f.startErr != nil {
		return engine.StartResult{}, f.startErr
	}
	f.started++
	return engine.StartResult{
		Handle:         engine.Handle{RunID: "run-1", PID: 4242},
		ResultLocation: "run-1/result.nc",
	}, nil
}

func (f *fakeEngine) Interrupt(ctx context.Context, h engine.Handle) error {
	f.interrupted = append(f.interrupted, h)
	return nil
}

type fakeRegistry struct {
	records map[string]jobregistry.JobRecord
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{records: make(map[string]jobregistry.JobRecord)}
}

func (f *fakeRegistry) Submit(jobID string, h engine.Handle, resultLocation string) error {
	f.records[jobID] = jobregistry.JobRecord{JobID: jobID, Handle: h, ResultLocation: resultLocation}
	return nil
}

func (f *fakeRegistry) Lookup(jobID string) (jobregistry.JobRecord, error) {
	rec, ok := f.records[jobID]
	if !ok {
		return jobregistry.JobRecord{}, jobregistry.ErrNotFound
	}
	return rec, nil
}

func (f *fakeRegistry) Remove(jobID string) error {
	delete(f.records, jobID)
	return nil
}

func (f *fakeRegistry) List() []jobregistry.JobRecord {
	out := make([]jobregistry.JobRecord, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, rec)
	}
	return out
}

func newJobsRouter(t *testing.T, eng engine.Engine, reg controller.Registry) (chi.Router, *JobsHandler) {
	t.Helper()
	ctrl, err := controller.New(eng, reg, zap.NewNop())
	require.NoError(t, err)

	h := NewJobsHandler(ctrl)
	r := chi.NewRouter()
	r.Post("/graph", h.Submit)
	r.Get("/jobs", h.List)
	r.Delete("/jobs/{id}", h.Cancel)
	r.Delete("/stop_job", h.CancelLegacy)
	return r, h
}

const validGraph = `{
	"id": "job-1",
	"process_graph": {
		"load": {"process_id": "load_collection", "arguments": {"id": "S2_L2A"}},
		"save": {"process_id": "save_result", "arguments": {"format": "netCDF"}, "result": true}
	}
}`

func TestJobsSubmit(t *testing.T) {
	eng := &fakeEngine{}
	reg := newFakeRegistry()
	router, _ := newJobsRouter(t, eng, reg)

	req := httptest.NewRequest(http.MethodPost, "/graph", strings.NewReader(validGraph))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp controller.SubmitResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "job-1", resp.JobID)
	assert.Equal(t, "run-1/result.nc", resp.ResultLocation)

	rec2, ok := reg.records["job-1"]
	require.True(t, ok, "registry should hold the submitted job")
	assert.Equal(t, 4242, rec2.Handle.PID)
}

func TestJobsSubmitInvalidGraph(t *testing.T) {
	eng := &fakeEngine{}
	router, _ := newJobsRouter(t, eng, newFakeRegistry())

	req := httptest.NewRequest(http.MethodPost, "/graph", strings.NewReader(`{"nodes": {}}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, eng.started, "engine must not start on invalid graph")

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "PROCESS_GRAPH_INVALID", resp.Error.Code)
}

func TestJobsSubmitEngineRejection(t *testing.T) {
	eng := &fakeEngine{startErr: &engine.EngineError{Op: "Start", Err: engine.ErrRejected}}
	reg := newFakeRegistry()
	router, _ := newJobsRouter(t, eng, reg)

	req := httptest.NewRequest(http.MethodPost, "/graph", strings.NewReader(validGraph))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, reg.records, "registry must stay untouched on engine rejection")
}

func TestJobsCancel(t *testing.T) {
	eng := &fakeEngine{}
	reg := newFakeRegistry()
	reg.records["job-1"] = jobregistry.JobRecord{
		JobID:  "job-1",
		Handle: engine.Handle{RunID: "run-1", PID: 4242},
	}
	router, _ := newJobsRouter(t, eng, reg)

	req := httptest.NewRequest(http.MethodDelete, "/jobs/job-1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, reg.records)
	require.Len(t, eng.interrupted, 1)
	assert.Equal(t, 4242, eng.interrupted[0].PID)
}

func TestJobsCancelLegacyRoute(t *testing.T) {
	eng := &fakeEngine{}
	reg := newFakeRegistry()
	reg.records["job-1"] = jobregistry.JobRecord{
		JobID:  "job-1",
		Handle: engine.Handle{RunID: "run-1", PID: 4242},
	}
	router, _ := newJobsRouter(t, eng, reg)

	req := httptest.NewRequest(http.MethodDelete, "/stop_job?id=job-1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, reg.records)
}

func TestJobsCancelUnknown(t *testing.T) {
	router, _ := newJobsRouter(t, &fakeEngine{}, newFakeRegistry())

	req := httptest.NewRequest(http.MethodDelete, "/jobs/nope", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "JOB_NOT_FOUND", resp.Error.Code)
}

func TestJobsList(t *testing.T) {
	reg := newFakeRegistry()
	reg.records["job-1"] = jobregistry.JobRecord{JobID: "job-1"}
	router, _ := newJobsRouter(t, &fakeEngine{}, reg)

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp jobListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, "job-1", resp.Jobs[0].JobID)
}
