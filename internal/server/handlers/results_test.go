package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odcplane/odcplane/pkg/artifact"
)

func newResultsRouter(t *testing.T) (chi.Router, artifact.Store) {
	t.Helper()
	store, err := artifact.NewFSStore(t.TempDir())
	require.NoError(t, err)

	h := NewResultsHandler(store)
	r := chi.NewRouter()
	r.Get("/results/{run_id}/{file}", h.Get)
	return r, store
}

func TestResultsGet(t *testing.T) {
	router, store := newResultsRouter(t)

	body := "netcdf bytes"
	require.NoError(t, store.Put(context.Background(), "run-1/result.nc",
		strings.NewReader(body), int64(len(body))))

	req := httptest.NewRequest(http.MethodGet, "/results/run-1/result.nc", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
	assert.Equal(t, "12", rec.Header().Get("Content-Length"))
}

func TestResultsGetMissing(t *testing.T) {
	router, _ := newResultsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/results/run-x/result.nc", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
