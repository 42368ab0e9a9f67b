package slurm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slurmview/internal/pkg/nodes"
	"slurmview/internal/pkg/poller"
)

type fakeUpstream struct {
	node string
	err  error
}

func (f *fakeUpstream) Jobs(context.Context) ([]byte, error) {
	return []byte(`{"jobs":[{"job_id":1}]}`), f.err
}

func (f *fakeUpstream) RunningJobsOnNode(_ context.Context, node string) ([]byte, error) {
	f.node = node
	return []byte(`{"jobs":[]}`), f.err
}

func (f *fakeUpstream) Reservations(context.Context) ([]byte, error) {
	return []byte(`{"reservations":[]}`), f.err
}

func (f *fakeUpstream) Partitions(context.Context) ([]byte, error) {
	return []byte(`{"partitions":[]}`), f.err
}

type fakeNodes struct {
	snap     *poller.Snapshot
	refresh  error
	refreshN int
}

func (f *fakeNodes) Latest() (poller.Snapshot, error) {
	if f.snap == nil {
		return poller.Snapshot{}, poller.ErrNotReady
	}
	return *f.snap, nil
}

func (f *fakeNodes) Refresh(context.Context) (poller.Snapshot, error) {
	f.refreshN++
	if f.refresh != nil {
		return poller.Snapshot{}, f.refresh
	}
	f.snap = &poller.Snapshot{
		Raw:       []byte(`{"nodes":[{"name":"gn001"}]}`),
		Nodes:     []nodes.Node{{Name: "gn001"}},
		FetchedAt: time.Now(),
	}
	return *f.snap, nil
}

func newEngine(up Upstream, ns NodeSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewRouter(up, ns, nil, nil).Register(r)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestPassThrough(t *testing.T) {
	up := &fakeUpstream{}
	r := newEngine(up, &fakeNodes{})

	cases := map[string]string{
		"/api/v1/slurm/jobs":            `{"jobs":[{"job_id":1}]}`,
		"/api/v1/slurm/reservations":    `{"reservations":[]}`,
		"/api/v1/slurm/partitions":      `{"partitions":[]}`,
		"/api/v1/slurm/jobs/node/gn001": `{"jobs":[]}`,
	}
	for path, want := range cases {
		w := get(r, path)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, want, w.Body.String(), path)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	}
	assert.Equal(t, "gn001", up.node)
}

func TestPassThrough_UpstreamError(t *testing.T) {
	r := newEngine(&fakeUpstream{err: errors.New("connection refused")}, &fakeNodes{})

	w := get(r, "/api/v1/slurm/reservations")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "failed to load reservations")
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestGetNodes(t *testing.T) {
	ns := &fakeNodes{}
	r := newEngine(&fakeUpstream{}, ns)

	// first request before any poll fetches synchronously
	w := get(r, "/api/v1/slurm/nodes")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"nodes":[{"name":"gn001"}]}`, w.Body.String())
	assert.Equal(t, 1, ns.refreshN)

	w = get(r, "/api/v1/slurm/nodes")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, ns.refreshN)
}

func TestGetNodes_Unavailable(t *testing.T) {
	r := newEngine(&fakeUpstream{}, &fakeNodes{refresh: errors.New("timeout")})
	w := get(r, "/api/v1/slurm/nodes")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetJobsOnNode_UnknownNode(t *testing.T) {
	up := &fakeUpstream{}
	shared := poller.NewShared(30 * time.Second)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewRouter(up, &fakeNodes{}, shared, nil).Register(r)

	for i := 0; i < 50; i++ {
		w := get(r, fmt.Sprintf("/api/v1/slurm/jobs/node/bogus-%d", i))
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
	assert.Empty(t, up.node)
	assert.Equal(t, 0, shared.Len())

	w := get(r, "/api/v1/slurm/jobs/node/gn001")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, shared.Len())
}

func TestGetJobsOnNode_NodesUnavailable(t *testing.T) {
	r := newEngine(&fakeUpstream{}, &fakeNodes{refresh: errors.New("timeout")})
	w := get(r, "/api/v1/slurm/jobs/node/gn001")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
