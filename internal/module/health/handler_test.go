package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"slurmview/internal/pkg/poller"
)

type fakeStatus poller.Status

func (f fakeStatus) Status() poller.Status { return poller.Status(f) }

type fakePinger struct {
	err   error
	calls int
}

func (f *fakePinger) Ping(context.Context) error {
	f.calls++
	return f.err
}

func serve(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	NewRouter(fakeStatus{Ready: false, LastError: "connection refused"}, nil, nil, "1.0.0").Register(r)
	w := serve(r, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
	assert.NotContains(t, w.Body.String(), "last_success")
	assert.NotContains(t, w.Body.String(), "slurmrestd")
	assert.Equal(t, http.StatusNotFound, serve(r, "/metrics").Code)

	r = gin.New()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	NewRouter(fakeStatus{Ready: true, LastSuccess: at, LastAttempt: at}, nil, nil, "1.0.0").Register(r)
	w = serve(r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"1.0.0"`)
	assert.Contains(t, w.Body.String(), `"last_success":"2024-03-01T10:00:00Z"`)
}

func TestHealthz_Upstream(t *testing.T) {
	gin.SetMode(gin.TestMode)

	up := &fakePinger{}
	r := gin.New()
	NewRouter(fakeStatus{Ready: true}, up, nil, "dev").Register(r)
	w := serve(r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slurmrestd":{"reachable":true}`)
	assert.Equal(t, 1, up.calls)

	// a failed ping is reported; the last good payload keeps the service ready
	up.err = errors.New("dial tcp: connection refused")
	w = serve(r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reachable":false`)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestLivez(t *testing.T) {
	gin.SetMode(gin.TestMode)

	up := &fakePinger{err: errors.New("down")}
	r := gin.New()
	NewRouter(fakeStatus{Ready: false}, up, nil, "dev").Register(r)
	assert.Equal(t, http.StatusOK, serve(r, "/livez").Code)
	assert.Equal(t, 0, up.calls)
}

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	poller.NewMetrics(reg)

	r := gin.New()
	NewRouter(fakeStatus{Ready: true}, nil, reg, "dev").Register(r)
	w := serve(r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "slurmview_poller_errors_total")
}
