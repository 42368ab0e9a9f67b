package rewind

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slurmview/client/history"
	"slurmview/internal/pkg/model"
)

const payload = `{"nodes":[
  {"name":"cn001","state":["IDLE"],"partitions":["cpu"],"cpus":64},
  {"name":"gn001","state":["ALLOCATED"],"partitions":["gpu"],"gres":"gpu:a100:4","cpus":128},
  {"name":"cn002","state":["DOWN"],"partitions":["cpu"],"cpus":64}
],"last_update":1709287200}`

type fakeStore struct {
	asked    time.Time
	snap     *model.NodeSnapshot
	err      error
	times    []time.Time
	from, to time.Time
}

func (f *fakeStore) SnapshotAt(_ context.Context, t time.Time) (*model.NodeSnapshot, error) {
	f.asked = t
	return f.snap, f.err
}

func (f *fakeStore) ListTimes(_ context.Context, from, to time.Time) ([]time.Time, error) {
	f.from, f.to = from, to
	return f.times, f.err
}

type envelope struct {
	Count   int             `json:"count"`
	Results json.RawMessage `json:"results"`
	Detail  string          `json:"detail"`
}

func do(t *testing.T, store Store, path string) (int, envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewRouter(store, time.UTC, nil).Register(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestParseDateTime(t *testing.T) {
	got, err := ParseDateTime("2024-03-01", "10:30", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), got)

	got, err = ParseDateTime("2024-03-01", "10:30:15", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Second())

	_, err = ParseDateTime("03/01/2024", "10:30", time.UTC)
	assert.Error(t, err)
	_, err = ParseDateTime("2024-03-01", "25:00", time.UTC)
	assert.Error(t, err)
}

func TestGetRewind(t *testing.T) {
	taken := time.Date(2024, 3, 1, 10, 15, 0, 0, time.UTC)
	store := &fakeStore{snap: &model.NodeSnapshot{ID: 1, TakenAt: taken, NodeCount: 3, Payload: []byte(payload)}}

	code, env := do(t, store, "/api/v1/rewind?date=2024-03-01&time=10:30")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), store.asked)
	assert.Equal(t, 3, env.Count)

	var res Result
	require.NoError(t, json.Unmarshal(env.Results, &res))
	assert.True(t, res.TakenAt.Equal(taken))
	assert.Equal(t, int64(1709287200), res.LastUpdate)
	assert.Equal(t, 1, res.Stats.Idle)
	assert.Equal(t, 1, res.Stats.Allocated)
	assert.Equal(t, 1, res.Stats.Down)
	assert.Equal(t, 1, res.Stats.GPUNodes)
	assert.Len(t, res.Nodes, 3)
}

func TestGetRewind_Filtered(t *testing.T) {
	store := &fakeStore{snap: &model.NodeSnapshot{TakenAt: time.Now(), Payload: []byte(payload)}}
	code, env := do(t, store, "/api/v1/rewind?date=2024-03-01&time=10:30&type=cpuNodes")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, env.Count)

	var res Result
	require.NoError(t, json.Unmarshal(env.Results, &res))
	// stats always describe the whole cluster
	assert.Equal(t, 3, res.Stats.Total)
	assert.Len(t, res.Nodes, 2)
}

func TestGetRewind_Errors(t *testing.T) {
	cases := []struct {
		name  string
		store Store
		path  string
		code  int
	}{
		{"missing time", &fakeStore{}, "/api/v1/rewind?date=2024-03-01", http.StatusBadRequest},
		{"bad date", &fakeStore{}, "/api/v1/rewind?date=yesterday&time=10:00", http.StatusBadRequest},
		{"bad filter", &fakeStore{}, "/api/v1/rewind?date=2024-03-01&time=10:00&state=asleep", http.StatusBadRequest},
		{"disabled", nil, "/api/v1/rewind?date=2024-03-01&time=10:00", http.StatusServiceUnavailable},
		{"nothing recorded", &fakeStore{err: history.ErrNoSnapshot}, "/api/v1/rewind?date=2024-03-01&time=10:00", http.StatusNotFound},
		{"store down", &fakeStore{err: errors.New("dial tcp: refused")}, "/api/v1/rewind?date=2024-03-01&time=10:00", http.StatusServiceUnavailable},
		{"corrupt", &fakeStore{snap: &model.NodeSnapshot{Payload: []byte("{")}}, "/api/v1/rewind?date=2024-03-01&time=10:00", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := do(t, tc.store, tc.path)
			assert.Equal(t, tc.code, code)
		})
	}
}

func TestGetTimes(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{times: []time.Time{day.Add(10 * time.Hour), day.Add(10*time.Hour + 15*time.Minute)}}

	code, env := do(t, store, "/api/v1/rewind/times?date=2024-03-01")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, day, store.from)
	assert.Equal(t, day.AddDate(0, 0, 1), store.to)

	var out []string
	require.NoError(t, json.Unmarshal(env.Results, &out))
	assert.Equal(t, []string{"10:00:00", "10:15:00"}, out)

	code, _ = do(t, store, "/api/v1/rewind/times")
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, nil, "/api/v1/rewind/times?date=2024-03-01")
	assert.Equal(t, http.StatusServiceUnavailable, code)
}
