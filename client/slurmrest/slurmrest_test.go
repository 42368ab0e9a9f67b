package slurmrest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slurmview/config"
)

func testConfig() config.Slurm {
	return config.Slurm{
		Server:     "localhost",
		Port:       6820,
		Scheme:     "http",
		APIVersion: "v0.0.40",
		User:       "slurm",
		Token:      "secret",
		Timeout:    "2s",
	}
}

func TestClient_SendsAuthHeadersAndPaths(t *testing.T) {
	var gotPaths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "slurm", r.Header.Get(headerUser))
		assert.Equal(t, "secret", r.Header.Get(headerToken))
		gotPaths = append(gotPaths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL, testConfig(), nil)
	ctx := context.Background()

	body, err := c.Nodes(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))

	_, err = c.Jobs(ctx)
	require.NoError(t, err)
	_, err = c.Reservations(ctx)
	require.NoError(t, err)
	_, err = c.Partitions(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Ping(ctx))

	assert.Equal(t, []string{
		"/slurm/v0.0.40/nodes",
		"/slurm/v0.0.40/jobs",
		"/slurm/v0.0.40/reservations",
		"/slurm/v0.0.40/partitions",
		"/slurm/v0.0.40/ping",
	}, gotPaths)
}

func TestClient_RunningJobsOnNode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/slurmdb/v0.0.40/jobs", r.URL.Path)
		assert.Equal(t, "gn001", r.URL.Query().Get("node"))
		assert.Equal(t, "running", r.URL.Query().Get("state"))
		_, _ = w.Write([]byte(`{"jobs":[{"job_id":7,"user":"alice","state":{"current":["RUNNING"]}}]}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL, testConfig(), nil)
	body, err := c.RunningJobsOnNode(context.Background(), "gn001")
	require.NoError(t, err)

	jobs, err := DecodeAccountingJobs(body)
	require.NoError(t, err)
	require.Len(t, jobs.Jobs, 1)
	assert.Equal(t, int64(7), jobs.Jobs[0].JobID)
	assert.Equal(t, StateList{"RUNNING"}, jobs.Jobs[0].State.Current)

	_, err = c.RunningJobsOnNode(context.Background(), " ")
	assert.Error(t, err)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"description":"authentication failed","error_number":1}]}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL, testConfig(), nil)
	_, err := c.Nodes(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, []string{"authentication failed"}, apiErr.Messages)
	assert.Contains(t, apiErr.Error(), "authentication failed")
}

func TestClient_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>proxy error</html>`))
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL, testConfig(), nil)
	_, err := c.Jobs(context.Background())
	assert.Error(t, err)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Timeout = "50ms"
	c := NewWithBaseURL(srv.URL, cfg, nil)
	_, err := c.Nodes(context.Background())
	assert.Error(t, err)
}

func TestAccountingJobs_Users(t *testing.T) {
	jobs, err := DecodeAccountingJobs([]byte(`{"jobs":[
		{"job_id":1,"user":"alice","state":{"current":"RUNNING"}},
		{"job_id":2,"user":"bob"},
		{"job_id":3,"user":"alice"},
		{"job_id":4,"user":""}
	]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, jobs.Users())
	assert.Equal(t, StateList{"RUNNING"}, jobs.Jobs[0].State.Current)
}
