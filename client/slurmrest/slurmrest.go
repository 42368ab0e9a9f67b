package slurmrest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"slurmview/config"
)

const (
	headerUser  = "X-SLURM-USER-NAME"
	headerToken = "X-SLURM-USER-TOKEN"
)

// Client talks to slurmrestd. Every method returns the raw response body so
// proxy routes can pass it through untouched.
type Client struct {
	api        *resty.Client
	apiVersion string
	timeout    time.Duration
	logger     *slog.Logger
}

// New builds a client for the slurmrestd described by cfg.
func New(cfg config.Slurm, logger *slog.Logger) *Client {
	base := fmt.Sprintf("%s://%s:%d", cfg.Scheme, cfg.Server, cfg.Port)
	return NewWithBaseURL(base, cfg, logger)
}

// NewWithBaseURL is New with an explicit base URL, used by tests.
func NewWithBaseURL(base string, cfg config.Slurm, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	api := resty.New().
		SetBaseURL(strings.TrimRight(base, "/")).
		SetHeader("Accept", "application/json")
	if cfg.User != "" {
		api.SetHeader(headerUser, cfg.User)
	}
	if cfg.Token != "" {
		api.SetHeader(headerToken, cfg.Token)
	}
	timeout := config.ParseDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		api:        api,
		apiVersion: cfg.APIVersion,
		timeout:    timeout,
		logger:     logger,
	}
}

// APIError is returned for non-2xx slurmrestd responses.
type APIError struct {
	StatusCode int
	Path       string
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("slurmrestd %s: unexpected status code %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("slurmrestd %s: status %d: %s", e.Path, e.StatusCode, strings.Join(e.Messages, "; "))
}

// Nodes fetches GET /slurm/{ver}/nodes.
func (c *Client) Nodes(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.slurmPath("nodes"), nil)
}

// Jobs fetches GET /slurm/{ver}/jobs.
func (c *Client) Jobs(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.slurmPath("jobs"), nil)
}

// RunningJobsOnNode fetches the accounting view of jobs currently running on
// node: GET /slurmdb/{ver}/jobs?node=<node>&state=running.
func (c *Client) RunningJobsOnNode(ctx context.Context, node string) ([]byte, error) {
	if strings.TrimSpace(node) == "" {
		return nil, fmt.Errorf("node name is required")
	}
	return c.get(ctx, c.slurmdbPath("jobs"), map[string]string{
		"node":  node,
		"state": "running",
	})
}

// Reservations fetches GET /slurm/{ver}/reservations.
func (c *Client) Reservations(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.slurmPath("reservations"), nil)
}

// Partitions fetches GET /slurm/{ver}/partitions.
func (c *Client) Partitions(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.slurmPath("partitions"), nil)
}

// Ping fetches GET /slurm/{ver}/ping and only reports reachability.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, c.slurmPath("ping"), nil)
	return err
}

func (c *Client) slurmPath(resource string) string {
	return fmt.Sprintf("/slurm/%s/%s", c.apiVersion, resource)
}

func (c *Client) slurmdbPath(resource string) string {
	return fmt.Sprintf("/slurmdb/%s/%s", c.apiVersion, resource)
}

func (c *Client) get(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := c.api.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		c.logger.Error("unable to do request for slurmrestd", "err", err, "path", path)
		return nil, fmt.Errorf("unable to do request for slurmrestd %s: %w", path, err)
	}
	body := resp.Body()
	if !resp.IsSuccess() {
		apiErr := &APIError{StatusCode: resp.StatusCode(), Path: path, Messages: errorMessages(body)}
		c.logger.Error("unexpected status code", "code", resp.StatusCode(), "path", path, "err", apiErr)
		return nil, apiErr
	}
	if !json.Valid(body) {
		c.logger.Error("slurmrestd returned invalid json", "path", path)
		return nil, fmt.Errorf("slurmrestd %s returned invalid json", path)
	}
	return body, nil
}

// errorMessages extracts errors[].description (or .error) from a slurmrestd
// error payload.
func errorMessages(body []byte) []string {
	var payload struct {
		Errors []struct {
			Description string `json:"description"`
			Error       string `json:"error"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	out := make([]string, 0, len(payload.Errors))
	for _, e := range payload.Errors {
		switch {
		case e.Description != "":
			out = append(out, e.Description)
		case e.Error != "":
			out = append(out, e.Error)
		}
	}
	return out
}
