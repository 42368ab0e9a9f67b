// Package poller keeps the latest slurmrestd node list in memory.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"slurmview/internal/pkg/nodes"
)

// ErrNotReady is returned before the first successful poll.
var ErrNotReady = errors.New("no successful poll yet")

// Fetcher returns a raw slurmrestd payload.
type Fetcher func(ctx context.Context) ([]byte, error)

// Snapshot is one successfully fetched and decoded nodes payload.
type Snapshot struct {
	Raw        []byte
	Nodes      []nodes.Node
	LastUpdate int64
	FetchedAt  time.Time
}

// Status describes the poller's health.
type Status struct {
	Ready       bool      `json:"ready"`
	LastSuccess time.Time `json:"last_success,omitzero"`
	LastAttempt time.Time `json:"last_attempt,omitzero"`
	LastError   string    `json:"last_error,omitempty"`
}

// Poller fetches the node list on a fixed interval. A failed poll keeps the
// previous snapshot.
type Poller struct {
	fetch    Fetcher
	interval time.Duration
	metrics  *Metrics
	logger   *slog.Logger
	now      func() time.Time

	group singleflight.Group

	mu          sync.RWMutex
	snap        *Snapshot
	lastAttempt time.Time
	lastErr     error
}

func New(fetch Fetcher, interval time.Duration, metrics *Metrics, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Poller{
		fetch:    fetch,
		interval: interval,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Run polls immediately and then every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("node poller started", "interval", p.interval)
	for {
		if _, err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
			p.logger.Warn("node poll failed, keeping previous payload", "err", err)
		}
		select {
		case <-ctx.Done():
			p.logger.Info("node poller stopped")
			return
		case <-ticker.C:
		}
	}
}

// Refresh polls now. Concurrent callers share one upstream request.
func (p *Poller) Refresh(ctx context.Context) (Snapshot, error) {
	ch := p.group.DoChan("nodes", func() (any, error) {
		// The shared request must outlive any single caller.
		return p.poll(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Snapshot{}, res.Err
		}
		return *res.Val.(*Snapshot), nil
	}
}

func (p *Poller) poll(ctx context.Context) (*Snapshot, error) {
	start := p.now()
	raw, err := p.fetch(ctx)
	if err == nil {
		var resp *nodes.Response
		resp, err = nodes.Decode(raw)
		if err == nil {
			snap := &Snapshot{
				Raw:        raw,
				Nodes:      resp.Nodes,
				LastUpdate: resp.LastUpdate.Int64(),
				FetchedAt:  p.now(),
			}
			p.mu.Lock()
			p.snap = snap
			p.lastAttempt = start
			p.lastErr = nil
			p.mu.Unlock()

			if p.metrics != nil {
				p.metrics.pollDuration.Observe(time.Since(start).Seconds())
				p.metrics.lastSuccess.Set(float64(snap.FetchedAt.Unix()))
				p.metrics.observeStats(nodes.ComputeStats(snap.Nodes))
			}
			p.logger.Debug("polled nodes", "count", len(snap.Nodes))
			return snap, nil
		}
	}

	p.mu.Lock()
	p.lastAttempt = start
	p.lastErr = err
	p.mu.Unlock()
	if p.metrics != nil {
		p.metrics.pollErrors.Inc()
	}
	return nil, err
}

// Latest returns the last good snapshot.
func (p *Poller) Latest() (Snapshot, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.snap == nil {
		return Snapshot{}, ErrNotReady
	}
	return *p.snap, nil
}

// LatestRaw returns the last good raw payload and its fetch time.
func (p *Poller) LatestRaw() ([]byte, time.Time, bool) {
	s, err := p.Latest()
	if err != nil {
		return nil, time.Time{}, false
	}
	return s.Raw, s.FetchedAt, true
}

func (p *Poller) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	st := Status{Ready: p.snap != nil, LastAttempt: p.lastAttempt}
	if p.snap != nil {
		st.LastSuccess = p.snap.FetchedAt
	}
	if p.lastErr != nil {
		st.LastError = p.lastErr.Error()
	}
	return st
}
