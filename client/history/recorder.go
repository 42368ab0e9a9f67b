package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"slurmview/internal/pkg/model"
	"slurmview/internal/pkg/nodes"
)

// ErrNoPayload is returned by Record before the poller has fetched anything.
var ErrNoPayload = errors.New("no nodes payload available yet")

// Source hands out the latest raw /nodes payload and when it was fetched.
type Source interface {
	LatestRaw() (raw []byte, fetchedAt time.Time, ok bool)
}

// Store is the subset of Client the recorder writes through.
type Store interface {
	Save(ctx context.Context, takenAt time.Time, nodeCount int, payload []byte) (*model.NodeSnapshot, error)
	Purge(ctx context.Context, before time.Time) (int64, error)
}

// Recorder periodically persists the poller's latest payload.
type Recorder struct {
	store     Store
	src       Source
	retention time.Duration
	logger    *slog.Logger
	cron      *cron.Cron
	now       func() time.Time

	lastSaved time.Time
}

// NewRecorder schedules Record on the cron spec (standard 5-field or
// descriptors such as "@every 15m").
func NewRecorder(store Store, src Source, schedule string, retention time.Duration, logger *slog.Logger) (*Recorder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recorder{
		store:     store,
		src:       src,
		retention: retention,
		logger:    logger,
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		now:       time.Now,
	}
	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return nil, fmt.Errorf("invalid record schedule %q: %w", schedule, err)
	}
	return r, nil
}

// Start runs the schedule in the background.
func (r *Recorder) Start() { r.cron.Start() }

// Stop stops the schedule and waits for a running record to finish.
func (r *Recorder) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Recorder) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := r.Record(ctx); err != nil {
		r.logger.Error("unable to record node snapshot", "err", err)
	}
}

// Record saves the latest payload once. A payload already recorded (same
// fetch time) is skipped. Old snapshots are purged when a retention is set.
func (r *Recorder) Record(ctx context.Context) error {
	raw, fetchedAt, ok := r.src.LatestRaw()
	if !ok {
		return ErrNoPayload
	}
	if !fetchedAt.After(r.lastSaved) {
		r.logger.Debug("nodes payload unchanged since last snapshot", "fetched_at", fetchedAt)
		return nil
	}
	resp, err := nodes.Decode(raw)
	if err != nil {
		return err
	}
	s, err := r.store.Save(ctx, fetchedAt, len(resp.Nodes), raw)
	if err != nil {
		return err
	}
	r.lastSaved = fetchedAt
	r.logger.Info("recorded node snapshot", "id", s.ID, "taken_at", s.TakenAt, "nodes", s.NodeCount)

	if r.retention > 0 {
		n, err := r.store.Purge(ctx, r.now().Add(-r.retention))
		if err != nil {
			return err
		}
		if n > 0 {
			r.logger.Info("purged old node snapshots", "count", n)
		}
	}
	return nil
}
