package rewind

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"slurmview/internal/pkg/model"
)

// Store reads recorded node snapshots.
type Store interface {
	SnapshotAt(ctx context.Context, t time.Time) (*model.NodeSnapshot, error)
	ListTimes(ctx context.Context, from, to time.Time) ([]time.Time, error)
}

type Router struct {
	store  Store
	loc    *time.Location
	logger *slog.Logger
}

// NewRouter wires the rewind views. A nil store answers 503.
func NewRouter(store Store, loc *time.Location, logger *slog.Logger) *Router {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{store: store, loc: loc, logger: logger}
}

func (rt *Router) Register(r *gin.Engine) {
	v1 := r.Group("/api/v1/rewind")
	{
		v1.GET("", rt.HandlerGetRewind)       // GET /api/v1/rewind?date=yyyy-MM-dd&time=HH:mm
		v1.GET("/times", rt.HandlerGetTimes) // GET /api/v1/rewind/times?date=yyyy-MM-dd
	}
}
