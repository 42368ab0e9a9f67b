package slurm

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"slurmview/internal/pkg/poller"
)

// Upstream is the part of the slurmrestd client the proxy forwards to.
type Upstream interface {
	Jobs(ctx context.Context) ([]byte, error)
	RunningJobsOnNode(ctx context.Context, node string) ([]byte, error)
	Reservations(ctx context.Context) ([]byte, error)
	Partitions(ctx context.Context) ([]byte, error)
}

// NodeSource serves the poller's latest node payload.
type NodeSource interface {
	Latest() (poller.Snapshot, error)
	Refresh(ctx context.Context) (poller.Snapshot, error)
}

type Router struct {
	upstream Upstream
	nodes    NodeSource
	shared   *poller.Shared
	logger   *slog.Logger
}

func NewRouter(upstream Upstream, nodes NodeSource, shared *poller.Shared, logger *slog.Logger) *Router {
	if shared == nil {
		shared = poller.NewShared(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{upstream: upstream, nodes: nodes, shared: shared, logger: logger}
}

func (rt *Router) Register(r *gin.Engine) {
	v1 := r.Group("/api/v1/slurm")
	{
		v1.GET("/nodes", rt.HandlerGetNodes)               // GET /api/v1/slurm/nodes
		v1.GET("/jobs", rt.HandlerGetJobs)                 // GET /api/v1/slurm/jobs
		v1.GET("/jobs/node/:id", rt.HandlerGetJobsOnNode)  // GET /api/v1/slurm/jobs/node/{id}
		v1.GET("/reservations", rt.HandlerGetReservations) // GET /api/v1/slurm/reservations
		v1.GET("/partitions", rt.HandlerGetPartitions)     // GET /api/v1/slurm/partitions
	}
}
