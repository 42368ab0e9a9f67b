package nodes

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"slurmview/internal/pkg/poller"
)

// NodeSource serves the poller's latest decoded node list.
type NodeSource interface {
	Latest() (poller.Snapshot, error)
}

// JobSource lists the jobs currently running on a node (slurmdb view).
type JobSource interface {
	RunningJobsOnNode(ctx context.Context, node string) ([]byte, error)
}

// Directory resolves user names to display names. Optional.
type Directory interface {
	DisplayNames(ctx context.Context, usernames []string) (map[string]string, error)
}

type Router struct {
	nodes     NodeSource
	jobs      JobSource
	directory Directory
	shared    *poller.Shared
	loc       *time.Location
	logger    *slog.Logger
}

// NewRouter wires the derived node views. directory may be nil.
func NewRouter(nodes NodeSource, jobs JobSource, directory Directory, shared *poller.Shared, loc *time.Location, logger *slog.Logger) *Router {
	if shared == nil {
		shared = poller.NewShared(0)
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		nodes:     nodes,
		jobs:      jobs,
		directory: directory,
		shared:    shared,
		loc:       loc,
		logger:    logger,
	}
}

func (rt *Router) Register(r *gin.Engine) {
	v1 := r.Group("/api/v1/nodes")
	{
		v1.GET("", rt.HandlerListNodes)              // GET /api/v1/nodes?type=&state=&partition=&feature=
		v1.GET("/options", rt.HandlerGetOptions)     // GET /api/v1/nodes/options
		v1.GET("/stats", rt.HandlerGetStats)         // GET /api/v1/nodes/stats
		v1.GET("/:name", rt.HandlerGetNode)          // GET /api/v1/nodes/{name}
		v1.GET("/:name/jobs", rt.HandlerGetNodeJobs) // GET /api/v1/nodes/{name}/jobs
	}
}
