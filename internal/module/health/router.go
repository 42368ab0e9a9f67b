package health

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"slurmview/internal/pkg/poller"
)

// StatusSource reports the poller's health.
type StatusSource interface {
	Status() poller.Status
}

// Pinger checks that slurmrestd answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Router struct {
	status   StatusSource
	upstream Pinger
	gatherer prometheus.Gatherer
	version  string
}

// NewRouter serves /livez, /healthz and, when gatherer is set, /metrics.
// upstream may be nil, in which case /healthz skips the slurmrestd check.
func NewRouter(status StatusSource, upstream Pinger, gatherer prometheus.Gatherer, version string) *Router {
	return &Router{status: status, upstream: upstream, gatherer: gatherer, version: version}
}

func (rt *Router) Register(r *gin.Engine) {
	r.GET("/livez", rt.HandlerLivez)
	r.GET("/healthz", rt.HandlerHealthz)
	if rt.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(rt.gatherer, promhttp.HandlerOpts{})))
	}
}
