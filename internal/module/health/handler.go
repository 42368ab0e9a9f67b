package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"slurmview/internal/pkg/common/response"
	"slurmview/internal/pkg/poller"
)

const pingTimeout = 3 * time.Second

type Health struct {
	Version  string        `json:"version"`
	Poller   poller.Status `json:"poller"`
	Upstream *Upstream     `json:"slurmrestd,omitempty"`
}

// Upstream is the result of a slurmrestd ping made for this request.
type Upstream struct {
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

// HandlerLivez answers 200 while the process serves requests. It does not
// depend on slurmrestd, so it is safe as a liveness probe.
// @Summary Liveness
// @Tags health
// @Produce json
// @Success 200 {object} response.Response
// @Router /livez [get]
func (rt *Router) HandlerLivez(c *gin.Context) {
	c.JSON(http.StatusOK, response.Response{Detail: "ok"})
}

// HandlerHealthz is the readiness check: 200 once a poll has succeeded, 503
// before. A later failed poll stays 200 since the last good payload is still
// served. slurmrestd reachability is reported but does not change the code.
// @Summary Readiness and poll status
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{results=Health}
// @Failure 503 {object} response.Response{results=Health}
// @Router /healthz [get]
func (rt *Router) HandlerHealthz(c *gin.Context) {
	h := Health{Version: rt.version, Poller: rt.status.Status()}
	if rt.upstream != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		err := rt.upstream.Ping(ctx)
		cancel()
		h.Upstream = &Upstream{Reachable: err == nil}
		if err != nil {
			h.Upstream.Error = err.Error()
		}
	}
	code := http.StatusOK
	if !h.Poller.Ready {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, response.Response{Results: h})
}
