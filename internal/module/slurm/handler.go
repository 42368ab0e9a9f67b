package slurm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"slurmview/internal/pkg/common/response"
	"slurmview/internal/pkg/nodes"
	"slurmview/internal/pkg/poller"
)

const jsonContentType = "application/json; charset=utf-8"

// HandlerGetNodes serves the poller's payload; before the first poll it
// fetches synchronously.
// @Summary Raw slurmrestd node list
// @Description The latest /slurm/{ver}/nodes payload held by the poller, unchanged.
// @Tags slurm
// @Produce json
// @Success 200 {object} object
// @Failure 502 {object} response.Response
// @Router /slurm/nodes [get]
func (rt *Router) HandlerGetNodes(c *gin.Context) {
	snap, err := rt.nodes.Latest()
	if errors.Is(err, poller.ErrNotReady) {
		snap, err = rt.nodes.Refresh(c.Request.Context())
	}
	if err != nil {
		rt.logger.Error("unable to get nodes from slurmrestd", "err", err)
		c.JSON(http.StatusBadGateway, response.Response{Detail: "failed to load nodes"})
		return
	}
	c.Data(http.StatusOK, jsonContentType, snap.Raw)
}

// @Summary Raw slurmrestd job list
// @Tags slurm
// @Produce json
// @Success 200 {object} object
// @Failure 502 {object} response.Response
// @Router /slurm/jobs [get]
func (rt *Router) HandlerGetJobs(c *gin.Context) {
	rt.passThrough(c, "jobs", rt.upstream.Jobs)
}

// @Summary Running jobs on a node
// @Description Forwards to /slurmdb/{ver}/jobs?node={id}&state=running.
// @Tags slurm
// @Produce json
// @Param id path string true "node name" example("gn001")
// @Success 200 {object} object
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /slurm/jobs/node/{id} [get]
func (rt *Router) HandlerGetJobsOnNode(c *gin.Context) {
	node := strings.TrimSpace(c.Param("id"))
	if node == "" {
		c.JSON(http.StatusBadRequest, response.Response{Detail: "missing node in path"})
		return
	}
	// Only nodes the cluster reports are forwarded.
	snap, err := rt.nodes.Latest()
	if errors.Is(err, poller.ErrNotReady) {
		snap, err = rt.nodes.Refresh(c.Request.Context())
	}
	if err != nil {
		rt.logger.Error("unable to get nodes from slurmrestd", "err", err)
		c.JSON(http.StatusBadGateway, response.Response{Detail: "failed to load nodes"})
		return
	}
	if _, found := nodes.Find(snap.Nodes, node); !found {
		c.JSON(http.StatusNotFound, response.Response{Detail: "node not found"})
		return
	}
	rt.passThrough(c, "jobs/node/"+node, func(ctx context.Context) ([]byte, error) {
		return rt.upstream.RunningJobsOnNode(ctx, node)
	})
}

// @Summary Raw slurmrestd reservation list
// @Tags slurm
// @Produce json
// @Success 200 {object} object
// @Failure 502 {object} response.Response
// @Router /slurm/reservations [get]
func (rt *Router) HandlerGetReservations(c *gin.Context) {
	rt.passThrough(c, "reservations", rt.upstream.Reservations)
}

// @Summary Raw slurmrestd partition list
// @Tags slurm
// @Produce json
// @Success 200 {object} object
// @Failure 502 {object} response.Response
// @Router /slurm/partitions [get]
func (rt *Router) HandlerGetPartitions(c *gin.Context) {
	rt.passThrough(c, "partitions", rt.upstream.Partitions)
}

func (rt *Router) passThrough(c *gin.Context, key string, fetch poller.Fetcher) {
	body, err := rt.shared.Fetch(c.Request.Context(), key, fetch)
	if err != nil {
		rt.logger.Error("unable to get data from slurmrestd", "resource", key, "err", err)
		c.JSON(http.StatusBadGateway, response.Response{Detail: "failed to load " + key})
		return
	}
	c.Data(http.StatusOK, jsonContentType, body)
}
