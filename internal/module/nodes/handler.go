package nodes

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"slurmview/client/slurmrest"
	"slurmview/internal/pkg/common/response"
	"slurmview/internal/pkg/model"
	"slurmview/internal/pkg/nodes"
	"slurmview/internal/pkg/poller"
)

// ListQuery holds the filter menu selections.
type ListQuery struct {
	Type      string `form:"type"`
	State     string `form:"state"`
	Partition string `form:"partition"`
	Feature   string `form:"feature"`
}

// Options feeds the partition and feature filter menus.
type Options struct {
	Partitions []string `json:"partitions"`
	Features   []string `json:"features"`
}

// Overview is the dashboard header: aggregate counts plus freshness.
type Overview struct {
	Stats          nodes.Stats `json:"stats"`
	LastUpdate     int64       `json:"last_update"`
	LastUpdateText string      `json:"last_update_text"`
	FetchedAt      time.Time   `json:"fetched_at"`
}

// NodeJob is a running job annotated with its owner's display name.
type NodeJob struct {
	JobID           int64    `json:"job_id"`
	Name            string   `json:"name"`
	User            string   `json:"user"`
	UserDisplayName string   `json:"user_display_name,omitempty"`
	Account         string   `json:"account"`
	Partition       string   `json:"partition"`
	State           []string `json:"state"`
}

// latest answers 503 itself when nothing has been polled yet.
func (rt *Router) latest(c *gin.Context) (poller.Snapshot, bool) {
	snap, err := rt.nodes.Latest()
	if err != nil {
		if !errors.Is(err, poller.ErrNotReady) {
			rt.logger.Error("unable to get nodes", "err", err)
		}
		c.JSON(http.StatusServiceUnavailable, response.Response{Detail: "node data not available yet"})
		return poller.Snapshot{}, false
	}
	return snap, true
}

// HandlerListNodes returns node cards matching the filter menus.
// @Summary Filtered node cards
// @Description Conjunction of type, state, partition and feature filters. Order follows slurmrestd.
// @Tags nodes
// @Produce json
// @Param type query string false "allNodes | gpuNodes | cpuNodes"
// @Param state query string false "allState | idleState | mixedState | allocState | downState | drainState"
// @Param partition query string false "partition name or allPartitions"
// @Param feature query string false "feature name or allFeatures"
// @Param paging query bool false "false returns every node"
// @Param page query int false "page, from 1"
// @Param page_size query int false "page size, 1-100"
// @Success 200 {object} response.Response{results=[]nodes.Card}
// @Failure 400 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /nodes [get]
func (rt *Router) HandlerListNodes(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, response.Response{Detail: "invalid query parameters"})
		return
	}
	f, err := nodes.NewFilter(q.Type, q.State, q.Partition, q.Feature)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Response{Detail: err.Error()})
		return
	}

	var pq model.PagingQuery
	if err := c.ShouldBindQuery(&pq); err != nil {
		c.JSON(http.StatusBadRequest, response.Response{Detail: "invalid paging parameters"})
		return
	}
	pq.SetDefaults(1, 20, 100)
	if err := pq.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, response.Response{Detail: "invalid paging parameters"})
		return
	}

	snap, ok := rt.latest(c)
	if !ok {
		return
	}
	cards := nodes.BuildCards(f.Apply(snap.Nodes))
	total := len(cards)

	if !pq.Enabled() {
		c.JSON(http.StatusOK, response.Response{Count: total, Results: cards})
		return
	}
	prevURL, nextURL := response.BuildPageLinks(c.Request.URL, pq.Page, pq.PageSize, total)
	c.JSON(http.StatusOK, response.Response{
		Count:    total,
		Previous: prevURL,
		Next:     nextURL,
		Results:  response.Page(cards, pq.Offset(), pq.Limit()),
	})
}

// @Summary Filter menu options
// @Description Unique partitions and features of the current node list, first-seen order.
// @Tags nodes
// @Produce json
// @Success 200 {object} response.Response{results=Options}
// @Failure 503 {object} response.Response
// @Router /nodes/options [get]
func (rt *Router) HandlerGetOptions(c *gin.Context) {
	snap, ok := rt.latest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response.Response{Results: Options{
		Partitions: nodes.UniquePartitions(snap.Nodes),
		Features:   nodes.UniqueFeatures(snap.Nodes),
	}})
}

// @Summary Cluster statistics
// @Tags nodes
// @Produce json
// @Success 200 {object} response.Response{results=Overview}
// @Failure 503 {object} response.Response
// @Router /nodes/stats [get]
func (rt *Router) HandlerGetStats(c *gin.Context) {
	snap, ok := rt.latest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, response.Response{Results: Overview{
		Stats:          nodes.ComputeStats(snap.Nodes),
		LastUpdate:     snap.LastUpdate,
		LastUpdateText: nodes.FormatUnix(snap.LastUpdate, rt.loc),
		FetchedAt:      snap.FetchedAt,
	}})
}

// @Summary Node card
// @Tags nodes
// @Produce json
// @Param name path string true "node name or hostname"
// @Success 200 {object} response.Response{results=nodes.Card}
// @Failure 404 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /nodes/{name} [get]
func (rt *Router) HandlerGetNode(c *gin.Context) {
	snap, ok := rt.latest(c)
	if !ok {
		return
	}
	n, found := nodes.Find(snap.Nodes, c.Param("name"))
	if !found {
		c.JSON(http.StatusNotFound, response.Response{Detail: "node not found"})
		return
	}
	c.JSON(http.StatusOK, response.Response{Results: nodes.BuildCard(n)})
}

// HandlerGetNodeJobs lists the jobs running on a node. Owner display names
// come from LDAP when a directory is configured; lookup failures only drop
// the names.
// @Summary Running jobs on a node
// @Tags nodes
// @Produce json
// @Param name path string true "node name or hostname"
// @Success 200 {object} response.Response{results=[]NodeJob}
// @Failure 404 {object} response.Response
// @Failure 502 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /nodes/{name}/jobs [get]
func (rt *Router) HandlerGetNodeJobs(c *gin.Context) {
	snap, ok := rt.latest(c)
	if !ok {
		return
	}
	n, found := nodes.Find(snap.Nodes, c.Param("name"))
	if !found {
		c.JSON(http.StatusNotFound, response.Response{Detail: "node not found"})
		return
	}

	ctx := c.Request.Context()
	raw, err := rt.shared.Fetch(ctx, "jobs/node/"+n.Name, func(ctx context.Context) ([]byte, error) {
		return rt.jobs.RunningJobsOnNode(ctx, n.Name)
	})
	if err != nil {
		rt.logger.Error("unable to get running jobs", "node", n.Name, "err", err)
		c.JSON(http.StatusBadGateway, response.Response{Detail: "failed to load jobs"})
		return
	}
	jobs, err := slurmrest.DecodeAccountingJobs(raw)
	if err != nil {
		rt.logger.Error("unable to decode running jobs", "node", n.Name, "err", err)
		c.JSON(http.StatusBadGateway, response.Response{Detail: "failed to load jobs"})
		return
	}

	var names map[string]string
	if rt.directory != nil {
		names, err = rt.directory.DisplayNames(ctx, jobs.Users())
		if err != nil {
			rt.logger.Warn("unable to resolve job owners", "node", n.Name, "err", err)
		}
	}

	out := make([]NodeJob, 0, len(jobs.Jobs))
	for _, j := range jobs.Jobs {
		state := []string(j.State.Current)
		if state == nil {
			state = []string{}
		}
		out = append(out, NodeJob{
			JobID:           j.JobID,
			Name:            j.Name,
			User:            j.User,
			UserDisplayName: names[j.User],
			Account:         j.Account,
			Partition:       j.Partition,
			State:           state,
		})
	}
	c.JSON(http.StatusOK, response.Response{Count: len(out), Results: out})
}
