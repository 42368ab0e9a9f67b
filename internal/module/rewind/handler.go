package rewind

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"slurmview/client/history"
	"slurmview/internal/pkg/common/response"
	"slurmview/internal/pkg/nodes"
)

const dateLayout = "2006-01-02"

// Query selects a point in time plus the usual node filters.
type Query struct {
	Date      string `form:"date" binding:"required"`
	Time      string `form:"time" binding:"required"`
	Type      string `form:"type"`
	State     string `form:"state"`
	Partition string `form:"partition"`
	Feature   string `form:"feature"`
}

// Result is the cluster as recorded at TakenAt, the latest snapshot not
// after RequestedAt.
type Result struct {
	RequestedAt time.Time    `json:"requested_at"`
	TakenAt     time.Time    `json:"taken_at"`
	LastUpdate  int64        `json:"last_update"`
	Stats       nodes.Stats  `json:"stats"`
	Nodes       []nodes.Card `json:"nodes"`
}

// ParseDateTime interprets date (yyyy-MM-dd) and clock (HH:mm or HH:mm:ss)
// in loc.
func ParseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	date, clock = strings.TrimSpace(date), strings.TrimSpace(clock)
	layout := dateLayout + " 15:04"
	if strings.Count(clock, ":") == 2 {
		layout = dateLayout + " 15:04:05"
	}
	t, err := time.ParseInLocation(layout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q", date, clock)
	}
	return t, nil
}

func (rt *Router) ready(c *gin.Context) bool {
	if rt.store == nil {
		c.JSON(http.StatusServiceUnavailable, response.Response{Detail: "history is not enabled"})
		return false
	}
	return true
}

// @Summary Cluster state at a past time
// @Description Nodes and statistics from the latest snapshot taken at or before date+time (server location).
// @Tags rewind
// @Produce json
// @Param date query string true "yyyy-MM-dd" example("2024-03-01")
// @Param time query string true "HH:mm or HH:mm:ss" example("10:30")
// @Param type query string false "allNodes | gpuNodes | cpuNodes"
// @Param state query string false "allState | idleState | mixedState | allocState | downState | drainState"
// @Param partition query string false "partition name"
// @Param feature query string false "feature name"
// @Success 200 {object} response.Response{results=Result}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /rewind [get]
func (rt *Router) HandlerGetRewind(c *gin.Context) {
	var q Query
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, response.Response{Detail: "date and time are required"})
		return
	}
	at, err := ParseDateTime(q.Date, q.Time, rt.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Response{Detail: err.Error()})
		return
	}
	f, err := nodes.NewFilter(q.Type, q.State, q.Partition, q.Feature)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Response{Detail: err.Error()})
		return
	}
	if !rt.ready(c) {
		return
	}

	snap, err := rt.store.SnapshotAt(c.Request.Context(), at)
	if errors.Is(err, history.ErrNoSnapshot) {
		c.JSON(http.StatusNotFound, response.Response{Detail: "no snapshot recorded at or before " + at.Format(time.DateTime)})
		return
	}
	if err != nil {
		rt.logger.Error("unable to load snapshot", "at", at, "err", err)
		c.JSON(http.StatusServiceUnavailable, response.Response{Detail: "history store unavailable"})
		return
	}
	resp, err := nodes.Decode(snap.Payload)
	if err != nil {
		rt.logger.Error("stored snapshot is not a nodes payload", "id", snap.ID, "err", err)
		c.JSON(http.StatusInternalServerError, response.Response{Detail: "stored snapshot is corrupt"})
		return
	}

	matched := f.Apply(resp.Nodes)
	c.JSON(http.StatusOK, response.Response{
		Count: len(matched),
		Results: Result{
			RequestedAt: at,
			TakenAt:     snap.TakenAt.In(rt.loc),
			LastUpdate:  resp.LastUpdate.Int64(),
			Stats:       nodes.ComputeStats(resp.Nodes),
			Nodes:       nodes.BuildCards(matched),
		},
	})
}

// @Summary Snapshot times of a day
// @Tags rewind
// @Produce json
// @Param date query string true "yyyy-MM-dd" example("2024-03-01")
// @Success 200 {object} response.Response{results=[]string}
// @Failure 400 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /rewind/times [get]
func (rt *Router) HandlerGetTimes(c *gin.Context) {
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(c.Query("date")), rt.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Response{Detail: "date must be yyyy-MM-dd"})
		return
	}
	if !rt.ready(c) {
		return
	}
	times, err := rt.store.ListTimes(c.Request.Context(), day, day.AddDate(0, 0, 1))
	if err != nil {
		rt.logger.Error("unable to list snapshot times", "day", day, "err", err)
		c.JSON(http.StatusServiceUnavailable, response.Response{Detail: "history store unavailable"})
		return
	}
	out := make([]string, 0, len(times))
	for _, t := range times {
		out = append(out, t.In(rt.loc).Format("15:04:05"))
	}
	c.JSON(http.StatusOK, response.Response{Count: len(out), Results: out})
}
