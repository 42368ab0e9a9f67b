package features

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slurmview/internal/pkg/common/response"
)

type Feature struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// @Summary Feature flag
// @Description Whether the allow-listed environment variable is set to a non-empty value. Values are never returned.
// @Tags features
// @Produce json
// @Param name path string true "environment variable name"
// @Success 200 {object} response.Response{results=Feature}
// @Failure 404 {object} response.Response
// @Router /features/{name} [get]
func (rt *Router) HandlerGetFeature(c *gin.Context) {
	name := c.Param("name")
	if _, ok := rt.allowed[name]; !ok {
		c.JSON(http.StatusNotFound, response.Response{Detail: "unknown feature"})
		return
	}
	v, ok := rt.lookup(name)
	c.JSON(http.StatusOK, response.Response{Results: Feature{Name: name, Enabled: ok && v != ""}})
}
