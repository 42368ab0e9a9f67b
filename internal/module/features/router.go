package features

import (
	"os"

	"github.com/gin-gonic/gin"
)

// Router answers whether an allow-listed environment variable is set, so the
// UI can toggle optional panels without reading server configuration.
type Router struct {
	allowed map[string]struct{}
	lookup  func(string) (string, bool)
}

func NewRouter(allowed []string) *Router {
	return newRouter(allowed, os.LookupEnv)
}

func newRouter(allowed []string, lookup func(string) (string, bool)) *Router {
	m := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		if name != "" {
			m[name] = struct{}{}
		}
	}
	return &Router{allowed: m, lookup: lookup}
}

func (rt *Router) Register(r *gin.Engine) {
	r.GET("/api/v1/features/:name", rt.HandlerGetFeature) // GET /api/v1/features/{name}
}
