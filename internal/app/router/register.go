package router

import "github.com/gin-gonic/gin"

// 每个模块实现 Registrar，在 Register 中挂载自己的路由。
type Registrar interface{ Register(r *gin.Engine) }

// 全局注册表（集中声明要装配的模块）
var registrars []Registrar

func Register(rs ...Registrar) { registrars = append(registrars, rs...) }

// MountAll mounts every registered module on r, in registration order.
func MountAll(r *gin.Engine) {
	for _, rg := range registrars {
		if rg == nil {
			continue
		}
		rg.Register(r)
	}
}

// Mount mounts rs on r without touching the global registry.
func Mount(r *gin.Engine, rs ...Registrar) {
	for _, rg := range rs {
		rg.Register(r)
	}
}
