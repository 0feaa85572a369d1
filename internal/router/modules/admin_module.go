package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/placasapp/placas-server/internal/container"
	handlers "github.com/placasapp/placas-server/internal/interface/http"
	"github.com/placasapp/placas-server/internal/interface/middleware"
	"github.com/placasapp/placas-server/pkg/helpers"
)

// AdminModule wires the user-administration endpoints behind Auth + RequireAdmin.
// GET/POST /api/admin/users, PATCH/DELETE /api/admin/users/:id
type AdminModule struct {
	Handler *handlers.AdminHandler
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(container.GetRedis(), m.JWT), middleware.RequireAdmin())
	{
		admin.GET("/users", m.Handler.List)
		admin.POST("/users", m.Handler.Create)
		admin.PATCH("/users/:id", m.Handler.Update)
		admin.DELETE("/users/:id", m.Handler.Delete)
	}
}
