package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/placasapp/placas-server/internal/container"
	handlers "github.com/placasapp/placas-server/internal/interface/http"
	"github.com/placasapp/placas-server/internal/interface/middleware"
	"github.com/placasapp/placas-server/pkg/helpers"
)

// PlateModule wires the plate endpoints, all behind an authenticated session.
// POST /api/plates, GET /api/plates, DELETE /api/plates
type PlateModule struct {
	Handler *handlers.PlateHandler
	JWT     *helpers.JWTManager
}

func NewPlateModule(h *handlers.PlateHandler, jwt *helpers.JWTManager) *PlateModule {
	return &PlateModule{Handler: h, JWT: jwt}
}

func (m *PlateModule) Register(rg *gin.RouterGroup) {
	plates := rg.Group("/plates")
	plates.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		plates.POST("", m.Handler.Register)
		plates.GET("", m.Handler.Get)
		plates.DELETE("", m.Handler.Remove)
	}
}
