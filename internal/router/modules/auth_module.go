package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/placasapp/placas-server/internal/container"
	handlers "github.com/placasapp/placas-server/internal/interface/http"
	"github.com/placasapp/placas-server/internal/interface/middleware"
	"github.com/placasapp/placas-server/pkg/helpers"
)

// AuthModule wires the session endpoints.
// Public: POST /api/login, POST /api/refresh, POST /api/register
// Protected: POST /api/logout, GET /api/session
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/login", m.Handler.Login)
	rg.POST("/refresh", m.Handler.Refresh)
	rg.POST("/register", m.Handler.Register)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/session", m.Handler.Session)
	}
}
