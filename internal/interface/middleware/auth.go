package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/placasapp/placas-server/pkg/helpers"
	"github.com/placasapp/placas-server/pkg/response"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUserIDKey   = "userID"
	CtxUsernameKey = "userName"
	CtxRoleKey     = "userRole"
)

// Auth validates the access-token cookie and, when a Redis client is
// configured, requires a live server-side session so logout is effective.
// Role is taken from the signed claim, not re-read from the store; a
// demotion only applies after the affected session re-authenticates.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.AbortError(c, http.StatusUnauthorized, "Não autorizado.")
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "Não autorizado.")
			return
		}

		if rdb != nil {
			data, err := rdb.HGetAll(c.Request.Context(), "user:session:"+claims.UserID).Result()
			if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
				response.AbortError(c, http.StatusUnauthorized, "Não autorizado.")
				return
			}
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUsernameKey, claims.Username)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}

// RequireAdmin rejects authenticated non-admin sessions. It runs after Auth
// and re-checks the role per request since API routes are reachable
// directly.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserIDKey) == "" {
			response.AbortError(c, http.StatusUnauthorized, "Não autorizado.")
			return
		}
		if c.GetString(CtxRoleKey) != "admin" {
			response.AbortError(c, http.StatusForbidden, "Acesso restrito ao administrador.")
			return
		}
		c.Next()
	}
}
