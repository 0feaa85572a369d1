package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/placasapp/placas-server/internal/application"
	"github.com/placasapp/placas-server/internal/interface/middleware"
	"github.com/placasapp/placas-server/pkg/helpers"
	"github.com/placasapp/placas-server/pkg/response"
)

// AuthHandler exposes login/logout/refresh, the public self-registration
// endpoint and the session introspection used by the UI.
type AuthHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.CookieManager
}

func NewAuthHandler(svc *application.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Username string `json:"user" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Username string `json:"user"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Informe usuário e senha.")
		return
	}
	res, pair, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.FromError(c, h.Logger, err, "Não foi possível iniciar a sessão.")
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.JSON(c, http.StatusOK, gin.H{"message": "Login realizado com sucesso.", "user": res})
}

// Refresh POST /api/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie("refresh_token")
	if err != nil || refresh == "" {
		response.Error(c, http.StatusUnauthorized, "Não autorizado.")
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.FromError(c, h.Logger, err, "Não foi possível renovar a sessão.")
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.JSON(c, http.StatusOK, gin.H{"message": "Sessão renovada."})
}

// Logout POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Svc.Logout(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	h.Cookies.Clear(c)
	response.JSON(c, http.StatusOK, gin.H{"message": "Sessão encerrada."})
}

// Session GET /api/session — echoes the authenticated claim so the UI can
// adjust to the role without another store lookup.
func (h *AuthHandler) Session(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"user": gin.H{
			"id":   c.GetString(middleware.CtxUserIDKey),
			"user": c.GetString(middleware.CtxUsernameKey),
			"role": c.GetString(middleware.CtxRoleKey),
		},
	})
}

// Register POST /api/register — public self-registration, always role=user.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Informe usuário, e-mail e senha para cadastro.")
		return
	}
	if _, err := h.Svc.Register(c.Request.Context(), req.Username, req.Email, req.Password); err != nil {
		response.FromError(c, h.Logger, err, "Não foi possível concluir o cadastro.")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Cadastro realizado com sucesso. Faça seu login."})
}
