package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/placasapp/placas-server/internal/application"
	"github.com/placasapp/placas-server/internal/interface/middleware"
	"github.com/placasapp/placas-server/pkg/response"
)

// AdminHandler exposes the user-administration endpoints. Routes are mounted
// behind Auth + RequireAdmin; the acting admin id comes from the session
// claim and is passed explicitly into every mutation.
type AdminHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewAdminHandler(svc *application.UserService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Username string `json:"user"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Username *string `json:"user"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

// List GET /api/admin/users
func (h *AdminHandler) List(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context())
	if err != nil {
		response.FromError(c, h.Logger, err, "Falha ao listar usuários.")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"users": users})
}

// Create POST /api/admin/users
func (h *AdminHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Informe usuário, e-mail e senha para cadastro.")
		return
	}
	u, err := h.Svc.CreateUser(c.Request.Context(), req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		response.FromError(c, h.Logger, err, "Falha ao cadastrar usuário.")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("Usuário %s cadastrado com sucesso como %s.", u.Username, u.Role),
	})
}

// Update PATCH /api/admin/users/:id
func (h *AdminHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Dados inválidos.")
		return
	}
	actorID := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.UpdateUser(c.Request.Context(), actorID, c.Param("id"), application.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		response.FromError(c, h.Logger, err, "Falha ao atualizar usuário.")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Usuário atualizado com sucesso.", "user": u})
}

// Delete DELETE /api/admin/users/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	actorID := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.DeleteUser(c.Request.Context(), actorID, c.Param("id")); err != nil {
		response.FromError(c, h.Logger, err, "Falha ao excluir usuário.")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Usuário excluído com sucesso."})
}
