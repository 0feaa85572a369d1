package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/placasapp/placas-server/internal/application"
	"github.com/placasapp/placas-server/pkg/response"
)

// PlateHandler exposes plate registration, removal and search. Every route
// requires an authenticated session.
type PlateHandler struct {
	Svc    *application.PlateService
	Logger *logrus.Logger
}

func NewPlateHandler(svc *application.PlateService, logger *logrus.Logger) *PlateHandler {
	return &PlateHandler{Svc: svc, Logger: logger}
}

type plateRequest struct {
	Plate string `json:"plate"`
}

// Register POST /api/plates
func (h *PlateHandler) Register(c *gin.Context) {
	var req plateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Informe uma placa válida.")
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), req.Plate)
	if err != nil {
		response.FromError(c, h.Logger, err, "Erro ao cadastrar placa.")
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Get GET /api/plates?query=... | ?recent=1
func (h *PlateHandler) Get(c *gin.Context) {
	if c.Query("recent") != "" {
		latest, err := h.Svc.Recent(c.Request.Context(), 0)
		if err != nil {
			response.FromError(c, h.Logger, err, "Erro ao buscar placas.")
			return
		}
		response.JSON(c, http.StatusOK, gin.H{"latest": latest})
		return
	}
	res, err := h.Svc.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		response.FromError(c, h.Logger, err, "Erro ao buscar placas.")
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Remove DELETE /api/plates
func (h *PlateHandler) Remove(c *gin.Context) {
	var req plateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Informe uma placa válida.")
		return
	}
	res, err := h.Svc.Remove(c.Request.Context(), req.Plate)
	if err != nil {
		response.FromError(c, h.Logger, err, "Erro ao remover placa.")
		return
	}
	response.JSON(c, http.StatusOK, res)
}
