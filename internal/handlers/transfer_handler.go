package handlers

import (
	"net/http"

	"garment_tracker/internal/middleware"
	"garment_tracker/internal/models"
	"garment_tracker/internal/services"

	"github.com/gin-gonic/gin"
)

type TransferHandler struct {
	transferService services.TransferService
}

func NewTransferHandler(transferService services.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

func (h *TransferHandler) Create(c *gin.Context) {
	var req services.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de solicitud inválido"})
		return
	}

	transfer, err := h.transferService.Request(req, middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transfer)
}

func (h *TransferHandler) Accept(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	transfer, err := h.transferService.Accept(id, middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}

func (h *TransferHandler) Reject(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	transfer, err := h.transferService.Reject(id, middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}

// Pending lists the actor's inbox: transfers waiting on their area.
func (h *TransferHandler) Pending(c *gin.Context) {
	actor := middleware.GetActor(c)
	area := actor.Area
	if actor.IsAdmin() {
		if q := models.Area(c.Query("area")); q != "" && q.IsValid() {
			area = q
		}
	}

	transfers, err := h.transferService.PendingForArea(area)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfers)
}

func (h *TransferHandler) List(c *gin.Context) {
	transfers, err := h.transferService.ListByArea(middleware.GetActor(c).Area)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfers)
}
