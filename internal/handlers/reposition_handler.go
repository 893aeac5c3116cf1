package handlers

import (
	"net/http"

	"garment_tracker/internal/middleware"
	"garment_tracker/internal/models"
	"garment_tracker/internal/services"

	"github.com/gin-gonic/gin"
)

type RepositionHandler struct {
	repositionService services.RepositionService
}

func NewRepositionHandler(repositionService services.RepositionService) *RepositionHandler {
	return &RepositionHandler{repositionService: repositionService}
}

func (h *RepositionHandler) Create(c *gin.Context) {
	var req services.CreateRepositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de solicitud inválido"})
		return
	}

	reposition, err := h.repositionService.Create(req, middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reposition)
}

func (h *RepositionHandler) List(c *gin.Context) {
	actor := middleware.GetActor(c)
	area := actor.Area
	if q := models.Area(c.Query("area")); q != "" && q.IsValid() {
		area = q
	}
	includeFinished := c.Query("include_finished") == "true"

	repositions, err := h.repositionService.List(area, actor, includeFinished)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, repositions)
}

func (h *RepositionHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	reposition, err := h.repositionService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reposition)
}

func (h *RepositionHandler) Approve(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req struct {
		Action models.RepositionStatus `json:"action" binding:"required"`
		Notes  string                  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de solicitud inválido"})
		return
	}

	reposition, err := h.repositionService.Approve(id, req.Action, req.Notes, middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reposition)
}

func (h *RepositionHandler) RequestCompletion(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := h.repositionService.RequestCompletion(id, req.Notes, middleware.GetActor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "requested"})
}

func (h *RepositionHandler) Complete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := h.repositionService.Complete(id, req.Notes, middleware.GetActor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

func (h *RepositionHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "se requiere el motivo de eliminación"})
		return
	}

	if err := h.repositionService.Delete(id, req.Reason, middleware.GetActor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *RepositionHandler) RequestTransfer(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req services.CreateRepositionTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de solicitud inválido"})
		return
	}

	transfer, err := h.repositionService.RequestTransfer(id, req, middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, transfer)
}

func (h *RepositionHandler) ProcessTransfer(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req struct {
		Action models.TransferStatus `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de solicitud inválido"})
		return
	}

	transfer, err := h.repositionService.ProcessTransfer(id, req.Action, middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfer)
}

func (h *RepositionHandler) PendingTransfers(c *gin.Context) {
	actor := middleware.GetActor(c)
	area := actor.Area
	if actor.IsAdmin() {
		if q := models.Area(c.Query("area")); q != "" && q.IsValid() {
			area = q
		}
	}

	transfers, err := h.repositionService.PendingTransfersForArea(area)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfers)
}

func (h *RepositionHandler) History(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	history, err := h.repositionService.GetHistory(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *RepositionHandler) Tracking(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	tracking, err := h.repositionService.GetTracking(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tracking)
}
