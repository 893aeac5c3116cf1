package handlers

import (
	"net/http"

	"garment_tracker/internal/middleware"
	"garment_tracker/internal/services"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(middleware.GetActor(c).Area)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
