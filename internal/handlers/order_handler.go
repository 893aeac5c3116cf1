package handlers

import (
	"net/http"
	"strconv"

	"garment_tracker/internal/middleware"
	"garment_tracker/internal/models"
	"garment_tracker/internal/services"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService services.OrderService
	userService  services.UserService
}

func NewOrderHandler(orderService services.OrderService, userService services.UserService) *OrderHandler {
	return &OrderHandler{orderService: orderService, userService: userService}
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de solicitud inválido"})
		return
	}

	order, err := h.orderService.Create(req, middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) List(c *gin.Context) {
	area := models.Area(c.Query("area"))
	if area != "" && !area.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "área inválida"})
		return
	}

	orders, err := h.orderService.List(area)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	order, err := h.orderService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) Pieces(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	pieces, err := h.orderService.GetPieces(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pieces)
}

func (h *OrderHandler) History(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	history, err := h.orderService.GetHistory(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *OrderHandler) Complete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.orderService.Complete(id, middleware.GetActor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

// Delete requires the active admin override password in addition to an admin
// session.
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req struct {
		AdminPassword string `json:"admin_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "se requiere la contraseña de administrador"})
		return
	}

	ok, err := h.userService.VerifyAdminPassword(req.AdminPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "contraseña de administrador incorrecta"})
		return
	}

	if err := h.orderService.Delete(id, middleware.GetActor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// parseID reads the :id path param, writing the 400 response itself on
// failure.
func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identificador inválido"})
		return 0, err
	}
	return uint(id), nil
}
