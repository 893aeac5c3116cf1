package handlers

import (
	"net/http"

	"garment_tracker/internal/middleware"
	"garment_tracker/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminHandler groups the user management endpoints. All of them require an
// admin session; the service layer enforces it again.
type AdminHandler struct {
	userService services.UserService
}

func NewAdminHandler(userService services.UserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req services.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de solicitud inválido"})
		return
	}

	user, err := h.userService.Register(req, middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) ResetPassword(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de solicitud inválido"})
		return
	}

	if err := h.userService.ResetPassword(id, req.Password, middleware.GetActor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.userService.Delete(id, middleware.GetActor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *AdminHandler) SetAdminPassword(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de solicitud inválido"})
		return
	}

	if err := h.userService.CreateAdminPassword(req.Password, middleware.GetActor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
