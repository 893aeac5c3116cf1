package handlers

import (
	"net/http"
	"time"

	"garment_tracker/internal/middleware"
	"garment_tracker/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService services.UserService
	jwtSecret   string
	tokenTTL    time.Duration
}

func NewAuthHandler(userService services.UserService, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{userService: userService, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de solicitud inválido"})
		return
	}

	user, err := h.userService.Authenticate(req.Username, req.Password)
	if err != nil {
		if services.IsAuthorization(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	token, err := middleware.GenerateToken(user, h.jwtSecret, h.tokenTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) Me(c *gin.Context) {
	actor := middleware.GetActor(c)
	c.JSON(http.StatusOK, gin.H{
		"id":                     actor.ID,
		"name":                   actor.Name,
		"area":                   actor.Area,
		"can_approve_completion": actor.CanApproveCompletion,
	})
}
