package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskhub/internal/models"
	"taskhub/internal/services"
)

type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// POST /users  (admin only, routed behind RequireRoles)
func (h *UserHandler) Create(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"` // User|Manager|Admin
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[user][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := models.ParseUserRole(req.Role)
	if err != nil {
		log.Printf("[user][create][err] bad role=%q: %v", req.Role, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Name, req.Email, req.Password, role)
	if err != nil {
		log.Printf("[user][create][err] email=%q: %v", req.Email, err)
		respondServiceError(c, err)
		return
	}
	log.Printf("[user][create][ok] userID=%d role=%s", user.ID, user.Role)
	c.JSON(http.StatusCreated, user)
}

// GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	user, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[user][getByID][err] id=%d: %v", id, err)
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
