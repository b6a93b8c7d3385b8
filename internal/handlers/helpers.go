package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskhub/internal/models"
	"taskhub/internal/services"
)

// tolerant about value types (int / int64 / float64 / string)
func getIntFromCtx(c *gin.Context, key string) (int, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n, true
		}
	}
	return 0, false
}

// actorFromCtx rebuilds the acting user from the context keys set by the
// auth middleware. Requests without a parseable role never get here, so
// a missing actor is a wiring bug, not a client error.
func actorFromCtx(c *gin.Context) (services.Actor, bool) {
	userID, ok := getIntFromCtx(c, "user_id")
	if !ok {
		return services.Actor{}, false
	}
	role, err := models.ParseUserRole(c.GetString("role"))
	if err != nil {
		return services.Actor{}, false
	}
	return services.Actor{
		UserID: userID,
		Email:  c.GetString("user_email"),
		Role:   role,
	}, true
}

// respondServiceError maps service error kinds onto status codes:
// validation 400, not-found 404, conflict 409, anything else 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseTaskID(c *gin.Context) (models.TaskID, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return models.TaskID(id), nil
}
