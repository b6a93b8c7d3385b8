package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/handlers"
	"taskhub/internal/middleware"
	"taskhub/internal/models"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	taskHandler *handlers.TaskHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/login", authHandler.Login)
	r.POST("/register", authHandler.Register)

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	// USERS (Admin)
	users := r.Group("/users", middleware.RequireRoles(models.RoleAdmin))
	{
		users.POST("/", userHandler.Create)
		users.GET("/:id", userHandler.GetByID)
	}

	// TASKS
	tasks := r.Group("/tasks")
	{
		tasks.POST("/", taskHandler.Create)
		tasks.GET("/", taskHandler.GetAll)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
		tasks.POST("/:id/status", taskHandler.ChangeStatus)
		tasks.GET("/:id/transitions", taskHandler.Transitions)
		tasks.GET("/:id/history", taskHandler.History)
		tasks.GET("/:id/analytics", taskHandler.Analytics)
	}

	// audit correction path, admins only
	r.DELETE("/history/:id", middleware.RequireRoles(models.RoleAdmin), taskHandler.DeleteHistoryEntry)

	// REPORTS (Manager/Admin)
	reports := r.Group("/reports", middleware.RequireApprover())
	{
		reports.GET("/completion", reportHandler.Completion)
		reports.GET("/completion/export", reportHandler.ExportCompletion)
	}

	return r
}
