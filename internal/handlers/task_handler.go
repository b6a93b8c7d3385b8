package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskhub/internal/models"
	"taskhub/internal/services"
)

type TaskHandler struct {
	service services.TaskService

	// review notifications, both optional
	email services.EmailService
	tg    *services.TelegramService
}

func NewTaskHandler(service services.TaskService, email services.EmailService, tg *services.TelegramService) *TaskHandler {
	return &TaskHandler{service: service, email: email, tg: tg}
}

// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := actorFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return
	}
	log.Printf("[task][create] call by userID=%d role=%s", actor.UserID, actor.Role)

	var req struct {
		Name     string `json:"name" binding:"required"`
		Priority *int   `json:"priority"` // 1..10, 1 is most urgent
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.service.Create(c.Request.Context(), req.Name, req.Priority, actor)
	if err != nil {
		log.Printf("[task][create][err] %v", err)
		respondServiceError(c, err)
		return
	}
	log.Printf("[task][create][ok] id=%d name=%q", task.ID, task.Name)
	c.JSON(http.StatusCreated, task)
}

// GET /tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, err := parseTaskID(c)
	if err != nil {
		log.Printf("[task][getByID][err] invalid id: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	task, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[task][getByID][err] id=%d: %v", id, err)
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// GET /tasks?priority=3
func (h *TaskHandler) GetAll(c *gin.Context) {
	if v, ok := c.GetQuery("priority"); ok {
		priority, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("[task][list][err] bad priority=%q: %v", v, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
			return
		}
		tasks, err := h.service.GetByPriority(c.Request.Context(), priority)
		if err != nil {
			log.Printf("[task][list][err] priority=%d: %v", priority, err)
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, tasks)
		return
	}

	tasks, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		log.Printf("[task][list][err] %v", err)
		respondServiceError(c, err)
		return
	}
	log.Printf("[task][list][ok] count=%d", len(tasks))
	c.JSON(http.StatusOK, tasks)
}

// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, err := parseTaskID(c)
	if err != nil {
		log.Printf("[task][update][err] invalid id: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Priority *int    `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.service.Update(c.Request.Context(), id, req.Name, req.Priority)
	if err != nil {
		log.Printf("[task][update][err] id=%d: %v", id, err)
		respondServiceError(c, err)
		return
	}
	log.Printf("[task][update][ok] id=%d", id)
	c.JSON(http.StatusOK, task)
}

// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := parseTaskID(c)
	if err != nil {
		log.Printf("[task][delete][err] invalid id: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[task][delete][err] id=%d: %v", id, err)
		respondServiceError(c, err)
		return
	}
	log.Printf("[task][delete][ok] id=%d", id)
	c.Status(http.StatusNoContent)
}

// POST /tasks/:id/status { "to": "InProgress", "comment": "..." }
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	actor, ok := actorFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return
	}
	log.Printf("[task][status] call by userID=%d role=%s id_param=%s", actor.UserID, actor.Role, c.Param("id"))

	id, err := parseTaskID(c)
	if err != nil {
		log.Printf("[task][status][err] invalid id: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var body struct {
		To      string  `json:"to" binding:"required"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		log.Printf("[task][status][bind][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target, err := models.ParseTaskStatus(body.To)
	if err != nil {
		log.Printf("[task][status][err] bad target=%q: %v", body.To, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.ChangeStatus(c.Request.Context(), id, target, body.Comment, actor)
	if err != nil {
		log.Printf("[task][status][err] id=%d to=%s: %v", id, target, err)
		respondServiceError(c, err)
		return
	}
	log.Printf("[task][status][ok] id=%d new=%s", id, result.Task.Status)

	resp := gin.H{
		"task":    result.Task,
		"message": result.Message,
	}
	if result.NextAssignee != nil {
		resp["next_assignee_role"] = *result.NextAssignee
	}
	c.JSON(http.StatusOK, resp)

	// review hand-off: let the managers know
	if result.Task.Status == models.StatusPendingReview {
		h.notifyReviewRequested(result.Task, actor.Email)
	}
}

// GET /tasks/:id/transitions
func (h *TaskHandler) Transitions(c *gin.Context) {
	actor, ok := actorFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user in context"})
		return
	}

	id, err := parseTaskID(c)
	if err != nil {
		log.Printf("[task][transitions][err] invalid id: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	task, targets, err := h.service.ValidTransitionsFor(c.Request.Context(), id, actor)
	if err != nil {
		log.Printf("[task][transitions][err] id=%d: %v", id, err)
		respondServiceError(c, err)
		return
	}

	policy := services.NewStatusTransitionsService()
	type transitionOption struct {
		To              models.TaskStatus `json:"to"`
		RequiresComment bool              `json:"requires_comment"`
		NextAssignee    *models.UserRole  `json:"next_assignee_role,omitempty"`
	}
	options := make([]transitionOption, 0, len(targets))
	for _, to := range targets {
		opt := transitionOption{
			To:              to,
			RequiresComment: policy.RequiresComment(task.Status, to),
		}
		if next, ok := policy.NextAssigneeRole(task.Status, to); ok {
			opt.NextAssignee = &next
		}
		options = append(options, opt)
	}
	c.JSON(http.StatusOK, gin.H{
		"task_id":     task.ID,
		"status":      task.Status,
		"transitions": options,
	})
}

// GET /tasks/:id/history
func (h *TaskHandler) History(c *gin.Context) {
	id, err := parseTaskID(c)
	if err != nil {
		log.Printf("[task][history][err] invalid id: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	result, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		log.Printf("[task][history][err] id=%d: %v", id, err)
		respondServiceError(c, err)
		return
	}

	resp := gin.H{
		"task_id": result.TaskID,
		"history": result.History,
	}
	if result.Analytics != nil {
		resp["analytics"] = analyticsResponse(result.Analytics)
	}
	c.JSON(http.StatusOK, resp)
}

// GET /tasks/:id/analytics
func (h *TaskHandler) Analytics(c *gin.Context) {
	id, err := parseTaskID(c)
	if err != nil {
		log.Printf("[task][analytics][err] invalid id: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	analytics, err := h.service.Analytics(c.Request.Context(), id)
	if err != nil {
		log.Printf("[task][analytics][err] id=%d: %v", id, err)
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, analyticsResponse(analytics))
}

// DELETE /history/:id  (admin only, routed behind RequireRoles)
func (h *TaskHandler) DeleteHistoryEntry(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.DeleteHistoryEntry(c.Request.Context(), id); err != nil {
		log.Printf("[history][delete][err] id=%s: %v", id, err)
		respondServiceError(c, err)
		return
	}
	log.Printf("[history][delete][ok] id=%s", id)
	c.Status(http.StatusNoContent)
}

// analyticsResponse renders durations as human-readable strings next to
// the raw nanosecond values.
func analyticsResponse(a *models.TaskAnalytics) gin.H {
	resp := gin.H{
		"task_id":               a.TaskID,
		"number_of_transitions": a.NumberOfTransitions,
		"was_approved":          a.WasApproved,
		"created_at":            a.CreatedAt,
	}
	if a.TotalTimeInProgress != nil {
		resp["total_time_in_progress"] = services.FormatDuration(*a.TotalTimeInProgress)
	}
	if a.TimeToCompletion != nil {
		resp["time_to_completion"] = services.FormatDuration(*a.TimeToCompletion)
	}
	if a.ApprovalTime != nil {
		resp["approval_time"] = services.FormatDuration(*a.ApprovalTime)
	}
	if a.CompletedAt != nil {
		resp["completed_at"] = *a.CompletedAt
	}
	return resp
}

func (h *TaskHandler) notifyReviewRequested(task *models.Task, changedBy string) {
	if h.email != nil {
		if err := h.email.SendReviewRequestedEmail(task, changedBy); err != nil {
			log.Printf("[task][notify][email][err] id=%d: %v", task.ID, err)
		}
	}
	if h.tg != nil {
		if err := h.tg.NotifyReviewRequested(task, changedBy); err != nil {
			log.Printf("[task][notify][tg][err] id=%d: %v", task.ID, err)
		}
	}
}
