package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskhub/internal/models"
	"taskhub/internal/pdf"
	"taskhub/internal/services"
)

type ReportHandler struct {
	service   services.TaskService
	generator pdf.Generator
}

func NewReportHandler(service services.TaskService, generator pdf.Generator) *ReportHandler {
	return &ReportHandler{service: service, generator: generator}
}

// parsePeriod reads from/to query params (RFC3339). Defaults: last 30
// days up to now.
func parsePeriod(c *gin.Context) (time.Time, time.Time, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from (RFC3339)")
		}
		start = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to (RFC3339)")
		}
		end = t
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must not be before from")
	}
	return start, end, nil
}

// GET /reports/completion?from=...&to=...
func (h *ReportHandler) Completion(c *gin.Context) {
	start, end, err := parsePeriod(c)
	if err != nil {
		log.Printf("[report][completion][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.service.CompletionReport(c.Request.Context(), start, end)
	if err != nil {
		log.Printf("[report][completion][err] %v", err)
		respondServiceError(c, err)
		return
	}
	log.Printf("[report][completion][ok] completed=%d", report.TotalCompletedTasks)
	c.JSON(http.StatusOK, completionResponse(report))
}

// GET /reports/completion/export?from=...&to=...
func (h *ReportHandler) ExportCompletion(c *gin.Context) {
	start, end, err := parsePeriod(c)
	if err != nil {
		log.Printf("[report][export][err] %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.service.CompletionReport(c.Request.Context(), start, end)
	if err != nil {
		log.Printf("[report][export][err] %v", err)
		respondServiceError(c, err)
		return
	}

	data := pdf.CompletionReportData{
		PeriodStart:         report.PeriodStart,
		PeriodEnd:           report.PeriodEnd,
		TotalCompletedTasks: report.TotalCompletedTasks,
		ApprovalRate:        report.ApprovalRate,
		GeneratedAt:         time.Now().UTC(),
	}
	if report.AverageCompletionTime != nil {
		data.AverageCompletionTime = services.FormatDuration(*report.AverageCompletionTime)
	}
	for _, p := range report.ByPriority {
		data.ByPriority = append(data.ByPriority, pdf.PriorityRow{
			Priority:    p.Priority,
			AverageTime: services.FormatDuration(p.AverageTime),
			TaskCount:   p.TaskCount,
		})
	}

	raw, err := h.generator.CompletionReport(data)
	if err != nil {
		log.Printf("[report][export][err] render: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
		return
	}
	log.Printf("[report][export][ok] bytes=%d", len(raw))

	filename := fmt.Sprintf("completion_%s_%s.pdf",
		report.PeriodStart.Format("20060102"), report.PeriodEnd.Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", raw)
}

// completionResponse formats durations alongside the raw aggregates.
func completionResponse(r *models.CompletionAnalytics) gin.H {
	byPriority := make([]gin.H, 0, len(r.ByPriority))
	for _, p := range r.ByPriority {
		byPriority = append(byPriority, gin.H{
			"priority":     p.Priority,
			"average_time": services.FormatDuration(p.AverageTime),
			"task_count":   p.TaskCount,
		})
	}
	resp := gin.H{
		"period_start":                 r.PeriodStart,
		"period_end":                   r.PeriodEnd,
		"total_completed_tasks":        r.TotalCompletedTasks,
		"completion_times_by_priority": byPriority,
		"approval_rate":                r.ApprovalRate,
	}
	if r.AverageCompletionTime != nil {
		resp["average_completion_time"] = services.FormatDuration(*r.AverageCompletionTime)
	}
	return resp
}
