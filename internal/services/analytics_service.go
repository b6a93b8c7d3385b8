package services

import (
	"fmt"
	"sort"
	"time"

	"taskhub/internal/models"
)

// AnalyticsService reconstructs timing and approval facts from the
// append-only status history. All of it is pure computation; storage
// access stays in the repositories.
type AnalyticsService struct{}

func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{}
}

// TaskAnalyticsFromHistory derives per-task analytics from the ordered
// history of one task in a single forward pass. Returns nil for an
// empty history. A history without a creation entry cannot anchor
// time_to_completion and is rejected as a data-integrity failure
// instead of silently producing wrong numbers.
//
// The timing walk stops at the first terminal entry, but
// NumberOfTransitions still counts the full log.
func (s *AnalyticsService) TaskAnalyticsFromHistory(history []models.StatusHistory) (*models.TaskAnalytics, error) {
	if len(history) == 0 {
		return nil, nil
	}

	// The repository orders by changed_at, but the pass depends on it,
	// so sort again rather than trusting the supplier.
	sorted := make([]models.StatusHistory, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ChangedAt.Before(sorted[j].ChangedAt)
	})

	taskID := sorted[0].TaskID
	var createdAt time.Time
	found := false
	for i := range sorted {
		if sorted[i].IsInitialCreation() {
			createdAt = sorted[i].ChangedAt
			found = true
			break
		}
	}
	if !found {
		return nil, validationf("history for task %d has no creation entry", taskID)
	}

	var (
		totalInProgress    time.Duration
		timeToCompletion   *time.Duration
		approvalTime       *time.Duration
		completedAt        *time.Time
		wasApproved        bool
		inProgressStart    *time.Time
		pendingReviewStart *time.Time
	)

walk:
	for i := range sorted {
		entry := &sorted[i]
		switch entry.ToStatus {
		case models.StatusInProgress:
			t := entry.ChangedAt
			inProgressStart = &t
		case models.StatusPendingReview:
			if inProgressStart != nil {
				totalInProgress += entry.ChangedAt.Sub(*inProgressStart)
				inProgressStart = nil
			}
			t := entry.ChangedAt
			pendingReviewStart = &t
		case models.StatusCompleted:
			if inProgressStart != nil {
				totalInProgress += entry.ChangedAt.Sub(*inProgressStart)
				inProgressStart = nil
			}
			if entry.IsApproval() {
				wasApproved = true
				if pendingReviewStart != nil {
					d := entry.ChangedAt.Sub(*pendingReviewStart)
					approvalTime = &d
				}
			}
			t := entry.ChangedAt
			completedAt = &t
			d := entry.ChangedAt.Sub(createdAt)
			timeToCompletion = &d
			break walk
		case models.StatusCancelled:
			t := entry.ChangedAt
			completedAt = &t
			break walk
		}
	}

	analytics := &models.TaskAnalytics{
		TaskID:              taskID,
		TimeToCompletion:    timeToCompletion,
		NumberOfTransitions: len(history),
		WasApproved:         wasApproved,
		ApprovalTime:        approvalTime,
		CreatedAt:           createdAt,
		CompletedAt:         completedAt,
	}
	if totalInProgress > 0 {
		analytics.TotalTimeInProgress = &totalInProgress
	}
	return analytics, nil
}

// CompletionAnalytics aggregates per-task analytics for a completion
// window. The per-priority rows come from the repository, which groups
// completed tasks by priority.
func (s *AnalyticsService) CompletionAnalytics(list []models.TaskAnalytics, byPriority []models.PriorityCompletion, start, end time.Time) models.CompletionAnalytics {
	result := models.CompletionAnalytics{
		PeriodStart:         start,
		PeriodEnd:           end,
		TotalCompletedTasks: len(list),
		ByPriority:          byPriority,
	}

	var total time.Duration
	completed := 0
	approved := 0
	for i := range list {
		if list[i].TimeToCompletion != nil {
			total += *list[i].TimeToCompletion
			completed++
		}
		if list[i].WasApproved {
			approved++
		}
	}
	if completed > 0 {
		avg := total / time.Duration(completed)
		result.AverageCompletionTime = &avg
	}
	if len(list) > 0 {
		result.ApprovalRate = float64(approved) / float64(len(list))
	}
	return result
}

// FormatDuration renders a duration the way the API reports it, e.g.
// "2d 3h 4m 5s".
func FormatDuration(d time.Duration) string {
	totalSeconds := int64(d.Seconds())
	days := totalSeconds / 86400
	hours := (totalSeconds % 86400) / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
