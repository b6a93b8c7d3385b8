// internal/models/analytics.go
package models

import "time"

// TaskAnalytics is derived from a task's status history on demand; it
// is never stored.
type TaskAnalytics struct {
	TaskID              TaskID         `json:"task_id"`
	TotalTimeInProgress *time.Duration `json:"total_time_in_progress,omitempty"`
	TimeToCompletion    *time.Duration `json:"time_to_completion,omitempty"`
	NumberOfTransitions int            `json:"number_of_transitions"`
	WasApproved         bool           `json:"was_approved"`
	ApprovalTime        *time.Duration `json:"approval_time,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	CompletedAt         *time.Time     `json:"completed_at,omitempty"`
}

// PriorityCompletion pairs a priority level with the average completion
// duration and the number of completed tasks in that bucket.
type PriorityCompletion struct {
	Priority    int           `json:"priority"`
	AverageTime time.Duration `json:"average_time"`
	TaskCount   int           `json:"task_count"`
}

// CompletionAnalytics aggregates per-task analytics for tasks completed
// within a date window.
type CompletionAnalytics struct {
	PeriodStart           time.Time            `json:"period_start"`
	PeriodEnd             time.Time            `json:"period_end"`
	TotalCompletedTasks   int                  `json:"total_completed_tasks"`
	AverageCompletionTime *time.Duration       `json:"average_completion_time,omitempty"`
	ByPriority            []PriorityCompletion `json:"completion_times_by_priority"`
	ApprovalRate          float64              `json:"approval_rate"`
}
