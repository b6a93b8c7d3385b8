// internal/models/status.go
package models

import "fmt"

// TaskStatus defines the possible lifecycle statuses for a task.
// The string values are stored in postgres as-is.
type TaskStatus string

const (
	StatusPending       TaskStatus = "Pending"
	StatusInProgress    TaskStatus = "InProgress"
	StatusPendingReview TaskStatus = "PendingReview"
	StatusCompleted     TaskStatus = "Completed"
	StatusCancelled     TaskStatus = "Cancelled"
)

// AllTaskStatuses is the canonical ordering used when enumerating
// transition candidates. Consumers rely on this order being stable.
var AllTaskStatuses = []TaskStatus{
	StatusPending,
	StatusInProgress,
	StatusPendingReview,
	StatusCompleted,
	StatusCancelled,
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case StatusPending, StatusInProgress, StatusPendingReview, StatusCompleted, StatusCancelled:
		return TaskStatus(s), nil
	}
	return "", fmt.Errorf("invalid task status: %s", s)
}

// CanTransitionTo reports whether the raw status graph has an edge from s
// to target. Priority and role restrictions are layered on top of this
// by the transitions service; this relation never depends on them.
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	switch s {
	case StatusPending:
		return target == StatusInProgress || target == StatusCancelled
	case StatusInProgress:
		return target == StatusCompleted || target == StatusPendingReview || target == StatusCancelled
	case StatusPendingReview:
		return target == StatusCompleted || target == StatusCancelled
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
