// internal/models/status_history.go
package models

import "time"

// StatusHistory is one append-only entry in a task's transition log.
// FromStatus is nil only on the synthetic creation entry. Entries are
// written once, at the moment of a successful transition, and never
// mutated afterwards.
type StatusHistory struct {
	ID         string      `json:"id"`
	TaskID     TaskID      `json:"task_id"`
	FromStatus *TaskStatus `json:"from_status,omitempty"`
	ToStatus   TaskStatus  `json:"to_status"`
	ChangedAt  time.Time   `json:"changed_at"`
	ChangedBy  string      `json:"changed_by"`
	Comment    *string     `json:"comment,omitempty"`
	UserRole   UserRole    `json:"user_role"`
}

// IsInitialCreation reports whether this is the creation entry that
// anchors the task's created_at.
func (h *StatusHistory) IsInitialCreation() bool {
	return h.FromStatus == nil
}

func (h *StatusHistory) IsCompletion() bool {
	return h.ToStatus == StatusCompleted
}

func (h *StatusHistory) IsCancellation() bool {
	return h.ToStatus == StatusCancelled
}

// IsApproval reports whether this entry records a PendingReview ->
// Completed edge.
func (h *StatusHistory) IsApproval() bool {
	return h.FromStatus != nil && *h.FromStatus == StatusPendingReview && h.ToStatus == StatusCompleted
}

// DurationFromPrevious returns the elapsed time since a previous entry
// of the same task, or false when the entries do not chain.
func (h *StatusHistory) DurationFromPrevious(previous *StatusHistory) (time.Duration, bool) {
	if previous == nil || previous.TaskID != h.TaskID || previous.ChangedAt.After(h.ChangedAt) {
		return 0, false
	}
	return h.ChangedAt.Sub(previous.ChangedAt), true
}
