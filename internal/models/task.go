// internal/models/task.go
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TaskID identifies a task. Zero means the persistence layer has not
// assigned an id yet.
type TaskID int32

const maxTaskNameLength = 255

// Task is the lifecycle aggregate. Status is only ever changed through
// the named transition methods below, so it stays reachable from
// Pending via the status graph.
type Task struct {
	ID        TaskID     `json:"id"`
	Name      string     `json:"name"`
	Priority  *int       `json:"priority,omitempty"`
	Status    TaskStatus `json:"status"`
	Version   int64      `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func validateTaskName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("task name cannot be empty")
	}
	if len(name) > maxTaskNameLength {
		return fmt.Errorf("task name cannot exceed %d characters", maxTaskNameLength)
	}
	return nil
}

func validateTaskPriority(priority *int) error {
	if priority != nil && (*priority < 1 || *priority > 10) {
		return errors.New("priority must be between 1 and 10")
	}
	return nil
}

// NewTask creates a task in the initial Pending status with both
// timestamps set to the same instant.
func NewTask(name string, priority *int) (*Task, error) {
	name = strings.TrimSpace(name)
	if err := validateTaskName(name); err != nil {
		return nil, err
	}
	if err := validateTaskPriority(priority); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Task{
		Name:      name,
		Priority:  priority,
		Status:    StatusPending,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewTaskWithStatus rehydrates a task from storage. It runs the same
// name/priority validation but takes status and timestamps as given,
// since it restores state rather than transitioning.
func NewTaskWithStatus(id TaskID, name string, priority *int, status TaskStatus, createdAt, updatedAt time.Time) (*Task, error) {
	name = strings.TrimSpace(name)
	if err := validateTaskName(name); err != nil {
		return nil, err
	}
	if err := validateTaskPriority(priority); err != nil {
		return nil, err
	}
	return &Task{
		ID:        id,
		Name:      name,
		Priority:  priority,
		Status:    status,
		Version:   1,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// IsHighPriority reports whether the task requires the review gate
// before completion (priority present and <= 3).
func (t *Task) IsHighPriority() bool {
	return t.Priority != nil && *t.Priority <= 3
}

func (t *Task) setStatus(s TaskStatus) {
	t.Status = s
	t.UpdatedAt = time.Now().UTC()
}

// StartProgress moves the task into InProgress.
func (t *Task) StartProgress() error {
	if !t.Status.CanTransitionTo(StatusInProgress) {
		return fmt.Errorf("cannot start progress from status %s", t.Status)
	}
	t.setStatus(StatusInProgress)
	return nil
}

// Complete is the same-actor "I'm done" signal. High-priority tasks are
// redirected into PendingReview instead of completing directly; the
// approver role check happens at the policy level, not here.
func (t *Task) Complete() error {
	if t.IsHighPriority() {
		if !t.Status.CanTransitionTo(StatusPendingReview) {
			return fmt.Errorf("cannot submit for review from status %s", t.Status)
		}
		t.setStatus(StatusPendingReview)
		return nil
	}
	if !t.Status.CanTransitionTo(StatusCompleted) {
		return fmt.Errorf("cannot complete from status %s", t.Status)
	}
	t.setStatus(StatusCompleted)
	return nil
}

// ApproveCompletion completes a task that is waiting in review. The
// caller must have already passed the role check for the approval.
func (t *Task) ApproveCompletion() error {
	if t.Status != StatusPendingReview {
		return fmt.Errorf("can only approve completion from %s, current status is %s", StatusPendingReview, t.Status)
	}
	t.setStatus(StatusCompleted)
	return nil
}

// Cancel moves the task to Cancelled. Completed tasks cannot be
// cancelled.
func (t *Task) Cancel() error {
	if t.Status == StatusCompleted {
		return errors.New("cannot cancel a completed task")
	}
	t.setStatus(StatusCancelled)
	return nil
}

// TransitionTo dispatches to the named transition matching the target
// status. Requesting Completed while in PendingReview routes to the
// approval; requesting PendingReview directly only succeeds for a
// high-priority task currently in progress.
func (t *Task) TransitionTo(target TaskStatus) error {
	switch target {
	case StatusInProgress:
		return t.StartProgress()
	case StatusCompleted:
		if t.Status == StatusPendingReview {
			return t.ApproveCompletion()
		}
		return t.Complete()
	case StatusPendingReview:
		if t.IsHighPriority() && t.Status == StatusInProgress {
			return t.Complete()
		}
		return fmt.Errorf("cannot transition to %s from status %s", target, t.Status)
	case StatusCancelled:
		return t.Cancel()
	default:
		return fmt.Errorf("cannot transition to %s", target)
	}
}

func (t *Task) UpdateName(name string) error {
	name = strings.TrimSpace(name)
	if err := validateTaskName(name); err != nil {
		return err
	}
	t.Name = name
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (t *Task) UpdatePriority(priority *int) error {
	if err := validateTaskPriority(priority); err != nil {
		return err
	}
	t.Priority = priority
	t.UpdatedAt = time.Now().UTC()
	return nil
}
