package services

import (
	"taskhub/internal/models"
)

// StatusTransitionsService layers the priority/role business rules on
// top of the raw status graph. It is stateless; rules are evaluated in
// a fixed order and the first failing rule decides the rejection
// reason.
type StatusTransitionsService struct{}

func NewStatusTransitionsService() *StatusTransitionsService {
	return &StatusTransitionsService{}
}

// CanTransition validates a single move. Rule order:
//  1. the raw graph must allow the edge,
//  2. high-priority tasks may not skip review on the way to Completed,
//  3. approving completion out of review needs an approver role.
func (s *StatusTransitionsService) CanTransition(from, to models.TaskStatus, isHighPriority bool, role models.UserRole) error {
	if !from.CanTransitionTo(to) {
		return validationf("invalid transition from %s to %s", from, to)
	}
	if from == models.StatusInProgress && to == models.StatusCompleted && isHighPriority {
		return validationf("high-priority tasks must go through review before completion")
	}
	if from == models.StatusPendingReview && to == models.StatusCompleted && !role.CanApprove() {
		return validationf("only managers can approve task completion")
	}
	return nil
}

// ValidTransitions filters the canonical status list against
// CanTransition. The canonical order is preserved so consumers get
// stable output.
func (s *StatusTransitionsService) ValidTransitions(current models.TaskStatus, isHighPriority bool, role models.UserRole) []models.TaskStatus {
	var valid []models.TaskStatus
	for _, status := range models.AllTaskStatuses {
		if s.CanTransition(current, status, isHighPriority, role) == nil {
			valid = append(valid, status)
		}
	}
	return valid
}

// RequiresComment marks transitions whose justification should be
// captured: approvals and cancellations. Advisory only; CanTransition
// never checks it, the caller decides whether to enforce.
func (s *StatusTransitionsService) RequiresComment(from, to models.TaskStatus) bool {
	if from == models.StatusPendingReview && to == models.StatusCompleted {
		return true
	}
	return to == models.StatusCancelled
}

// NextAssigneeRole suggests who should pick the task up after the
// transition: work entering review is handed to a manager. Advisory
// routing hint only.
func (s *StatusTransitionsService) NextAssigneeRole(from, to models.TaskStatus) (models.UserRole, bool) {
	if from == models.StatusInProgress && to == models.StatusPendingReview {
		return models.RoleManager, true
	}
	return "", false
}

// StatusChangeMessage is the human-readable summary returned to the
// caller after a successful transition.
func (s *StatusTransitionsService) StatusChangeMessage(from, to models.TaskStatus) string {
	switch {
	case from == models.StatusPending && to == models.StatusInProgress:
		return "Task started successfully"
	case from == models.StatusInProgress && to == models.StatusCompleted:
		return "Task completed successfully"
	case from == models.StatusInProgress && to == models.StatusPendingReview:
		return "Task sent for review"
	case from == models.StatusPendingReview && to == models.StatusCompleted:
		return "Task approved and completed"
	case to == models.StatusCancelled:
		return "Task cancelled"
	default:
		return "Task status updated"
	}
}
