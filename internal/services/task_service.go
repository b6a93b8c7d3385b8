// internal/services/task_service.go
package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskhub/internal/models"
	"taskhub/internal/repositories"
)

// Actor is the authenticated caller, extracted from the JWT by the
// request layer. The role is always threaded explicitly; the service
// never assumes a default.
type Actor struct {
	UserID int
	Email  string
	Role   models.UserRole
}

// StatusChangeResult is what a successful transition reports back:
// the updated task, a human summary, and the advisory routing hint for
// who should pick the task up next.
type StatusChangeResult struct {
	Task         *models.Task
	Message      string
	NextAssignee *models.UserRole
}

// TaskHistoryResult bundles a task's full transition log with the
// analytics derived from it.
type TaskHistoryResult struct {
	TaskID    models.TaskID
	History   []models.StatusHistory
	Analytics *models.TaskAnalytics
}

// TaskService defines the interface for task-related business logic.
type TaskService interface {
	Create(ctx context.Context, name string, priority *int, actor Actor) (*models.Task, error)
	GetByID(ctx context.Context, id models.TaskID) (*models.Task, error)
	GetAll(ctx context.Context) ([]models.Task, error)
	GetByPriority(ctx context.Context, priority int) ([]models.Task, error)
	Update(ctx context.Context, id models.TaskID, name *string, priority *int) (*models.Task, error)
	Delete(ctx context.Context, id models.TaskID) error

	ChangeStatus(ctx context.Context, id models.TaskID, target models.TaskStatus, comment *string, actor Actor) (*StatusChangeResult, error)
	ValidTransitionsFor(ctx context.Context, id models.TaskID, actor Actor) (*models.Task, []models.TaskStatus, error)
	History(ctx context.Context, id models.TaskID) (*TaskHistoryResult, error)
	Analytics(ctx context.Context, id models.TaskID) (*models.TaskAnalytics, error)
	CompletionReport(ctx context.Context, start, end time.Time) (*models.CompletionAnalytics, error)
	DeleteHistoryEntry(ctx context.Context, id string) error
}

type taskService struct {
	tasks       repositories.TaskRepository
	history     repositories.StatusHistoryRepository
	transitions *StatusTransitionsService
	analytics   *AnalyticsService
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(tasks repositories.TaskRepository, history repositories.StatusHistoryRepository) TaskService {
	return &taskService{
		tasks:       tasks,
		history:     history,
		transitions: NewStatusTransitionsService(),
		analytics:   NewAnalyticsService(),
	}
}

func (s *taskService) Create(ctx context.Context, name string, priority *int, actor Actor) (*models.Task, error) {
	task, err := models.NewTask(name, priority)
	if err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}
	if err := s.tasks.Store(ctx, task); err != nil {
		return nil, &RepositoryError{Err: err}
	}

	// Creation entry: from_status is nil, anchoring created_at for the
	// analytics pass.
	entry := &models.StatusHistory{
		ID:        uuid.NewString(),
		TaskID:    task.ID,
		ToStatus:  task.Status,
		ChangedAt: task.CreatedAt,
		ChangedBy: actor.Email,
		UserRole:  actor.Role,
	}
	if _, err := s.history.Save(ctx, entry); err != nil {
		return nil, &RepositoryError{Err: err}
	}
	return task, nil
}

func (s *taskService) GetByID(ctx context.Context, id models.TaskID) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, wrapRepoErr(err, "task")
	}
	return task, nil
}

func (s *taskService) GetAll(ctx context.Context) ([]models.Task, error) {
	tasks, err := s.tasks.FindAll(ctx)
	if err != nil {
		return nil, &RepositoryError{Err: err}
	}
	return tasks, nil
}

func (s *taskService) GetByPriority(ctx context.Context, priority int) ([]models.Task, error) {
	if priority < 1 || priority > 10 {
		return nil, validationf("priority must be between 1 and 10")
	}
	tasks, err := s.tasks.FindByPriority(ctx, priority)
	if err != nil {
		return nil, &RepositoryError{Err: err}
	}
	return tasks, nil
}

func (s *taskService) Update(ctx context.Context, id models.TaskID, name *string, priority *int) (*models.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, wrapRepoErr(err, "task")
	}
	if name != nil {
		if err := task.UpdateName(*name); err != nil {
			return nil, &ValidationError{Msg: err.Error()}
		}
	}
	if priority != nil {
		if err := task.UpdatePriority(priority); err != nil {
			return nil, &ValidationError{Msg: err.Error()}
		}
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, wrapRepoErr(err, "task")
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id models.TaskID) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return wrapRepoErr(err, "task")
	}
	return nil
}

// ChangeStatus is the single write path for transitions: policy check,
// guarded aggregate mutation, CAS update, history append. No partial
// state on failure.
func (s *taskService) ChangeStatus(ctx context.Context, id models.TaskID, target models.TaskStatus, comment *string, actor Actor) (*StatusChangeResult, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, wrapRepoErr(err, "task")
	}
	from := task.Status

	if err := s.transitions.CanTransition(from, target, task.IsHighPriority(), actor.Role); err != nil {
		return nil, err
	}
	if err := task.TransitionTo(target); err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, wrapRepoErr(err, "task")
	}

	// task.Status may differ from target: a high-priority "complete"
	// lands in review instead. The history records the actual move.
	entry := &models.StatusHistory{
		ID:         uuid.NewString(),
		TaskID:     task.ID,
		FromStatus: &from,
		ToStatus:   task.Status,
		ChangedAt:  task.UpdatedAt,
		ChangedBy:  actor.Email,
		Comment:    comment,
		UserRole:   actor.Role,
	}
	if _, err := s.history.Save(ctx, entry); err != nil {
		return nil, &RepositoryError{Err: err}
	}

	result := &StatusChangeResult{
		Task:    task,
		Message: s.transitions.StatusChangeMessage(from, task.Status),
	}
	if next, ok := s.transitions.NextAssigneeRole(from, task.Status); ok {
		result.NextAssignee = &next
	}
	return result, nil
}

func (s *taskService) ValidTransitionsFor(ctx context.Context, id models.TaskID, actor Actor) (*models.Task, []models.TaskStatus, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, nil, wrapRepoErr(err, "task")
	}
	return task, s.transitions.ValidTransitions(task.Status, task.IsHighPriority(), actor.Role), nil
}

func (s *taskService) History(ctx context.Context, id models.TaskID) (*TaskHistoryResult, error) {
	if _, err := s.tasks.FindByID(ctx, id); err != nil {
		return nil, wrapRepoErr(err, "task")
	}
	history, err := s.history.FindByTaskID(ctx, id)
	if err != nil {
		return nil, &RepositoryError{Err: err}
	}
	analytics, err := s.analytics.TaskAnalyticsFromHistory(history)
	if err != nil {
		return nil, err
	}
	return &TaskHistoryResult{TaskID: id, History: history, Analytics: analytics}, nil
}

func (s *taskService) Analytics(ctx context.Context, id models.TaskID) (*models.TaskAnalytics, error) {
	if _, err := s.tasks.FindByID(ctx, id); err != nil {
		return nil, wrapRepoErr(err, "task")
	}
	history, err := s.history.FindByTaskID(ctx, id)
	if err != nil {
		return nil, &RepositoryError{Err: err}
	}
	analytics, err := s.analytics.TaskAnalyticsFromHistory(history)
	if err != nil {
		return nil, err
	}
	if analytics == nil {
		return nil, notFoundf("no analytics found for task %d", id)
	}
	return analytics, nil
}

func (s *taskService) CompletionReport(ctx context.Context, start, end time.Time) (*models.CompletionAnalytics, error) {
	ids, err := s.history.CompletedTaskIDs(ctx, start, end)
	if err != nil {
		return nil, &RepositoryError{Err: err}
	}

	var list []models.TaskAnalytics
	for _, id := range ids {
		history, err := s.history.FindByTaskID(ctx, id)
		if err != nil {
			return nil, &RepositoryError{Err: err}
		}
		analytics, err := s.analytics.TaskAnalyticsFromHistory(history)
		if err != nil {
			return nil, err
		}
		if analytics != nil {
			list = append(list, *analytics)
		}
	}

	byPriority, err := s.history.AverageCompletionTimesByPriority(ctx)
	if err != nil {
		return nil, &RepositoryError{Err: err}
	}

	report := s.analytics.CompletionAnalytics(list, byPriority, start, end)
	return &report, nil
}

func (s *taskService) DeleteHistoryEntry(ctx context.Context, id string) error {
	if err := s.history.Delete(ctx, id); err != nil {
		return wrapRepoErr(err, "history entry")
	}
	return nil
}
