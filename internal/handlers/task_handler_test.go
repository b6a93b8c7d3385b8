package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"taskhub/internal/models"
	"taskhub/internal/services"
)

type stubTaskService struct {
	changeStatus func(ctx context.Context, id models.TaskID, target models.TaskStatus, comment *string, actor services.Actor) (*services.StatusChangeResult, error)
	getByID      func(ctx context.Context, id models.TaskID) (*models.Task, error)
}

func (s *stubTaskService) Create(context.Context, string, *int, services.Actor) (*models.Task, error) {
	return nil, nil
}

func (s *stubTaskService) GetByID(ctx context.Context, id models.TaskID) (*models.Task, error) {
	return s.getByID(ctx, id)
}

func (s *stubTaskService) GetAll(context.Context) ([]models.Task, error) { return nil, nil }

func (s *stubTaskService) GetByPriority(context.Context, int) ([]models.Task, error) {
	return nil, nil
}

func (s *stubTaskService) Update(context.Context, models.TaskID, *string, *int) (*models.Task, error) {
	return nil, nil
}

func (s *stubTaskService) Delete(context.Context, models.TaskID) error { return nil }

func (s *stubTaskService) ChangeStatus(ctx context.Context, id models.TaskID, target models.TaskStatus, comment *string, actor services.Actor) (*services.StatusChangeResult, error) {
	return s.changeStatus(ctx, id, target, comment, actor)
}

func (s *stubTaskService) ValidTransitionsFor(context.Context, models.TaskID, services.Actor) (*models.Task, []models.TaskStatus, error) {
	return nil, nil, nil
}

func (s *stubTaskService) History(context.Context, models.TaskID) (*services.TaskHistoryResult, error) {
	return nil, nil
}

func (s *stubTaskService) Analytics(context.Context, models.TaskID) (*models.TaskAnalytics, error) {
	return nil, nil
}

func (s *stubTaskService) CompletionReport(context.Context, time.Time, time.Time) (*models.CompletionAnalytics, error) {
	return nil, nil
}

func (s *stubTaskService) DeleteHistoryEntry(context.Context, string) error { return nil }

func statusRouter(svc services.TaskService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Set("user_email", "alice@example.com")
		c.Set("role", string(models.RoleUser))
	})
	h := NewTaskHandler(svc, nil, nil)
	r.POST("/tasks/:id/status", h.ChangeStatus)
	r.GET("/tasks/:id", h.GetByID)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChangeStatusErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", &services.ValidationError{Msg: "invalid transition from Pending to Completed"}, http.StatusBadRequest},
		{"not found", &services.NotFoundError{Msg: "task 7 not found"}, http.StatusNotFound},
		{"conflict", &services.ConflictError{Msg: "task 7 was modified concurrently"}, http.StatusConflict},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc := &stubTaskService{
				changeStatus: func(context.Context, models.TaskID, models.TaskStatus, *string, services.Actor) (*services.StatusChangeResult, error) {
					return nil, c.err
				},
			}
			w := doJSON(t, statusRouter(svc), http.MethodPost, "/tasks/7/status", `{"to":"Completed"}`)
			if w.Code != c.code {
				t.Fatalf("code=%d, want %d (body=%s)", w.Code, c.code, w.Body.String())
			}
		})
	}
}

func TestChangeStatusBadPayload(t *testing.T) {
	svc := &stubTaskService{
		changeStatus: func(context.Context, models.TaskID, models.TaskStatus, *string, services.Actor) (*services.StatusChangeResult, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	r := statusRouter(svc)

	if w := doJSON(t, r, http.MethodPost, "/tasks/abc/status", `{"to":"InProgress"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: code=%d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/tasks/7/status", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing to: code=%d", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/tasks/7/status", `{"to":"Done"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown status: code=%d", w.Code)
	}
}

func TestChangeStatusSuccessPayload(t *testing.T) {
	next := models.RoleManager
	svc := &stubTaskService{
		changeStatus: func(_ context.Context, id models.TaskID, target models.TaskStatus, _ *string, actor services.Actor) (*services.StatusChangeResult, error) {
			if actor.Email != "alice@example.com" || actor.Role != models.RoleUser {
				t.Fatalf("actor=%+v", actor)
			}
			task := &models.Task{ID: id, Name: "Hotfix", Status: models.StatusPendingReview}
			return &services.StatusChangeResult{Task: task, Message: "Task sent for review", NextAssignee: &next}, nil
		},
	}
	w := doJSON(t, statusRouter(svc), http.MethodPost, "/tasks/7/status", `{"to":"PendingReview"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("code=%d body=%s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"message":"Task sent for review"`) {
		t.Errorf("message missing: %s", body)
	}
	if !strings.Contains(body, `"next_assignee_role":"Manager"`) {
		t.Errorf("routing hint missing: %s", body)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := &stubTaskService{
		getByID: func(context.Context, models.TaskID) (*models.Task, error) {
			return nil, &services.NotFoundError{Msg: "task 9 not found"}
		},
	}
	w := doJSON(t, statusRouter(svc), http.MethodGet, "/tasks/9", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("code=%d", w.Code)
	}
}
