package services

import (
	"testing"
	"time"

	"taskhub/internal/models"
)

var historyBase = time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

func entry(taskID models.TaskID, from *models.TaskStatus, to models.TaskStatus, at time.Time) models.StatusHistory {
	return models.StatusHistory{
		TaskID:     taskID,
		FromStatus: from,
		ToStatus:   to,
		ChangedAt:  at,
		ChangedBy:  "alice@example.com",
		UserRole:   models.RoleUser,
	}
}

func statusPtr(s models.TaskStatus) *models.TaskStatus { return &s }

func TestTaskAnalyticsEmptyHistory(t *testing.T) {
	s := NewAnalyticsService()
	got, err := s.TaskAnalyticsFromHistory(nil)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got != nil {
		t.Fatalf("got=%+v, want nil", got)
	}
}

func TestTaskAnalyticsCreationOnly(t *testing.T) {
	s := NewAnalyticsService()
	history := []models.StatusHistory{
		entry(1, nil, models.StatusPending, historyBase),
	}
	got, err := s.TaskAnalyticsFromHistory(history)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got.NumberOfTransitions != 1 {
		t.Errorf("transitions=%d, want 1", got.NumberOfTransitions)
	}
	if got.TimeToCompletion != nil || got.CompletedAt != nil || got.TotalTimeInProgress != nil {
		t.Errorf("open task must have no completion facts: %+v", got)
	}
	if !got.CreatedAt.Equal(historyBase) {
		t.Errorf("created_at=%v", got.CreatedAt)
	}
}

func TestTaskAnalyticsDirectCompletion(t *testing.T) {
	s := NewAnalyticsService()
	history := []models.StatusHistory{
		entry(1, nil, models.StatusPending, historyBase),
		entry(1, statusPtr(models.StatusPending), models.StatusInProgress, historyBase.Add(1*time.Hour)),
		entry(1, statusPtr(models.StatusInProgress), models.StatusCompleted, historyBase.Add(3*time.Hour)),
	}
	got, err := s.TaskAnalyticsFromHistory(history)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got.TotalTimeInProgress == nil || *got.TotalTimeInProgress != 2*time.Hour {
		t.Errorf("in_progress=%v, want 2h", got.TotalTimeInProgress)
	}
	if got.TimeToCompletion == nil || *got.TimeToCompletion != 3*time.Hour {
		t.Errorf("time_to_completion=%v, want 3h", got.TimeToCompletion)
	}
	if got.WasApproved {
		t.Errorf("direct completion is not an approval")
	}
	if got.ApprovalTime != nil {
		t.Errorf("approval_time=%v, want nil", got.ApprovalTime)
	}
	if got.NumberOfTransitions != 3 {
		t.Errorf("transitions=%d, want 3", got.NumberOfTransitions)
	}
}

func TestTaskAnalyticsReviewAndApproval(t *testing.T) {
	s := NewAnalyticsService()
	history := []models.StatusHistory{
		entry(2, nil, models.StatusPending, historyBase),
		entry(2, statusPtr(models.StatusPending), models.StatusInProgress, historyBase.Add(30*time.Minute)),
		entry(2, statusPtr(models.StatusInProgress), models.StatusPendingReview, historyBase.Add(2*time.Hour)),
		entry(2, statusPtr(models.StatusPendingReview), models.StatusCompleted, historyBase.Add(5*time.Hour)),
	}
	got, err := s.TaskAnalyticsFromHistory(history)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got.TotalTimeInProgress == nil || *got.TotalTimeInProgress != 90*time.Minute {
		t.Errorf("in_progress=%v, want 90m", got.TotalTimeInProgress)
	}
	if !got.WasApproved {
		t.Errorf("approval not detected")
	}
	if got.ApprovalTime == nil || *got.ApprovalTime != 3*time.Hour {
		t.Errorf("approval_time=%v, want 3h", got.ApprovalTime)
	}
	if got.TimeToCompletion == nil || *got.TimeToCompletion != 5*time.Hour {
		t.Errorf("time_to_completion=%v, want 5h", got.TimeToCompletion)
	}
}

func TestTaskAnalyticsCancellation(t *testing.T) {
	s := NewAnalyticsService()
	history := []models.StatusHistory{
		entry(3, nil, models.StatusPending, historyBase),
		entry(3, statusPtr(models.StatusPending), models.StatusInProgress, historyBase.Add(time.Hour)),
		entry(3, statusPtr(models.StatusInProgress), models.StatusCancelled, historyBase.Add(2*time.Hour)),
	}
	got, err := s.TaskAnalyticsFromHistory(history)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got.TimeToCompletion != nil {
		t.Errorf("cancelled task must have no time_to_completion")
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(historyBase.Add(2*time.Hour)) {
		t.Errorf("completed_at=%v, want cancellation instant", got.CompletedAt)
	}
	// cancellation interrupts an open in-progress span
	if got.TotalTimeInProgress != nil {
		t.Errorf("in_progress=%v, want nil", got.TotalTimeInProgress)
	}
}

func TestTaskAnalyticsStopsAtFirstTerminalButCountsWholeLog(t *testing.T) {
	s := NewAnalyticsService()
	history := []models.StatusHistory{
		entry(4, nil, models.StatusPending, historyBase),
		entry(4, statusPtr(models.StatusPending), models.StatusInProgress, historyBase.Add(time.Hour)),
		entry(4, statusPtr(models.StatusInProgress), models.StatusCompleted, historyBase.Add(2*time.Hour)),
		// entries past the terminal must not affect timing
		entry(4, statusPtr(models.StatusCompleted), models.StatusInProgress, historyBase.Add(3*time.Hour)),
		entry(4, statusPtr(models.StatusInProgress), models.StatusCompleted, historyBase.Add(9*time.Hour)),
	}
	got, err := s.TaskAnalyticsFromHistory(history)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got.TimeToCompletion == nil || *got.TimeToCompletion != 2*time.Hour {
		t.Errorf("time_to_completion=%v, want 2h (first terminal)", got.TimeToCompletion)
	}
	if got.NumberOfTransitions != 5 {
		t.Errorf("transitions=%d, want full log of 5", got.NumberOfTransitions)
	}
}

func TestTaskAnalyticsUnorderedInput(t *testing.T) {
	s := NewAnalyticsService()
	history := []models.StatusHistory{
		entry(5, statusPtr(models.StatusInProgress), models.StatusCompleted, historyBase.Add(3*time.Hour)),
		entry(5, nil, models.StatusPending, historyBase),
		entry(5, statusPtr(models.StatusPending), models.StatusInProgress, historyBase.Add(time.Hour)),
	}
	got, err := s.TaskAnalyticsFromHistory(history)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if got.TimeToCompletion == nil || *got.TimeToCompletion != 3*time.Hour {
		t.Errorf("time_to_completion=%v, want 3h after sorting", got.TimeToCompletion)
	}
}

func TestTaskAnalyticsMissingCreationEntry(t *testing.T) {
	s := NewAnalyticsService()
	history := []models.StatusHistory{
		entry(6, statusPtr(models.StatusPending), models.StatusInProgress, historyBase),
	}
	_, err := s.TaskAnalyticsFromHistory(history)
	if err == nil {
		t.Fatalf("history without creation entry accepted")
	}
	if !IsValidation(err) {
		t.Fatalf("err kind=%T, want validation", err)
	}
}

func TestCompletionAnalytics(t *testing.T) {
	s := NewAnalyticsService()
	d2 := 2 * time.Hour
	d4 := 4 * time.Hour
	list := []models.TaskAnalytics{
		{TaskID: 1, TimeToCompletion: &d2, WasApproved: true},
		{TaskID: 2, TimeToCompletion: &d4},
		{TaskID: 3}, // cancelled in the window, no completion duration
	}
	byPriority := []models.PriorityCompletion{{Priority: 1, AverageTime: d2, TaskCount: 1}}

	start := historyBase
	end := historyBase.Add(72 * time.Hour)
	got := s.CompletionAnalytics(list, byPriority, start, end)

	if got.TotalCompletedTasks != 3 {
		t.Errorf("total=%d, want 3", got.TotalCompletedTasks)
	}
	if got.AverageCompletionTime == nil || *got.AverageCompletionTime != 3*time.Hour {
		t.Errorf("average=%v, want 3h", got.AverageCompletionTime)
	}
	if got.ApprovalRate != 1.0/3.0 {
		t.Errorf("approval_rate=%v, want 1/3", got.ApprovalRate)
	}
	if len(got.ByPriority) != 1 {
		t.Errorf("by_priority=%v", got.ByPriority)
	}
}

func TestCompletionAnalyticsEmpty(t *testing.T) {
	s := NewAnalyticsService()
	got := s.CompletionAnalytics(nil, nil, historyBase, historyBase.Add(time.Hour))
	if got.TotalCompletedTasks != 0 || got.AverageCompletionTime != nil || got.ApprovalRate != 0 {
		t.Errorf("empty window: %+v", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{5*time.Minute + 4*time.Second, "5m 4s"},
		{3*time.Hour + 4*time.Minute + 5*time.Second, "3h 4m 5s"},
		{51*time.Hour + 4*time.Minute + 5*time.Second, "2d 3h 4m 5s"},
		{0, "0s"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.d); got != c.want {
			t.Errorf("FormatDuration(%v)=%q, want %q", c.d, got, c.want)
		}
	}
}
