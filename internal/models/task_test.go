package models

import (
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestNewTask(t *testing.T) {
	task, err := NewTask("  Write report  ", intPtr(5))
	if err != nil {
		t.Fatalf("NewTask() err=%v", err)
	}
	if task.Name != "Write report" {
		t.Errorf("name not trimmed: %q", task.Name)
	}
	if task.Status != StatusPending {
		t.Errorf("status=%s, want %s", task.Status, StatusPending)
	}
	if task.Version != 1 {
		t.Errorf("version=%d, want 1", task.Version)
	}
	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Errorf("created_at and updated_at must match on creation")
	}
}

func TestNewTaskValidation(t *testing.T) {
	if _, err := NewTask("", nil); err == nil {
		t.Errorf("empty name accepted")
	}
	if _, err := NewTask("   ", nil); err == nil {
		t.Errorf("whitespace name accepted")
	}
	if _, err := NewTask(strings.Repeat("a", 256), nil); err == nil {
		t.Errorf("256-char name accepted")
	}
	if _, err := NewTask(strings.Repeat("a", 255), nil); err != nil {
		t.Errorf("255-char name rejected: %v", err)
	}
	if _, err := NewTask("ok", intPtr(0)); err == nil {
		t.Errorf("priority 0 accepted")
	}
	if _, err := NewTask("ok", intPtr(11)); err == nil {
		t.Errorf("priority 11 accepted")
	}
	if _, err := NewTask("ok", intPtr(1)); err != nil {
		t.Errorf("priority 1 rejected: %v", err)
	}
	if _, err := NewTask("ok", intPtr(10)); err != nil {
		t.Errorf("priority 10 rejected: %v", err)
	}
}

func TestIsHighPriority(t *testing.T) {
	cases := []struct {
		priority *int
		want     bool
	}{
		{nil, false},
		{intPtr(1), true},
		{intPtr(3), true},
		{intPtr(4), false},
		{intPtr(10), false},
	}
	for _, c := range cases {
		task, err := NewTask("t", c.priority)
		if err != nil {
			t.Fatalf("NewTask err=%v", err)
		}
		if got := task.IsHighPriority(); got != c.want {
			t.Errorf("IsHighPriority(%v)=%v, want %v", c.priority, got, c.want)
		}
	}
}

func TestCompleteRedirectsHighPriorityToReview(t *testing.T) {
	task, _ := NewTask("urgent", intPtr(2))
	if err := task.StartProgress(); err != nil {
		t.Fatalf("StartProgress() err=%v", err)
	}
	if err := task.Complete(); err != nil {
		t.Fatalf("Complete() err=%v", err)
	}
	if task.Status != StatusPendingReview {
		t.Fatalf("status=%s, want %s", task.Status, StatusPendingReview)
	}
}

func TestCompleteNormalPriority(t *testing.T) {
	task, _ := NewTask("routine", intPtr(7))
	if err := task.StartProgress(); err != nil {
		t.Fatalf("StartProgress() err=%v", err)
	}
	if err := task.Complete(); err != nil {
		t.Fatalf("Complete() err=%v", err)
	}
	if task.Status != StatusCompleted {
		t.Fatalf("status=%s, want %s", task.Status, StatusCompleted)
	}
}

func TestApproveCompletion(t *testing.T) {
	task, _ := NewTask("urgent", intPtr(1))
	_ = task.StartProgress()
	_ = task.Complete() // -> PendingReview

	if err := task.ApproveCompletion(); err != nil {
		t.Fatalf("ApproveCompletion() err=%v", err)
	}
	if task.Status != StatusCompleted {
		t.Fatalf("status=%s, want %s", task.Status, StatusCompleted)
	}

	fresh, _ := NewTask("t", nil)
	if err := fresh.ApproveCompletion(); err == nil {
		t.Fatalf("ApproveCompletion from Pending must fail")
	}
}

func TestCancel(t *testing.T) {
	for _, from := range []TaskStatus{StatusPending, StatusInProgress, StatusPendingReview} {
		task := &Task{Name: "t", Status: from}
		if err := task.Cancel(); err != nil {
			t.Errorf("Cancel from %s err=%v", from, err)
		}
	}
	done := &Task{Name: "t", Status: StatusCompleted}
	if err := done.Cancel(); err == nil {
		t.Errorf("Cancel of completed task accepted")
	}
}

func TestTransitionToDispatch(t *testing.T) {
	// requesting Completed from review routes through the approval
	task := &Task{Name: "t", Status: StatusPendingReview}
	if err := task.TransitionTo(StatusCompleted); err != nil {
		t.Fatalf("TransitionTo(Completed) from review err=%v", err)
	}
	if task.Status != StatusCompleted {
		t.Fatalf("status=%s, want %s", task.Status, StatusCompleted)
	}

	// requesting PendingReview directly works only for high-priority in progress
	hp := &Task{Name: "t", Priority: intPtr(2), Status: StatusInProgress}
	if err := hp.TransitionTo(StatusPendingReview); err != nil {
		t.Fatalf("TransitionTo(PendingReview) high-priority err=%v", err)
	}
	if hp.Status != StatusPendingReview {
		t.Fatalf("status=%s, want %s", hp.Status, StatusPendingReview)
	}

	lp := &Task{Name: "t", Priority: intPtr(8), Status: StatusInProgress}
	if err := lp.TransitionTo(StatusPendingReview); err == nil {
		t.Fatalf("TransitionTo(PendingReview) for normal priority must fail")
	}

	// requesting Completed for a high-priority task in progress lands in review
	hp2 := &Task{Name: "t", Priority: intPtr(1), Status: StatusInProgress}
	if err := hp2.TransitionTo(StatusCompleted); err != nil {
		t.Fatalf("TransitionTo(Completed) high-priority err=%v", err)
	}
	if hp2.Status != StatusPendingReview {
		t.Fatalf("status=%s, want %s", hp2.Status, StatusPendingReview)
	}

	if err := (&Task{Name: "t", Status: StatusPending}).TransitionTo(StatusPending); err == nil {
		t.Fatalf("TransitionTo(Pending) must fail")
	}
}

func TestUpdateGuards(t *testing.T) {
	task, _ := NewTask("t", nil)
	if err := task.UpdateName(""); err == nil {
		t.Errorf("UpdateName(empty) accepted")
	}
	if err := task.UpdateName("renamed"); err != nil {
		t.Errorf("UpdateName err=%v", err)
	}
	if task.Name != "renamed" {
		t.Errorf("name=%q", task.Name)
	}
	if err := task.UpdatePriority(intPtr(12)); err == nil {
		t.Errorf("UpdatePriority(12) accepted")
	}
	if err := task.UpdatePriority(nil); err != nil {
		t.Errorf("UpdatePriority(nil) err=%v", err)
	}
}
