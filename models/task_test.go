package models

import (
	"testing"
	"time"
)

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	task := Task{Status: TaskPending, ScheduledDate: yesterday}
	if !task.IsOverdue(now) {
		t.Fatalf("pending task scheduled yesterday should be overdue")
	}

	task.Status = TaskInProgress
	if !task.IsOverdue(now) {
		t.Fatalf("in-progress task scheduled yesterday should be overdue")
	}

	task.Status = TaskCompleted
	if task.IsOverdue(now) {
		t.Fatalf("completed task is never overdue")
	}

	task.Status = TaskSkipped
	if task.IsOverdue(now) {
		t.Fatalf("skipped task is never overdue")
	}

	// Same day, earlier clock time: not overdue, comparison is per day.
	task = Task{Status: TaskPending, ScheduledDate: now.Add(-2 * time.Hour)}
	if task.IsOverdue(now) {
		t.Fatalf("task scheduled earlier today should not be overdue")
	}

	task = Task{Status: TaskPending, ScheduledDate: tomorrow}
	if task.IsOverdue(now) {
		t.Fatalf("future task should not be overdue")
	}
}

func TestSetStatusCompletedAt(t *testing.T) {
	now := time.Now()
	task := Task{Status: TaskPending}

	task.SetStatus(TaskCompleted, now)
	if task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
		t.Fatalf("expected completedAt stamped on completion")
	}

	task.SetStatus(TaskInProgress, now.Add(time.Minute))
	if task.CompletedAt != nil {
		t.Fatalf("expected completedAt cleared when leaving COMPLETED")
	}
}
