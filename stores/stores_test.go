package stores

import (
	"testing"
	"time"

	"github.com/marion/goalpath-data/models"
)

func TestGoalStoreOrderingAndNotify(t *testing.T) {
	s := NewGoalStore()

	var notified int
	s.Subscribe(func(goals []models.Goal) { notified++ })

	now := time.Now()
	s.Upsert(models.Goal{ID: "old", CreatedAt: now.Add(-time.Hour)})
	s.Upsert(models.Goal{ID: "new", CreatedAt: now})

	goals := s.List()
	if len(goals) != 2 || goals[0].ID != "new" {
		t.Fatalf("expected newest first, got %+v", goals)
	}
	if notified != 2 {
		t.Fatalf("expected 2 notifications, got %d", notified)
	}

	s.Remove("old")
	if _, ok := s.Get("old"); ok {
		t.Fatalf("removed goal still present")
	}
	if notified != 3 {
		t.Fatalf("remove should notify")
	}
}

func TestGoalStoreReplaceAll(t *testing.T) {
	s := NewGoalStore()
	s.Upsert(models.Goal{ID: "stale"})

	s.ReplaceAll([]models.Goal{{ID: "a"}, {ID: "b"}})
	if _, ok := s.Get("stale"); ok {
		t.Fatalf("ReplaceAll should drop previous contents")
	}
	if len(s.List()) != 2 {
		t.Fatalf("expected 2 goals")
	}
}

func TestTaskStoreListByGoalAndOverdue(t *testing.T) {
	s := NewTaskStore()
	now := time.Now()

	s.UpsertBatch([]models.Task{
		{ID: "t1", GoalID: "g1", Status: models.TaskPending, ScheduledDate: now.AddDate(0, 0, -2)},
		{ID: "t2", GoalID: "g1", Status: models.TaskCompleted, ScheduledDate: now.AddDate(0, 0, -2)},
		{ID: "t3", GoalID: "g2", Status: models.TaskPending, ScheduledDate: now.AddDate(0, 0, 1)},
	})

	byGoal := s.ListByGoal("g1")
	if len(byGoal) != 2 {
		t.Fatalf("expected 2 tasks for g1, got %d", len(byGoal))
	}

	overdue := s.Overdue(now)
	if len(overdue) != 1 || overdue[0].ID != "t1" {
		t.Fatalf("expected only t1 overdue, got %+v", overdue)
	}

	list := s.List()
	if list[len(list)-1].ID != "t3" {
		t.Fatalf("expected scheduled-date ordering, got %+v", list)
	}
}

func TestTaskStoreUpsertReplaces(t *testing.T) {
	s := NewTaskStore()
	s.Upsert(models.Task{ID: "t1", Title: "before"})
	s.Upsert(models.Task{ID: "t1", Title: "after"})

	task, ok := s.Get("t1")
	if !ok || task.Title != "after" {
		t.Fatalf("upsert should replace by id: %+v", task)
	}
	if len(s.List()) != 1 {
		t.Fatalf("duplicate id stored")
	}
}
