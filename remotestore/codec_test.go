package remotestore

import (
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"

	"github.com/marion/goalpath-data/models"
)

func TestGoalDocTimestampRules(t *testing.T) {
	g := models.Goal{ID: "g1", UserID: "u1", Title: "Run"}

	fresh := goalDoc(g, true)
	if fresh["createdAt"] != firestore.ServerTimestamp {
		t.Fatalf("first write must stamp createdAt server-side")
	}
	if fresh["updatedAt"] != firestore.ServerTimestamp {
		t.Fatalf("updatedAt must always be server-stamped")
	}

	update := goalDoc(g, false)
	if _, ok := update["createdAt"]; ok {
		t.Fatalf("subsequent writes must not touch createdAt")
	}
	if update["updatedAt"] != firestore.ServerTimestamp {
		t.Fatalf("updatedAt must always be server-stamped")
	}
}

func TestGoalRoundTrip(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	completedAt := now.Add(time.Hour)
	g := models.Goal{
		ID:       "g1",
		UserID:   "u1",
		Title:    "Run a 5K",
		Category: models.CategoryHealth,
		Priority: models.PriorityHigh,
		Status:   models.GoalActive,
		Milestones: []models.Milestone{
			{ID: "m1", Title: "Week one", TargetDate: now, Completed: true, CompletedAt: &completedAt, Order: 1},
		},
		Metrics:    models.GoalMetrics{TotalTasks: 4, CompletedTasks: 1, CompletionPercentage: 25},
		Tags:       []string{"fitness"},
		StartDate:  now,
		TargetDate: now.AddDate(0, 0, 90),
	}

	doc := goalDoc(g, true)
	// Emulate what a read returns: server timestamps become concrete times.
	doc["createdAt"] = now
	doc["updatedAt"] = now
	doc["milestones"] = toIfaceSlice(doc["milestones"].([]map[string]interface{}))
	doc["tags"] = []interface{}{"fitness"}

	got := docToGoal("g1", doc, zap.NewNop())

	if got.Title != g.Title || got.Category != g.Category || got.Status != g.Status {
		t.Fatalf("scalar fields lost: %+v", got)
	}
	if len(got.Milestones) != 1 {
		t.Fatalf("milestones lost")
	}
	m := got.Milestones[0]
	if m.ID != "m1" || !m.Completed || m.CompletedAt == nil || m.Order != 1 {
		t.Fatalf("milestone fields lost: %+v", m)
	}
	if got.Metrics.TotalTasks != 4 || got.Metrics.CompletionPercentage != 25 {
		t.Fatalf("metrics lost: %+v", got.Metrics)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "fitness" {
		t.Fatalf("tags lost: %+v", got.Tags)
	}
}

func TestTaskRoundTrip(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	minutes := 25
	dayOfMonth := 15
	task := models.Task{
		ID:               "t1",
		GoalID:           "g1",
		UserID:           "u1",
		MilestoneID:      "milestone-1",
		Title:            "walk",
		Priority:         models.PriorityMedium,
		Difficulty:       models.DifficultyEasy,
		Status:           models.TaskPending,
		ScheduledDate:    now,
		EstimatedMinutes: 20,
		ActualMinutes:    &minutes,
		IsAIGenerated:    true,
		AIReasoning:      "start slow",
		IsRecurring:      true,
		RecurrencePattern: &models.RecurrencePattern{
			Type:       models.RecurrenceWeekly,
			Interval:   1,
			DaysOfWeek: []int{1, 3, 5},
			DayOfMonth: &dayOfMonth,
		},
		Order: 3,
	}

	doc := taskDoc(task, true)
	doc["createdAt"] = now
	doc["updatedAt"] = now
	rp := doc["recurrencePattern"].(map[string]interface{})
	rp["daysOfWeek"] = []interface{}{int64(1), int64(3), int64(5)}
	rp["interval"] = int64(1)
	rp["dayOfMonth"] = int64(15)
	doc["estimatedMinutes"] = int64(20)
	doc["actualMinutes"] = int64(25)
	doc["order"] = int64(3)

	got := docToTask("t1", doc, zap.NewNop())

	if got.MilestoneID != "milestone-1" || got.AIReasoning != "start slow" || !got.IsAIGenerated {
		t.Fatalf("AI fields lost: %+v", got)
	}
	if got.ActualMinutes == nil || *got.ActualMinutes != 25 {
		t.Fatalf("actualMinutes lost")
	}
	if got.RecurrencePattern == nil {
		t.Fatalf("recurrence lost")
	}
	if got.RecurrencePattern.Type != models.RecurrenceWeekly || len(got.RecurrencePattern.DaysOfWeek) != 3 {
		t.Fatalf("recurrence fields lost: %+v", got.RecurrencePattern)
	}
	if got.RecurrencePattern.DayOfMonth == nil || *got.RecurrencePattern.DayOfMonth != 15 {
		t.Fatalf("dayOfMonth lost")
	}
	if !got.ScheduledDate.Equal(now) {
		t.Fatalf("scheduledDate lost: %v", got.ScheduledDate)
	}
}

func TestTimeFieldFallback(t *testing.T) {
	now := time.Now()

	// Absent: quiet default to now.
	got := timeField(map[string]interface{}{}, "scheduledDate", "t1", now, zap.NewNop())
	if !got.Equal(now) {
		t.Fatalf("absent field should default to now")
	}

	// Present but not a timestamp: default with a warning, never panic.
	got = timeField(map[string]interface{}{"scheduledDate": "garbage"}, "scheduledDate", "t1", now, zap.NewNop())
	if !got.Equal(now) {
		t.Fatalf("mistyped field should default to now")
	}
}

func TestTaskPatchUpdatesCompletion(t *testing.T) {
	now := time.Now()

	status := models.TaskCompleted
	updates := taskPatchUpdates(models.TaskPatch{Status: &status}, now)

	var sawStatus, sawCompletedAt, sawUpdatedAt bool
	for _, u := range updates {
		switch u.Path {
		case "status":
			sawStatus = u.Value == string(models.TaskCompleted)
		case "completedAt":
			sawCompletedAt = u.Value == now
		case "updatedAt":
			sawUpdatedAt = u.Value == firestore.ServerTimestamp
		}
	}
	if !sawStatus || !sawCompletedAt || !sawUpdatedAt {
		t.Fatalf("completion update incomplete: %+v", updates)
	}

	pending := models.TaskPending
	updates = taskPatchUpdates(models.TaskPatch{Status: &pending}, now)
	for _, u := range updates {
		if u.Path == "completedAt" && u.Value != firestore.Delete {
			t.Fatalf("leaving COMPLETED should delete completedAt")
		}
	}
}

func TestGoalPatchUpdatesOnlyTouchesSetFields(t *testing.T) {
	title := "new title"
	updates := goalPatchUpdates(models.GoalPatch{Title: &title}, time.Now())

	if len(updates) != 2 {
		t.Fatalf("expected updatedAt + title only, got %+v", updates)
	}
}

func toIfaceSlice(in []map[string]interface{}) []interface{} {
	out := make([]interface{}, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}
