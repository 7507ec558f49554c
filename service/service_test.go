package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/marion/goalpath-data/models"
	"github.com/marion/goalpath-data/onboarding"
	"github.com/marion/goalpath-data/planner"
	"github.com/marion/goalpath-data/stores"
)

// fakeLocal implements Local in memory with the same merge semantics as
// the real adapter.
type fakeLocal struct {
	draft   *models.OnboardingDraft
	profile *models.User
	goals   []models.Goal
	tasks   []models.Task
}

func (f *fakeLocal) SaveOnboardingDraft(d models.OnboardingDraft) error {
	f.draft = &d
	return nil
}
func (f *fakeLocal) OnboardingDraft() *models.OnboardingDraft { return f.draft }
func (f *fakeLocal) SaveUserProfile(id string, patch models.UserPatch) error {
	if f.profile == nil {
		f.profile = &models.User{}
	}
	patch.Apply(f.profile, time.Now())
	f.profile.ID = id
	return nil
}
func (f *fakeLocal) SaveGoal(g models.Goal) error {
	for i := range f.goals {
		if f.goals[i].ID == g.ID {
			f.goals[i] = g
			return nil
		}
	}
	f.goals = append(f.goals, g)
	return nil
}
func (f *fakeLocal) Goals() []models.Goal { return f.goals }
func (f *fakeLocal) DeleteGoal(id string) error {
	kept := f.goals[:0]
	for _, g := range f.goals {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	f.goals = kept
	return nil
}
func (f *fakeLocal) SaveTasks(tasks []models.Task) error {
	for _, t := range tasks {
		replaced := false
		for i := range f.tasks {
			if f.tasks[i].ID == t.ID {
				f.tasks[i] = t
				replaced = true
				break
			}
		}
		if !replaced {
			f.tasks = append(f.tasks, t)
		}
	}
	return nil
}
func (f *fakeLocal) Tasks() []models.Task { return f.tasks }
func (f *fakeLocal) UpdateTaskStatus(id string, status models.TaskStatus) error {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].SetStatus(status, time.Now())
			return nil
		}
	}
	return models.ErrNotFound
}
func (f *fakeLocal) DeleteTask(id string) error {
	kept := f.tasks[:0]
	for _, t := range f.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	f.tasks = kept
	return nil
}

type fakePlanner struct {
	plan planner.Plan
	err  error
}

func (f *fakePlanner) GeneratePlan(ctx context.Context, goal models.Goal, attrs planner.UserAttributes) (*planner.GeneratedPlan, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &planner.GeneratedPlan{Plan: f.plan}, nil
}

func newTestService(p Planner) (*Service, *fakeLocal, *stores.GoalStore, *stores.TaskStore) {
	local := &fakeLocal{}
	goals := stores.NewGoalStore()
	tasks := stores.NewTaskStore()
	return New(local, p, goals, tasks, zap.NewNop()), local, goals, tasks
}

func TestCompleteOnboardingEndToEnd(t *testing.T) {
	svc, local, goalStore, _ := newTestService(&fakePlanner{})

	sess := onboarding.New().
		WithGoal(models.CategoryHealth, "Run a 5K", "").
		WithAvailability(1)
	if err := svc.SaveDraft(sess); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	resumed := svc.ResumeOnboarding()
	goal, err := svc.CompleteOnboarding(resumed, "u1")
	if err != nil {
		t.Fatalf("complete onboarding: %v", err)
	}

	if len(local.goals) != 1 {
		t.Fatalf("expected exactly one goal, got %d", len(local.goals))
	}
	if goal.Status != models.GoalActive || goal.Category != models.CategoryHealth || goal.Title != "Run a 5K" {
		t.Fatalf("goal wrong: %+v", goal)
	}
	if want := goal.StartDate.AddDate(0, 0, 90); !goal.TargetDate.Equal(want) {
		t.Fatalf("expected target = start + 90 days")
	}
	if len(local.tasks) != 0 {
		t.Fatalf("task generation must be deferred, found %d tasks", len(local.tasks))
	}
	if local.profile == nil || !local.profile.OnboardingCompleted {
		t.Fatalf("profile must have onboardingCompleted=true")
	}
	if _, ok := goalStore.Get(goal.ID); !ok {
		t.Fatalf("goal cache not updated")
	}
}

func TestGenerateTasksPersistsAndRefreshesMetrics(t *testing.T) {
	plan := planner.Plan{
		Milestones: []planner.PlanMilestone{
			{Order: 1, Tasks: []planner.PlanTask{
				{Title: "a", WeekNumber: 1, DayOfWeek: 1},
				{Title: "b", WeekNumber: 1, DayOfWeek: 2},
			}},
		},
	}
	svc, local, goalStore, taskStore := newTestService(&fakePlanner{plan: plan})

	goal := models.Goal{ID: "g1", UserID: "u1", Status: models.GoalActive}
	_ = local.SaveGoal(goal)
	goalStore.Upsert(goal)

	tasks, err := svc.GenerateTasks(context.Background(), goal, planner.UserAttributes{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(tasks) != 2 || len(local.tasks) != 2 {
		t.Fatalf("tasks not persisted: %d / %d", len(tasks), len(local.tasks))
	}
	if len(taskStore.List()) != 2 {
		t.Fatalf("task cache not updated")
	}

	cached, _ := goalStore.Get("g1")
	if cached.Metrics.TotalTasks != 2 || cached.Metrics.CompletionPercentage != 0 {
		t.Fatalf("metrics not recomputed: %+v", cached.Metrics)
	}
}

func TestGenerateTasksPlannerFailurePropagates(t *testing.T) {
	svc, local, _, _ := newTestService(&fakePlanner{err: planner.ErrMalformedResponse})

	_, err := svc.GenerateTasks(context.Background(), models.Goal{ID: "g1"}, planner.UserAttributes{})
	if err == nil {
		t.Fatalf("expected planner error to propagate")
	}
	if len(local.tasks) != 0 {
		t.Fatalf("no tasks should persist on failure")
	}
}

func TestSetTaskStatusRefreshesMetrics(t *testing.T) {
	svc, local, goalStore, taskStore := newTestService(&fakePlanner{})

	goal := models.Goal{ID: "g1", UserID: "u1"}
	_ = local.SaveGoal(goal)
	goalStore.Upsert(goal)
	_ = local.SaveTasks([]models.Task{
		{ID: "t1", GoalID: "g1", Status: models.TaskPending},
		{ID: "t2", GoalID: "g1", Status: models.TaskPending},
	})
	svc.LoadLocal()

	if err := svc.SetTaskStatus("t1", models.TaskCompleted); err != nil {
		t.Fatalf("set status: %v", err)
	}

	task, _ := taskStore.Get("t1")
	if task.Status != models.TaskCompleted {
		t.Fatalf("cache not updated: %+v", task)
	}
	cached, _ := goalStore.Get("g1")
	if cached.Metrics.CompletedTasks != 1 || cached.Metrics.CompletionPercentage != 50 {
		t.Fatalf("metrics wrong: %+v", cached.Metrics)
	}
}

func TestDeleteGoalCascadesLocally(t *testing.T) {
	svc, local, goalStore, taskStore := newTestService(&fakePlanner{})

	_ = local.SaveGoal(models.Goal{ID: "g1"})
	_ = local.SaveTasks([]models.Task{
		{ID: "t1", GoalID: "g1"},
		{ID: "t2", GoalID: "g2"},
	})
	svc.LoadLocal()

	if err := svc.DeleteGoal("g1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(local.goals) != 0 {
		t.Fatalf("goal not deleted")
	}
	if len(local.tasks) != 1 || local.tasks[0].ID != "t2" {
		t.Fatalf("cascade wrong: %+v", local.tasks)
	}
	if _, ok := goalStore.Get("g1"); ok {
		t.Fatalf("goal cache not cleaned")
	}
	if _, ok := taskStore.Get("t1"); ok {
		t.Fatalf("task cache not cleaned")
	}
}
