// Package service wires the adapters, the planner and the reactive caches
// into the flows the presentation layer actually drives: finishing
// onboarding, generating a plan, working through tasks, refreshing from
// the remote store.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/marion/goalpath-data/models"
	"github.com/marion/goalpath-data/onboarding"
	"github.com/marion/goalpath-data/planner"
	"github.com/marion/goalpath-data/stores"
)

// Local is the slice of the local adapter this service drives.
type Local interface {
	SaveOnboardingDraft(draft models.OnboardingDraft) error
	OnboardingDraft() *models.OnboardingDraft
	SaveUserProfile(id string, patch models.UserPatch) error
	SaveGoal(goal models.Goal) error
	Goals() []models.Goal
	DeleteGoal(id string) error
	SaveTasks(tasks []models.Task) error
	Tasks() []models.Task
	UpdateTaskStatus(id string, status models.TaskStatus) error
	DeleteTask(id string) error
}

// Planner generates a structured plan for a goal.
type Planner interface {
	GeneratePlan(ctx context.Context, goal models.Goal, attrs planner.UserAttributes) (*planner.GeneratedPlan, error)
}

type Service struct {
	local   Local
	planner Planner
	goals   *stores.GoalStore
	tasks   *stores.TaskStore
	log     *zap.Logger
}

func New(local Local, p Planner, goals *stores.GoalStore, tasks *stores.TaskStore, log *zap.Logger) *Service {
	return &Service{local: local, planner: p, goals: goals, tasks: tasks, log: log}
}

// SaveDraft persists the wizard's current state between screens.
func (s *Service) SaveDraft(sess onboarding.Session) error {
	return s.local.SaveOnboardingDraft(sess.Draft())
}

// ResumeOnboarding restores the wizard session from the stored draft, or
// starts fresh when there is none.
func (s *Service) ResumeOnboarding() onboarding.Session {
	if draft := s.local.OnboardingDraft(); draft != nil {
		return onboarding.FromDraft(*draft)
	}
	return onboarding.New()
}

// CompleteOnboarding materializes the wizard result: one active goal and
// the profile patch, persisted locally and pushed into the goal cache.
// Task generation is a separate step so the UI can show the goal at once.
func (s *Service) CompleteOnboarding(sess onboarding.Session, userID string) (models.Goal, error) {
	goal, patch := sess.Complete(userID, time.Now())

	if err := s.local.SaveGoal(goal); err != nil {
		return models.Goal{}, err
	}
	if err := s.local.SaveUserProfile(userID, patch); err != nil {
		return models.Goal{}, err
	}

	s.goals.Upsert(goal)
	s.log.Info("onboarding completed",
		zap.String("goalId", goal.ID),
		zap.String("category", string(goal.Category)),
	)
	return goal, nil
}

// GenerateTasks asks the planner for a plan, converts it to task records,
// persists them and refreshes the caches and goal metrics.
func (s *Service) GenerateTasks(ctx context.Context, goal models.Goal, attrs planner.UserAttributes) ([]models.Task, error) {
	generated, err := s.planner.GeneratePlan(ctx, goal, attrs)
	if err != nil {
		return nil, err
	}

	tasks := planner.ConvertPlanToTasks(generated.Plan, goal.ID, goal.UserID, time.Now())
	if err := s.local.SaveTasks(tasks); err != nil {
		return nil, err
	}

	s.tasks.UpsertBatch(tasks)
	s.refreshGoalMetrics(goal.ID)

	if generated.Usage != nil {
		s.log.Info("plan generated",
			zap.String("goalId", goal.ID),
			zap.Int("tasks", len(tasks)),
			zap.Int("tokens", generated.Usage.Tokens),
		)
	}
	return tasks, nil
}

// SetTaskStatus updates one task locally and keeps the caches and the
// owning goal's metrics in step.
func (s *Service) SetTaskStatus(id string, status models.TaskStatus) error {
	if err := s.local.UpdateTaskStatus(id, status); err != nil {
		return err
	}

	var goalID string
	for _, t := range s.local.Tasks() {
		if t.ID == id {
			goalID = t.GoalID
			s.tasks.Upsert(t)
			break
		}
	}
	if goalID != "" {
		s.refreshGoalMetrics(goalID)
	}
	return nil
}

// DeleteGoal removes the goal and its tasks from the local store and the
// caches.
func (s *Service) DeleteGoal(id string) error {
	if err := s.local.DeleteGoal(id); err != nil {
		return err
	}
	// Cascade locally; the remote adapter cascades in its own batch.
	var orphaned []string
	for _, t := range s.local.Tasks() {
		if t.GoalID == id {
			orphaned = append(orphaned, t.ID)
		}
	}
	for _, taskID := range orphaned {
		if err := s.local.DeleteTask(taskID); err != nil {
			return err
		}
	}
	s.goals.Remove(id)
	for _, t := range s.tasks.ListByGoal(id) {
		s.tasks.Remove(t.ID)
	}
	return nil
}

// LoadLocal primes both caches from the local store.
func (s *Service) LoadLocal() {
	s.goals.ReplaceAll(s.local.Goals())
	s.tasks.ReplaceAll(s.local.Tasks())
}

func (s *Service) refreshGoalMetrics(goalID string) {
	goal, ok := s.goals.Get(goalID)
	if !ok {
		for _, g := range s.local.Goals() {
			if g.ID == goalID {
				goal = g
				ok = true
				break
			}
		}
	}
	if !ok {
		return
	}

	models.RecomputeMetrics(&goal, s.local.Tasks())
	if err := s.local.SaveGoal(goal); err != nil {
		s.log.Warn("metrics refresh write failed", zap.String("goalId", goalID), zap.Error(err))
	}
	s.goals.Upsert(goal)
}
