// Package onboarding models the wizard's state as an immutable session
// value threaded through the flow, rather than module-level mutable state,
// so concurrent or repeated wizard runs cannot contaminate each other.
package onboarding

import (
	"time"

	"github.com/google/uuid"

	"github.com/marion/goalpath-data/models"
	"github.com/marion/goalpath-data/planner"
)

// defaultGoalHorizonDays is the target-date horizon applied when the wizard
// collected no explicit target date.
const defaultGoalHorizonDays = 90

// Session is an immutable accumulation of wizard answers. With* methods
// return a modified copy; the receiver is never mutated.
type Session struct {
	draft models.OnboardingDraft
}

func New() Session {
	return Session{}
}

// FromDraft resumes a session from a previously persisted draft.
func FromDraft(draft models.OnboardingDraft) Session {
	return Session{draft: draft}
}

// Draft returns the flat record the local adapter persists between screens.
func (s Session) Draft() models.OnboardingDraft {
	return s.draft
}

func (s Session) WithGoal(category models.GoalCategory, title, description string) Session {
	s.draft.Category = category
	s.draft.Title = title
	s.draft.Description = description
	return s
}

func (s Session) WithTargetDate(target time.Time) Session {
	t := target
	s.draft.TargetDate = &t
	return s
}

func (s Session) WithProfile(age int, occupation string) Session {
	s.draft.Age = age
	s.draft.Occupation = occupation
	return s
}

func (s Session) WithBudget(monthly float64) Session {
	s.draft.MonthlyBudget = monthly
	return s
}

func (s Session) WithAvailability(dailyHours float64) Session {
	s.draft.DailyHours = dailyHours
	return s
}

func (s Session) WithExperience(level string) Session {
	s.draft.ExperienceLevel = level
	return s
}

func (s Session) WithChallenges(selected, custom []string) Session {
	s.draft.Challenges = append([]string(nil), selected...)
	s.draft.CustomChallenges = append([]string(nil), custom...)
	return s
}

// Complete materializes the wizard's result: exactly one ACTIVE goal
// starting now (target defaults to now + 90 days) and a profile patch with
// onboarding marked done. Task generation is deferred to the plan flow.
func (s Session) Complete(userID string, now time.Time) (models.Goal, models.UserPatch) {
	target := now.AddDate(0, 0, defaultGoalHorizonDays)
	if s.draft.TargetDate != nil {
		target = *s.draft.TargetDate
	}

	goal := models.Goal{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       s.draft.Title,
		Description: s.draft.Description,
		Category:    s.draft.Category,
		Priority:    models.PriorityMedium,
		Status:      models.GoalActive,
		StartDate:   now,
		TargetDate:  target,
		Milestones:  []models.Milestone{},
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	completed := true
	patch := models.UserPatch{
		OnboardingCompleted: &completed,
		Profile: &models.Profile{
			Age:        s.draft.Age,
			Occupation: s.draft.Occupation,
		},
		TimeAvailability: &models.TimeAvailability{
			DailyHours: s.draft.DailyHours,
		},
	}
	if s.draft.MonthlyBudget > 0 {
		patch.Finances = &models.Finances{MonthlyBudget: s.draft.MonthlyBudget}
	}
	return goal, patch
}

// PlannerAttributes maps the collected answers onto the plan request input.
func (s Session) PlannerAttributes() planner.UserAttributes {
	return planner.UserAttributes{
		Age:              s.draft.Age,
		Occupation:       s.draft.Occupation,
		MonthlyBudget:    s.draft.MonthlyBudget,
		DailyHours:       s.draft.DailyHours,
		ExperienceLevel:  s.draft.ExperienceLevel,
		Challenges:       s.draft.Challenges,
		CustomChallenges: s.draft.CustomChallenges,
	}
}
