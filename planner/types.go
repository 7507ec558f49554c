package planner

import (
	"time"

	"github.com/marion/goalpath-data/models"
)

// PlanRequest is the body sent to POST /api/generate-plan. Dates are
// ISO 8601 strings.
type PlanRequest struct {
	Goal PlanRequestGoal `json:"goal"`
	User PlanRequestUser `json:"user"`
}

type PlanRequestGoal struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	StartDate   string `json:"startDate"`
	TargetDate  string `json:"targetDate"`
}

type PlanRequestUser struct {
	Age              int      `json:"age"`
	Occupation       string   `json:"occupation"`
	MonthlyBudget    float64  `json:"monthlyBudget"`
	DailyHours       float64  `json:"dailyHours"`
	ExperienceLevel  string   `json:"experienceLevel"`
	Challenges       []string `json:"challenges,omitempty"`
	CustomChallenges []string `json:"customChallenges,omitempty"`
}

type planResponse struct {
	Success  bool          `json:"success"`
	Plan     *Plan         `json:"plan"`
	Metadata *PlanMetadata `json:"metadata,omitempty"`
	Usage    *PlanUsage    `json:"usage,omitempty"`
}

// Plan is the structured multi-week plan returned by the service.
type Plan struct {
	Summary         string          `json:"summary"`
	DifficultyScore float64         `json:"difficultyScore"`
	TotalWeeks      int             `json:"totalWeeks"`
	Milestones      []PlanMilestone `json:"milestones"`
	Risks           []PlanRisk      `json:"risks,omitempty"`
	QuickWins       []string        `json:"quickWins,omitempty"`
	Motivation      string          `json:"motivationalMessage,omitempty"`
}

type PlanMilestone struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Order       int        `json:"order"`
	Tips        string     `json:"tips,omitempty"`
	Tasks       []PlanTask `json:"tasks"`
}

type PlanTask struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
	Priority         string `json:"priority"`
	Difficulty       string `json:"difficulty"`
	DayOfWeek        int    `json:"dayOfWeek"`  // 1-based offset into the week, not a calendar weekday
	WeekNumber       int    `json:"weekNumber"` // >= 1
	Tips             string `json:"tips,omitempty"`
}

type PlanRisk struct {
	Description string `json:"description"`
	Mitigation  string `json:"mitigation,omitempty"`
}

type PlanMetadata struct {
	GeneratedAt      string `json:"generatedAt"`
	DaysUntilTarget  int    `json:"daysUntilTarget"`
	WeeksUntilTarget int    `json:"weeksUntilTarget"`
}

type PlanUsage struct {
	Tokens        int     `json:"tokens"`
	EstimatedCost float64 `json:"estimatedCost"`
}

// GeneratedPlan bundles the plan with its accounting for the caller.
type GeneratedPlan struct {
	Plan     Plan
	Metadata *PlanMetadata
	Usage    *PlanUsage
}

// UserAttributes is the onboarding-collected input to plan generation.
type UserAttributes struct {
	Age              int
	Occupation       string
	MonthlyBudget    float64
	DailyHours       float64
	ExperienceLevel  string
	Challenges       []string
	CustomChallenges []string
}

func requestFor(goal models.Goal, attrs UserAttributes) PlanRequest {
	return PlanRequest{
		Goal: PlanRequestGoal{
			Title:       goal.Title,
			Description: goal.Description,
			Category:    string(goal.Category),
			Priority:    string(goal.Priority),
			StartDate:   goal.StartDate.UTC().Format(time.RFC3339),
			TargetDate:  goal.TargetDate.UTC().Format(time.RFC3339),
		},
		User: PlanRequestUser{
			Age:              attrs.Age,
			Occupation:       attrs.Occupation,
			MonthlyBudget:    attrs.MonthlyBudget,
			DailyHours:       attrs.DailyHours,
			ExperienceLevel:  attrs.ExperienceLevel,
			Challenges:       attrs.Challenges,
			CustomChallenges: attrs.CustomChallenges,
		},
	}
}
