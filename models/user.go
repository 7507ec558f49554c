package models

import "time"

type Profile struct {
	Age            int    `json:"age"`
	Occupation     string `json:"occupation"`
	EducationLevel string `json:"educationLevel"`
	Location       string `json:"location,omitempty"`
}

type Finances struct {
	MonthlyIncome float64 `json:"monthlyIncome,omitempty"`
	MonthlyBudget float64 `json:"monthlyBudget"`
	Currency      string  `json:"currency,omitempty"`
}

type TimeAvailability struct {
	DailyHours     float64  `json:"dailyHours"`
	PreferredSlots []string `json:"preferredSlots,omitempty"`
}

type Skills struct {
	Existing          []string `json:"existing,omitempty"`
	LearningInterests []string `json:"learningInterests,omitempty"`
}

type User struct {
	ID                  string            `json:"id"`
	Email               string            `json:"email"`
	DisplayName         string            `json:"displayName"`
	PhotoURL            string            `json:"photoUrl,omitempty"`
	Profile             *Profile          `json:"profile,omitempty"`
	Finances            *Finances         `json:"finances,omitempty"`
	TimeAvailability    *TimeAvailability `json:"timeAvailability,omitempty"`
	Skills              *Skills           `json:"skills,omitempty"`
	OnboardingCompleted bool              `json:"onboardingCompleted"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// OnboardingDraft is the single-slot wizard record kept in local storage
// until onboarding completes.
type OnboardingDraft struct {
	Category         GoalCategory `json:"category"`
	Title            string       `json:"title"`
	Description      string       `json:"description,omitempty"`
	TargetDate       *time.Time   `json:"targetDate,omitempty"`
	Age              int          `json:"age,omitempty"`
	Occupation       string       `json:"occupation,omitempty"`
	MonthlyBudget    float64      `json:"monthlyBudget,omitempty"`
	DailyHours       float64      `json:"dailyHours,omitempty"`
	ExperienceLevel  string       `json:"experienceLevel,omitempty"`
	Challenges       []string     `json:"challenges,omitempty"`
	CustomChallenges []string     `json:"customChallenges,omitempty"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}
