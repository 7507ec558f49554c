package models

import "time"

// Patch structs enumerate exactly which fields a partial update may touch.
// Nil pointers leave the existing value alone.

type GoalPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Category    *GoalCategory `json:"category,omitempty"`
	Priority    *Priority     `json:"priority,omitempty"`
	Status      *GoalStatus   `json:"status,omitempty"`
	TargetDate  *time.Time    `json:"targetDate,omitempty"`
	Tags        *[]string     `json:"tags,omitempty"`
}

// Apply merges the patch into g. Entering COMPLETED stamps CompletedDate;
// leaving it clears the stamp.
func (p GoalPatch) Apply(g *Goal, now time.Time) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.Category != nil {
		g.Category = *p.Category
	}
	if p.Priority != nil {
		g.Priority = *p.Priority
	}
	if p.Status != nil {
		g.Status = *p.Status
		if *p.Status == GoalCompleted {
			at := now
			g.CompletedDate = &at
		} else {
			g.CompletedDate = nil
		}
	}
	if p.TargetDate != nil {
		g.TargetDate = *p.TargetDate
	}
	if p.Tags != nil {
		g.Tags = *p.Tags
	}
	g.UpdatedAt = now
}

type TaskPatch struct {
	Title            *string     `json:"title,omitempty"`
	Description      *string     `json:"description,omitempty"`
	Priority         *Priority   `json:"priority,omitempty"`
	Difficulty       *Difficulty `json:"difficulty,omitempty"`
	Status           *TaskStatus `json:"status,omitempty"`
	ScheduledDate    *time.Time  `json:"scheduledDate,omitempty"`
	EstimatedMinutes *int        `json:"estimatedMinutes,omitempty"`
	ActualMinutes    *int        `json:"actualMinutes,omitempty"`
}

func (p TaskPatch) Apply(t *Task, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Difficulty != nil {
		t.Difficulty = *p.Difficulty
	}
	if p.Status != nil {
		t.SetStatus(*p.Status, now)
	}
	if p.ScheduledDate != nil {
		t.ScheduledDate = *p.ScheduledDate
	}
	if p.EstimatedMinutes != nil {
		t.EstimatedMinutes = *p.EstimatedMinutes
	}
	if p.ActualMinutes != nil {
		t.ActualMinutes = p.ActualMinutes
	}
	t.UpdatedAt = now
}

type UserPatch struct {
	Email               *string           `json:"email,omitempty"`
	DisplayName         *string           `json:"displayName,omitempty"`
	PhotoURL            *string           `json:"photoUrl,omitempty"`
	Profile             *Profile          `json:"profile,omitempty"`
	Finances            *Finances         `json:"finances,omitempty"`
	TimeAvailability    *TimeAvailability `json:"timeAvailability,omitempty"`
	Skills              *Skills           `json:"skills,omitempty"`
	OnboardingCompleted *bool             `json:"onboardingCompleted,omitempty"`
}

func (p UserPatch) Apply(u *User, now time.Time) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
	if p.PhotoURL != nil {
		u.PhotoURL = *p.PhotoURL
	}
	if p.Profile != nil {
		profile := *p.Profile
		u.Profile = &profile
	}
	if p.Finances != nil {
		finances := *p.Finances
		u.Finances = &finances
	}
	if p.TimeAvailability != nil {
		ta := *p.TimeAvailability
		u.TimeAvailability = &ta
	}
	if p.Skills != nil {
		skills := *p.Skills
		u.Skills = &skills
	}
	if p.OnboardingCompleted != nil {
		u.OnboardingCompleted = *p.OnboardingCompleted
	}
	u.UpdatedAt = now
}
