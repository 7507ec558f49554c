package models

import (
	"math"
	"time"
)

type Milestone struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TargetDate  time.Time  `json:"targetDate"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Order       int        `json:"order"`
}

// GoalMetrics is a derived snapshot. It is recomputed by callers via
// RecomputeMetrics, never maintained incrementally.
type GoalMetrics struct {
	TotalTasks           int `json:"totalTasks"`
	CompletedTasks       int `json:"completedTasks"`
	CurrentStreak        int `json:"currentStreak"`
	LongestStreak        int `json:"longestStreak"`
	CompletionPercentage int `json:"completionPercentage"`
}

type Goal struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Category      GoalCategory `json:"category"`
	Priority      Priority     `json:"priority"`
	Status        GoalStatus   `json:"status"`
	StartDate     time.Time    `json:"startDate"`
	TargetDate    time.Time    `json:"targetDate"`
	CompletedDate *time.Time   `json:"completedDate,omitempty"`
	Milestones    []Milestone  `json:"milestones"`
	Metrics       GoalMetrics  `json:"metrics"`
	Tags          []string     `json:"tags"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// CalculateGoalProgress returns the completion percentage, rounded to the
// nearest integer. Zero total means zero progress.
func CalculateGoalProgress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// CompleteMilestone marks the milestone with the given id as completed and
// reports whether it was found.
func (g *Goal) CompleteMilestone(milestoneID string, now time.Time) bool {
	for i := range g.Milestones {
		if g.Milestones[i].ID == milestoneID {
			g.Milestones[i].Completed = true
			at := now
			g.Milestones[i].CompletedAt = &at
			g.UpdatedAt = now
			return true
		}
	}
	return false
}

// RecomputeMetrics rebuilds the goal's derived metrics snapshot from the
// given tasks. Tasks belonging to other goals are ignored.
func RecomputeMetrics(g *Goal, tasks []Task) {
	var total, completed int
	days := make(map[time.Time]bool)
	for _, t := range tasks {
		if t.GoalID != g.ID {
			continue
		}
		total++
		if t.Status == TaskCompleted {
			completed++
			if t.CompletedAt != nil {
				days[truncateToDay(*t.CompletedAt)] = true
			}
		}
	}

	current, longest := streaks(days, truncateToDay(time.Now()))

	g.Metrics = GoalMetrics{
		TotalTasks:           total,
		CompletedTasks:       completed,
		CurrentStreak:        current,
		LongestStreak:        longest,
		CompletionPercentage: CalculateGoalProgress(completed, total),
	}
}

// streaks returns the current streak (consecutive days with at least one
// completion, ending today or yesterday) and the longest run overall.
func streaks(days map[time.Time]bool, today time.Time) (int, int) {
	if len(days) == 0 {
		return 0, 0
	}

	current := 0
	anchor := today
	if !days[anchor] {
		anchor = anchor.AddDate(0, 0, -1)
	}
	for d := anchor; days[d]; d = d.AddDate(0, 0, -1) {
		current++
	}

	longest := 0
	for d := range days {
		// Only count runs from their first day.
		if days[d.AddDate(0, 0, -1)] {
			continue
		}
		run := 0
		for e := d; days[e]; e = e.AddDate(0, 0, 1) {
			run++
		}
		if run > longest {
			longest = run
		}
	}
	return current, longest
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
