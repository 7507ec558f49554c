package models

import "time"

type RecurrencePattern struct {
	Type       RecurrenceType `json:"type"`
	Interval   int            `json:"interval"`
	DaysOfWeek []int          `json:"daysOfWeek,omitempty"`
	DayOfMonth *int           `json:"dayOfMonth,omitempty"`
	EndDate    *time.Time     `json:"endDate,omitempty"`
}

type Task struct {
	ID                string             `json:"id"`
	GoalID            string             `json:"goalId"`
	UserID            string             `json:"userId"`
	MilestoneID       string             `json:"milestoneId,omitempty"`
	Title             string             `json:"title"`
	Description       string             `json:"description"`
	Priority          Priority           `json:"priority"`
	Difficulty        Difficulty         `json:"difficulty"`
	Status            TaskStatus         `json:"status"`
	ScheduledDate     time.Time          `json:"scheduledDate"`
	EstimatedMinutes  int                `json:"estimatedMinutes"`
	ActualMinutes     *int               `json:"actualMinutes,omitempty"`
	CompletedAt       *time.Time         `json:"completedAt,omitempty"`
	IsAIGenerated     bool               `json:"isAiGenerated"`
	AIReasoning       string             `json:"aiReasoning,omitempty"`
	IsRecurring       bool               `json:"isRecurring"`
	RecurrencePattern *RecurrencePattern `json:"recurrencePattern,omitempty"`
	Order             int                `json:"order"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// IsOverdue reports whether the task's scheduled day is strictly before
// now's day. Completed and skipped tasks are never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Status == TaskCompleted || t.Status == TaskSkipped {
		return false
	}
	return truncateToDay(t.ScheduledDate).Before(truncateToDay(now))
}

// SetStatus transitions the task and keeps completedAt consistent with it:
// set when entering COMPLETED, cleared when leaving it.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	t.Status = status
	if status == TaskCompleted {
		at := now
		t.CompletedAt = &at
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = now
}
