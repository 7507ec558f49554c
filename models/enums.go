package models

// GoalCategory classifies a goal for planning and filtering.
type GoalCategory string

const (
	CategoryCareer       GoalCategory = "CAREER"
	CategoryHealth       GoalCategory = "HEALTH"
	CategoryFinancial    GoalCategory = "FINANCIAL"
	CategoryEducation    GoalCategory = "EDUCATION"
	CategoryPersonal     GoalCategory = "PERSONAL"
	CategoryRelationship GoalCategory = "RELATIONSHIP"
	CategoryOther        GoalCategory = "OTHER"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

type GoalStatus string

const (
	GoalDraft     GoalStatus = "DRAFT"
	GoalActive    GoalStatus = "ACTIVE"
	GoalPaused    GoalStatus = "PAUSED"
	GoalCompleted GoalStatus = "COMPLETED"
	GoalAbandoned GoalStatus = "ABANDONED"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskSkipped    TaskStatus = "SKIPPED"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "DAILY"
	RecurrenceWeekly  RecurrenceType = "WEEKLY"
	RecurrenceMonthly RecurrenceType = "MONTHLY"
)
