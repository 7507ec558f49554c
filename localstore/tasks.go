package localstore

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/marion/goalpath-data/models"
)

// taskRecord is the wire form of a stored task. Dates travel as RFC 3339
// strings so decoding can tell "absent" apart from "unparsable".
type taskRecord struct {
	ID                string                    `json:"id"`
	GoalID            string                    `json:"goalId"`
	UserID            string                    `json:"userId"`
	MilestoneID       string                    `json:"milestoneId,omitempty"`
	Title             string                    `json:"title"`
	Description       string                    `json:"description"`
	Priority          models.Priority           `json:"priority"`
	Difficulty        models.Difficulty         `json:"difficulty"`
	Status            models.TaskStatus         `json:"status"`
	ScheduledDate     string                    `json:"scheduledDate,omitempty"`
	EstimatedMinutes  int                       `json:"estimatedMinutes"`
	ActualMinutes     *int                      `json:"actualMinutes,omitempty"`
	CompletedAt       *string                   `json:"completedAt,omitempty"`
	IsAIGenerated     bool                      `json:"isAiGenerated"`
	AIReasoning       string                    `json:"aiReasoning,omitempty"`
	IsRecurring       bool                      `json:"isRecurring"`
	RecurrencePattern *models.RecurrencePattern `json:"recurrencePattern,omitempty"`
	Order             int                       `json:"order"`
	CreatedAt         string                    `json:"createdAt,omitempty"`
	UpdatedAt         string                    `json:"updatedAt,omitempty"`
}

func encodeTask(t models.Task) taskRecord {
	rec := taskRecord{
		ID:                t.ID,
		GoalID:            t.GoalID,
		UserID:            t.UserID,
		MilestoneID:       t.MilestoneID,
		Title:             t.Title,
		Description:       t.Description,
		Priority:          t.Priority,
		Difficulty:        t.Difficulty,
		Status:            t.Status,
		ScheduledDate:     t.ScheduledDate.Format(time.RFC3339),
		EstimatedMinutes:  t.EstimatedMinutes,
		ActualMinutes:     t.ActualMinutes,
		IsAIGenerated:     t.IsAIGenerated,
		AIReasoning:       t.AIReasoning,
		IsRecurring:       t.IsRecurring,
		RecurrencePattern: t.RecurrencePattern,
		Order:             t.Order,
		CreatedAt:         t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         t.UpdatedAt.Format(time.RFC3339),
	}
	if t.CompletedAt != nil {
		at := t.CompletedAt.Format(time.RFC3339)
		rec.CompletedAt = &at
	}
	return rec
}

func (s *Store) decodeTask(rec taskRecord, now time.Time) models.Task {
	t := models.Task{
		ID:                rec.ID,
		GoalID:            rec.GoalID,
		UserID:            rec.UserID,
		MilestoneID:       rec.MilestoneID,
		Title:             rec.Title,
		Description:       rec.Description,
		Priority:          rec.Priority,
		Difficulty:        rec.Difficulty,
		Status:            rec.Status,
		ScheduledDate:     s.parseDate(rec.ScheduledDate, rec.ID, "scheduledDate", now),
		EstimatedMinutes:  rec.EstimatedMinutes,
		ActualMinutes:     rec.ActualMinutes,
		IsAIGenerated:     rec.IsAIGenerated,
		AIReasoning:       rec.AIReasoning,
		IsRecurring:       rec.IsRecurring,
		RecurrencePattern: rec.RecurrencePattern,
		Order:             rec.Order,
		CreatedAt:         s.parseDate(rec.CreatedAt, rec.ID, "createdAt", now),
		UpdatedAt:         s.parseDate(rec.UpdatedAt, rec.ID, "updatedAt", now),
	}
	if rec.CompletedAt != nil {
		at := s.parseDate(*rec.CompletedAt, rec.ID, "completedAt", now)
		t.CompletedAt = &at
	}
	return t
}

// parseDate rehydrates a serialized date. An absent field quietly defaults
// to now; a present but unparsable one also defaults but is logged as a
// data-integrity warning rather than masked silently.
func (s *Store) parseDate(raw, taskID, field string, now time.Time) time.Time {
	if raw == "" {
		return now
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		s.log.Warn("unparsable stored date, defaulting to now",
			zap.String("taskId", taskID),
			zap.String("field", field),
			zap.String("value", raw),
		)
		return now
	}
	return parsed
}

// SaveTasks upserts the batch into the stored list by id: existing entries
// are overwritten, new ones appended. Repeated calls are idempotent per id.
func (s *Store) SaveTasks(tasks []models.Task) error {
	existing := s.Tasks()

	byID := make(map[string]models.Task, len(existing)+len(tasks))
	order := make([]string, 0, len(existing)+len(tasks))
	for _, t := range existing {
		byID[t.ID] = t
		order = append(order, t.ID)
	}
	for _, t := range tasks {
		if _, seen := byID[t.ID]; !seen {
			order = append(order, t.ID)
		}
		byID[t.ID] = t
	}

	merged := make([]models.Task, 0, len(order))
	for _, id := range order {
		merged = append(merged, byID[id])
	}
	return s.writeTasks(merged)
}

// Tasks returns all locally stored tasks with date fields rehydrated.
// Faults degrade to an empty list.
func (s *Store) Tasks() []models.Task {
	data, ok := s.getValue(keyTasks)
	if !ok {
		return []models.Task{}
	}
	var recs []taskRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		s.log.Error("local tasks corrupt", zap.Error(err))
		return []models.Task{}
	}

	now := time.Now()
	tasks := make([]models.Task, 0, len(recs))
	for _, rec := range recs {
		tasks = append(tasks, s.decodeTask(rec, now))
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].ScheduledDate.Before(tasks[j].ScheduledDate)
	})
	return tasks
}

// UpdateTaskStatus mutates one task's status in place, stamping completedAt
// when the task enters COMPLETED.
func (s *Store) UpdateTaskStatus(id string, status models.TaskStatus) error {
	tasks := s.Tasks()
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].SetStatus(status, time.Now())
			return s.writeTasks(tasks)
		}
	}
	return fmt.Errorf("localstore: task %s: %w", id, models.ErrNotFound)
}

func (s *Store) AddTask(task models.Task) error {
	tasks := s.Tasks()
	tasks = append(tasks, task)
	return s.writeTasks(tasks)
}

func (s *Store) DeleteTask(id string) error {
	tasks := s.Tasks()
	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return s.writeTasks(kept)
}

func (s *Store) writeTasks(tasks []models.Task) error {
	recs := make([]taskRecord, 0, len(tasks))
	for _, t := range tasks {
		recs = append(recs, encodeTask(t))
	}
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("localstore: encode tasks: %w", err)
	}
	return s.setValue(keyTasks, data)
}
