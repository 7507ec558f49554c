package remotestore

import (
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"

	"github.com/marion/goalpath-data/models"
)

// Document converters. Firestore documents are built as maps so the server
// timestamp sentinel can ride along with plain values; models stay free of
// store-specific tags.

func userDoc(u models.User, isNew bool) map[string]interface{} {
	doc := map[string]interface{}{
		"email":               u.Email,
		"displayName":         u.DisplayName,
		"photoUrl":            u.PhotoURL,
		"onboardingCompleted": u.OnboardingCompleted,
		"updatedAt":           firestore.ServerTimestamp,
	}
	if u.Profile != nil {
		doc["profile"] = map[string]interface{}{
			"age":            u.Profile.Age,
			"occupation":     u.Profile.Occupation,
			"educationLevel": u.Profile.EducationLevel,
			"location":       u.Profile.Location,
		}
	}
	if u.Finances != nil {
		doc["finances"] = map[string]interface{}{
			"monthlyIncome": u.Finances.MonthlyIncome,
			"monthlyBudget": u.Finances.MonthlyBudget,
			"currency":      u.Finances.Currency,
		}
	}
	if u.TimeAvailability != nil {
		doc["timeAvailability"] = map[string]interface{}{
			"dailyHours":     u.TimeAvailability.DailyHours,
			"preferredSlots": u.TimeAvailability.PreferredSlots,
		}
	}
	if u.Skills != nil {
		doc["skills"] = map[string]interface{}{
			"existing":          u.Skills.Existing,
			"learningInterests": u.Skills.LearningInterests,
		}
	}
	if isNew {
		doc["createdAt"] = firestore.ServerTimestamp
	}
	return doc
}

func goalDoc(g models.Goal, isNew bool) map[string]interface{} {
	milestones := make([]map[string]interface{}, 0, len(g.Milestones))
	for _, m := range g.Milestones {
		ms := map[string]interface{}{
			"id":          m.ID,
			"title":       m.Title,
			"description": m.Description,
			"targetDate":  m.TargetDate,
			"completed":   m.Completed,
			"order":       m.Order,
		}
		if m.CompletedAt != nil {
			ms["completedAt"] = *m.CompletedAt
		}
		milestones = append(milestones, ms)
	}

	doc := map[string]interface{}{
		"userId":      g.UserID,
		"title":       g.Title,
		"description": g.Description,
		"category":    string(g.Category),
		"priority":    string(g.Priority),
		"status":      string(g.Status),
		"startDate":   g.StartDate,
		"targetDate":  g.TargetDate,
		"milestones":  milestones,
		"metrics": map[string]interface{}{
			"totalTasks":           g.Metrics.TotalTasks,
			"completedTasks":       g.Metrics.CompletedTasks,
			"currentStreak":        g.Metrics.CurrentStreak,
			"longestStreak":        g.Metrics.LongestStreak,
			"completionPercentage": g.Metrics.CompletionPercentage,
		},
		"tags":      g.Tags,
		"updatedAt": firestore.ServerTimestamp,
	}
	if g.CompletedDate != nil {
		doc["completedDate"] = *g.CompletedDate
	}
	if isNew {
		doc["createdAt"] = firestore.ServerTimestamp
	}
	return doc
}

func taskDoc(t models.Task, isNew bool) map[string]interface{} {
	doc := map[string]interface{}{
		"goalId":           t.GoalID,
		"userId":           t.UserID,
		"title":            t.Title,
		"description":      t.Description,
		"priority":         string(t.Priority),
		"difficulty":       string(t.Difficulty),
		"status":           string(t.Status),
		"scheduledDate":    t.ScheduledDate,
		"estimatedMinutes": t.EstimatedMinutes,
		"isAiGenerated":    t.IsAIGenerated,
		"isRecurring":      t.IsRecurring,
		"order":            t.Order,
		"updatedAt":        firestore.ServerTimestamp,
	}
	if t.MilestoneID != "" {
		doc["milestoneId"] = t.MilestoneID
	}
	if t.ActualMinutes != nil {
		doc["actualMinutes"] = *t.ActualMinutes
	}
	if t.CompletedAt != nil {
		doc["completedAt"] = *t.CompletedAt
	}
	if t.AIReasoning != "" {
		doc["aiReasoning"] = t.AIReasoning
	}
	if t.RecurrencePattern != nil {
		rp := map[string]interface{}{
			"type":     string(t.RecurrencePattern.Type),
			"interval": t.RecurrencePattern.Interval,
		}
		if len(t.RecurrencePattern.DaysOfWeek) > 0 {
			rp["daysOfWeek"] = t.RecurrencePattern.DaysOfWeek
		}
		if t.RecurrencePattern.DayOfMonth != nil {
			rp["dayOfMonth"] = *t.RecurrencePattern.DayOfMonth
		}
		if t.RecurrencePattern.EndDate != nil {
			rp["endDate"] = *t.RecurrencePattern.EndDate
		}
		doc["recurrencePattern"] = rp
	}
	if isNew {
		doc["createdAt"] = firestore.ServerTimestamp
	}
	return doc
}

func docToGoal(id string, data map[string]interface{}, log *zap.Logger) models.Goal {
	now := time.Now()
	g := models.Goal{
		ID:          id,
		UserID:      strField(data, "userId"),
		Title:       strField(data, "title"),
		Description: strField(data, "description"),
		Category:    models.GoalCategory(strField(data, "category")),
		Priority:    models.Priority(strField(data, "priority")),
		Status:      models.GoalStatus(strField(data, "status")),
		StartDate:   timeField(data, "startDate", id, now, log),
		TargetDate:  timeField(data, "targetDate", id, now, log),
		Tags:        strSliceField(data, "tags"),
		CreatedAt:   timeField(data, "createdAt", id, now, log),
		UpdatedAt:   timeField(data, "updatedAt", id, now, log),
	}
	if _, ok := data["completedDate"]; ok {
		at := timeField(data, "completedDate", id, now, log)
		g.CompletedDate = &at
	}

	if raw, ok := data["milestones"].([]interface{}); ok {
		for _, item := range raw {
			ms, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			milestone := models.Milestone{
				ID:          strField(ms, "id"),
				Title:       strField(ms, "title"),
				Description: strField(ms, "description"),
				TargetDate:  timeField(ms, "targetDate", id, now, log),
				Completed:   boolField(ms, "completed"),
				Order:       intField(ms, "order"),
			}
			if _, ok := ms["completedAt"]; ok {
				at := timeField(ms, "completedAt", id, now, log)
				milestone.CompletedAt = &at
			}
			g.Milestones = append(g.Milestones, milestone)
		}
	}

	if metrics, ok := data["metrics"].(map[string]interface{}); ok {
		g.Metrics = models.GoalMetrics{
			TotalTasks:           intField(metrics, "totalTasks"),
			CompletedTasks:       intField(metrics, "completedTasks"),
			CurrentStreak:        intField(metrics, "currentStreak"),
			LongestStreak:        intField(metrics, "longestStreak"),
			CompletionPercentage: intField(metrics, "completionPercentage"),
		}
	}
	return g
}

func docToTask(id string, data map[string]interface{}, log *zap.Logger) models.Task {
	now := time.Now()
	t := models.Task{
		ID:               id,
		GoalID:           strField(data, "goalId"),
		UserID:           strField(data, "userId"),
		MilestoneID:      strField(data, "milestoneId"),
		Title:            strField(data, "title"),
		Description:      strField(data, "description"),
		Priority:         models.Priority(strField(data, "priority")),
		Difficulty:       models.Difficulty(strField(data, "difficulty")),
		Status:           models.TaskStatus(strField(data, "status")),
		ScheduledDate:    timeField(data, "scheduledDate", id, now, log),
		EstimatedMinutes: intField(data, "estimatedMinutes"),
		IsAIGenerated:    boolField(data, "isAiGenerated"),
		AIReasoning:      strField(data, "aiReasoning"),
		IsRecurring:      boolField(data, "isRecurring"),
		Order:            intField(data, "order"),
		CreatedAt:        timeField(data, "createdAt", id, now, log),
		UpdatedAt:        timeField(data, "updatedAt", id, now, log),
	}
	if v, ok := data["actualMinutes"]; ok {
		minutes := toInt(v)
		t.ActualMinutes = &minutes
	}
	if _, ok := data["completedAt"]; ok {
		at := timeField(data, "completedAt", id, now, log)
		t.CompletedAt = &at
	}
	if rp, ok := data["recurrencePattern"].(map[string]interface{}); ok {
		pattern := models.RecurrencePattern{
			Type:     models.RecurrenceType(strField(rp, "type")),
			Interval: intField(rp, "interval"),
		}
		if days, ok := rp["daysOfWeek"].([]interface{}); ok {
			for _, d := range days {
				pattern.DaysOfWeek = append(pattern.DaysOfWeek, toInt(d))
			}
		}
		if v, ok := rp["dayOfMonth"]; ok {
			day := toInt(v)
			pattern.DayOfMonth = &day
		}
		if _, ok := rp["endDate"]; ok {
			end := timeField(rp, "endDate", id, now, log)
			pattern.EndDate = &end
		}
		t.RecurrencePattern = &pattern
	}
	return t
}

func goalPatchUpdates(p models.GoalPatch, now time.Time) []firestore.Update {
	updates := []firestore.Update{{Path: "updatedAt", Value: firestore.ServerTimestamp}}
	if p.Title != nil {
		updates = append(updates, firestore.Update{Path: "title", Value: *p.Title})
	}
	if p.Description != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *p.Description})
	}
	if p.Category != nil {
		updates = append(updates, firestore.Update{Path: "category", Value: string(*p.Category)})
	}
	if p.Priority != nil {
		updates = append(updates, firestore.Update{Path: "priority", Value: string(*p.Priority)})
	}
	if p.Status != nil {
		updates = append(updates, firestore.Update{Path: "status", Value: string(*p.Status)})
		if *p.Status == models.GoalCompleted {
			updates = append(updates, firestore.Update{Path: "completedDate", Value: now})
		} else {
			updates = append(updates, firestore.Update{Path: "completedDate", Value: firestore.Delete})
		}
	}
	if p.TargetDate != nil {
		updates = append(updates, firestore.Update{Path: "targetDate", Value: *p.TargetDate})
	}
	if p.Tags != nil {
		updates = append(updates, firestore.Update{Path: "tags", Value: *p.Tags})
	}
	return updates
}

func taskPatchUpdates(p models.TaskPatch, now time.Time) []firestore.Update {
	updates := []firestore.Update{{Path: "updatedAt", Value: firestore.ServerTimestamp}}
	if p.Title != nil {
		updates = append(updates, firestore.Update{Path: "title", Value: *p.Title})
	}
	if p.Description != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *p.Description})
	}
	if p.Priority != nil {
		updates = append(updates, firestore.Update{Path: "priority", Value: string(*p.Priority)})
	}
	if p.Difficulty != nil {
		updates = append(updates, firestore.Update{Path: "difficulty", Value: string(*p.Difficulty)})
	}
	if p.Status != nil {
		updates = append(updates, firestore.Update{Path: "status", Value: string(*p.Status)})
		if *p.Status == models.TaskCompleted {
			updates = append(updates, firestore.Update{Path: "completedAt", Value: now})
		} else {
			updates = append(updates, firestore.Update{Path: "completedAt", Value: firestore.Delete})
		}
	}
	if p.ScheduledDate != nil {
		updates = append(updates, firestore.Update{Path: "scheduledDate", Value: *p.ScheduledDate})
	}
	if p.EstimatedMinutes != nil {
		updates = append(updates, firestore.Update{Path: "estimatedMinutes", Value: *p.EstimatedMinutes})
	}
	if p.ActualMinutes != nil {
		updates = append(updates, firestore.Update{Path: "actualMinutes", Value: *p.ActualMinutes})
	}
	return updates
}

func strField(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func boolField(data map[string]interface{}, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

func intField(data map[string]interface{}, key string) int {
	v, ok := data[key]
	if !ok {
		return 0
	}
	return toInt(v)
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func strSliceField(data map[string]interface{}, key string) []string {
	raw, ok := data[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// timeField converts a stored timestamp back to a date value. An absent
// field defaults to now; a present but mistyped one defaults too, with a
// data-integrity warning naming the record.
func timeField(data map[string]interface{}, key, id string, now time.Time, log *zap.Logger) time.Time {
	v, ok := data[key]
	if !ok || v == nil {
		return now
	}
	if t, ok := v.(time.Time); ok {
		return t
	}
	log.Warn("unexpected timestamp type, defaulting to now",
		zap.String("id", id),
		zap.String("field", key),
	)
	return now
}
