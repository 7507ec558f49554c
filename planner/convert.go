package planner

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marion/goalpath-data/models"
)

// tasksPerMilestoneSlot is the stride of the cross-milestone order key.
const tasksPerMilestoneSlot = 100

// ConvertPlanToTasks materializes the plan into task records. Milestones
// and their tasks are walked in array order; each task is scheduled at
// now + (weekNumber-1) weeks + (dayOfWeek-1) days, so week 1 day 1 lands on
// today. The order key is (milestoneIndex*100)+taskIndex; when a milestone
// carries 100 or more tasks that key would collide across milestones, so a
// plain global counter takes over instead.
func ConvertPlanToTasks(plan Plan, goalID, userID string, now time.Time) []models.Task {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	overflow := false
	for _, m := range plan.Milestones {
		if len(m.Tasks) >= tasksPerMilestoneSlot {
			overflow = true
			break
		}
	}

	tasks := make([]models.Task, 0)
	counter := 0
	for mi, milestone := range plan.Milestones {
		milestoneID := fmt.Sprintf("milestone-%d", milestone.Order)
		for ti, pt := range milestone.Tasks {
			order := mi*tasksPerMilestoneSlot + ti
			if overflow {
				order = counter
			}
			counter++

			weeks := pt.WeekNumber - 1
			if weeks < 0 {
				weeks = 0
			}
			days := pt.DayOfWeek - 1
			if days < 0 {
				days = 0
			}
			scheduled := today.AddDate(0, 0, weeks*7+days)

			difficulty := models.Difficulty(pt.Difficulty)
			if difficulty == "" {
				difficulty = models.DifficultyMedium
			}
			priority := models.Priority(pt.Priority)
			if priority == "" {
				priority = models.PriorityMedium
			}

			tasks = append(tasks, models.Task{
				ID:               uuid.NewString(),
				GoalID:           goalID,
				UserID:           userID,
				MilestoneID:      milestoneID,
				Title:            pt.Title,
				Description:      pt.Description,
				Priority:         priority,
				Difficulty:       difficulty,
				Status:           models.TaskPending,
				ScheduledDate:    scheduled,
				EstimatedMinutes: pt.EstimatedMinutes,
				IsAIGenerated:    true,
				AIReasoning:      milestone.Tips,
				Order:            order,
				CreatedAt:        now,
				UpdatedAt:        now,
			})
		}
	}
	return tasks
}
