package stores

import (
	"sort"
	"sync"
	"time"

	"github.com/marion/goalpath-data/models"
)

type TaskStore struct {
	mu        sync.RWMutex
	byID      map[string]models.Task
	listeners []func([]models.Task)
}

func NewTaskStore() *TaskStore {
	return &TaskStore{byID: make(map[string]models.Task)}
}

func (s *TaskStore) ReplaceAll(tasks []models.Task) {
	s.mu.Lock()
	s.byID = make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		s.byID[t.ID] = t
	}
	s.mu.Unlock()
	s.notify()
}

func (s *TaskStore) Upsert(task models.Task) {
	s.mu.Lock()
	s.byID[task.ID] = task
	s.mu.Unlock()
	s.notify()
}

// UpsertBatch applies a whole generated batch in one notification.
func (s *TaskStore) UpsertBatch(tasks []models.Task) {
	s.mu.Lock()
	for _, t := range tasks {
		s.byID[t.ID] = t
	}
	s.mu.Unlock()
	s.notify()
}

func (s *TaskStore) Remove(id string) {
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
	s.notify()
}

func (s *TaskStore) Get(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byID[id]
	return t, ok
}

// List returns a snapshot ordered by scheduled date, matching the remote
// query ordering.
func (s *TaskStore) List() []models.Task {
	s.mu.RLock()
	tasks := make([]models.Task, 0, len(s.byID))
	for _, t := range s.byID {
		tasks = append(tasks, t)
	}
	s.mu.RUnlock()

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].ScheduledDate.Before(tasks[j].ScheduledDate)
	})
	return tasks
}

// ListByGoal returns the goal's tasks ordered by scheduled date.
func (s *TaskStore) ListByGoal(goalID string) []models.Task {
	all := s.List()
	out := make([]models.Task, 0, len(all))
	for _, t := range all {
		if t.GoalID == goalID {
			out = append(out, t)
		}
	}
	return out
}

// Overdue returns pending or in-progress tasks scheduled before now's day.
func (s *TaskStore) Overdue(now time.Time) []models.Task {
	all := s.List()
	out := make([]models.Task, 0)
	for i := range all {
		if all[i].IsOverdue(now) {
			out = append(out, all[i])
		}
	}
	return out
}

func (s *TaskStore) Subscribe(fn func([]models.Task)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *TaskStore) notify() {
	s.mu.RLock()
	listeners := append([]func([]models.Task){}, s.listeners...)
	s.mu.RUnlock()

	if len(listeners) == 0 {
		return
	}
	snapshot := s.List()
	for _, fn := range listeners {
		fn(snapshot)
	}
}
