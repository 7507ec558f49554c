// Package stores provides the in-memory reactive caches feeding the
// presentation layer. They hold whatever the adapters last produced and
// notify subscribers on every change.
package stores

import (
	"sort"
	"sync"

	"github.com/marion/goalpath-data/models"
)

type GoalStore struct {
	mu        sync.RWMutex
	byID      map[string]models.Goal
	listeners []func([]models.Goal)
}

func NewGoalStore() *GoalStore {
	return &GoalStore{byID: make(map[string]models.Goal)}
}

// ReplaceAll swaps the cache contents for a freshly loaded list.
func (s *GoalStore) ReplaceAll(goals []models.Goal) {
	s.mu.Lock()
	s.byID = make(map[string]models.Goal, len(goals))
	for _, g := range goals {
		s.byID[g.ID] = g
	}
	s.mu.Unlock()
	s.notify()
}

func (s *GoalStore) Upsert(goal models.Goal) {
	s.mu.Lock()
	s.byID[goal.ID] = goal
	s.mu.Unlock()
	s.notify()
}

func (s *GoalStore) Remove(id string) {
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
	s.notify()
}

func (s *GoalStore) Get(id string) (models.Goal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.byID[id]
	return g, ok
}

// List returns a snapshot ordered newest first, matching the remote query
// ordering.
func (s *GoalStore) List() []models.Goal {
	s.mu.RLock()
	goals := make([]models.Goal, 0, len(s.byID))
	for _, g := range s.byID {
		goals = append(goals, g)
	}
	s.mu.RUnlock()

	sort.SliceStable(goals, func(i, j int) bool {
		return goals[i].CreatedAt.After(goals[j].CreatedAt)
	})
	return goals
}

func (s *GoalStore) Subscribe(fn func([]models.Goal)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *GoalStore) notify() {
	s.mu.RLock()
	listeners := append([]func([]models.Goal){}, s.listeners...)
	s.mu.RUnlock()

	if len(listeners) == 0 {
		return
	}
	snapshot := s.List()
	for _, fn := range listeners {
		fn(snapshot)
	}
}
