// Package localstore is the device-local persistence adapter. Four logical
// records (onboarding draft, user profile, goals list, tasks list) live as
// JSON blobs in a single key-value table, so the storage contract stays the
// same whether the backing database is SQLite or Postgres.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/marion/goalpath-data/models"
)

const (
	keyUserProfile     = "goalpath:user_profile"
	keyOnboardingDraft = "goalpath:onboarding_data"
	keyGoals           = "goalpath:goals"
	keyTasks           = "goalpath:tasks"
	keyMigrated        = "goalpath:migrated"
)

// Record is one stored key-value row.
type Record struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open connects to the local database and runs migrations. A DSN starting
// with "postgres" selects the Postgres driver, anything else is treated as
// a SQLite file path.
func Open(dsn string, log *zap.Logger) (*Store, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("localstore: open: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("localstore: migrate: %w", err)
	}

	return &Store{db: db, log: log}, nil
}

// getValue reads a key. Absence and read faults both come back as
// (nil, false); faults are logged so a first-run empty state still renders.
func (s *Store) getValue(key string) ([]byte, bool) {
	var rec Record
	err := s.db.First(&rec, "key = ?", key).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("local read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return rec.Value, true
}

func (s *Store) setValue(key string, value []byte) error {
	err := s.db.Save(&Record{Key: key, Value: value, UpdatedAt: time.Now()}).Error
	if err != nil {
		s.log.Error("local write failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("localstore: write %s: %w", key, err)
	}
	return nil
}

// SaveOnboardingDraft overwrites the single stored wizard draft.
func (s *Store) SaveOnboardingDraft(draft models.OnboardingDraft) error {
	draft.UpdatedAt = time.Now()
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("localstore: encode draft: %w", err)
	}
	return s.setValue(keyOnboardingDraft, data)
}

// OnboardingDraft returns the stored draft, or nil when absent.
func (s *Store) OnboardingDraft() *models.OnboardingDraft {
	data, ok := s.getValue(keyOnboardingDraft)
	if !ok {
		return nil
	}
	var draft models.OnboardingDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		s.log.Error("local draft corrupt", zap.Error(err))
		return nil
	}
	return &draft
}

// SaveUserProfile merges a patch over the stored profile (empty profile when
// absent), forcing the id and refreshing updatedAt. Last write wins.
func (s *Store) SaveUserProfile(id string, patch models.UserPatch) error {
	user := s.UserProfile()
	if user == nil {
		user = &models.User{CreatedAt: time.Now()}
	}
	patch.Apply(user, time.Now())
	user.ID = id

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("localstore: encode profile: %w", err)
	}
	return s.setValue(keyUserProfile, data)
}

// UserProfile returns the stored profile, or nil when absent.
func (s *Store) UserProfile() *models.User {
	data, ok := s.getValue(keyUserProfile)
	if !ok {
		return nil
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.log.Error("local profile corrupt", zap.Error(err))
		return nil
	}
	return &user
}

// SaveGoal replaces the goal with the same id in the stored list, or
// appends it, then rewrites the whole list.
func (s *Store) SaveGoal(goal models.Goal) error {
	goals := s.Goals()
	replaced := false
	for i := range goals {
		if goals[i].ID == goal.ID {
			goals[i] = goal
			replaced = true
			break
		}
	}
	if !replaced {
		goals = append(goals, goal)
	}
	return s.writeGoals(goals)
}

// Goals returns all locally stored goals. Faults degrade to an empty list.
func (s *Store) Goals() []models.Goal {
	data, ok := s.getValue(keyGoals)
	if !ok {
		return []models.Goal{}
	}
	var goals []models.Goal
	if err := json.Unmarshal(data, &goals); err != nil {
		s.log.Error("local goals corrupt", zap.Error(err))
		return []models.Goal{}
	}
	return goals
}

func (s *Store) DeleteGoal(id string) error {
	goals := s.Goals()
	kept := goals[:0]
	for _, g := range goals {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	return s.writeGoals(kept)
}

func (s *Store) writeGoals(goals []models.Goal) error {
	data, err := json.Marshal(goals)
	if err != nil {
		return fmt.Errorf("localstore: encode goals: %w", err)
	}
	return s.setValue(keyGoals, data)
}

// ClearAll deletes every record this adapter owns. Best effort: a partial
// failure still attempts the remaining keys.
func (s *Store) ClearAll() error {
	keys := []string{keyUserProfile, keyOnboardingDraft, keyGoals, keyTasks, keyMigrated}
	err := s.db.Delete(&Record{}, "key IN ?", keys).Error
	if err != nil {
		s.log.Error("local clear failed", zap.Error(err))
		return fmt.Errorf("localstore: clear: %w", err)
	}
	return nil
}

// Migrated reports whether the one-shot remote migration already ran.
func (s *Store) Migrated() bool {
	_, ok := s.getValue(keyMigrated)
	return ok
}

// MarkMigrated records that the remote migration completed.
func (s *Store) MarkMigrated() error {
	return s.setValue(keyMigrated, []byte(time.Now().UTC().Format(time.RFC3339)))
}
