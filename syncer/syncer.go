// Package syncer performs the one-shot migration of locally-accumulated
// goals and tasks into the remote store when a user adopts remote mode.
// It is deliberately not a general-purpose sync: one direction, last write
// wins, guarded so it cannot silently run twice over divergent states.
package syncer

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/marion/goalpath-data/models"
)

// ErrAlreadyMigrated is returned when the local migration marker is set and
// the caller did not ask to force a re-push.
var ErrAlreadyMigrated = errors.New("syncer: local data already migrated")

// LocalSource is the slice of the local adapter the migration reads.
type LocalSource interface {
	Goals() []models.Goal
	Tasks() []models.Task
	Migrated() bool
	MarkMigrated() error
}

// RemoteSink is the slice of the remote adapter the migration writes.
type RemoteSink interface {
	SyncLocalData(ctx context.Context, userID string, goals []models.Goal, tasks []models.Task) error
}

type Service struct {
	local  LocalSource
	remote RemoteSink
	log    *zap.Logger
}

func New(local LocalSource, remote RemoteSink, log *zap.Logger) *Service {
	return &Service{local: local, remote: remote, log: log}
}

// MigrateOnce pushes the full local contents into the remote store under
// one atomic commit, forcing userID onto every record, then sets the local
// marker. A second call is refused with ErrAlreadyMigrated.
func (s *Service) MigrateOnce(ctx context.Context, userID string) error {
	return s.migrate(ctx, userID, false)
}

// ForceMigrate re-runs the push even when the marker is set. Remote data
// sharing ids with local records is overwritten.
func (s *Service) ForceMigrate(ctx context.Context, userID string) error {
	return s.migrate(ctx, userID, true)
}

func (s *Service) migrate(ctx context.Context, userID string, force bool) error {
	if s.local.Migrated() && !force {
		return ErrAlreadyMigrated
	}

	goals := s.local.Goals()
	tasks := s.local.Tasks()
	if len(goals) == 0 && len(tasks) == 0 {
		s.log.Info("nothing to migrate", zap.String("userId", userID))
		return s.local.MarkMigrated()
	}

	if err := s.remote.SyncLocalData(ctx, userID, goals, tasks); err != nil {
		s.log.Error("migration push failed",
			zap.String("userId", userID),
			zap.Int("goals", len(goals)),
			zap.Int("tasks", len(tasks)),
			zap.Error(err),
		)
		return err
	}

	s.log.Info("local data migrated",
		zap.String("userId", userID),
		zap.Int("goals", len(goals)),
		zap.Int("tasks", len(tasks)),
	)
	return s.local.MarkMigrated()
}
