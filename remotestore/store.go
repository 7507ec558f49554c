// Package remotestore mirrors the local record kinds in Firestore: three
// collections (users, goals, tasks) keyed by entity id, with server-assigned
// createdAt/updatedAt timestamps and atomic batch writes for anything that
// must not be observable half-done.
package remotestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/marion/goalpath-data/models"
)

const (
	usersCollection = "users"
	goalsCollection = "goals"
	tasksCollection = "tasks"
)

type Store struct {
	client *firestore.Client
	log    *zap.Logger
}

// New initializes the Firebase app from a service account file and opens a
// Firestore client.
func New(ctx context.Context, serviceAccountPath string, log *zap.Logger) (*Store, error) {
	var opts []option.ClientOption
	if serviceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("remotestore: init firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("remotestore: open firestore: %w", err)
	}

	return &Store{client: client, log: log}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// exists probes a document so the caller can decide whether createdAt needs
// stamping on this write.
func (s *Store) exists(ctx context.Context, ref *firestore.DocumentRef) (bool, error) {
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return snap.Exists(), nil
}

// SaveUser upserts the user document.
func (s *Store) SaveUser(ctx context.Context, user models.User) error {
	ref := s.client.Collection(usersCollection).Doc(user.ID)
	isNew, err := s.exists(ctx, ref)
	if err == nil {
		_, err = ref.Set(ctx, userDoc(user, !isNew), firestore.MergeAll)
	}
	if err != nil {
		s.log.Error("save user failed", zap.String("userId", user.ID), zap.Error(err))
		return fmt.Errorf("remotestore: save user %s: %w", user.ID, err)
	}
	return nil
}

// SaveGoal upserts the goal document. createdAt is stamped server-side on
// first write only; updatedAt on every write.
func (s *Store) SaveGoal(ctx context.Context, goal models.Goal) error {
	ref := s.client.Collection(goalsCollection).Doc(goal.ID)
	exists, err := s.exists(ctx, ref)
	if err == nil {
		_, err = ref.Set(ctx, goalDoc(goal, !exists), firestore.MergeAll)
	}
	if err != nil {
		s.log.Error("save goal failed", zap.String("goalId", goal.ID), zap.Error(err))
		return fmt.Errorf("remotestore: save goal %s: %w", goal.ID, err)
	}
	return nil
}

// SaveTask upserts a single task document.
func (s *Store) SaveTask(ctx context.Context, task models.Task) error {
	ref := s.client.Collection(tasksCollection).Doc(task.ID)
	exists, err := s.exists(ctx, ref)
	if err == nil {
		_, err = ref.Set(ctx, taskDoc(task, !exists), firestore.MergeAll)
	}
	if err != nil {
		s.log.Error("save task failed", zap.String("taskId", task.ID), zap.Error(err))
		return fmt.Errorf("remotestore: save task %s: %w", task.ID, err)
	}
	return nil
}

// SaveTasks writes the whole batch in one atomic commit.
func (s *Store) SaveTasks(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	batch := s.client.Batch()
	for _, task := range tasks {
		ref := s.client.Collection(tasksCollection).Doc(task.ID)
		exists, err := s.exists(ctx, ref)
		if err != nil {
			s.log.Error("save tasks probe failed", zap.String("taskId", task.ID), zap.Error(err))
			return fmt.Errorf("remotestore: save tasks: %w", err)
		}
		batch.Set(ref, taskDoc(task, !exists), firestore.MergeAll)
	}
	if _, err := batch.Commit(ctx); err != nil {
		s.log.Error("save tasks batch failed", zap.Int("count", len(tasks)), zap.Error(err))
		return fmt.Errorf("remotestore: save tasks: %w", err)
	}
	return nil
}

// Goals returns the user's goals, newest first.
func (s *Store) Goals(ctx context.Context, userID string) ([]models.Goal, error) {
	iter := s.client.Collection(goalsCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var goals []models.Goal
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			s.log.Error("list goals failed", zap.String("userId", userID), zap.Error(err))
			return nil, fmt.Errorf("remotestore: list goals: %w", err)
		}
		goals = append(goals, docToGoal(doc.Ref.ID, doc.Data(), s.log))
	}
	return goals, nil
}

// Tasks returns the user's tasks ordered by scheduled date.
func (s *Store) Tasks(ctx context.Context, userID string) ([]models.Task, error) {
	return s.queryTasks(ctx, "userId", userID)
}

// TasksByGoal returns a goal's tasks ordered by scheduled date.
func (s *Store) TasksByGoal(ctx context.Context, goalID string) ([]models.Task, error) {
	return s.queryTasks(ctx, "goalId", goalID)
}

func (s *Store) queryTasks(ctx context.Context, field, value string) ([]models.Task, error) {
	iter := s.client.Collection(tasksCollection).
		Where(field, "==", value).
		OrderBy("scheduledDate", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var tasks []models.Task
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			s.log.Error("list tasks failed", zap.String(field, value), zap.Error(err))
			return nil, fmt.Errorf("remotestore: list tasks: %w", err)
		}
		tasks = append(tasks, docToTask(doc.Ref.ID, doc.Data(), s.log))
	}
	return tasks, nil
}

// UpdateGoal applies a partial update. updatedAt is always re-stamped.
func (s *Store) UpdateGoal(ctx context.Context, id string, patch models.GoalPatch) error {
	updates := goalPatchUpdates(patch, time.Now())
	_, err := s.client.Collection(goalsCollection).Doc(id).Update(ctx, updates)
	if err != nil {
		s.log.Error("update goal failed", zap.String("goalId", id), zap.Error(err))
		return fmt.Errorf("remotestore: update goal %s: %w", id, err)
	}
	return nil
}

// UpdateTask applies a partial update. updatedAt is always re-stamped.
func (s *Store) UpdateTask(ctx context.Context, id string, patch models.TaskPatch) error {
	updates := taskPatchUpdates(patch, time.Now())
	_, err := s.client.Collection(tasksCollection).Doc(id).Update(ctx, updates)
	if err != nil {
		s.log.Error("update task failed", zap.String("taskId", id), zap.Error(err))
		return fmt.Errorf("remotestore: update task %s: %w", id, err)
	}
	return nil
}

// UpdateGoalStatus is a convenience wrapper over UpdateGoal.
func (s *Store) UpdateGoalStatus(ctx context.Context, id string, goalStatus models.GoalStatus) error {
	return s.UpdateGoal(ctx, id, models.GoalPatch{Status: &goalStatus})
}

// UpdateTaskStatus is a convenience wrapper over UpdateTask. Completion
// stamps completedAt client-side before the partial update goes out.
func (s *Store) UpdateTaskStatus(ctx context.Context, id string, taskStatus models.TaskStatus) error {
	return s.UpdateTask(ctx, id, models.TaskPatch{Status: &taskStatus})
}

// DeleteGoal removes the goal and every task referencing it in one atomic
// commit, so no reader ever observes a partial cascade.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	iter := s.client.Collection(tasksCollection).Where("goalId", "==", id).Documents(ctx)
	defer iter.Stop()

	batch := s.client.Batch()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			s.log.Error("delete goal task query failed", zap.String("goalId", id), zap.Error(err))
			return fmt.Errorf("remotestore: delete goal %s: %w", id, err)
		}
		batch.Delete(doc.Ref)
	}
	batch.Delete(s.client.Collection(goalsCollection).Doc(id))

	if _, err := batch.Commit(ctx); err != nil {
		s.log.Error("delete goal batch failed", zap.String("goalId", id), zap.Error(err))
		return fmt.Errorf("remotestore: delete goal %s: %w", id, err)
	}
	return nil
}

// SyncLocalData upserts every given goal and task in one atomic batch,
// forcing userId on each record. Used once when a locally-accumulated
// dataset moves into the remote store.
func (s *Store) SyncLocalData(ctx context.Context, userID string, goals []models.Goal, tasks []models.Task) error {
	batch := s.client.Batch()

	for _, goal := range goals {
		goal.UserID = userID
		ref := s.client.Collection(goalsCollection).Doc(goal.ID)
		exists, err := s.exists(ctx, ref)
		if err != nil {
			s.log.Error("sync probe failed", zap.String("goalId", goal.ID), zap.Error(err))
			return fmt.Errorf("remotestore: sync: %w", err)
		}
		batch.Set(ref, goalDoc(goal, !exists), firestore.MergeAll)
	}
	for _, task := range tasks {
		task.UserID = userID
		ref := s.client.Collection(tasksCollection).Doc(task.ID)
		exists, err := s.exists(ctx, ref)
		if err != nil {
			s.log.Error("sync probe failed", zap.String("taskId", task.ID), zap.Error(err))
			return fmt.Errorf("remotestore: sync: %w", err)
		}
		batch.Set(ref, taskDoc(task, !exists), firestore.MergeAll)
	}

	if _, err := batch.Commit(ctx); err != nil {
		s.log.Error("sync batch failed",
			zap.String("userId", userID),
			zap.Int("goals", len(goals)),
			zap.Int("tasks", len(tasks)),
			zap.Error(err),
		)
		return fmt.Errorf("remotestore: sync for %s: %w", userID, err)
	}
	return nil
}
