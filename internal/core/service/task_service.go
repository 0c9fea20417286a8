package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskboard/task-manager/internal/core/domain"
	"github.com/taskboard/task-manager/internal/core/ports"
)

type TaskService struct {
	tasks  ports.TaskRepository
	users  ports.AuthRepository
	idem   ports.IdempotencyStore
	logger zerolog.Logger
}

// NewTaskService wires the Task Store and Credential Store. idem may be nil,
// in which case Idempotency-Key headers are ignored.
func NewTaskService(tasks ports.TaskRepository, users ports.AuthRepository, idem ports.IdempotencyStore, logger zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, idem: idem, logger: logger}
}

// List returns the caller's tasks, newest first.
func (s *TaskService) List(ctx context.Context, userID string) ([]*domain.Task, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	tasks, err := s.tasks.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns one task. Absent and foreign tasks both yield domain.ErrTaskNotFound.
func (s *TaskService) Get(ctx context.Context, id int64, userID string) (*domain.Task, error) {
	return s.owned(ctx, id, userID)
}

// Create validates the input, resolves the owner and persists a new,
// incomplete task. A repeated Idempotency-Key from the same user returns the
// task created the first time.
func (s *TaskService) Create(ctx context.Context, in ports.CreateTaskInput) (*ports.CreateTaskResult, error) {
	if in.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := domain.ValidateTaskFields(in.Title, in.Description, in.Category); err != nil {
		return nil, err
	}

	owner, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error().Str("user_id", in.UserID).Msg("token references unknown user")
			return nil, fmt.Errorf("create task: %w: %s", domain.ErrOwnerMissing, in.UserID)
		}
		return nil, fmt.Errorf("create task: resolve owner: %w", err)
	}

	if replay := s.replay(ctx, owner.ID, in.IdempotencyKey); replay != nil {
		return &ports.CreateTaskResult{Task: replay, Replayed: true}, nil
	}

	task := &domain.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		IsCompleted: false,
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
		UserID:      owner.ID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("user_id", owner.ID).Msg("failed to create task")
		return nil, fmt.Errorf("create task: %w", err)
	}

	if s.idem != nil && in.IdempotencyKey != "" {
		if err := s.idem.Remember(ctx, owner.ID, in.IdempotencyKey, task.ID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", owner.ID).Msg("failed to store idempotency key")
		}
	}

	s.logger.Info().Int64("task_id", task.ID).Str("user_id", owner.ID).Msg("task created")
	return &ports.CreateTaskResult{Task: task}, nil
}

// replay returns the task an earlier request with the same key created, or
// nil. Store failures degrade to a normal create.
func (s *TaskService) replay(ctx context.Context, userID, key string) *domain.Task {
	if s.idem == nil || key == "" {
		return nil
	}
	id, found, err := s.idem.Lookup(ctx, userID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}
	task, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil
	}
	s.logger.Info().Int64("task_id", id).Str("user_id", userID).Msg("idempotent replay")
	return task
}

// Update overwrites the editable fields of an owned task. Last write wins.
func (s *TaskService) Update(ctx context.Context, in ports.UpdateTaskInput) error {
	if err := domain.ValidateTaskFields(in.Title, in.Description, in.Category); err != nil {
		return err
	}

	task, err := s.owned(ctx, in.ID, in.UserID)
	if err != nil {
		return err
	}

	task.Title = strings.TrimSpace(in.Title)
	task.Description = strings.TrimSpace(in.Description)
	task.Category = strings.TrimSpace(in.Category)
	task.IsCompleted = in.IsCompleted

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
		return fmt.Errorf("update task %d: %w", in.ID, err)
	}

	s.logger.Info().Int64("task_id", task.ID).Str("user_id", in.UserID).Bool("completed", task.IsCompleted).Msg("task updated")
	return nil
}

// Delete removes an owned task.
func (s *TaskService) Delete(ctx context.Context, id int64, userID string) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return err
		}
		return fmt.Errorf("delete task %d: %w", id, err)
	}

	s.logger.Info().Int64("task_id", id).Str("user_id", userID).Msg("task deleted")
	return nil
}

// owned loads a task and verifies the caller owns it. A foreign task is
// reported exactly like a missing one.
func (s *TaskService) owned(ctx context.Context, id int64, userID string) (*domain.Task, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("load task %d: %w", id, err)
	}
	if !task.OwnedBy(userID) {
		s.logger.Warn().Int64("task_id", id).Str("user_id", userID).Msg("access to foreign task refused")
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}
