package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

// TaskService provides task-related operations
type TaskService interface {
	// CreateTask validates the draft, stores it and returns the persisted task
	// with its server-assigned ID and creation time.
	CreateTask(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error)

	// ListTasks returns every task ordered by ascending ID.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// GetTask retrieves a task by its ID.
	// The error matches store.ErrNotFound when the task does not exist.
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// UpdateTask merges patch into the stored task, stamps its modification
	// time and returns the stored result.
	// The error matches store.ErrNotFound when the task does not exist.
	UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteTask removes a task.
	// The error matches store.ErrNotFound when the task does not exist.
	DeleteTask(ctx context.Context, id int64) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks  store.TaskStore
	clock  func() time.Time
	logger *slog.Logger
}

// Option customizes a TaskService.
type Option func(*taskServiceImpl)

// WithClock replaces the time source used to stamp created_at and modified_at.
func WithClock(clock func() time.Time) Option {
	return func(s *taskServiceImpl) {
		s.clock = clock
	}
}

// NewTaskService creates a new TaskService.
// It returns an error if the store is nil.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger, opts ...Option) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		tasks:  tasks,
		clock:  time.Now,
		logger: logger.With(slog.String("component", "task_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, draft domain.TaskDraft) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("operation", "create"))

	task, err := domain.NewTask(draft, s.clock())
	if err != nil {
		log.Debug("task draft failed validation", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create", "invalid task", err)
	}

	var created *domain.Task
	err = s.tasks.RunInTx(ctx, func(ctx context.Context, tx store.TaskStore) error {
		if err := tx.Create(ctx, task); err != nil {
			return err
		}
		stored, err := tx.GetByID(ctx, task.ID)
		if err != nil {
			return err
		}
		created = stored
		return nil
	})
	if err != nil {
		log.Error("failed to create task", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create", "failed to save task", err)
	}

	log.Info("task created", slog.Int64("task_id", created.ID))
	return created, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("operation", "list"))

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, NewTaskServiceError("list", "failed to list tasks", err)
	}

	log.Debug("tasks listed", slog.Int("count", len(tasks)))
	return tasks, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("operation", "get"),
		slog.Int64("task_id", id))

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrapError(log, "get", err)
	}

	log.Debug("task retrieved")
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
// The load, merge and write run in one transaction; the returned task is
// re-read after commit.
func (s *taskServiceImpl) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("operation", "update"),
		slog.Int64("task_id", id))

	err := s.tasks.RunInTx(ctx, func(ctx context.Context, tx store.TaskStore) error {
		task, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}

		task.Apply(patch, s.clock())
		if err := task.Validate(); err != nil {
			return err
		}

		return tx.Update(ctx, task)
	})
	if err != nil {
		return nil, s.wrapError(log, "update", err)
	}

	updated, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrapError(log, "update", err)
	}

	log.Info("task updated", slog.Bool("empty_patch", patch.IsEmpty()))
	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("operation", "delete"),
		slog.Int64("task_id", id))

	err := s.tasks.RunInTx(ctx, func(ctx context.Context, tx store.TaskStore) error {
		if _, err := tx.GetByID(ctx, id); err != nil {
			return err
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return s.wrapError(log, "delete", err)
	}

	log.Info("task deleted")
	return nil
}

// wrapError logs err at a level matching its kind and wraps it in a TaskServiceError.
func (s *taskServiceImpl) wrapError(log *slog.Logger, operation string, err error) error {
	var vErr *domain.ValidationError
	switch {
	case store.IsNotFoundError(err):
		log.Debug("task not found")
		return NewTaskServiceError(operation, "task not found", err)
	case errors.As(err, &vErr), errors.Is(err, store.ErrInvalidEntity):
		log.Debug("task failed validation", slog.String("error", err.Error()))
		return NewTaskServiceError(operation, "invalid task", err)
	default:
		log.Error("task operation failed", slog.String("error", err.Error()))
		return NewTaskServiceError(operation, "storage failure", err)
	}
}
