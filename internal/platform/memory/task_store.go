// Package memory provides a process-local implementation of store.TaskStore,
// used for development and tests when no database is configured.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

// TaskStore keeps tasks in memory behind a single RWMutex.
// Every value handed in or out is copied, so callers never share state with the store.
type TaskStore struct {
	mu     sync.RWMutex
	state  *taskState
	logger *slog.Logger
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates an empty in-memory task store.
// If logger is nil, a default logger will be used.
func NewTaskStore(logger *slog.Logger) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		state:  newTaskState(),
		logger: logger.With(slog.String("component", "memory_task_store")),
	}
}

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.create(ctx, task)
}

// List implements store.TaskStore.List.
func (s *TaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.list(ctx)
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.get(ctx, id)
}

// Update implements store.TaskStore.Update.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.update(ctx, task)
}

// Delete implements store.TaskStore.Delete.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.remove(ctx, id)
}

// Ping implements store.TaskStore.Ping. The in-memory store is always reachable.
func (s *TaskStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// RunInTx implements store.TaskStore.RunInTx.
// fn works on a private copy of the store that replaces the live state only
// when fn returns nil. The write lock is held for the whole call, so
// transactions are serialized.
func (s *TaskStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.TaskStore) error) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(ctx, &txStore{state: snapshot}); err != nil {
		log.Debug("rolled back transaction due to error", slog.String("error", err.Error()))
		return err
	}

	if err := ctx.Err(); err != nil {
		log.Debug("rolled back transaction due to cancelled context", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrTransactionFailed, err)
	}

	s.state = snapshot
	log.Debug("transaction committed successfully")
	return nil
}

// txStore is the view of a snapshot handed to RunInTx callbacks.
// The enclosing RunInTx already holds the lock.
type txStore struct {
	state *taskState
}

func (t *txStore) Create(ctx context.Context, task *domain.Task) error {
	return t.state.create(ctx, task)
}

func (t *txStore) List(ctx context.Context) ([]*domain.Task, error) {
	return t.state.list(ctx)
}

func (t *txStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return t.state.get(ctx, id)
}

func (t *txStore) Update(ctx context.Context, task *domain.Task) error {
	return t.state.update(ctx, task)
}

func (t *txStore) Delete(ctx context.Context, id int64) error {
	return t.state.remove(ctx, id)
}

func (t *txStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (t *txStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.TaskStore) error) error {
	return fn(ctx, t)
}

// taskState is the data behind a store or a transaction snapshot.
type taskState struct {
	tasks  map[int64]*domain.Task
	nextID int64
}

func newTaskState() *taskState {
	return &taskState{tasks: make(map[int64]*domain.Task), nextID: 1}
}

func (st *taskState) clone() *taskState {
	c := &taskState{tasks: make(map[int64]*domain.Task, len(st.tasks)), nextID: st.nextID}
	for id, task := range st.tasks {
		c.tasks[id] = task.Clone()
	}
	return c
}

func (st *taskState) create(ctx context.Context, task *domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	task.ID = st.nextID
	st.nextID++
	st.tasks[task.ID] = task.Clone()
	return nil
}

func (st *taskState) list(ctx context.Context) ([]*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids := slices.Sorted(maps.Keys(st.tasks))
	tasks := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, st.tasks[id].Clone())
	}
	return tasks, nil
}

func (st *taskState) get(ctx context.Context, id int64) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	task, ok := st.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return task.Clone(), nil
}

func (st *taskState) update(ctx context.Context, task *domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	existing, ok := st.tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}

	updated := task.Clone()
	updated.CreatedAt = existing.CreatedAt
	st.tasks[task.ID] = updated
	return nil
}

func (st *taskState) remove(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := st.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(st.tasks, id)
	return nil
}
