package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

// ErrorMapper translates a driver error into the store's error vocabulary.
// It must return nil for nil and should wrap the original error.
type ErrorMapper func(error) error

// taskColumns is the column list shared by every SELECT.
const taskColumns = `id, title, description, status, assigned_to, created_at, modified_at`

// taskRow is the database shape of a task.
type taskRow struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Status      string         `db:"status"`
	AssignedTo  sql.NullString `db:"assigned_to"`
	CreatedAt   dbTime         `db:"created_at"`
	ModifiedAt  dbTime         `db:"modified_at"`
}

func (r taskRow) toDomain() (*domain.Task, error) {
	status, err := domain.ParseTaskStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("task %d has stored status %q: %w", r.ID, r.Status, err)
	}

	task := &domain.Task{
		ID:        r.ID,
		Title:     r.Title,
		Status:    status,
		CreatedAt: r.CreatedAt.Time,
	}
	if r.Description.Valid {
		task.Description = &r.Description.String
	}
	if r.AssignedTo.Valid {
		task.AssignedTo = &r.AssignedTo.String
	}
	if r.ModifiedAt.Valid {
		modified := r.ModifiedAt.Time
		task.ModifiedAt = &modified
	}
	return task, nil
}

// TaskStore implements store.TaskStore on top of a SQL database.
type TaskStore struct {
	// db is nil for a store bound to a transaction.
	db     *sqlx.DB
	q      store.DBTX
	mapErr ErrorMapper
	logger *slog.Logger
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a SQL implementation of store.TaskStore.
// If mapErr is nil, driver errors are passed through unchanged.
// If logger is nil, a default logger will be used.
func NewTaskStore(db *sqlx.DB, mapErr ErrorMapper, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if mapErr == nil {
		mapErr = func(err error) error { return err }
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		q:      db,
		mapErr: mapErr,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// withTx returns a copy of the store whose queries run on tx.
func (s *TaskStore) withTx(tx *sqlx.Tx) *TaskStore {
	return &TaskStore{
		q:      tx,
		mapErr: s.mapErr,
		logger: s.logger,
	}
}

// DB returns the underlying connection pool, or nil for a transaction-bound store.
func (s *TaskStore) DB() *sqlx.DB {
	return s.db
}

func (s *TaskStore) fail(operation, message string, err error) error {
	return store.NewStoreError("task", operation, message, s.mapErr(err))
}

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := s.q.Rebind(`
		INSERT INTO tasks (title, description, status, assigned_to, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	var id int64
	err := s.q.QueryRowxContext(ctx, query,
		task.Title,
		task.Description,
		string(task.Status),
		task.AssignedTo,
		task.CreatedAt,
		task.ModifiedAt,
	).Scan(&id)
	if err != nil {
		log.Error("failed to create task", slog.String("error", err.Error()))
		return s.fail("create", "failed to insert task", err)
	}

	task.ID = id
	log.Debug("task created", slog.Int64("task_id", id))
	return nil
}

// List implements store.TaskStore.List.
func (s *TaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var rows []taskRow
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY id ASC`
	if err := s.q.SelectContext(ctx, &rows, query); err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, s.fail("list", "failed to query tasks", err)
	}

	tasks := make([]*domain.Task, 0, len(rows))
	for _, row := range rows {
		task, err := row.toDomain()
		if err != nil {
			return nil, store.NewStoreError("task", "list", "corrupt row", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var row taskRow
	query := s.q.Rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`)
	if err := s.q.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task", slog.Int64("task_id", id), slog.String("error", err.Error()))
		return nil, s.fail("get", "failed to query task", err)
	}

	task, err := row.toDomain()
	if err != nil {
		return nil, store.NewStoreError("task", "get", "corrupt row", err)
	}
	return task, nil
}

// Update implements store.TaskStore.Update.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.Int64("task_id", task.ID),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := s.q.Rebind(`
		UPDATE tasks
		SET title = ?, description = ?, status = ?, assigned_to = ?, modified_at = ?
		WHERE id = ?
	`)
	result, err := s.q.ExecContext(ctx, query,
		task.Title,
		task.Description,
		string(task.Status),
		task.AssignedTo,
		task.ModifiedAt,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task", slog.Int64("task_id", task.ID), slog.String("error", err.Error()))
		return s.fail("update", "failed to update task", err)
	}

	if err := s.checkRowsAffected(result, "update"); err != nil {
		return err
	}

	log.Debug("task updated", slog.Int64("task_id", task.ID))
	return nil
}

// Delete implements store.TaskStore.Delete.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := s.q.Rebind(`DELETE FROM tasks WHERE id = ?`)
	result, err := s.q.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete task", slog.Int64("task_id", id), slog.String("error", err.Error()))
		return s.fail("delete", "failed to delete task", err)
	}

	if err := s.checkRowsAffected(result, "delete"); err != nil {
		return err
	}

	log.Debug("task deleted", slog.Int64("task_id", id))
	return nil
}

// RunInTx implements store.TaskStore.RunInTx using store.RunInTransaction.
// A store already bound to a transaction runs fn inside that transaction.
func (s *TaskStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.TaskStore) error) error {
	if s.db == nil {
		return fn(ctx, s)
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		return fn(ctx, s.withTx(tx))
	})
}

// Ping implements store.TaskStore.Ping.
func (s *TaskStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.PingContext(ctx); err != nil {
		return s.fail("ping", "database unreachable", err)
	}
	return nil
}

// checkRowsAffected returns store.ErrTaskNotFound when the statement touched no row.
func (s *TaskStore) checkRowsAffected(result sql.Result, operation string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return s.fail(operation, "failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}
