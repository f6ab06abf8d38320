package store

import (
	"context"

	"github.com/phrazzld/task-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// Version: 1.0
type TaskStore interface {
	// Create saves a new task, assigns it the next identifier and writes the
	// identifier back into task.ID.
	// Returns ErrInvalidEntity if the task fails validation.
	Create(ctx context.Context, task *domain.Task) error

	// List returns every stored task ordered by ascending ID.
	// Returns an empty, non-nil slice when the store is empty.
	List(ctx context.Context) ([]*domain.Task, error)

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task doesn't exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Update replaces the stored columns of an existing task.
	// ID and CreatedAt are never changed.
	// Returns ErrTaskNotFound if the task doesn't exist.
	// Returns ErrInvalidEntity if the task fails validation.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by its unique ID.
	// Returns ErrTaskNotFound if the task doesn't exist.
	Delete(ctx context.Context, id int64) error

	// RunInTx runs fn against a view of the store bound to a single atomic unit
	// of work. The unit commits when fn returns nil and rolls back otherwise,
	// so none of fn's writes are visible to other callers on failure.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx TaskStore) error) error

	// Ping reports whether the underlying storage is reachable.
	Ping(ctx context.Context) error
}
