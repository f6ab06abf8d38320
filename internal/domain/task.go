package domain

import (
	"errors"
	"strings"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusNew        TaskStatus = "NEW"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusComplete   TaskStatus = "COMPLETE"
)

// TimestampPrecision is the resolution all task timestamps are truncated to,
// so that every storage engine round-trips them unchanged.
const TimestampPrecision = time.Microsecond

// Task validation errors
var (
	// ErrTaskTitleEmpty is returned when a task title is empty or blank.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrInvalidTaskStatus is returned when a status is not one of the known values.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrTaskCreatedAtEmpty is returned when a task has no creation timestamp.
	ErrTaskCreatedAtEmpty = errors.New("task created_at cannot be empty")

	// ErrTaskModifiedBeforeCreated is returned when modified_at precedes created_at.
	ErrTaskModifiedBeforeCreated = errors.New("task modified_at cannot precede created_at")
)

// Task is a single unit of work tracked by the system.
// ID is zero until the task has been persisted.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	AssignedTo  *string    `json:"assigned_to"`
	CreatedAt   time.Time  `json:"created_at"`
	ModifiedAt  *time.Time `json:"modified_at"`
}

// TaskDraft carries the client-supplied fields of a task that does not exist yet.
// A zero Status means the default (NEW).
type TaskDraft struct {
	Title       string
	Description *string
	Status      TaskStatus
	AssignedTo  *string
}

// Optional holds a nullable field of a partial update.
// Set is false when the field was absent; Value is nil when it was explicitly null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns an Optional that sets the field to v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns an Optional that clears the field.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// TaskPatch lists the fields a partial update changes. Nil or unset fields are
// left untouched on the stored task.
type TaskPatch struct {
	Title       *string
	Description Optional[string]
	Status      *TaskStatus
	AssignedTo  Optional[string]
}

// ParseTaskStatus converts a string to a TaskStatus.
// Returns ErrInvalidTaskStatus for anything other than the known values.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidTaskStatus
	}
	return status, nil
}

// IsValid reports whether the status is one of the known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusNew, TaskStatusInProgress, TaskStatusComplete:
		return true
	default:
		return false
	}
}

// String returns the wire representation of the status.
func (s TaskStatus) String() string {
	return string(s)
}

// NewTask builds a Task from a draft, applying defaults and stamping CreatedAt.
// Returns an error if validation fails.
func NewTask(draft TaskDraft, now time.Time) (*Task, error) {
	status := draft.Status
	if status == "" {
		status = TaskStatusNew
	}

	task := &Task{
		Title:       draft.Title,
		Description: draft.Description,
		Status:      status,
		AssignedTo:  draft.AssignedTo,
		CreatedAt:   normalizeTime(now),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns a *ValidationError naming the first field that fails.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "cannot be empty", ErrTaskTitleEmpty)
	}

	if !t.Status.IsValid() {
		return NewValidationError("status", "must be one of NEW, IN_PROGRESS, COMPLETE", ErrInvalidTaskStatus)
	}

	if t.CreatedAt.IsZero() {
		return NewValidationError("created_at", "cannot be empty", ErrTaskCreatedAtEmpty)
	}

	if t.ModifiedAt != nil && t.ModifiedAt.Before(t.CreatedAt) {
		return NewValidationError("modified_at", "cannot precede created_at", ErrTaskModifiedBeforeCreated)
	}

	return nil
}

// Apply merges the populated fields of patch into the task and stamps ModifiedAt.
// ModifiedAt is stamped even when the patch is empty or changes nothing.
func (t *Task) Apply(patch TaskPatch, now time.Time) {
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description.Set {
		t.Description = cloneString(patch.Description.Value)
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.AssignedTo.Set {
		t.AssignedTo = cloneString(patch.AssignedTo.Value)
	}

	modified := t.nextModifiedAt(now)
	t.ModifiedAt = &modified
}

// IsEmpty reports whether the patch changes no field.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Status == nil && !p.Description.Set && !p.AssignedTo.Set
}

// nextModifiedAt never goes back before CreatedAt and always moves past the
// previous ModifiedAt, whatever the clock says.
func (t *Task) nextModifiedAt(now time.Time) time.Time {
	next := normalizeTime(now)
	if next.Before(t.CreatedAt) {
		next = t.CreatedAt
	}
	if t.ModifiedAt != nil && !next.After(*t.ModifiedAt) {
		next = t.ModifiedAt.Add(TimestampPrecision)
	}
	return next
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.Description = cloneString(t.Description)
	c.AssignedTo = cloneString(t.AssignedTo)
	if t.ModifiedAt != nil {
		m := *t.ModifiedAt
		c.ModifiedAt = &m
	}
	return &c
}

func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(TimestampPrecision)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
