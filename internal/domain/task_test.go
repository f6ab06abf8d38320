package domain

import (
	"errors"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestNewTask(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 3, 1, 12, 0, 0, 123456789, time.FixedZone("X", 3600))

	task, err := NewTask(TaskDraft{Title: "Write report"}, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.ID != 0 {
		t.Errorf("Expected zero ID before persistence, got %d", task.ID)
	}
	if task.Status != TaskStatusNew {
		t.Errorf("Expected default status %s, got %s", TaskStatusNew, task.Status)
	}
	if task.Description != nil || task.AssignedTo != nil {
		t.Error("Expected nil description and assignee")
	}
	if task.ModifiedAt != nil {
		t.Error("Expected nil ModifiedAt on a new task")
	}
	if task.CreatedAt.Location() != time.UTC {
		t.Errorf("Expected UTC CreatedAt, got %v", task.CreatedAt.Location())
	}
	if task.CreatedAt.Nanosecond()%1000 != 0 {
		t.Errorf("Expected CreatedAt truncated to microseconds, got %v", task.CreatedAt)
	}
}

func TestNewTaskValidation(t *testing.T) {
	t.Parallel()
	now := time.Now()

	tests := []struct {
		name    string
		draft   TaskDraft
		field   string
		wantErr error
	}{
		{"empty title", TaskDraft{Title: ""}, "title", ErrTaskTitleEmpty},
		{"blank title", TaskDraft{Title: "   \t"}, "title", ErrTaskTitleEmpty},
		{"unknown status", TaskDraft{Title: "ok", Status: "DONE"}, "status", ErrInvalidTaskStatus},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTask(tc.draft, now)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Expected error %v, got %v", tc.wantErr, err)
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected *ValidationError, got %T", err)
			}
			if vErr.Field != tc.field {
				t.Errorf("Expected field %q, got %q", tc.field, vErr.Field)
			}
			if !IsValidationError(err) {
				t.Error("Expected IsValidationError to be true")
			}
		})
	}
}

func TestParseTaskStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"NEW", "IN_PROGRESS", "COMPLETE"} {
		status, err := ParseTaskStatus(s)
		if err != nil {
			t.Errorf("Expected %s to parse, got %v", s, err)
		}
		if status.String() != s {
			t.Errorf("Expected %s, got %s", s, status)
		}
	}

	for _, s := range []string{"", "new", "DONE", "COMPLETED"} {
		if _, err := ParseTaskStatus(s); !errors.Is(err, ErrInvalidTaskStatus) {
			t.Errorf("Expected ErrInvalidTaskStatus for %q, got %v", s, err)
		}
	}
}

func TestTaskApply(t *testing.T) {
	t.Parallel()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	task, err := NewTask(TaskDraft{
		Title:       "Original",
		Description: strPtr("desc"),
		AssignedTo:  strPtr("alice"),
	}, created)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	status := TaskStatusComplete
	task.Apply(TaskPatch{
		Status:     &status,
		AssignedTo: Null[string](),
	}, created.Add(time.Hour))

	if task.Title != "Original" {
		t.Errorf("Expected title to be untouched, got %q", task.Title)
	}
	if task.Description == nil || *task.Description != "desc" {
		t.Errorf("Expected description to be untouched, got %v", task.Description)
	}
	if task.Status != TaskStatusComplete {
		t.Errorf("Expected status COMPLETE, got %s", task.Status)
	}
	if task.AssignedTo != nil {
		t.Errorf("Expected assignee cleared by explicit null, got %q", *task.AssignedTo)
	}
	if task.ModifiedAt == nil || !task.ModifiedAt.Equal(created.Add(time.Hour)) {
		t.Errorf("Expected ModifiedAt stamped, got %v", task.ModifiedAt)
	}
	if err := task.Validate(); err != nil {
		t.Errorf("Expected patched task to validate, got %v", err)
	}
}

func TestTaskApplyEmptyPatchStampsModifiedAt(t *testing.T) {
	t.Parallel()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	task, _ := NewTask(TaskDraft{Title: "t"}, created)

	patch := TaskPatch{}
	if !patch.IsEmpty() {
		t.Fatal("Expected zero patch to be empty")
	}
	task.Apply(patch, created.Add(time.Minute))

	if task.ModifiedAt == nil {
		t.Fatal("Expected ModifiedAt to be stamped for an empty patch")
	}
}

func TestTaskApplyModifiedAtIsMonotonic(t *testing.T) {
	t.Parallel()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	task, _ := NewTask(TaskDraft{Title: "t"}, created)

	// Clock behind creation time.
	task.Apply(TaskPatch{}, created.Add(-time.Hour))
	if !task.ModifiedAt.Equal(created) {
		t.Fatalf("Expected ModifiedAt clamped to CreatedAt, got %v", task.ModifiedAt)
	}

	// Same instant twice.
	first := *task.ModifiedAt
	task.Apply(TaskPatch{}, created)
	if !task.ModifiedAt.After(first) {
		t.Fatalf("Expected ModifiedAt %v to be after %v", task.ModifiedAt, first)
	}
	if got := task.ModifiedAt.Sub(first); got != TimestampPrecision {
		t.Errorf("Expected ModifiedAt to advance by %v, got %v", TimestampPrecision, got)
	}
}

func TestTaskClone(t *testing.T) {
	t.Parallel()
	task, _ := NewTask(TaskDraft{Title: "t", Description: strPtr("d")}, time.Now())
	task.Apply(TaskPatch{}, time.Now())

	clone := task.Clone()
	*clone.Description = "changed"
	*clone.ModifiedAt = clone.ModifiedAt.Add(time.Hour)

	if *task.Description != "d" {
		t.Error("Expected clone description to be independent")
	}
	if task.ModifiedAt.Equal(*clone.ModifiedAt) {
		t.Error("Expected clone ModifiedAt to be independent")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewValidationError("title", "cannot be empty", ErrTaskTitleEmpty)
	if err.Error() != "title cannot be empty" {
		t.Errorf("Unexpected message %q", err.Error())
	}

	bare := NewValidationError("", "bad input", nil)
	if bare.Error() != "bad input" {
		t.Errorf("Unexpected message %q", bare.Error())
	}
	if !errors.Is(bare, ErrValidation) {
		t.Error("Expected ValidationError without cause to wrap ErrValidation")
	}
}
