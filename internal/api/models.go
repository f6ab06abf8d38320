package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
)

// CreateTaskRequest defines the request payload for creating a task.
type CreateTaskRequest struct {
	Title       string  `json:"title"       validate:"required,notblank"`
	Description *string `json:"description"`
	Status      *string `json:"status"      validate:"omitempty,oneof=NEW IN_PROGRESS COMPLETE"`
	AssignedTo  *string `json:"assigned_to"`
}

// Validate implements custom validation for CreateTaskRequest.
func (r *CreateTaskRequest) Validate() error {
	if err := shared.Validator().Struct(r); err != nil {
		return err
	}
	// omitempty lets an explicit empty string through the tag rules.
	if r.Status != nil {
		if _, err := domain.ParseTaskStatus(*r.Status); err != nil {
			return domain.NewValidationError("status", "must be one of NEW, IN_PROGRESS, COMPLETE", err)
		}
	}
	return nil
}

// ToDraft converts the validated request into a domain draft.
// A missing or null status leaves the domain default in place.
func (r *CreateTaskRequest) ToDraft() domain.TaskDraft {
	draft := domain.TaskDraft{
		Title:       r.Title,
		Description: r.Description,
		AssignedTo:  r.AssignedTo,
	}
	if r.Status != nil {
		draft.Status = domain.TaskStatus(*r.Status)
	}
	return draft
}

// OptionalString is a JSON string field that distinguishes an absent key
// from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked when the key is present.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

func (o OptionalString) toOptional() domain.Optional[string] {
	return domain.Optional[string]{Set: o.Set, Value: o.Value}
}

// UpdateTaskRequest defines the request payload for a partial task update.
// Absent fields are left unchanged; description and assigned_to may be null
// to clear them.
type UpdateTaskRequest struct {
	Title       OptionalString `json:"title"`
	Description OptionalString `json:"description"`
	Status      OptionalString `json:"status"`
	AssignedTo  OptionalString `json:"assigned_to"`
}

// Validate implements custom validation for UpdateTaskRequest.
// Every invalid field is reported.
func (r *UpdateTaskRequest) Validate() error {
	var errs []error

	if r.Title.Set {
		switch {
		case r.Title.Value == nil:
			errs = append(errs, domain.NewValidationError("title", "cannot be null", domain.ErrTaskTitleEmpty))
		case shared.Validator().Var(*r.Title.Value, "notblank") != nil:
			errs = append(errs, domain.NewValidationError("title", "cannot be empty", domain.ErrTaskTitleEmpty))
		}
	}

	if r.Status.Set {
		if r.Status.Value == nil {
			errs = append(errs, domain.NewValidationError("status", "cannot be null", domain.ErrInvalidTaskStatus))
		} else if _, err := domain.ParseTaskStatus(*r.Status.Value); err != nil {
			errs = append(errs, domain.NewValidationError("status", "must be one of NEW, IN_PROGRESS, COMPLETE", err))
		}
	}

	return errors.Join(errs...)
}

// ToPatch converts the validated request into a domain patch.
func (r *UpdateTaskRequest) ToPatch() domain.TaskPatch {
	patch := domain.TaskPatch{
		Description: r.Description.toOptional(),
		AssignedTo:  r.AssignedTo.toOptional(),
	}
	if r.Title.Set && r.Title.Value != nil {
		title := *r.Title.Value
		patch.Title = &title
	}
	if r.Status.Set && r.Status.Value != nil {
		status := domain.TaskStatus(*r.Status.Value)
		patch.Status = &status
	}
	return patch
}

// TaskResponse defines the response payload for a task.
// Nullable fields are always present in the body.
type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	AssignedTo  *string    `json:"assigned_to"`
	CreatedAt   time.Time  `json:"created_at"`
	ModifiedAt  *time.Time `json:"modified_at"`
}

// taskToResponse converts a domain.Task to a TaskResponse.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status.String(),
		AssignedTo:  task.AssignedTo,
		CreatedAt:   task.CreatedAt,
		ModifiedAt:  task.ModifiedAt,
	}
}

// tasksToResponse converts a list of tasks, returning an empty slice rather than nil.
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}
