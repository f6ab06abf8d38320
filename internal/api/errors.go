package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
)

// Messages returned to clients. Internal details never reach the response body.
const (
	msgInvalidRequest   = "Invalid request format"
	msgValidationFailed = "Validation failed"
	msgTaskNotFound     = "Task not found"
	msgInvalidTask      = "Invalid task data"
	msgTaskConflict     = "Task already exists"
	msgInternal         = "An unexpected error occurred"
	msgTaskDeleted      = "Task deleted successfully"
)

// MapErrorToStatusCode maps domain, store and service errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var vErrs validator.ValidationErrors
	switch {
	case errors.As(err, &vErrs), domain.IsValidationError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err.
func GetSafeErrorMessage(err error) string {
	var vErrs validator.ValidationErrors
	switch {
	case err == nil:
		return ""
	case errors.As(err, &vErrs), domain.IsValidationError(err):
		return msgValidationFailed
	case errors.Is(err, store.ErrNotFound):
		return msgTaskNotFound
	case errors.Is(err, store.ErrInvalidEntity):
		return msgInvalidTask
	case errors.Is(err, store.ErrDuplicate):
		return msgTaskConflict
	default:
		return msgInternal
	}
}

// HandleAPIError writes the response for an error returned by request
// validation or by the task service.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	if fields := fieldErrors(err); len(fields) > 0 {
		shared.RespondWithValidationErrors(w, r, msgValidationFailed, fields)
		return
	}

	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// fieldErrors flattens validator and domain validation failures into
// per-field messages. Joined errors contribute one entry each.
func fieldErrors(err error) []shared.FieldError {
	if err == nil {
		return nil
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var fields []shared.FieldError
		for _, e := range joined.Unwrap() {
			fields = append(fields, fieldErrors(e)...)
		}
		return fields
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		fields := make([]shared.FieldError, 0, len(vErrs))
		for _, fe := range vErrs {
			fields = append(fields, shared.FieldError{
				Field:   fe.Field(),
				Message: validationTagMessage(fe),
			})
		}
		return fields
	}

	var dErr *domain.ValidationError
	if errors.As(err, &dErr) {
		return []shared.FieldError{{Field: dErr.Field, Message: dErr.Message}}
	}

	return nil
}

// validationTagMessage returns a user-friendly message for a failed validation tag.
func validationTagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "cannot be empty"
	case "oneof":
		return "must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
