package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/task-api/internal/platform/logger"
)

func newRequest(t *testing.T) (*http.Request, *logger.TestLogBuffer) {
	t.Helper()
	log, buf := logger.GetTestLogger(t)
	ctx := WithTraceID(context.Background(), "test-trace-id")
	ctx = logger.WithLogger(ctx, log)
	req := httptest.NewRequest(http.MethodGet, "/tasks/1", nil)
	return req.WithContext(ctx), buf
}

func TestRespondWithJSON(t *testing.T) {
	req, _ := newRequest(t)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusCreated, map[string]any{"id": 1, "title": "x"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["id"])
	assert.Equal(t, "x", response["title"])
}

func TestRespondWithJSONEmptySlice(t *testing.T) {
	req, _ := newRequest(t)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusOK, []string{})

	assert.Equal(t, "[]\n", w.Body.String())
}

type unencodable struct {
	Circular *unencodable
}

func TestRespondWithJSONEncodingError(t *testing.T) {
	req, buf := newRequest(t)
	w := httptest.NewRecorder()

	data := &unencodable{}
	data.Circular = data

	RespondWithJSON(w, req, http.StatusOK, data)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), "failed to encode JSON response")
}

func TestRespondWithError(t *testing.T) {
	req, _ := newRequest(t)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "Task not found")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Task not found", response.Detail)
	assert.Equal(t, "test-trace-id", response.TraceID)
	assert.Empty(t, response.Errors)
}

func TestRespondWithErrorNoTraceID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusBadRequest, "Invalid request format")

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Invalid request format", response["detail"])
	assert.NotContains(t, response, "trace_id")
	assert.NotContains(t, response, "errors")
}

func TestRespondWithValidationErrors(t *testing.T) {
	req, _ := newRequest(t)
	w := httptest.NewRecorder()

	RespondWithValidationErrors(w, req, "Validation failed", []FieldError{
		{Field: "title", Message: "is required"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Validation failed", response.Detail)
	require.Len(t, response.Errors, 1)
	assert.Equal(t, "title", response.Errors[0].Field)
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name          string
		statusCode    int
		expectedLevel string
	}{
		{"server error", http.StatusInternalServerError, "ERROR"},
		{"client error", http.StatusNotFound, "DEBUG"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, buf := newRequest(t)
			w := httptest.NewRecorder()

			err := errors.New("dial tcp db.example.com:5432: connection refused")
			RespondWithErrorAndLog(w, req, tc.statusCode, "An unexpected error occurred", err)

			assert.Equal(t, tc.statusCode, w.Code)
			assert.NotContains(t, w.Body.String(), "db.example.com")

			entries, parseErr := buf.GetLogEntries()
			require.NoError(t, parseErr)
			require.NotEmpty(t, entries)
			last := entries[len(entries)-1]
			assert.Equal(t, tc.expectedLevel, last["level"])
			assert.Equal(t, "API error response", last["msg"])
			assert.NotContains(t, last["error"], "db.example.com")
			assert.Contains(t, last["error"], "[REDACTED_HOST]")
		})
	}
}
