package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTaskRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"title only", `{"title":"Buy milk"}`, false},
		{"all fields", `{"title":"t","description":"d","status":"IN_PROGRESS","assigned_to":"bob"}`, false},
		{"null status uses default", `{"title":"t","status":null}`, false},
		{"missing title", `{"description":"d"}`, true},
		{"null title", `{"title":null}`, true},
		{"blank title", `{"title":"   "}`, true},
		{"unknown status", `{"title":"t","status":"DONE"}`, true},
		{"empty status", `{"title":"t","status":""}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateTaskRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateTaskRequestToDraft(t *testing.T) {
	var req CreateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"t","status":"COMPLETE","assigned_to":"amy"}`), &req))

	draft := req.ToDraft()
	assert.Equal(t, "t", draft.Title)
	assert.Equal(t, domain.TaskStatusComplete, draft.Status)
	assert.Nil(t, draft.Description)
	require.NotNil(t, draft.AssignedTo)
	assert.Equal(t, "amy", *draft.AssignedTo)

	var bare CreateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"t"}`), &bare))
	assert.Equal(t, domain.TaskStatus(""), bare.ToDraft().Status)
}

func TestOptionalStringUnmarshal(t *testing.T) {
	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"description":null,"assigned_to":"bob"}`), &req))

	assert.False(t, req.Title.Set)
	assert.False(t, req.Status.Set)
	assert.True(t, req.Description.Set)
	assert.Nil(t, req.Description.Value)
	assert.True(t, req.AssignedTo.Set)
	require.NotNil(t, req.AssignedTo.Value)
	assert.Equal(t, "bob", *req.AssignedTo.Value)

	var bad UpdateTaskRequest
	assert.Error(t, json.Unmarshal([]byte(`{"title":5}`), &bad))
}

func TestUpdateTaskRequestValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{"empty body object", `{}`, nil},
		{"status only", `{"status":"COMPLETE"}`, nil},
		{"clear nullable fields", `{"description":null,"assigned_to":null}`, nil},
		{"null title", `{"title":null}`, []string{"title"}},
		{"blank title", `{"title":""}`, []string{"title"}},
		{"null status", `{"status":null}`, []string{"status"}},
		{"bad status and title", `{"title":" ","status":"DONE"}`, []string{"title", "status"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateTaskRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			err := req.Validate()
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var got []string
			for _, fe := range fieldErrors(err) {
				got = append(got, fe.Field)
			}
			assert.Equal(t, tt.wantFields, got)
		})
	}
}

func TestUpdateTaskRequestToPatch(t *testing.T) {
	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"new","status":"IN_PROGRESS","description":null}`), &req))

	patch := req.ToPatch()
	require.NotNil(t, patch.Title)
	assert.Equal(t, "new", *patch.Title)
	require.NotNil(t, patch.Status)
	assert.Equal(t, domain.TaskStatusInProgress, *patch.Status)
	assert.Equal(t, domain.Null[string](), patch.Description)
	assert.False(t, patch.AssignedTo.Set)

	var empty UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	assert.True(t, empty.ToPatch().IsEmpty())
}

func TestTaskResponseSerialization(t *testing.T) {
	created := time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)
	task := &domain.Task{
		ID:        7,
		Title:     "Buy milk",
		Status:    domain.TaskStatusNew,
		CreatedAt: created,
	}

	data, err := json.Marshal(taskToResponse(task))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))

	assert.Equal(t, float64(7), body["id"])
	assert.Equal(t, "NEW", body["status"])
	assert.Equal(t, "2025-05-01T09:30:00Z", body["created_at"])
	for _, key := range []string{"description", "assigned_to", "modified_at"} {
		value, present := body[key]
		assert.True(t, present, "%s should be present", key)
		assert.Nil(t, value, "%s should be null", key)
	}

	list, err := json.Marshal(tasksToResponse(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(list))
}
