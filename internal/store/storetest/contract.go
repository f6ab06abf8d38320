// Package storetest holds the behavioural test suite every store.TaskStore
// engine must pass.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
)

// Factory returns an empty store for a single subtest.
type Factory func(t *testing.T) store.TaskStore

var baseTime = time.Date(2025, 1, 2, 3, 4, 5, 678901000, time.UTC)

func strPtr(s string) *string { return &s }

func newTask(t *testing.T, title string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(domain.TaskDraft{Title: title}, baseTime)
	require.NoError(t, err)
	return task
}

// RunTaskStoreTests runs the TaskStore contract against stores built by newStore.
func RunTaskStoreTests(t *testing.T, newStore Factory) {
	t.Run("CreateAssignsIncreasingIDs", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first := newTask(t, "first")
		second := newTask(t, "second")
		require.NoError(t, s.Create(ctx, first))
		require.NoError(t, s.Create(ctx, second))

		assert.Positive(t, first.ID)
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		task, err := domain.NewTask(domain.TaskDraft{
			Title:       "Write report",
			Description: strPtr("quarterly numbers"),
			Status:      domain.TaskStatusInProgress,
			AssignedTo:  strPtr("alice"),
		}, baseTime)
		require.NoError(t, err)
		require.NoError(t, s.Create(ctx, task))

		got, err := s.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task, got)
	})

	t.Run("ListOrderedAndEmpty", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		tasks, err := s.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)

		for _, title := range []string{"a", "b", "c"} {
			require.NoError(t, s.Create(ctx, newTask(t, title)))
		}

		tasks, err = s.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 3)
		for i := 1; i < len(tasks); i++ {
			assert.Less(t, tasks[i-1].ID, tasks[i].ID)
		}
		assert.Equal(t, "a", tasks[0].Title)
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)

		_, err := s.GetByID(context.Background(), 999)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("UpdatePersistsFields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		task := newTask(t, "before")
		task.Description = strPtr("keep me")
		require.NoError(t, s.Create(ctx, task))

		status := domain.TaskStatusComplete
		task.Apply(domain.TaskPatch{
			Title:  strPtr("after"),
			Status: &status,
		}, baseTime.Add(time.Minute))
		require.NoError(t, s.Update(ctx, task))

		got, err := s.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, task, got)
		assert.Equal(t, "keep me", *got.Description)
	})

	t.Run("UpdateClearsNullableFields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		task := newTask(t, "t")
		task.AssignedTo = strPtr("bob")
		require.NoError(t, s.Create(ctx, task))

		task.Apply(domain.TaskPatch{AssignedTo: domain.Null[string]()}, baseTime.Add(time.Second))
		require.NoError(t, s.Update(ctx, task))

		got, err := s.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Nil(t, got.AssignedTo)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		s := newStore(t)

		task := newTask(t, "ghost")
		task.ID = 12345
		task.Apply(domain.TaskPatch{}, baseTime)
		assert.ErrorIs(t, s.Update(context.Background(), task), store.ErrTaskNotFound)
	})

	t.Run("RejectsInvalidEntity", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		bad := &domain.Task{Title: "", Status: domain.TaskStatusNew, CreatedAt: baseTime}
		assert.ErrorIs(t, s.Create(ctx, bad), store.ErrInvalidEntity)

		task := newTask(t, "ok")
		require.NoError(t, s.Create(ctx, task))
		task.Status = "DONE"
		assert.ErrorIs(t, s.Update(ctx, task), store.ErrInvalidEntity)
	})

	t.Run("DeleteIsFinal", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		keep := newTask(t, "keep")
		drop := newTask(t, "drop")
		require.NoError(t, s.Create(ctx, keep))
		require.NoError(t, s.Create(ctx, drop))

		require.NoError(t, s.Delete(ctx, drop.ID))
		assert.ErrorIs(t, s.Delete(ctx, drop.ID), store.ErrTaskNotFound)

		_, err := s.GetByID(ctx, drop.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		tasks, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, keep.ID, tasks[0].ID)
	})

	t.Run("IDsAreNotReused", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first := newTask(t, "first")
		require.NoError(t, s.Create(ctx, first))
		require.NoError(t, s.Delete(ctx, first.ID))

		second := newTask(t, "second")
		require.NoError(t, s.Create(ctx, second))
		assert.Greater(t, second.ID, first.ID)
	})

	t.Run("RunInTxCommits", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		var id int64
		err := s.RunInTx(ctx, func(ctx context.Context, tx store.TaskStore) error {
			task := newTask(t, "in tx")
			if err := tx.Create(ctx, task); err != nil {
				return err
			}
			id = task.ID
			_, err := tx.GetByID(ctx, id)
			return err
		})
		require.NoError(t, err)

		got, err := s.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "in tx", got.Title)
	})

	t.Run("RunInTxRollsBack", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		existing := newTask(t, "existing")
		require.NoError(t, s.Create(ctx, existing))

		boom := errors.New("boom")
		err := s.RunInTx(ctx, func(ctx context.Context, tx store.TaskStore) error {
			if err := tx.Create(ctx, newTask(t, "phantom")); err != nil {
				return err
			}
			if err := tx.Delete(ctx, existing.ID); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		tasks, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, existing.ID, tasks[0].ID)
	})

	t.Run("RunInTxRollsBackOnPanic", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		assert.Panics(t, func() {
			_ = s.RunInTx(ctx, func(ctx context.Context, tx store.TaskStore) error {
				if err := tx.Create(ctx, newTask(t, "phantom")); err != nil {
					return err
				}
				panic("boom")
			})
		})

		tasks, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("ConcurrentCreates", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const workers = 8
		ids := make([]int64, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				task, err := domain.NewTask(domain.TaskDraft{Title: "concurrent"}, baseTime)
				if !assert.NoError(t, err) {
					return
				}
				if assert.NoError(t, s.Create(ctx, task)) {
					ids[i] = task.ID
				}
			}(i)
		}
		wg.Wait()

		seen := make(map[int64]bool)
		for _, id := range ids {
			assert.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
		}

		tasks, err := s.List(ctx)
		require.NoError(t, err)
		assert.Len(t, tasks, workers)
	})

	t.Run("Ping", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}
