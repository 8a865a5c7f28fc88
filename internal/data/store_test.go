package data

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Migrate())
	require.NoError(t, store.Health())
}

func TestFeatureRequests(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	t.Run("log and list", func(t *testing.T) {
		id, err := store.LogRequest(ctx, "book a flight to goa",
			"conversation", `no agent registered for intent "conversation"`, "pls book flight goa")
		require.NoError(t, err)
		assert.Greater(t, id, int64(0))

		requests, err := store.ListRequests(ctx, StatusPending)
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, "book a flight to goa", requests[0].Command)
		assert.Equal(t, `no agent registered for intent "conversation"`, requests[0].Reason)
		assert.Equal(t, "pls book flight goa", requests[0].Context)
		assert.Equal(t, StatusPending, requests[0].Status)
	})

	t.Run("mark implemented", func(t *testing.T) {
		id, err := store.LogRequest(ctx, "order groceries", "conversation", "no agent", "order groceries")
		require.NoError(t, err)

		require.NoError(t, store.MarkImplemented(ctx, id))

		implemented, err := store.ListRequests(ctx, StatusImplemented)
		require.NoError(t, err)
		require.Len(t, implemented, 1)
		assert.Equal(t, id, implemented[0].ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := store.MarkImplemented(ctx, 99999)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		err := store.SetRequestStatus(ctx, 1, "shipped")
		assert.Error(t, err)
	})

	t.Run("summary", func(t *testing.T) {
		sum, err := store.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, sum.Total)
		assert.Equal(t, 1, sum.Pending)
		assert.Equal(t, 1, sum.Implemented)
		assert.NotEmpty(t, sum.Recent)
	})

	t.Run("user message rotates with pending count", func(t *testing.T) {
		msg := store.UserMessage(ctx)
		assert.NotEmpty(t, msg)
	})
}

func TestTasks(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	t.Run("add and list", func(t *testing.T) {
		id, err := store.AddTask(ctx, "buy milk")
		require.NoError(t, err)

		_, err = store.AddTask(ctx, "file taxes")
		require.NoError(t, err)

		tasks, err := store.ListTasks(ctx, false)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, id, tasks[0].ID)
		assert.Equal(t, "buy milk", tasks[0].Description)
		assert.False(t, tasks[0].Done)
	})

	t.Run("complete hides from open list", func(t *testing.T) {
		tasks, err := store.ListTasks(ctx, false)
		require.NoError(t, err)
		require.NoError(t, store.CompleteTask(ctx, tasks[0].ID))

		open, err := store.ListTasks(ctx, true)
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.Equal(t, "file taxes", open[0].Description)

		all, err := store.ListTasks(ctx, false)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.True(t, all[0].Done)
		assert.NotNil(t, all[0].CompletedAt)
	})

	t.Run("empty description rejected", func(t *testing.T) {
		_, err := store.AddTask(ctx, "")
		assert.Error(t, err)
	})

	t.Run("complete unknown id", func(t *testing.T) {
		err := store.CompleteTask(ctx, 99999)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})
}
