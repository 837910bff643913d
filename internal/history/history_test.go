package history_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/lamp/internal/history"
	"github.com/footprint-tools/lamp/internal/testutil"
)

func TestStore_RecordAndRecent(t *testing.T) {
	store := history.NewWithDB(testutil.NewTestDB(t))

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	invocations := []history.Invocation{
		{ExecutionID: "a1", Path: "greet <name>", Input: "greet Alice", Actor: "console", Success: true, InvokedAt: base},
		{ExecutionID: "b2", Path: "ban <player>", Input: "ban Notch", Actor: "admin", Success: false, Error: "permission denied", InvokedAt: base.Add(time.Minute)},
		{ExecutionID: "c3", Path: "greet <name>", Input: "greet Bob 2", Actor: "console", Success: true, InvokedAt: base.Add(2 * time.Minute)},
	}
	for _, inv := range invocations {
		require.NoError(t, store.Record(inv))
	}

	recent, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 3)

	// Newest first.
	require.Equal(t, "greet Bob 2", recent[0].Input)
	require.Equal(t, "ban Notch", recent[1].Input)
	require.Equal(t, "greet Alice", recent[2].Input)

	require.False(t, recent[1].Success)
	require.Equal(t, "permission denied", recent[1].Error)
	require.Equal(t, "admin", recent[1].Actor)
	require.True(t, recent[2].InvokedAt.Equal(base))
}

func TestStore_RecentRespectsLimit(t *testing.T) {
	store := history.NewWithDB(testutil.NewTestDB(t))

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(history.Invocation{
			ExecutionID: "e",
			Path:        "ping",
			Input:       "ping",
			Actor:       "console",
			Success:     true,
			InvokedAt:   time.Now(),
		}))
	}

	recent, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
}

func TestStore_RecentEmpty(t *testing.T) {
	store := history.NewWithDB(testutil.NewTestDB(t))

	recent, err := store.Recent(10)
	require.NoError(t, err)
	require.Empty(t, recent)
}

func TestNew_CreatesDatabaseFile(t *testing.T) {
	path := t.TempDir() + "/history.db"
	store, err := history.New(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Record(history.Invocation{
		ExecutionID: "x",
		Path:        "ping",
		Input:       "ping",
		Actor:       "console",
		Success:     true,
		InvokedAt:   time.Now(),
	}))

	recent, err := store.Recent(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
}
