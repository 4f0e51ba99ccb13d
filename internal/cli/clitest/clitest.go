// Package clitest builds command contexts over throwaway SQLite stores for
// command tests.
package clitest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	"github.com/julianstephens/aurora/aurora-cli/internal/config"
	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/dependency"
	"github.com/julianstephens/aurora/aurora-cli/internal/lock"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/scheduler"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage/sqlite"
)

// Now is the fixed clock every test context runs at, a Tuesday morning
var Now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// NewContext returns a context over an uninitialized SQLite store in a temp
// dir and the database path. Prompts answer yes.
func NewContext(t *testing.T) (*cli.Context, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	clock := func() time.Time { return Now }
	return &cli.Context{
		Store:       store,
		Scheduler:   scheduler.New(scheduler.WithClock(clock)),
		Rescheduler: dependency.NewRescheduler(dependency.WithClock(clock)),
		Locker:      lock.NewMemLocker(),
		Config:      &config.Config{UserID: constants.DefaultUserID, DaysAhead: constants.DefaultDaysAhead},
		Confirm:     func(string) (bool, error) { return true, nil },
	}, dbPath
}

// NewInitializedContext is NewContext with the schema in place
func NewInitializedContext(t *testing.T) *cli.Context {
	t.Helper()
	ctx, _ := NewContext(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	return ctx
}

// Event builds an event for the default user lasting minutes
func Event(id, title string, start time.Time, minutes int) models.Event {
	return models.Event{
		ID:        id,
		UserID:    constants.DefaultUserID,
		Title:     title,
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
	}
}

// MustAddEvents stores events or fails the test
func MustAddEvents(t *testing.T, ctx *cli.Context, events ...models.Event) {
	t.Helper()
	for _, e := range events {
		if err := ctx.Store.AddEvent(e); err != nil {
			t.Fatalf("AddEvent(%s): %v", e.ID, err)
		}
	}
}

// MustAddTasks stores tasks or fails the test
func MustAddTasks(t *testing.T, ctx *cli.Context, tasks ...models.Task) {
	t.Helper()
	for _, task := range tasks {
		if err := ctx.Store.AddTask(task); err != nil {
			t.Fatalf("AddTask(%s): %v", task.ID, err)
		}
	}
}
