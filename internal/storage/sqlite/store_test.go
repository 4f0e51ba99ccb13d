package sqlite

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage/storagetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "aurora.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_Provider(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return newTestStore(t)
	})
}

func TestStore_LoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load()
	if err == nil {
		t.Fatal("Load() succeeded without Init")
	}
	if !strings.Contains(err.Error(), "init") {
		t.Errorf("Load() error = %v, want a hint to run init", err)
	}
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aurora.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := store.SaveRoutine(constants.DefaultUserID, "Work: 08:00-16:00"); err != nil {
		t.Fatalf("SaveRoutine() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	// Closing twice is harmless
	if err := store.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	reopened := NewStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer reopened.Close()

	routine, err := reopened.GetRoutine(constants.DefaultUserID)
	if err != nil {
		t.Fatalf("GetRoutine() error = %v", err)
	}
	if routine != "Work: 08:00-16:00" {
		t.Errorf("GetRoutine() = %q", routine)
	}

	// Init on an existing database keeps stored data and applies nothing new
	if err := reopened.Init(); err != nil {
		t.Fatalf("Init() on existing store error = %v", err)
	}
	applied, err := reopened.Migrate(func(string) {})
	if err != nil || applied != 0 {
		t.Errorf("Migrate() = %d, %v; want 0 pending", applied, err)
	}
	if reopened.GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q", reopened.GetConfigPath())
	}
}
