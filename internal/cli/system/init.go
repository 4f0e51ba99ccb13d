package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	"github.com/julianstephens/aurora/aurora-cli/internal/config"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage/postgres"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized aurora storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		if err := c.copyData(ctx); err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		fmt.Println("Copy completed successfully!")
	}
	return nil
}

// reset deletes an existing SQLite database; PostgreSQL databases are never dropped
func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return fmt.Errorf("--force is only supported for SQLite storage")
	}

	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		absDB, errDB := filepath.Abs(dbPath)
		absSource, errSource := filepath.Abs(c.Source)
		if errDB == nil && errSource == nil && absDB == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func openSource(source string) (storage.Provider, error) {
	if !config.IsPostgres(source) {
		return sqlite.NewStore(source), nil
	}
	if valid, err := postgres.ValidateConnString(source); !valid {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials; use %s or .pgpass instead", cli.EnvDBConnection)
		}
		return nil, err
	}
	return postgres.New(source), nil
}

// copyData copies the current user's preferences, routine, events, tasks
// and energy samples from the source store
func (c *InitCmd) copyData(ctx *cli.Context) error {
	source, err := openSource(c.Source)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	user := ctx.UserID()

	fmt.Println("  Copying settings...")
	prefs, err := source.GetPreferences(user)
	if err != nil {
		return fmt.Errorf("failed to get preferences from source: %w", err)
	}
	if err := ctx.Store.SavePreferences(user, prefs); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	routine, err := source.GetRoutine(user)
	if err != nil {
		return fmt.Errorf("failed to get routine from source: %w", err)
	}
	if routine != "" {
		if err := ctx.Store.SaveRoutine(user, routine); err != nil {
			return fmt.Errorf("failed to save routine: %w", err)
		}
	}

	fmt.Println("  Copying events...")
	events, err := source.GetAllEvents(user)
	if err != nil {
		return fmt.Errorf("failed to get events from source: %w", err)
	}
	for _, e := range events {
		if err := ctx.Store.AddEvent(e); err != nil {
			return fmt.Errorf("failed to add event %s: %w", e.ID, err)
		}
	}
	fmt.Printf("    Copied %d events\n", len(events))

	fmt.Println("  Copying tasks...")
	tasks, err := source.GetAllTasks(user)
	if err != nil {
		return fmt.Errorf("failed to get tasks from source: %w", err)
	}
	for _, t := range tasks {
		if err := ctx.Store.AddTask(t); err != nil {
			return fmt.Errorf("failed to add task %s: %w", t.ID, err)
		}
	}
	fmt.Printf("    Copied %d tasks\n", len(tasks))

	fmt.Println("  Copying energy samples...")
	samples, err := source.GetSamples(user, time.Time{})
	if err != nil {
		return fmt.Errorf("failed to get energy samples from source: %w", err)
	}
	for _, s := range samples {
		if err := ctx.Store.AddSample(s); err != nil {
			return fmt.Errorf("failed to add energy sample %s: %w", s.ID, err)
		}
	}
	fmt.Printf("    Copied %d energy samples\n", len(samples))

	return nil
}
