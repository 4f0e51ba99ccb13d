package postgres

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/logger"
	"github.com/julianstephens/aurora/aurora-cli/internal/migration"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage/sqldb"
	"github.com/julianstephens/aurora/aurora-cli/migrations"
)

// Store keeps every user's data in a shared PostgreSQL database, in the
// aurora schema.
type Store struct {
	*sqldb.Store
	connStr string
}

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// New returns an unopened store. The connection is pinned to the aurora
// schema unless it already names a search_path.
func New(connStr string) *Store {
	return &Store{connStr: withParam(connStr, "search_path", constants.AppName)}
}

func (s *Store) Init() error {
	db, err := s.connect()
	if err != nil {
		return err
	}

	if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		db.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	s.Store = sqldb.New(db)

	if _, err := s.Migrate(func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	seeded, err := s.HasSettings(constants.DefaultUserID)
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	if !seeded {
		if err := s.SavePreferences(constants.DefaultUserID, models.DefaultPreferences()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *Store) Load() error {
	if s.Store != nil {
		return nil
	}

	db, err := s.connect()
	if err != nil {
		return err
	}
	s.Store = sqldb.New(db)

	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

// connect opens a pooled connection and checks it is reachable
func (s *Store) connect() (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", s.connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if _, set := connParam(s.connStr, "sslmode"); !set && strings.Contains(err.Error(), "SSL is not enabled on the server") {
			return nil, fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (s *Store) Close() error {
	if s.Store == nil {
		return nil
	}
	err := s.Store.Close()
	s.Store = nil
	return err
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.DB(), subFS), nil
}

// MigrationStatus compares the schema version with the embedded migrations
func (s *Store) MigrationStatus() (migration.Status, error) {
	runner, err := s.runner()
	if err != nil {
		return migration.Status{}, err
	}
	return runner.Status()
}

// Migrate applies pending migrations, reporting progress through logFn
func (s *Store) Migrate(logFn func(string)) (int, error) {
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(logFn)
}

// GetConfigPath never exposes the connection string
func (s *Store) GetConfigPath() string {
	return "postgresql"
}
