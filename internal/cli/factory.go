package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/config"
	"github.com/julianstephens/aurora/aurora-cli/internal/dependency"
	apperrors "github.com/julianstephens/aurora/aurora-cli/internal/errors"
	"github.com/julianstephens/aurora/aurora-cli/internal/keyring"
	"github.com/julianstephens/aurora/aurora-cli/internal/lock"
	"github.com/julianstephens/aurora/aurora-cli/internal/logger"
	"github.com/julianstephens/aurora/aurora-cli/internal/scheduler"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage/postgres"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage/sqlite"
	"github.com/julianstephens/aurora/aurora-cli/internal/utils"
)

const (
	// EnvDBConnection may hold a full PostgreSQL connection string, password included
	EnvDBConnection = "AURORA_DB_CONNECTION"
	// KeyringDatabase as the configured database selects the connection string stored in the OS keyring
	KeyringDatabase = "keyring"
)

// ErrEmbeddedPassword explains where PostgreSQL passwords may come from instead
var ErrEmbeddedPassword = errors.New("PostgreSQL connection strings with embedded passwords are not allowed in config; " +
	"use the OS keyring (aurora keyring set), " + EnvDBConnection + ", or a .pgpass file")

// ResolveDatabase returns the SQLite path or PostgreSQL connection string to
// open. AURORA_DB_CONNECTION wins, then the keyring when database is
// "keyring", then the configured value.
func ResolveDatabase(cfg *config.Config) (string, error) {
	if conn := os.Getenv(EnvDBConnection); conn != "" {
		return conn, nil
	}

	if cfg.Database == KeyringDatabase {
		conn, err := keyring.Get(keyring.AccountDatabase)
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return "", fmt.Errorf("no connection string in keyring, run 'aurora keyring set' first")
			}
			return "", err
		}
		return conn, nil
	}

	if cfg.IsPostgres() {
		if _, err := postgres.ValidateConnString(cfg.Database); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return "", apperrors.Invalidf("%v", ErrEmbeddedPassword)
			}
			return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
	}
	return cfg.Database, nil
}

// OpenStore builds the storage provider for the configured database. The
// store is not loaded.
func OpenStore(cfg *config.Config) (storage.Provider, error) {
	db, err := ResolveDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if config.IsPostgres(db) {
		return postgres.New(db), nil
	}
	return sqlite.NewStore(db), nil
}

// NewLocker returns a Redis locker when Redis is configured and an
// in-process one otherwise. A missing Redis password falls back to the keyring.
func NewLocker(cfg *config.Config) lock.Locker {
	if !cfg.UseRedis() {
		return lock.NewMemLocker()
	}
	password := cfg.Redis.Password
	if password == "" {
		if secret, err := keyring.Get(keyring.AccountRedis); err == nil {
			password = secret
		} else if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("keyring lookup for redis password failed", "error", err)
		}
	}
	return lock.NewRedisLocker(lock.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Lock.TTL,
	})
}

// ClockIn returns a clock reporting the current time in loc
func ClockIn(loc *time.Location) func() time.Time {
	return func() time.Time { return time.Now().In(loc) }
}

// ResolveLocation picks the timezone the clock runs in: the configured one
// when it is not Local, otherwise the timezone stored in preferences
func ResolveLocation(cfg *config.Config, store storage.Provider, userID string) (*time.Location, error) {
	if cfg != nil && cfg.Timezone != "" && cfg.Timezone != "Local" {
		return cfg.Location()
	}
	prefs, err := store.GetPreferences(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	loc, err := utils.LoadLocation(prefs.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q in settings: %w", prefs.Timezone, err)
	}
	return loc, nil
}

// NewContext wires a command context over a loaded store
func NewContext(cfg *config.Config, store storage.Provider, loc *time.Location) *Context {
	clock := ClockIn(loc)
	return &Context{
		Store:       store,
		Scheduler:   scheduler.New(scheduler.WithClock(clock)),
		Rescheduler: dependency.NewRescheduler(dependency.WithClock(clock)),
		Locker:      NewLocker(cfg),
		Config:      cfg,
	}
}
