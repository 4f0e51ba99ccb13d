// Package config loads aurora's runtime configuration. Values come from
// built-in defaults, then aurora.yaml in the config directory, then AURORA_*
// environment variables (optionally seeded from a .env file).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/utils"
)

const (
	EnvPrefix      = "AURORA"
	FileName       = "aurora"
	EnvFileName    = ".env"
	DefaultRedisDB = 0
)

// Config is the resolved runtime configuration
type Config struct {
	// Database is a SQLite file path or a PostgreSQL connection string
	Database  string      `mapstructure:"database"`
	Timezone  string      `mapstructure:"timezone"`
	Debug     bool        `mapstructure:"debug"`
	UserID    string      `mapstructure:"user_id"`
	DaysAhead int         `mapstructure:"days_ahead"`
	Redis     RedisConfig `mapstructure:"redis"`
	Lock      LockConfig  `mapstructure:"lock"`
	Log       LogConfig   `mapstructure:"log"`

	// Dir is the directory the config file and logs live in
	Dir string `mapstructure:"-"`
	// File is the config file that was read, empty when none was found
	File string `mapstructure:"-"`
}

// RedisConfig locates the Redis server used for cross-process locking.
// An empty Addr selects the in-process locker.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LockConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// LogConfig is passed through to logger.Init
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// UseRedis reports whether a Redis server is configured
func (c *Config) UseRedis() bool {
	return c.Redis.Addr != ""
}

// IsPostgres reports whether Database names a PostgreSQL database
func (c *Config) IsPostgres() bool {
	return IsPostgres(c.Database)
}

func IsPostgres(database string) bool {
	return strings.HasPrefix(database, "postgres://") ||
		strings.HasPrefix(database, "postgresql://") ||
		strings.Contains(database, "host=")
}

// Location returns the configured timezone
func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return errors.New("database must not be empty")
	}
	if strings.TrimSpace(c.UserID) == "" {
		return errors.New("user_id must not be empty")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone: %s", c.Timezone)
	}
	if c.DaysAhead <= 0 {
		return fmt.Errorf("days_ahead must be positive, got %d", c.DaysAhead)
	}
	if c.Lock.TTL <= 0 {
		return fmt.Errorf("lock.ttl must be positive, got %s", c.Lock.TTL)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level: %s", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log.format: %s", c.Log.Format)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must not be negative, got %d", c.Redis.DB)
	}
	return nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("database", filepath.Join(dir, "aurora.db"))
	v.SetDefault("timezone", constants.DefaultTimezone)
	v.SetDefault("debug", false)
	v.SetDefault("user_id", constants.DefaultUserID)
	v.SetDefault("days_ahead", constants.DefaultDaysAhead)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", DefaultRedisDB)
	v.SetDefault("lock.ttl", constants.DefaultLockTTL)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// Load reads the configuration rooted at dir ("~" is expanded). A .env file
// in the working directory or in dir is loaded first; variables already set
// in the environment win over it.
func Load(dir string) (*Config, error) {
	dir, err := ExpandHome(dir)
	if err != nil {
		return nil, err
	}

	if err := loadEnvFiles(EnvFileName, filepath.Join(dir, EnvFileName)); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, dir)

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Dir = dir
	cfg.File = v.ConfigFileUsed()

	if !cfg.IsPostgres() {
		if cfg.Database, err = ExpandHome(cfg.Database); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFiles loads whichever of paths exist
func loadEnvFiles(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load %s: %w", strings.Join(existing, ", "), err)
	}
	return nil
}

// ExpandHome replaces a leading "~" with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
