package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the global logger. Nil until Init, in which case every helper
// is a no-op.
var Logger *log.Logger

const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatLogfmt = "logfmt"
)

type Config struct {
	Debug     bool
	ConfigDir string
	// FileName overrides aurora.log inside <ConfigDir>/logs
	FileName string
	// Level is one of debug, info, warn, error. Debug forces debug.
	Level string
	// Format selects the file encoding: text (default), json or logfmt
	Format string
}

func (c Config) level() (log.Level, error) {
	if c.Debug {
		return log.DebugLevel, nil
	}
	if c.Level == "" {
		return log.WarnLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.Level)
	}
	return lvl, nil
}

func (c Config) formatter() (log.Formatter, error) {
	switch strings.ToLower(c.Format) {
	case "", FormatText:
		return log.TextFormatter, nil
	case FormatJSON:
		return log.JSONFormatter, nil
	case FormatLogfmt:
		return log.LogfmtFormatter, nil
	default:
		return 0, fmt.Errorf("invalid log format %q", c.Format)
	}
}

// Init installs the global logger writing to a rotated file under
// <ConfigDir>/logs, mirrored to stderr in debug mode.
func Init(cfg Config) error {
	level, err := cfg.level()
	if err != nil {
		return err
	}
	formatter, err := cfg.formatter()
	if err != nil {
		return err
	}

	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}
	name := cfg.FileName
	if name == "" {
		name = "aurora.log"
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, name),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	if cfg.Debug {
		out = io.MultiWriter(os.Stderr, out)
	}

	Logger = log.NewWithOptions(out, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "aurora",
		Formatter:       formatter,
	})
	return nil
}

// With returns a logger that tags every entry with component. Before Init
// it discards everything.
func With(component string) *log.Logger {
	if Logger == nil {
		return log.New(io.Discard)
	}
	return Logger.With("component", component)
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// DataQuality records an input value that was replaced by a fixed fallback.
func DataQuality(field string, value, fallback interface{}, keyvals ...interface{}) {
	kv := append([]interface{}{"field", field, "value", value, "fallback", fallback}, keyvals...)
	Warn("data quality: value replaced", kv...)
}
