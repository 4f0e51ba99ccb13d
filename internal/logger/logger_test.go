package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLog(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "logs", name))
	if os.IsNotExist(err) {
		return ""
	}
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	return string(data)
}

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("placer attempt", "attempt", 1)
	Info("slots found", "count", 3)
	Warn("cascade conflict", "event", "abc")
	Error("commit failed", "error", "boom")
}

func TestInit_Level(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantInfo bool
		wantErr  bool
	}{
		{"default is warn", Config{}, false, false},
		{"info", Config{Level: "info"}, true, false},
		{"upper case", Config{Level: "INFO"}, true, false},
		{"debug flag wins", Config{Level: "error", Debug: true}, true, false},
		{"unknown", Config{Level: "loud"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.cfg.ConfigDir = dir
			err := Init(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			Info("slots found", "count", 3)
			got := strings.Contains(readLog(t, dir, "aurora.log"), "slots found")
			if got != tt.wantInfo {
				t.Errorf("info entry written = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestInit_JSONFormat(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{ConfigDir: dir, Level: "info", Format: FormatJSON}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	With("rescheduler").Info("dependents rescheduled", "moved", "e1")

	line := strings.TrimSpace(readLog(t, dir, "aurora.log"))
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line %q is not JSON: %v", line, err)
	}
	if entry["component"] != "rescheduler" || entry["moved"] != "e1" {
		t.Errorf("entry = %v", entry)
	}
}

func TestInit_InvalidFormat(t *testing.T) {
	if err := Init(Config{ConfigDir: t.TempDir(), Format: "xml"}); err == nil {
		t.Error("Init() succeeded, want error")
	}
}

func TestDataQualityWritesWarning(t *testing.T) {
	configDir := t.TempDir()
	if err := Init(Config{ConfigDir: configDir, FileName: "dq.log"}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	DataQuality("work_end", "02:00", "19:00", "source", "routine")

	out := readLog(t, configDir, "dq.log")
	for _, want := range []string{"data quality", "work_end", "19:00", "routine"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
	DataQuality("sleep", "03:00", "23:00")
	With("placer").Info("discarded")
}
