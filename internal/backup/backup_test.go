package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "aurora.db")

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	db.MustExec(`CREATE TABLE events (id TEXT PRIMARY KEY, title TEXT)`)
	db.MustExec(`INSERT INTO events (id, title) VALUES ('e1', 'Standup'), ('e2', 'Review')`)
	return dbPath
}

func countEvents(t *testing.T, path string) int {
	t.Helper()
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()

	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM events"); err != nil {
		t.Fatalf("failed to count events in %s: %v", path, err)
	}
	return count
}

// ticker returns a clock that advances a minute per call
func ticker() func() time.Time {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	clock := func() time.Time { return time.Date(2026, 3, 10, 9, 30, 15, 0, time.Local) }

	mgr := NewManager(dbPath, WithClock(clock))
	path, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}

	if want := filepath.Join(mgr.BackupDir(), "aurora-20260310-093015.db"); path != want {
		t.Errorf("CreateBackup() = %s, want %s", path, want)
	}
	if got := countEvents(t, path); got != 2 {
		t.Errorf("backup holds %d events, want 2", got)
	}
}

func TestCreateBackup_MissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("CreateBackup() succeeded without a database")
	}
}

func TestCreateBackup_SameSecond(t *testing.T) {
	dbPath := setupTestDB(t)
	clock := func() time.Time { return time.Date(2026, 3, 10, 9, 30, 0, 0, time.Local) }
	mgr := NewManager(dbPath, WithClock(clock))

	var paths []string
	for i := 0; i < 3; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d error = %v", i, err)
		}
		paths = append(paths, filepath.Base(path))
	}

	want := []string{"aurora-20260310-093000.db", "aurora-20260310-093000-1.db", "aurora-20260310-093000-2.db"}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("backup %d = %s, want %s", i, paths[i], want[i])
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 3 || filepath.Base(backups[0].Path) != want[2] {
		t.Errorf("newest backup = %v, want %s first", backups, want[2])
	}
}

func TestBackupRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(ticker()), WithRetention(3))

	var last string
	for i := 0; i < 5; i++ {
		path, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup #%d error = %v", i, err)
		}
		last = path
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("kept %d backups, want 3", len(backups))
	}
	if backups[0].Path != last {
		t.Errorf("newest backup = %s, want %s", backups[0].Path, last)
	}
	for i := 1; i < len(backups); i++ {
		if !backups[i].Timestamp.Before(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first at %d", i)
		}
	}
}

func TestListBackups_IgnoresUnrelatedFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(ticker()))
	if _, err := mgr.CreateBackup(); err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}

	for _, name := range []string{"notes.txt", "aurora-latest.db", "aurora-20260310-0930.db", "aurora-20260310-093000-x.db"} {
		if err := os.WriteFile(filepath.Join(mgr.BackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("ListBackups() returned %d entries, want 1", len(backups))
	}
}

func TestListBackups_NoDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "aurora.db"))
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() error = %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("ListBackups() = %v, want none", backups)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		wantOK  bool
		wantSeq int
	}{
		{"aurora-20260310-093000.db", true, 0},
		{"aurora-20260310-093000-12.db", true, 12},
		{"aurora-20260310-093000-0.db", false, 0},
		{"aurora-20260310-0930.db", false, 0},
		{"backup-20260310-093000.db", false, 0},
		{"aurora-20260310-093000.sqlite", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, seq, ok := parseName(tt.name)
			if ok != tt.wantOK || seq != tt.wantSeq {
				t.Fatalf("parseName() = %v, %d, %v; want ok=%v seq=%d", ts, seq, ok, tt.wantOK, tt.wantSeq)
			}
			if ok && (ts.Hour() != 9 || ts.Minute() != 30) {
				t.Errorf("parseName() time = %s", ts)
			}
		})
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(ticker()))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	db.MustExec("DELETE FROM events")
	db.Close()

	previous, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup() error = %v", err)
	}
	if got := countEvents(t, dbPath); got != 2 {
		t.Errorf("restored database holds %d events, want 2", got)
	}
	if previous == "" || countEvents(t, previous) != 0 {
		t.Errorf("pre-restore backup %q should hold the emptied database", previous)
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file left behind")
	}
}

func TestRestoreBackup_Invalid(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "aurora-20260310-093000.db")
	if err := os.WriteFile(bogus, []byte("definitely not sqlite, padded to look like a file header"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.db")},
		{"not a database", bogus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := mgr.RestoreBackup(tt.path); err == nil {
				t.Error("RestoreBackup() succeeded")
			}
			if got := countEvents(t, dbPath); got != 2 {
				t.Errorf("database changed after failed restore: %d events", got)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath, WithClock(ticker()))
	path, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup() error = %v", err)
	}

	got, err := mgr.Resolve(filepath.Base(path))
	if err != nil || got != path {
		t.Errorf("Resolve(name) = %q, %v; want %q", got, err, path)
	}
	got, err = mgr.Resolve(path)
	if err != nil || got != path {
		t.Errorf("Resolve(abs) = %q, %v; want %q", got, err, path)
	}
	if _, err := mgr.Resolve("aurora-19990101-000000.db"); err == nil {
		t.Error("Resolve() found a backup that does not exist")
	}
}
