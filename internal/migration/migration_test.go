package migration

import (
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyMigrations(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_init.sql":   {Data: []byte("CREATE TABLE a (id TEXT PRIMARY KEY);")},
		"002_second.sql": {Data: []byte("CREATE TABLE b (id TEXT PRIMARY KEY);")},
		"README.md":      {Data: []byte("ignored")},
	}
	runner := NewRunner(db, fsys)

	var logs []string
	applied, err := runner.ApplyMigrations(func(msg string) { logs = append(logs, msg) })
	if err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion() error = %v", err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	applied, err = runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations() error = %v", err)
	}
	if applied != 0 {
		t.Errorf("second run applied %d migrations", applied)
	}
}

func TestApplyMigrations_FailureRollsBack(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, fstest.MapFS{
		"001_init.sql":   {Data: []byte("CREATE TABLE a (id TEXT PRIMARY KEY);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE b (id TEXT PRIMARY KEY); THIS IS NOT SQL;")},
	})

	applied, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected an error from the broken migration")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if !strings.Contains(err.Error(), "migration 2") {
		t.Errorf("error %q does not name the migration", err)
	}

	version, _ := runner.GetCurrentVersion()
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	tests := []struct {
		name    string
		files   fstest.MapFS
		want    []int
		wantErr bool
	}{
		{
			name: "sorted by version",
			files: fstest.MapFS{
				"010_late.sql":  {Data: []byte("SELECT 1;")},
				"002_early.sql": {Data: []byte("SELECT 1;")},
			},
			want: []int{2, 10},
		},
		{
			name:    "missing underscore",
			files:   fstest.MapFS{"001.sql": {Data: []byte("SELECT 1;")}},
			wantErr: true,
		},
		{
			name:    "non numeric version",
			files:   fstest.MapFS{"abc_init.sql": {Data: []byte("SELECT 1;")}},
			wantErr: true,
		},
		{
			name:    "zero version",
			files:   fstest.MapFS{"000_init.sql": {Data: []byte("SELECT 1;")}},
			wantErr: true,
		},
		{
			name: "duplicate version",
			files: fstest.MapFS{
				"001_a.sql": {Data: []byte("SELECT 1;")},
				"001_b.sql": {Data: []byte("SELECT 1;")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(nil, tt.files)
			migrations, err := runner.ReadMigrationFiles()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadMigrationFiles() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(migrations) != len(tt.want) {
				t.Fatalf("got %d migrations, want %d", len(migrations), len(tt.want))
			}
			for i, v := range tt.want {
				if migrations[i].Version != v {
					t.Errorf("migration %d version = %d, want %d", i, migrations[i].Version, v)
				}
			}
		})
	}
}

func TestValidateVersion_NewerDatabase(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE a (id TEXT PRIMARY KEY);")},
	})
	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion() error = %v", err)
	}
	if err := runner.ValidateVersion(); err == nil {
		t.Error("expected an error for a database newer than the application")
	}
}

func TestStatus(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, fstest.MapFS{
		"001_init.sql": {Data: []byte("CREATE TABLE a (id TEXT PRIMARY KEY);")},
		"002_more.sql": {Data: []byte("CREATE TABLE b (id TEXT PRIMARY KEY);")},
	})
	if err := runner.SetVersion(1); err != nil {
		t.Fatalf("SetVersion() error = %v", err)
	}

	st, err := runner.Status()
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if st.Current != 1 || st.Latest != 2 || len(st.Pending) != 1 || st.UpToDate() {
		t.Errorf("unexpected status %+v", st)
	}
}
