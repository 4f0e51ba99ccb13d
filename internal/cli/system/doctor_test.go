package system

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage/sqlite"
)

func TestDoctorCmd_HealthyDB(t *testing.T) {
	ctx := newInitializedContext(t)

	// Missing backups is a warning, not a failure
	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor command failed on healthy database: %v", err)
	}
}

func TestDoctorCmd_Uninitialized(t *testing.T) {
	ctx, _ := newTestContext(t)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail when the database does not exist")
	}
}

func TestDoctorCmd_PendingMigrations(t *testing.T) {
	ctx := newInitializedContext(t)

	store := ctx.Store.(*sqlite.Store)
	if _, err := store.DB().Exec("DELETE FROM schema_version"); err != nil {
		t.Fatalf("failed to reset schema version: %v", err)
	}

	if err := checkSchemaVersion(ctx); err == nil {
		t.Fatal("expected schema check to fail")
	} else if !strings.Contains(err.Error(), "migrate") {
		t.Errorf("error should point at the migrate command, got: %v", err)
	}
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail with pending migrations")
	}
}

func TestDoctorCmd_EventConflicts(t *testing.T) {
	ctx := newInitializedContext(t)

	for _, e := range []models.Event{
		testEvent("e1", "Standup", testNow, 60),
		testEvent("e2", "Review", testNow.Add(30*time.Minute), 60),
	} {
		if err := ctx.Store.AddEvent(e); err != nil {
			t.Fatalf("AddEvent: %v", err)
		}
	}

	if err := checkEvents(ctx); err == nil {
		t.Error("expected overlapping events to fail the event check")
	}
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail on overlapping events")
	}
}

func TestDoctorChecks(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.SchedulingPreferences)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*models.SchedulingPreferences) {}},
		{
			name:    "bad timezone",
			mutate:  func(p *models.SchedulingPreferences) { p.Timezone = "Mars/Olympus" },
			wantErr: true,
		},
		{
			name:    "work end before start",
			mutate:  func(p *models.SchedulingPreferences) { p.WorkStart, p.WorkEnd = "18:00", "09:00" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newInitializedContext(t)
			prefs := models.DefaultPreferences()
			tt.mutate(&prefs)
			if err := ctx.Store.SavePreferences(ctx.UserID(), prefs); err != nil {
				t.Fatalf("SavePreferences: %v", err)
			}

			err := checkPreferences(ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkPreferences() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
