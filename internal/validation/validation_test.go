package validation

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
)

func at(day, h, m int) time.Time {
	return time.Date(2026, 3, day, h, m, 0, 0, time.UTC)
}

func ev(id string, start, end time.Time, deps ...string) models.Event {
	return models.Event{ID: id, UserID: "u1", Title: "Event " + id, StartTime: start, EndTime: end, DependsOn: deps}
}

func TestValidateEvents(t *testing.T) {
	tests := []struct {
		name   string
		events []models.Event
		want   map[constants.ConflictType]int
	}{
		{
			name: "clean calendar",
			events: []models.Event{
				ev("a", at(10, 9, 0), at(10, 10, 0)),
				ev("b", at(10, 10, 0), at(10, 11, 0), "a"),
			},
			want: map[constants.ConflictType]int{},
		},
		{
			name: "end before start",
			events: []models.Event{
				ev("a", at(10, 10, 0), at(10, 9, 0)),
			},
			want: map[constants.ConflictType]int{constants.ConflictInvalidInterval: 1},
		},
		{
			name: "duplicate ids",
			events: []models.Event{
				ev("a", at(10, 9, 0), at(10, 10, 0)),
				ev("a", at(11, 9, 0), at(11, 10, 0)),
			},
			want: map[constants.ConflictType]int{constants.ConflictDuplicateEventID: 1},
		},
		{
			name: "overlapping events",
			events: []models.Event{
				ev("a", at(10, 9, 0), at(10, 11, 0)),
				ev("b", at(10, 10, 0), at(10, 12, 0)),
				ev("c", at(10, 10, 30), at(10, 10, 45)),
			},
			want: map[constants.ConflictType]int{constants.ConflictOverlappingEvents: 3},
		},
		{
			name: "degenerate event overlaps nothing",
			events: []models.Event{
				ev("a", at(10, 9, 0), at(10, 11, 0)),
				ev("b", at(10, 10, 0), at(10, 10, 0)),
			},
			want: map[constants.ConflictType]int{},
		},
		{
			name: "dependency problems",
			events: []models.Event{
				ev("a", at(10, 9, 0), at(10, 10, 0), "a"),
				ev("b", at(10, 11, 0), at(10, 12, 0), "ghost"),
			},
			want: map[constants.ConflictType]int{
				constants.ConflictSelfDependency:    1,
				constants.ConflictMissingDependency: 1,
			},
		},
		{
			name: "dependency cycle",
			events: []models.Event{
				ev("a", at(10, 9, 0), at(10, 10, 0), "c"),
				ev("b", at(10, 11, 0), at(10, 12, 0), "a"),
				ev("c", at(10, 13, 0), at(10, 14, 0), "b"),
				ev("d", at(10, 15, 0), at(10, 16, 0), "a"),
			},
			want: map[constants.ConflictType]int{constants.ConflictDependencyCycle: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().ValidateEvents(tt.events)

			got := map[constants.ConflictType]int{}
			for _, c := range result.Conflicts {
				got[c.Type]++
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("conflicts = %v, want %v\n%s", got, tt.want, result.FormatReport())
			}
		})
	}
}

func TestValidateEvents_InvalidDependencyType(t *testing.T) {
	e := ev("a", at(10, 9, 0), at(10, 10, 0))
	e.DependencyType = "whenever"

	result := New().ValidateEvents([]models.Event{e})
	if result.Count(constants.ConflictInvalidDependency) != 1 {
		t.Errorf("expected an invalid dependency type conflict, got %s", result.FormatReport())
	}
}

func TestValidateEvents_OverlapDetails(t *testing.T) {
	result := New().ValidateEvents([]models.Event{
		ev("a", at(10, 9, 0), at(10, 11, 0)),
		ev("b", at(10, 10, 0), at(10, 12, 0)),
	})
	if len(result.Conflicts) != 1 {
		t.Fatalf("expected one conflict, got %s", result.FormatReport())
	}
	c := result.Conflicts[0]
	if c.TimeRange != "10:00-11:00" {
		t.Errorf("TimeRange = %q, want 10:00-11:00", c.TimeRange)
	}
	if c.Date != "2026-03-10" {
		t.Errorf("Date = %q", c.Date)
	}
	if !reflect.DeepEqual(c.IDs, []string{"a", "b"}) {
		t.Errorf("IDs = %v", c.IDs)
	}
}

func TestValidateEvents_DifferentUsersDoNotConflict(t *testing.T) {
	a := ev("a", at(10, 9, 0), at(10, 11, 0))
	b := ev("b", at(10, 10, 0), at(10, 12, 0))
	b.UserID = "u2"

	if result := New().ValidateEvents([]models.Event{a, b}); result.HasConflicts() {
		t.Errorf("unexpected conflicts: %s", result.FormatReport())
	}
}

func TestValidateEventsForDate(t *testing.T) {
	events := []models.Event{
		ev("a", at(10, 9, 0), at(10, 11, 0)),
		ev("b", at(10, 10, 0), at(10, 12, 0)),
		ev("c", at(11, 9, 0), at(11, 11, 0)),
		ev("d", at(11, 10, 0), at(11, 12, 0)),
	}
	day := at(11, 0, 0)

	result := New().ValidateEventsForDate(events, &day)
	if result.Count(constants.ConflictOverlappingEvents) != 1 {
		t.Fatalf("expected one overlap on the 11th, got %s", result.FormatReport())
	}
	if result.Conflicts[0].IDs[0] != "c" {
		t.Errorf("unexpected overlap %+v", result.Conflicts[0])
	}
}

func TestValidateTasks(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Title: "ok", EstimatedDurationMinutes: 30, Priority: constants.PriorityHigh},
		{ID: "2", Title: "negative", EstimatedDurationMinutes: -5},
		{ID: "3", Title: "priority", Priority: "someday"},
		{ID: "4", Title: "energy", EnergyLevelRequired: 11},
		{ID: "1", Title: "dup"},
	}

	result := New().ValidateTasks(tasks)
	if result.Count(constants.ConflictInvalidTask) != 4 {
		t.Fatalf("expected 4 task conflicts, got %s", result.FormatReport())
	}
	if !strings.Contains(result.FormatReport(), "negative duration -5") {
		t.Errorf("report does not mention the negative duration:\n%s", result.FormatReport())
	}
}

func TestFormatReport(t *testing.T) {
	empty := ValidationResult{}
	if got := empty.FormatReport(); got != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", got)
	}

	result := ValidationResult{Conflicts: []Conflict{
		{Description: "first"},
		{Description: "second"},
	}}
	want := "Conflicts detected:\n- first\n- second\n"
	if got := result.FormatReport(); got != want {
		t.Errorf("FormatReport() = %q, want %q", got, want)
	}
}
