// Package storagetest holds the behavior every storage.Provider must share,
// run against each backend from that backend's tests.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage"
)

const user = constants.DefaultUserID

// Factory returns an initialized, empty provider. It registers its own cleanup.
type Factory func(t *testing.T) storage.Provider

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func event(id string, start, end time.Time) models.Event {
	return models.Event{
		ID:                      id,
		UserID:                  user,
		Title:                   "Event " + id,
		StartTime:               start,
		EndTime:                 end,
		Priority:                constants.PriorityMedium,
		AutoRescheduleEnabled:   true,
		RescheduleBufferMinutes: 15,
	}
}

// Run exercises p's contract in subtests, each against a fresh provider
func Run(t *testing.T, newProvider Factory) {
	t.Run("Preferences", func(t *testing.T) { testPreferences(t, newProvider(t)) })
	t.Run("Routine", func(t *testing.T) { testRoutine(t, newProvider(t)) })
	t.Run("Events", func(t *testing.T) { testEvents(t, newProvider(t)) })
	t.Run("EventRange", func(t *testing.T) { testEventRange(t, newProvider(t)) })
	t.Run("Tasks", func(t *testing.T) { testTasks(t, newProvider(t)) })
	t.Run("Samples", func(t *testing.T) { testSamples(t, newProvider(t)) })
	t.Run("ApplyReschedule", func(t *testing.T) { testApplyReschedule(t, newProvider(t)) })
	t.Run("ApplyRescheduleRollback", func(t *testing.T) { testApplyRescheduleRollback(t, newProvider(t)) })
	t.Run("ApplyPlacements", func(t *testing.T) { testApplyPlacements(t, newProvider(t)) })
}

func testPreferences(t *testing.T, p storage.Provider) {
	prefs, err := p.GetPreferences(user)
	if err != nil {
		t.Fatalf("GetPreferences() error = %v", err)
	}
	if prefs.WorkStart != constants.DefaultWorkStart || prefs.WorkEnd != constants.DefaultWorkEnd {
		t.Errorf("default work hours = %s-%s", prefs.WorkStart, prefs.WorkEnd)
	}

	prefs.WorkStart = "08:30"
	prefs.NoWorkDays = []time.Weekday{time.Saturday, time.Sunday}
	if err := p.SavePreferences(user, prefs); err != nil {
		t.Fatalf("SavePreferences() error = %v", err)
	}
	got, err := p.GetPreferences(user)
	if err != nil {
		t.Fatalf("GetPreferences() error = %v", err)
	}
	if got.WorkStart != "08:30" {
		t.Errorf("WorkStart = %q, want 08:30", got.WorkStart)
	}
	if len(got.NoWorkDays) != 2 || got.IsWorkDay(time.Saturday) {
		t.Errorf("NoWorkDays = %v, want saturday and sunday", got.NoWorkDays)
	}

	prefs.WorkEnd = "07:00"
	if err := p.SavePreferences(user, prefs); err == nil {
		t.Error("SavePreferences() accepted work_end before work_start")
	}
}

func testRoutine(t *testing.T, p storage.Provider) {
	routine, err := p.GetRoutine(user)
	if err != nil {
		t.Fatalf("GetRoutine() error = %v", err)
	}
	if routine != "" {
		t.Errorf("GetRoutine() = %q, want empty", routine)
	}

	const want = "Sleep: 23:00, Gym: 06:00, Work: 09:00-17:00"
	if err := p.SaveRoutine(user, want); err != nil {
		t.Fatalf("SaveRoutine() error = %v", err)
	}
	if got, _ := p.GetRoutine(user); got != want {
		t.Errorf("GetRoutine() = %q, want %q", got, want)
	}

	// Saving a routine must not disturb preferences
	if prefs, err := p.GetPreferences(user); err != nil || prefs.WorkStart == "" {
		t.Errorf("GetPreferences() after SaveRoutine = %+v, %v", prefs, err)
	}
}

func testEvents(t *testing.T, p storage.Provider) {
	a := event("a", at(9, 0), at(10, 0))
	b := event("b", at(11, 0), at(12, 0))
	b.DependsOn = []string{"a"}
	b.DependencyType = constants.DependencySameDay
	b.IsUrgent = true

	for _, e := range []models.Event{a, b} {
		if err := p.AddEvent(e); err != nil {
			t.Fatalf("AddEvent(%s) error = %v", e.ID, err)
		}
	}

	got, err := p.GetEvent(user, "b")
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if !got.StartTime.Equal(b.StartTime) || !got.EndTime.Equal(b.EndTime) {
		t.Errorf("GetEvent() times = %s-%s", got.StartTime, got.EndTime)
	}
	if len(got.DependsOn) != 1 || got.DependsOn[0] != "a" || got.DependencyType != constants.DependencySameDay {
		t.Errorf("GetEvent() dependencies = %v %s", got.DependsOn, got.DependencyType)
	}
	if !got.IsUrgent || !got.AutoRescheduleEnabled || got.RescheduleBufferMinutes != 15 {
		t.Errorf("GetEvent() flags = %+v", got)
	}

	stored, err := p.GetEvent(user, "a")
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if stored.DependsOn != nil {
		t.Errorf("DependsOn = %v, want nil", stored.DependsOn)
	}
	if stored.DependencyType != constants.DependencySequential {
		t.Errorf("DependencyType = %q, want stored default %q", stored.DependencyType, constants.DependencySequential)
	}

	b.Title = "Renamed"
	if err := p.UpdateEvent(b); err != nil {
		t.Fatalf("UpdateEvent() error = %v", err)
	}
	if got, _ := p.GetEvent(user, "b"); got.Title != "Renamed" {
		t.Errorf("Title = %q after update", got.Title)
	}

	if err := p.DeleteEvent(user, "a"); err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}
	if _, err := p.GetEvent(user, "a"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetEvent() after delete error = %v, want ErrNotFound", err)
	}
	if err := p.DeleteEvent(user, "a"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second DeleteEvent() error = %v, want ErrNotFound", err)
	}
	if err := p.UpdateEvent(event("ghost", at(9, 0), at(10, 0))); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdateEvent(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := p.GetEvent("someone-else", "b"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetEvent() for another user error = %v, want ErrNotFound", err)
	}
}

func testEventRange(t *testing.T, p storage.Provider) {
	for _, e := range []models.Event{
		event("early", at(7, 0), at(8, 0)),
		event("touching", at(8, 0), at(9, 0)),
		event("inside", at(9, 30), at(10, 0)),
		event("straddling", at(11, 30), at(12, 30)),
		event("late", at(13, 0), at(14, 0)),
	} {
		if err := p.AddEvent(e); err != nil {
			t.Fatalf("AddEvent(%s) error = %v", e.ID, err)
		}
	}

	events, err := p.GetEvents(user, at(9, 0), at(12, 0))
	if err != nil {
		t.Fatalf("GetEvents() error = %v", err)
	}
	var ids []string
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	if len(ids) != 2 || ids[0] != "inside" || ids[1] != "straddling" {
		t.Errorf("GetEvents() = %v, want [inside straddling]", ids)
	}

	all, err := p.GetAllEvents(user)
	if err != nil {
		t.Fatalf("GetAllEvents() error = %v", err)
	}
	if len(all) != 5 || all[0].ID != "early" {
		t.Errorf("GetAllEvents() returned %d events, first %q", len(all), all[0].ID)
	}
}

func testTasks(t *testing.T, p storage.Provider) {
	report := models.Task{
		ID:                       "t1",
		UserID:                   user,
		Title:                    "Write report",
		EstimatedDurationMinutes: 45,
		Priority:                 constants.PriorityHigh,
		EnergyLevelRequired:      7,
		PreferredTimeOfDay:       constants.TimeOfDayMorning,
		Type:                     constants.TaskTypeDeepWork,
		GoalID:                   "g1",
	}
	scheduled := at(15, 0)
	email := models.Task{
		ID:           "t2",
		UserID:       user,
		Title:        "Email",
		Priority:     constants.PriorityLow,
		ScheduledFor: &scheduled,
	}
	for _, task := range []models.Task{report, email} {
		if err := p.AddTask(task); err != nil {
			t.Fatalf("AddTask(%s) error = %v", task.ID, err)
		}
	}

	got, err := p.GetTask(user, "t1")
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if got.EstimatedDurationMinutes != 45 || got.Type != constants.TaskTypeDeepWork || got.GoalID != "g1" || got.ScheduledFor != nil {
		t.Errorf("GetTask() = %+v", got)
	}

	unscheduled, err := p.GetUnscheduledTasks(user)
	if err != nil {
		t.Fatalf("GetUnscheduledTasks() error = %v", err)
	}
	if len(unscheduled) != 1 || unscheduled[0].ID != "t1" {
		t.Errorf("GetUnscheduledTasks() = %v, want only t1", unscheduled)
	}

	all, err := p.GetAllTasks(user)
	if err != nil {
		t.Fatalf("GetAllTasks() error = %v", err)
	}
	if len(all) != 2 || all[1].ScheduledFor == nil || !all[1].ScheduledFor.Equal(scheduled) {
		t.Errorf("GetAllTasks() = %v", all)
	}

	report.EstimatedDurationMinutes = 90
	if err := p.UpdateTask(report); err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	if got, _ := p.GetTask(user, "t1"); got.EstimatedDurationMinutes != 90 {
		t.Errorf("EstimatedDurationMinutes = %d after update", got.EstimatedDurationMinutes)
	}

	if err := p.DeleteTask(user, "t2"); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if _, err := p.GetTask(user, "t2"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetTask() after delete error = %v, want ErrNotFound", err)
	}
}

func testSamples(t *testing.T, p storage.Provider) {
	samples := []models.EnergySample{
		{ID: "s1", UserID: user, Timestamp: at(9, 0).AddDate(0, 0, -40), EnergyLevel: 3, MoodLevel: 4},
		{ID: "s2", UserID: user, Timestamp: at(10, 0), EnergyLevel: 8, MoodLevel: 7},
		{ID: "s3", UserID: user, Timestamp: at(9, 0), EnergyLevel: 6, MoodLevel: 6},
	}
	for _, s := range samples {
		if err := p.AddSample(s); err != nil {
			t.Fatalf("AddSample(%s) error = %v", s.ID, err)
		}
	}
	if err := p.AddSample(models.EnergySample{ID: "bad", UserID: user, Timestamp: at(9, 0), EnergyLevel: 11, MoodLevel: 5}); err == nil {
		t.Error("AddSample() accepted energy level 11")
	}

	got, err := p.GetSamples(user, at(0, 0).AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("GetSamples() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "s3" || got[1].ID != "s2" {
		t.Fatalf("GetSamples() = %v, want [s3 s2]", got)
	}
	if got[1].EnergyLevel != 8 || got[1].MoodLevel != 7 || !got[1].Timestamp.Equal(at(10, 0)) {
		t.Errorf("GetSamples()[1] = %+v", got[1])
	}
}

func testApplyReschedule(t *testing.T, p storage.Provider) {
	a := event("a", at(9, 0), at(10, 0))
	b := event("b", at(10, 15), at(11, 0))
	b.DependsOn = []string{"a"}
	for _, e := range []models.Event{a, b} {
		if err := p.AddEvent(e); err != nil {
			t.Fatalf("AddEvent(%s) error = %v", e.ID, err)
		}
	}

	now := at(8, 0)
	a.StartTime, a.EndTime = at(13, 0), at(14, 0)
	a.RescheduleCount, a.LastRescheduledAt = 1, &now
	b.StartTime, b.EndTime = at(14, 15), at(15, 0)
	b.RescheduleCount, b.LastRescheduledAt = 1, &now

	result := models.RescheduleResult{MovedEvent: a, Updated: []models.Event{a, b}}
	if err := p.ApplyReschedule(context.Background(), result); err != nil {
		t.Fatalf("ApplyReschedule() error = %v", err)
	}

	got, _ := p.GetEvent(user, "b")
	if !got.StartTime.Equal(at(14, 15)) || got.RescheduleCount != 1 {
		t.Errorf("dependent = %s count %d", got.StartTime, got.RescheduleCount)
	}
	if got.LastRescheduledAt == nil || !got.LastRescheduledAt.Equal(now) {
		t.Errorf("LastRescheduledAt = %v, want %s", got.LastRescheduledAt, now)
	}
}

func testApplyRescheduleRollback(t *testing.T, p storage.Provider) {
	a := event("a", at(9, 0), at(10, 0))
	if err := p.AddEvent(a); err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}

	moved := a
	moved.StartTime, moved.EndTime = at(13, 0), at(14, 0)
	result := models.RescheduleResult{
		MovedEvent: moved,
		Updated:    []models.Event{moved, event("ghost", at(14, 15), at(15, 0))},
	}
	err := p.ApplyReschedule(context.Background(), result)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("ApplyReschedule() error = %v, want ErrNotFound", err)
	}

	got, _ := p.GetEvent(user, "a")
	if !got.StartTime.Equal(at(9, 0)) {
		t.Errorf("moved event start = %s, want unchanged 09:00", got.StartTime)
	}
}

func testApplyPlacements(t *testing.T, p storage.Provider) {
	task := models.Task{
		ID:                       "t1",
		UserID:                   user,
		Title:                    "Write report",
		EstimatedDurationMinutes: 45,
		Priority:                 constants.PriorityHigh,
	}
	if err := p.AddTask(task); err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}
	if err := p.AddEvent(event("standup", at(9, 0), at(10, 0))); err != nil {
		t.Fatalf("AddEvent() error = %v", err)
	}
	ctx := context.Background()
	tasks := []models.Task{task}

	stale := []models.Placement{{TaskID: "t1", ScheduledTime: at(9, 30), DurationMinutes: 45}}
	if err := p.ApplyPlacements(ctx, user, stale, tasks); !errors.Is(err, storage.ErrSlotTaken) {
		t.Fatalf("ApplyPlacements(overlapping) error = %v, want ErrSlotTaken", err)
	}
	if got, _ := p.GetTask(user, "t1"); got.ScheduledFor != nil {
		t.Errorf("task scheduled after refused placement: %v", got.ScheduledFor)
	}

	missing := []models.Placement{{TaskID: "nope", ScheduledTime: at(11, 0), DurationMinutes: 30}}
	if err := p.ApplyPlacements(ctx, user, missing, tasks); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("ApplyPlacements(unknown task) error = %v, want ErrNotFound", err)
	}

	ok := []models.Placement{{TaskID: "t1", ScheduledTime: at(10, 15), DurationMinutes: 45}}
	if err := p.ApplyPlacements(ctx, user, ok, tasks); err != nil {
		t.Fatalf("ApplyPlacements() error = %v", err)
	}

	got, _ := p.GetTask(user, "t1")
	if got.ScheduledFor == nil || !got.ScheduledFor.Equal(at(10, 15)) {
		t.Errorf("ScheduledFor = %v, want 10:15", got.ScheduledFor)
	}
	events, err := p.GetEvents(user, at(10, 0), at(12, 0))
	if err != nil {
		t.Fatalf("GetEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("GetEvents() returned %d events, want the placed task", len(events))
	}
	placed := events[0]
	if placed.Title != "Write report" || !placed.EndTime.Equal(at(11, 0)) || placed.Priority != constants.PriorityHigh {
		t.Errorf("placed event = %+v", placed)
	}
}
