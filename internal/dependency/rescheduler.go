package dependency

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	apperrors "github.com/julianstephens/aurora/aurora-cli/internal/errors"
	"github.com/julianstephens/aurora/aurora-cli/internal/logger"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/utils"
)

var (
	// ErrEventNotFound is returned when the moved event is not in the snapshot
	ErrEventNotFound = errors.New("event not found")
	// ErrInvalidEvent is returned when the moved event has no duration
	ErrInvalidEvent = fmt.Errorf("%w: event has no duration", apperrors.ErrInvalidInput)
)

const (
	reasonAutoDisabled = "Auto-reschedule disabled; manual rescheduling needed"
	reasonNoSlot       = "No conflict-free time within 7 days; manual rescheduling needed"
)

// Rescheduler proposes new times for the dependents of a moved event
type Rescheduler struct {
	now func() time.Time
}

type Option func(*Rescheduler)

// WithClock sets the clock used for reschedule bookkeeping
func WithClock(now func() time.Time) Option {
	return func(r *Rescheduler) {
		r.now = now
	}
}

func NewRescheduler(opts ...Option) *Rescheduler {
	r := &Rescheduler{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reschedule moves the event movedID to newStart, keeping its length, and
// proposes a new time for each event that directly depends on it. Nothing is
// persisted: the result lists every changed event in Updated so the caller
// can commit them as one unit.
func (r *Rescheduler) Reschedule(events []models.Event, movedID string, newStart time.Time) (models.RescheduleResult, error) {
	result := models.RescheduleResult{
		RescheduledEvents: []models.RescheduledEvent{},
		Conflicts:         []models.RescheduleConflict{},
	}
	if newStart.IsZero() {
		return result, apperrors.Invalidf("new start time is required")
	}

	// work on a copy so callers keep their snapshot
	snapshot := make([]models.Event, len(events))
	copy(snapshot, events)

	movedIdx := -1
	for i := range snapshot {
		if snapshot[i].ID == movedID {
			movedIdx = i
			break
		}
	}
	if movedIdx < 0 {
		return result, fmt.Errorf("%w: %s", ErrEventNotFound, movedID)
	}

	now := r.now()
	moved := &snapshot[movedIdx]
	if moved.IsDegenerate() {
		return result, fmt.Errorf("event %q: %w", moved.Title, ErrInvalidEvent)
	}
	duration := moved.Duration()
	moved.StartTime = newStart
	moved.EndTime = newStart.Add(duration)
	touch(moved, now)
	result.MovedEvent = *moved
	result.Updated = append(result.Updated, *moved)

	for _, idx := range dependentsOf(snapshot, movedID) {
		dep := &snapshot[idx]

		if !dep.AutoRescheduleEnabled {
			result.Conflicts = append(result.Conflicts, conflict(dep, reasonAutoDisabled))
			continue
		}

		candidate := candidateStart(*moved, *dep)
		start, ok := findConflictFree(snapshot, dep.ID, candidate, dep.Duration())
		if !ok {
			logger.Warn("dependent needs manual rescheduling", "event", dep.ID, "candidate", candidate.Format(time.RFC3339))
			result.Conflicts = append(result.Conflicts, conflict(dep, reasonNoSlot))
			continue
		}

		oldStart := dep.StartTime
		depDuration := dep.Duration()
		dep.StartTime = start
		dep.EndTime = start.Add(depDuration)
		touch(dep, now)

		result.RescheduledEvents = append(result.RescheduledEvents, models.RescheduledEvent{
			EventID:        dep.ID,
			Title:          dep.Title,
			OldStart:       oldStart,
			NewStart:       dep.StartTime,
			NewEnd:         dep.EndTime,
			DependencyType: dep.EffectiveDependencyType(),
		})
		result.Updated = append(result.Updated, *dep)
	}

	result.Summary = models.RescheduleSummary{
		EventsRescheduled: len(result.RescheduledEvents),
		ConflictsFound:    len(result.Conflicts),
		TotalAffected:     len(result.RescheduledEvents) + len(result.Conflicts),
	}
	logger.With("rescheduler").Info("dependents rescheduled",
		"event", movedID,
		"rescheduled", result.Summary.EventsRescheduled,
		"conflicts", result.Summary.ConflictsFound,
	)
	return result, nil
}

// dependentsOf returns the indexes of events depending directly on id,
// ordered by their current start time.
func dependentsOf(events []models.Event, id string) []int {
	var idx []int
	for i := range events {
		if events[i].ID != id && events[i].DependsOnEvent(id) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ea, eb := events[idx[a]], events[idx[b]]
		if !ea.StartTime.Equal(eb.StartTime) {
			return ea.StartTime.Before(eb.StartTime)
		}
		return ea.ID < eb.ID
	})
	return idx
}

// candidateStart is where the search for dep's new time begins
func candidateStart(moved, dep models.Event) time.Time {
	buffer := time.Duration(dep.RescheduleBufferMinutes) * time.Minute
	afterMoved := moved.EndTime.Add(buffer)

	switch dep.EffectiveDependencyType() {
	case constants.DependencySameDay:
		if utils.SameDate(dep.StartTime, moved.StartTime) {
			if dep.StartTime.After(afterMoved) {
				return dep.StartTime
			}
			return afterMoved
		}
		shifted := onDateOf(moved.StartTime, dep.StartTime)
		if !shifted.After(moved.EndTime) {
			return afterMoved
		}
		return shifted
	case constants.DependencyBeforeDeadline:
		return dep.StartTime
	default:
		return afterMoved
	}
}

// findConflictFree probes from candidate in fixed steps for a start within
// allowed hours where an event of length duration overlaps nothing but
// itself. The search is bounded to a week past candidate.
func findConflictFree(events []models.Event, selfID string, candidate time.Time, duration time.Duration) (time.Time, bool) {
	limit := candidate.Add(constants.RescheduleSearchWindow)
	for t := candidate; t.Before(limit); t = t.Add(constants.RescheduleSearchStep) {
		if h := t.Hour(); h < constants.RescheduleFirstHour || h > constants.RescheduleLastHour {
			continue
		}
		if !overlapsAny(events, selfID, t, t.Add(duration)) {
			return t, true
		}
	}
	return time.Time{}, false
}

func overlapsAny(events []models.Event, selfID string, start, end time.Time) bool {
	for i := range events {
		if events[i].ID == selfID {
			continue
		}
		if events[i].Overlaps(start, end) {
			return true
		}
	}
	return false
}

// onDateOf returns clock's time of day on date's calendar day
func onDateOf(date, clock time.Time) time.Time {
	clock = clock.In(date.Location())
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(), date.Location())
}

func touch(e *models.Event, now time.Time) {
	e.RescheduleCount++
	at := now
	e.LastRescheduledAt = &at
}

func conflict(e *models.Event, reason string) models.RescheduleConflict {
	return models.RescheduleConflict{EventID: e.ID, Title: e.Title, Reason: reason}
}
