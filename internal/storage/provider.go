package storage

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/models"
)

var (
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrSlotTaken is returned when a placement would overlap an event
	// committed since the placement was computed
	ErrSlotTaken = errors.New("time slot already taken")
)

// Provider is the persistence contract the scheduler's callers rely on.
// The scheduler itself never writes; commands read a snapshot, compute, and
// commit the outcome through ApplyReschedule or ApplyPlacements.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Preferences and routine
	GetPreferences(userID string) (models.SchedulingPreferences, error)
	SavePreferences(userID string, prefs models.SchedulingPreferences) error
	GetRoutine(userID string) (string, error)
	SaveRoutine(userID, routine string) error

	// Events
	AddEvent(models.Event) error
	GetEvent(userID, id string) (models.Event, error)
	// GetEvents returns the user's events overlapping [from, to), ordered by start
	GetEvents(userID string, from, to time.Time) ([]models.Event, error)
	GetAllEvents(userID string) ([]models.Event, error)
	UpdateEvent(models.Event) error
	DeleteEvent(userID, id string) error

	// Tasks
	AddTask(models.Task) error
	GetTask(userID, id string) (models.Task, error)
	GetUnscheduledTasks(userID string) ([]models.Task, error)
	GetAllTasks(userID string) ([]models.Task, error)
	UpdateTask(models.Task) error
	DeleteTask(userID, id string) error

	// Energy samples
	AddSample(models.EnergySample) error
	GetSamples(userID string, since time.Time) ([]models.EnergySample, error)

	// ApplyReschedule stores every event in result.Updated in one transaction
	ApplyReschedule(ctx context.Context, result models.RescheduleResult) error
	// ApplyPlacements creates an event per placement and marks the tasks
	// scheduled in one transaction. It fails with ErrSlotTaken if any
	// placement overlaps an existing event.
	ApplyPlacements(ctx context.Context, userID string, placements []models.Placement, tasks []models.Task) error

	// Utils
	GetConfigPath() string
}
