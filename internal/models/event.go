package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
)

type Event struct {
	ID                      string                   `json:"id"`
	UserID                  string                   `json:"user_id"`
	Title                   string                   `json:"title"`
	StartTime               time.Time                `json:"start_time"`
	EndTime                 time.Time                `json:"end_time"`
	Priority                constants.Priority       `json:"priority,omitempty"`
	IsUrgent                bool                     `json:"is_urgent"`
	IsImportant             bool                     `json:"is_important"`
	ContributesToGoal       bool                     `json:"contributes_to_goal"`
	DependsOn               []string                 `json:"depends_on_event_ids,omitempty"`
	DependencyType          constants.DependencyType `json:"dependency_type,omitempty"`
	AutoRescheduleEnabled   bool                     `json:"auto_reschedule_enabled"`
	RescheduleBufferMinutes int                      `json:"reschedule_buffer_minutes"`
	RescheduleCount         int                      `json:"reschedule_count"`
	LastRescheduledAt       *time.Time               `json:"last_rescheduled_at,omitempty"`
}

func (e *Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id cannot be empty")
	}
	if e.Title == "" {
		return fmt.Errorf("event title cannot be empty")
	}
	if e.EndTime.Before(e.StartTime) {
		return fmt.Errorf("event %q ends (%s) before it starts (%s)", e.Title,
			e.EndTime.Format(time.RFC3339), e.StartTime.Format(time.RFC3339))
	}
	if e.RescheduleBufferMinutes < 0 {
		return fmt.Errorf("reschedule buffer must not be negative")
	}
	switch e.DependencyType {
	case "", constants.DependencySequential, constants.DependencySameDay, constants.DependencyBeforeDeadline:
	default:
		return fmt.Errorf("invalid dependency type: %s", e.DependencyType)
	}
	for _, dep := range e.DependsOn {
		if dep == e.ID {
			return fmt.Errorf("event %q cannot depend on itself", e.Title)
		}
	}
	return nil
}

// Duration returns the length of the event
func (e *Event) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// IsDegenerate reports whether the event has zero length and therefore blocks nothing
func (e *Event) IsDegenerate() bool {
	return !e.StartTime.Before(e.EndTime)
}

// Overlaps reports whether the event intersects the half-open interval [start, end)
func (e *Event) Overlaps(start, end time.Time) bool {
	if e.IsDegenerate() {
		return false
	}
	return e.StartTime.Before(end) && start.Before(e.EndTime)
}

// DependsOnEvent reports whether id is one of the event's dependencies
func (e *Event) DependsOnEvent(id string) bool {
	for _, dep := range e.DependsOn {
		if dep == id {
			return true
		}
	}
	return false
}

// EffectiveDependencyType returns the dependency type, treating an unset type as sequential
func (e *Event) EffectiveDependencyType() constants.DependencyType {
	if e.DependencyType == "" {
		return constants.DependencySequential
	}
	return e.DependencyType
}
