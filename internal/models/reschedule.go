package models

import (
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
)

// RescheduledEvent describes a dependent event that was moved
type RescheduledEvent struct {
	EventID        string                   `json:"event_id"`
	Title          string                   `json:"title"`
	OldStart       time.Time                `json:"old_start"`
	NewStart       time.Time                `json:"new_start"`
	NewEnd         time.Time                `json:"new_end"`
	DependencyType constants.DependencyType `json:"dependency_type"`
}

// RescheduleConflict is a dependent event that needs manual rescheduling
type RescheduleConflict struct {
	EventID string `json:"event_id"`
	Title   string `json:"title"`
	Reason  string `json:"reason"`
}

type RescheduleSummary struct {
	EventsRescheduled int `json:"events_rescheduled"`
	ConflictsFound    int `json:"conflicts_found"`
	TotalAffected     int `json:"total_affected"`
}

// RescheduleResult is the proposed outcome of moving an event and cascading to its dependents
type RescheduleResult struct {
	MovedEvent        Event                `json:"moved_event"`
	RescheduledEvents []RescheduledEvent   `json:"rescheduled_events"`
	Conflicts         []RescheduleConflict `json:"conflicts"`
	Summary           RescheduleSummary    `json:"summary"`
	// Updated holds every event whose stored row must change, moved event first
	Updated []Event `json:"-"`
}
