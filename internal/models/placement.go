package models

import "time"

// Placement is an advisory start time for a task produced by batch placement
type Placement struct {
	TaskID          string    `json:"task_id"`
	ScheduledTime   time.Time `json:"scheduled_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Confidence      float64   `json:"confidence"`
	Reasoning       string    `json:"reasoning"`
}

// End returns when the placed task finishes
func (p *Placement) End() time.Time {
	return p.ScheduledTime.Add(time.Duration(p.DurationMinutes) * time.Minute)
}

// PlacementResult is the output of a sequential batch placement
type PlacementResult struct {
	Placements         []Placement `json:"placements"`
	Unscheduled        int         `json:"unscheduled"`
	UnscheduledTaskIDs []string    `json:"unscheduled_task_ids,omitempty"`
}

// Suggestion is the best slot chosen for a task together with ranked fallbacks
type Suggestion struct {
	TaskID       string        `json:"task_id"`
	TaskTitle    string        `json:"task_title"`
	Slot         AvailableSlot `json:"slot"`
	Score        int           `json:"score"`
	Confidence   float64       `json:"confidence"`
	Reasoning    string        `json:"reasoning"`
	Alternatives []ScoredSlot  `json:"alternatives,omitempty"`
}

// UnscheduledTask records why a task could not be given a slot
type UnscheduledTask struct {
	TaskID       string   `json:"task_id"`
	Title        string   `json:"title"`
	Reason       string   `json:"reason"`
	Alternatives []string `json:"alternatives"`
}

// ScheduleSuggestions is the output of a batch slot suggestion run
type ScheduleSuggestions struct {
	Scheduled   []Suggestion      `json:"scheduled"`
	Unscheduled []UnscheduledTask `json:"unscheduled"`
	Insights    []string          `json:"insights"`
}

// TimeChangeCheck reports problems with moving an event to a new time
type TimeChangeCheck struct {
	Valid     bool     `json:"valid"`
	Conflicts []Event  `json:"conflicts,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}
