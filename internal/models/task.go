package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
)

type Task struct {
	ID                       string              `json:"id"`
	UserID                   string              `json:"user_id"`
	Title                    string              `json:"title"`
	EstimatedDurationMinutes int                 `json:"estimated_duration_minutes"`
	Priority                 constants.Priority  `json:"priority"`
	EnergyLevelRequired      int                 `json:"energy_level_required,omitempty"`
	PreferredTimeOfDay       constants.TimeOfDay `json:"preferred_time_of_day,omitempty"`
	Type                     constants.TaskType  `json:"task_type,omitempty"`
	ScheduledFor             *time.Time          `json:"scheduled_for,omitempty"`
	GoalID                   string              `json:"goal_id,omitempty"`
}

func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task id cannot be empty")
	}
	if t.Title == "" {
		return fmt.Errorf("task title cannot be empty")
	}
	if t.EstimatedDurationMinutes < 0 {
		return fmt.Errorf("estimated duration must not be negative")
	}
	if t.EnergyLevelRequired < 0 || t.EnergyLevelRequired > 10 {
		return fmt.Errorf("energy level required must be between 1 and 10")
	}
	if !ValidPriority(t.Priority) {
		return fmt.Errorf("invalid priority: %s", t.Priority)
	}
	switch t.PreferredTimeOfDay {
	case "", constants.TimeOfDayMorning, constants.TimeOfDayAfternoon, constants.TimeOfDayEvening:
	default:
		return fmt.Errorf("invalid preferred time of day: %s", t.PreferredTimeOfDay)
	}
	switch t.Type {
	case "", constants.TaskTypeGeneral, constants.TaskTypeResearch, constants.TaskTypeDeepWork,
		constants.TaskTypeCreative, constants.TaskTypeAdmin, constants.TaskTypeMeeting:
	default:
		return fmt.Errorf("invalid task type: %s", t.Type)
	}
	return nil
}

// DurationMinutes returns the estimate, falling back to the default when unset
func (t *Task) DurationMinutes() int {
	if t.EstimatedDurationMinutes <= 0 {
		return constants.DefaultTaskDurationMin
	}
	return t.EstimatedDurationMinutes
}

// IsUnscheduled reports whether the task is a candidate for placement
func (t *Task) IsUnscheduled() bool {
	return t.ScheduledFor == nil
}

// FavorsDeepWork reports whether the task benefits from a focused morning slot
func (t *Task) FavorsDeepWork() bool {
	return t.Type == constants.TaskTypeResearch || t.Type == constants.TaskTypeDeepWork
}

func (t *Task) IsUrgent() bool {
	return t.Priority == constants.PriorityUrgent
}

// IsImportant treats high priority and goal-linked tasks as important
func (t *Task) IsImportant() bool {
	return t.Priority == constants.PriorityHigh || t.GoalID != ""
}

// ValidPriority reports whether p is a known priority; empty counts as medium
func ValidPriority(p constants.Priority) bool {
	switch p {
	case "", constants.PriorityLow, constants.PriorityMedium, constants.PriorityHigh, constants.PriorityUrgent:
		return true
	}
	return false
}

// PriorityRank orders priorities from most to least pressing
func PriorityRank(p constants.Priority) int {
	switch p {
	case constants.PriorityUrgent:
		return 0
	case constants.PriorityHigh:
		return 1
	case constants.PriorityLow:
		return 3
	default:
		return 2
	}
}
