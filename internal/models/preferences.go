package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
)

// SchedulingPreferences holds the user's working-hours configuration
type SchedulingPreferences struct {
	WorkStart                 string         `json:"work_start"`  // HH:MM
	WorkEnd                   string         `json:"work_end"`    // HH:MM
	LunchStart                string         `json:"lunch_start"` // HH:MM
	LunchDurationMinutes      int            `json:"lunch_duration_minutes"`
	MinTaskDurationMinutes    int            `json:"min_task_duration_minutes"`
	MaxTaskDurationMinutes    int            `json:"max_task_duration_minutes"`
	BufferBetweenTasksMinutes int            `json:"buffer_between_tasks_minutes"`
	NoWorkDays                []time.Weekday `json:"no_work_days"`
	Timezone                  string         `json:"timezone"` // IANA name or "Local"
}

// DefaultPreferences returns the preferences used when the user has configured nothing
func DefaultPreferences() SchedulingPreferences {
	return SchedulingPreferences{
		WorkStart:                 constants.DefaultWorkStart,
		WorkEnd:                   constants.DefaultWorkEnd,
		LunchStart:                constants.DefaultLunchStart,
		LunchDurationMinutes:      constants.DefaultLunchDurationMin,
		MinTaskDurationMinutes:    constants.DefaultMinTaskDurationMin,
		MaxTaskDurationMinutes:    constants.DefaultMaxTaskDurationMin,
		BufferBetweenTasksMinutes: constants.DefaultBufferBetweenTasksMin,
		NoWorkDays:                []time.Weekday{time.Sunday},
		Timezone:                  constants.DefaultTimezone,
	}
}

func (p *SchedulingPreferences) Validate() error {
	start, err := time.Parse(constants.TimeFormat, p.WorkStart)
	if err != nil {
		return fmt.Errorf("invalid work_start (expected HH:MM): %w", err)
	}
	end, err := time.Parse(constants.TimeFormat, p.WorkEnd)
	if err != nil {
		return fmt.Errorf("invalid work_end (expected HH:MM): %w", err)
	}
	if !start.Before(end) {
		return fmt.Errorf("work_start must be before work_end")
	}
	if p.LunchStart != "" {
		if _, err := time.Parse(constants.TimeFormat, p.LunchStart); err != nil {
			return fmt.Errorf("invalid lunch_start (expected HH:MM): %w", err)
		}
	}
	if p.LunchDurationMinutes < 0 || p.MinTaskDurationMinutes < 0 || p.BufferBetweenTasksMinutes < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if p.MaxTaskDurationMinutes > 0 && p.MaxTaskDurationMinutes < p.MinTaskDurationMinutes {
		return fmt.Errorf("max_task_duration_min must not be below min_task_duration_min")
	}
	return nil
}

// IsWorkDay reports whether day is not one of the configured no-work days
func (p *SchedulingPreferences) IsWorkDay(day time.Weekday) bool {
	for _, wd := range p.NoWorkDays {
		if wd == day {
			return false
		}
	}
	return true
}
