package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekdays parses a comma-separated list of weekday names
func ParseWeekdays(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		wd, ok := weekdayNames[part]
		if !ok {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, wd)
	}
	return days, nil
}

// FormatWeekdays renders weekdays as a comma-separated lowercase list
func FormatWeekdays(days []time.Weekday) string {
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = strings.ToLower(d.String())
	}
	return strings.Join(names, ",")
}

// MapToPreferences converts stored key-value pairs to SchedulingPreferences.
// Keys that are absent keep their default; a stored zero stays zero.
func MapToPreferences(data map[string]string) (SchedulingPreferences, error) {
	prefs := DefaultPreferences()

	for key, value := range data {
		switch key {
		case constants.SettingWorkStart:
			prefs.WorkStart = value
		case constants.SettingWorkEnd:
			prefs.WorkEnd = value
		case constants.SettingLunchStart:
			prefs.LunchStart = value
		case constants.SettingLunchDurationMin:
			if _, err := fmt.Sscanf(value, "%d", &prefs.LunchDurationMinutes); err != nil {
				return SchedulingPreferences{}, fmt.Errorf("parsing lunch_duration_min: %w", err)
			}
		case constants.SettingMinTaskDurationMin:
			if _, err := fmt.Sscanf(value, "%d", &prefs.MinTaskDurationMinutes); err != nil {
				return SchedulingPreferences{}, fmt.Errorf("parsing min_task_duration_min: %w", err)
			}
		case constants.SettingMaxTaskDurationMin:
			if _, err := fmt.Sscanf(value, "%d", &prefs.MaxTaskDurationMinutes); err != nil {
				return SchedulingPreferences{}, fmt.Errorf("parsing max_task_duration_min: %w", err)
			}
		case constants.SettingBufferBetweenTasksMin:
			if _, err := fmt.Sscanf(value, "%d", &prefs.BufferBetweenTasksMinutes); err != nil {
				return SchedulingPreferences{}, fmt.Errorf("parsing buffer_between_tasks_min: %w", err)
			}
		case constants.SettingNoWorkDays:
			days, err := ParseWeekdays(value)
			if err != nil {
				return SchedulingPreferences{}, fmt.Errorf("parsing no_work_days: %w", err)
			}
			prefs.NoWorkDays = days
		case constants.SettingTimezone:
			prefs.Timezone = value
		}
	}

	if prefs.WorkStart == "" {
		prefs.WorkStart = constants.DefaultWorkStart
	}
	if prefs.WorkEnd == "" {
		prefs.WorkEnd = constants.DefaultWorkEnd
	}
	if prefs.Timezone == "" {
		prefs.Timezone = constants.DefaultTimezone
	}
	return prefs, nil
}

// PreferencesToMap converts SchedulingPreferences to a map of key-value pairs.
func PreferencesToMap(prefs SchedulingPreferences) map[string]string {
	return map[string]string{
		constants.SettingWorkStart:             prefs.WorkStart,
		constants.SettingWorkEnd:               prefs.WorkEnd,
		constants.SettingLunchStart:            prefs.LunchStart,
		constants.SettingLunchDurationMin:      fmt.Sprintf("%d", prefs.LunchDurationMinutes),
		constants.SettingMinTaskDurationMin:    fmt.Sprintf("%d", prefs.MinTaskDurationMinutes),
		constants.SettingMaxTaskDurationMin:    fmt.Sprintf("%d", prefs.MaxTaskDurationMinutes),
		constants.SettingBufferBetweenTasksMin: fmt.Sprintf("%d", prefs.BufferBetweenTasksMinutes),
		constants.SettingNoWorkDays:            FormatWeekdays(prefs.NoWorkDays),
		constants.SettingTimezone:              prefs.Timezone,
	}
}
