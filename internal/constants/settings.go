package constants

const (
	// Preference Settings
	SettingWorkStart             = "work_start"
	SettingWorkEnd               = "work_end"
	SettingLunchStart            = "lunch_start"
	SettingLunchDurationMin      = "lunch_duration_min"
	SettingMinTaskDurationMin    = "min_task_duration_min"
	SettingMaxTaskDurationMin    = "max_task_duration_min"
	SettingBufferBetweenTasksMin = "buffer_between_tasks_min"
	SettingNoWorkDays            = "no_work_days"
	SettingTimezone              = "timezone"

	// Routine Settings
	SettingRoutine = "routine"

	// Default Settings Values
	DefaultWorkStart             = "09:00"
	DefaultWorkEnd               = "18:00"
	DefaultLunchStart            = "12:00"
	DefaultLunchDurationMin      = 60
	DefaultMinTaskDurationMin    = 15
	DefaultMaxTaskDurationMin    = 120
	DefaultBufferBetweenTasksMin = 15
	DefaultTimezone              = "Local" // Use system local timezone by default
	DefaultRescheduleBufferMin   = 15
)
