package constants

import "time"

// ConflictType represents the type of validation conflict
type ConflictType string

// Priority represents the urgency class of a task or event
type Priority string

// DependencyType controls how a dependent event tracks the event it depends on
type DependencyType string

// BlockType represents the kind of protected routine block
type BlockType string

// SlotType labels an available slot by the half of the day it starts in
type SlotType string

// TimeOfDay is a task's preferred part of the day
type TimeOfDay string

// TaskType categorizes the kind of work a task involves
type TaskType string

const (
	AppName            = "aurora"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/aurora"
	DefaultUserID      = "local"
	Version            = "v0.1.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "aurora-"
	BackupFileSuffix = ".db"

	// Priority constants
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"

	// Dependency Type constants
	DependencySequential     DependencyType = "sequential"
	DependencySameDay        DependencyType = "same_day"
	DependencyBeforeDeadline DependencyType = "before_deadline"

	// Routine Block Type constants
	BlockSleep    BlockType = "sleep"
	BlockGym      BlockType = "gym"
	BlockLunch    BlockType = "lunch"
	BlockDinner   BlockType = "dinner"
	BlockPreWork  BlockType = "pre_work"
	BlockPostWork BlockType = "post_work"

	// Slot Type constants
	SlotMorning   SlotType = "morning"
	SlotAfternoon SlotType = "afternoon"

	// Time Of Day constants
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayEvening   TimeOfDay = "evening"

	// Task Type constants
	TaskTypeGeneral  TaskType = "general"
	TaskTypeResearch TaskType = "research"
	TaskTypeDeepWork TaskType = "deep_work"
	TaskTypeCreative TaskType = "creative"
	TaskTypeAdmin    TaskType = "admin"
	TaskTypeMeeting  TaskType = "meeting"

	// Conflict Types
	ConflictInvalidInterval   ConflictType = "invalid_interval"
	ConflictDuplicateEventID  ConflictType = "duplicate_event_id"
	ConflictOverlappingEvents ConflictType = "overlapping_events"
	ConflictMissingDependency ConflictType = "missing_dependency"
	ConflictSelfDependency    ConflictType = "self_dependency"
	ConflictDependencyCycle   ConflictType = "dependency_cycle"
	ConflictInvalidDependency ConflictType = "invalid_dependency_type"
	ConflictInvalidTask       ConflictType = "invalid_task"
)

const (
	// PlacementBuffer separates a placed task from the block, event or task before it
	PlacementBuffer = 15 * time.Minute
	// MaxPlacementAttempts bounds the advance-and-retry loop for a single task
	MaxPlacementAttempts = 100
	// PlacementHorizonDays is how many days past today a batch placement may reach
	PlacementHorizonDays = 1

	// RescheduleSearchStep is the increment used when probing for a conflict-free dependent slot
	RescheduleSearchStep = 30 * time.Minute
	// RescheduleSearchWindow bounds the dependent slot search
	RescheduleSearchWindow = 7 * 24 * time.Hour
	// RescheduleFirstHour and RescheduleLastHour bound the hour a dependent may start in
	RescheduleFirstHour = 8
	RescheduleLastHour  = 20

	// EnergyLookbackDays is how far back energy samples are read for a profile
	EnergyLookbackDays = 30
	// PeakEnergyThreshold and LowEnergyThreshold split hourly means into peak and low hours
	PeakEnergyThreshold = 6.0
	LowEnergyThreshold  = 5.0

	// WorkEndCutoffHour marks work-end hours at or below it as a data error
	WorkEndCutoffHour = 6
	// FallbackWorkEnd replaces an implausible work-end time
	FallbackWorkEnd = "19:00"
	// SleepCutoffHour marks sleep times before it as implausible
	SleepCutoffHour = 6
	// FallbackSleep replaces an implausible sleep time
	FallbackSleep = "23:00"

	// DefaultTaskDurationMin is used when a task carries no estimate
	DefaultTaskDurationMin = 30
	// MaxConfidence caps the reported slot confidence
	MaxConfidence = 0.95
	// DefaultDaysAhead is the availability horizon when none is given
	DefaultDaysAhead = 7
	// DefaultLockTTL bounds how long a crashed process can hold a user's write lock
	DefaultLockTTL = 30 * time.Second
	// MaxAlternatives is the number of ranked fallback slots returned with a suggestion
	MaxAlternatives = 3
)
