package models

import (
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
)

// AvailableSlot is a free interval inside working hours
type AvailableSlot struct {
	StartTime       time.Time          `json:"start_time"`
	EndTime         time.Time          `json:"end_time"`
	DurationMinutes int                `json:"duration_minutes"`
	Date            string             `json:"date"`
	Type            constants.SlotType `json:"type"`
}

// NewSlot builds a slot for [start, end), deriving its date, duration and type
func NewSlot(start, end time.Time) AvailableSlot {
	slotType := constants.SlotAfternoon
	if start.Hour() < 12 {
		slotType = constants.SlotMorning
	}
	return AvailableSlot{
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: int(end.Sub(start).Minutes()),
		Date:            start.Format(constants.DateFormat),
		Type:            slotType,
	}
}

// ScoredSlot is a candidate slot with the score the selector gave it
type ScoredSlot struct {
	Slot       AvailableSlot `json:"slot"`
	Score      int           `json:"score"`
	Confidence float64       `json:"confidence"`
	Reasons    []string      `json:"reasons,omitempty"`
}
