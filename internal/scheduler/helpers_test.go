package scheduler

import (
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/models"
)

// 2026-03-10 is a Tuesday
func at(day, h, m int) time.Time {
	return time.Date(2026, 3, day, h, m, 0, 0, time.UTC)
}

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func event(id string, start, end time.Time) models.Event {
	return models.Event{ID: id, UserID: "u1", Title: id, StartTime: start, EndTime: end}
}

func slot(start, end time.Time) models.AvailableSlot {
	return models.NewSlot(start, end)
}

func learnedProfile(peak, low []int, best ...string) models.EnergyProfile {
	return models.EnergyProfile{
		PeakHours:         peak,
		LowHours:          low,
		BestWeekdays:      best,
		PatternsAvailable: true,
	}
}
