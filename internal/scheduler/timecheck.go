package scheduler

import (
	"fmt"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/models"
)

// ValidateTimeChange checks whether moving event to newStart (keeping its
// length) would overlap another event or land in a low-energy hour. Energy
// warnings never make the change invalid.
func (s *Scheduler) ValidateTimeChange(event models.Event, newStart time.Time, events []models.Event, profile models.EnergyProfile) models.TimeChangeCheck {
	newEnd := newStart.Add(event.Duration())
	check := models.TimeChangeCheck{Valid: true}

	for _, other := range events {
		if other.ID == event.ID {
			continue
		}
		if other.Overlaps(newStart, newEnd) {
			check.Conflicts = append(check.Conflicts, other)
		}
	}
	if len(check.Conflicts) > 0 {
		check.Valid = false
		check.Warnings = append(check.Warnings,
			fmt.Sprintf("New time overlaps %d existing event(s)", len(check.Conflicts)))
	}

	if profile.PatternsAvailable && profile.IsLowHour(newStart.Hour()) {
		check.Warnings = append(check.Warnings,
			fmt.Sprintf("%s is usually a low-energy hour for you", newStart.Format("15:04")))
	}

	return check
}
