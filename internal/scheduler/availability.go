package scheduler

import (
	"fmt"
	"sort"
	"time"

	apperrors "github.com/julianstephens/aurora/aurora-cli/internal/errors"
	"github.com/julianstephens/aurora/aurora-cli/internal/logger"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/utils"
)

type timeBlock struct {
	start time.Time
	end   time.Time
}

func (b timeBlock) minutes() int {
	return int(b.end.Sub(b.start).Minutes())
}

// workDay is the resolved working window of a single date
type workDay struct {
	start      time.Time
	end        time.Time
	lunchStart time.Time
	lunchEnd   time.Time
}

func resolveWorkDay(day time.Time, prefs models.SchedulingPreferences) (workDay, error) {
	startMin, err := utils.ParseClock(prefs.WorkStart)
	if err != nil {
		return workDay{}, apperrors.Invalidf("work start: %v", err)
	}
	endMin, err := utils.ParseClock(prefs.WorkEnd)
	if err != nil {
		return workDay{}, apperrors.Invalidf("work end: %v", err)
	}
	wd := workDay{
		start: utils.AtMinutes(day, startMin),
		end:   utils.AtMinutes(day, endMin),
	}
	if prefs.LunchStart != "" && prefs.LunchDurationMinutes > 0 {
		lunchMin, err := utils.ParseClock(prefs.LunchStart)
		if err != nil {
			return workDay{}, apperrors.Invalidf("lunch start: %v", err)
		}
		wd.lunchStart = utils.AtMinutes(day, lunchMin)
		wd.lunchEnd = wd.lunchStart.Add(time.Duration(prefs.LunchDurationMinutes) * time.Minute)
	}
	return wd, nil
}

// FindAvailableSlots returns the free intervals inside working hours over
// the next daysAhead calendar days, starting today. Lunch is never part of
// a slot and slots shorter than the minimum task duration are dropped.
func (s *Scheduler) FindAvailableSlots(events []models.Event, prefs models.SchedulingPreferences, daysAhead int) ([]models.AvailableSlot, error) {
	if daysAhead < 0 {
		return nil, ErrInvalidHorizon
	}

	now := s.now()
	today := utils.StartOfDay(now)

	sorted := make([]models.Event, 0, len(events))
	for _, e := range events {
		if !e.IsDegenerate() {
			sorted = append(sorted, e)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	slots := []models.AvailableSlot{}
	for offset := 0; offset < daysAhead; offset++ {
		day := today.AddDate(0, 0, offset)
		if !prefs.IsWorkDay(day.Weekday()) {
			continue
		}

		wd, err := resolveWorkDay(day, prefs)
		if err != nil {
			return nil, err
		}
		if !wd.start.Before(wd.end) {
			return nil, apperrors.Invalidf("work start %s is not before work end %s", prefs.WorkStart, prefs.WorkEnd)
		}

		free := findFreeBlocks(wd.start, wd.end, ceilMinute(now), sorted)
		for _, block := range free {
			for _, piece := range splitAroundLunch(block, wd) {
				if piece.minutes() >= prefs.MinTaskDurationMinutes && piece.minutes() > 0 {
					slots = append(slots, models.NewSlot(piece.start, piece.end))
				}
			}
		}
	}

	logger.Debug("available slots computed", "days", daysAhead, "events", len(sorted), "slots", len(slots))
	return slots, nil
}

// findFreeBlocks walks the events overlapping [dayStart, dayEnd) in start
// order and returns the gaps between them. Time before notBefore is not free.
func findFreeBlocks(dayStart, dayEnd, notBefore time.Time, events []models.Event) []timeBlock {
	var blocks []timeBlock

	cursor := dayStart
	if cursor.Before(notBefore) {
		cursor = notBefore
	}

	for _, e := range events {
		if !e.Overlaps(dayStart, dayEnd) {
			continue
		}

		// Gap before this event
		if cursor.Before(e.StartTime) {
			end := e.StartTime
			if end.After(dayEnd) {
				end = dayEnd
			}
			blocks = append(blocks, timeBlock{start: cursor, end: end})
		}

		// Overlapping events never move the cursor backwards
		if e.EndTime.After(cursor) {
			cursor = e.EndTime
		}
	}

	if cursor.Before(dayEnd) {
		blocks = append(blocks, timeBlock{start: cursor, end: dayEnd})
	}

	return blocks
}

// splitAroundLunch cuts the lunch window out of block
func splitAroundLunch(block timeBlock, wd workDay) []timeBlock {
	if wd.lunchStart.IsZero() || !block.start.Before(wd.lunchEnd) || !wd.lunchStart.Before(block.end) {
		return []timeBlock{block}
	}

	var pieces []timeBlock
	if block.start.Before(wd.lunchStart) {
		pieces = append(pieces, timeBlock{start: block.start, end: wd.lunchStart})
	}
	if block.end.After(wd.lunchEnd) {
		pieces = append(pieces, timeBlock{start: wd.lunchEnd, end: block.end})
	}
	return pieces
}

// ceilMinute rounds t up to the next whole minute
func ceilMinute(t time.Time) time.Time {
	truncated := t.Truncate(time.Minute)
	if truncated.Equal(t) {
		return t
	}
	return truncated.Add(time.Minute)
}

func describeSlot(slot models.AvailableSlot) string {
	return fmt.Sprintf("%s %s-%s", slot.Date, slot.StartTime.Format("15:04"), slot.EndTime.Format("15:04"))
}
