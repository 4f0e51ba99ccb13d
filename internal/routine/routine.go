package routine

import (
	"regexp"
	"sort"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/logger"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/utils"
)

var (
	wakePattern   = regexp.MustCompile(`(?i)wake[^:]*:\s*(\d{1,2}:\d{2})`)
	gymPattern    = regexp.MustCompile(`(?i)gym[^:]*:\s*(\d{1,2}:\d{2})`)
	lunchPattern  = regexp.MustCompile(`(?i)lunch[^:]*:\s*(\d{1,2}:\d{2})`)
	dinnerPattern = regexp.MustCompile(`(?i)dinner[^:]*:\s*(\d{1,2}:\d{2})`)
	sleepPattern  = regexp.MustCompile(`(?i)sleep[^:]*:\s*(\d{1,2}:\d{2})`)
	workPattern   = regexp.MustCompile(`(?i)work[^:]*:\s*(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})`)
)

const (
	gymLeadIn    = 30 * time.Minute
	gymSession   = 90 * time.Minute
	lunchLength  = 60 * time.Minute
	dinnerLength = 90 * time.Minute
)

// Clock is a time of day in minutes from midnight; Set is false when the
// routine text did not mention it.
type Clock struct {
	Minutes int
	Set     bool
}

// Routine holds the fixed times extracted from a routine description
type Routine struct {
	Wake      Clock
	Gym       Clock
	Lunch     Clock
	Dinner    Clock
	Sleep     Clock
	WorkStart Clock
	WorkEnd   Clock
}

// Parse extracts routine times from free text such as
// "Wake: 06:30, Gym: 07:00, Work: 09:00-18:00, Sleep: 23:00".
// Missing or malformed entries are left unset.
func Parse(text string) Routine {
	r := Routine{
		Wake:   match(wakePattern, text, "wake"),
		Gym:    match(gymPattern, text, "gym"),
		Lunch:  match(lunchPattern, text, "lunch"),
		Dinner: match(dinnerPattern, text, "dinner"),
		Sleep:  match(sleepPattern, text, "sleep"),
	}

	if m := workPattern.FindStringSubmatch(text); m != nil {
		start, errStart := utils.ParseClock(m[1])
		end, errEnd := utils.ParseClock(m[2])
		if errStart == nil && errEnd == nil {
			r.WorkStart = Clock{Minutes: start, Set: true}
			r.WorkEnd = Clock{Minutes: CoerceWorkEnd(end), Set: true}
		} else {
			logger.Debug("skipping malformed work hours", "text", m[0])
		}
	}

	if r.Sleep.Set && r.Sleep.Minutes < constants.SleepCutoffHour*60 {
		fallback, _ := utils.ParseClock(constants.FallbackSleep)
		logger.DataQuality("sleep", utils.FormatMinutes(r.Sleep.Minutes), constants.FallbackSleep)
		r.Sleep.Minutes = fallback
	}

	return r
}

func match(re *regexp.Regexp, text, activity string) Clock {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return Clock{}
	}
	minutes, err := utils.ParseClock(m[1])
	if err != nil {
		logger.Debug("skipping malformed routine time", "activity", activity, "value", m[1])
		return Clock{}
	}
	return Clock{Minutes: minutes, Set: true}
}

// CoerceWorkEnd replaces a work-end time whose hour is at or before the
// cutoff with the fallback work end.
func CoerceWorkEnd(minutes int) int {
	if minutes/60 > constants.WorkEndCutoffHour {
		return minutes
	}
	fallback, _ := utils.ParseClock(constants.FallbackWorkEnd)
	logger.DataQuality("work_end", utils.FormatMinutes(minutes), constants.FallbackWorkEnd)
	return fallback
}

// Blocks returns the protected blocks for date, ordered by start time.
func (r Routine) Blocks(date time.Time) []models.RoutineBlock {
	day := utils.StartOfDay(date)
	at := func(minutes int) time.Time { return utils.AtMinutes(day, minutes) }

	var blocks []models.RoutineBlock
	add := func(start, end time.Time, blockType constants.BlockType, desc string) {
		if !start.Before(end) {
			return
		}
		blocks = append(blocks, models.RoutineBlock{Start: start, End: end, Type: blockType, Description: desc})
	}

	if r.Wake.Set {
		add(day, at(r.Wake.Minutes), constants.BlockSleep, "Sleep until wake-up")
	}
	if r.Gym.Set {
		gym := at(r.Gym.Minutes)
		add(gym.Add(-gymLeadIn), gym.Add(gymSession), constants.BlockGym, "Gym (prep and session)")
	}
	if r.Lunch.Set {
		lunch := at(r.Lunch.Minutes)
		add(lunch, lunch.Add(lunchLength), constants.BlockLunch, "Lunch")
	}
	if r.Dinner.Set {
		dinner := at(r.Dinner.Minutes)
		add(dinner, dinner.Add(dinnerLength), constants.BlockDinner, "Dinner")
	}
	if r.Sleep.Set {
		add(at(r.Sleep.Minutes), utils.AtMinutes(day.AddDate(0, 0, 1), 23*60+59), constants.BlockSleep, "Sleep")
	}
	if r.Wake.Set && r.WorkStart.Set && r.Wake.Minutes < r.WorkStart.Minutes {
		add(at(r.Wake.Minutes), at(r.WorkStart.Minutes), constants.BlockPreWork, "Morning routine before work")
	}
	if r.WorkEnd.Set && r.Sleep.Set && r.WorkEnd.Minutes < r.Sleep.Minutes {
		add(at(r.WorkEnd.Minutes), at(r.Sleep.Minutes), constants.BlockPostWork, "Personal time after work")
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		if !blocks[i].Start.Equal(blocks[j].Start) {
			return blocks[i].Start.Before(blocks[j].Start)
		}
		return blocks[i].End.Before(blocks[j].End)
	})
	return blocks
}

// Build parses text and returns the protected blocks for date.
func Build(text string, date time.Time) []models.RoutineBlock {
	return Parse(text).Blocks(date)
}
