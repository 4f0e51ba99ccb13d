package scheduler

import (
	"fmt"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	apperrors "github.com/julianstephens/aurora/aurora-cli/internal/errors"
	"github.com/julianstephens/aurora/aurora-cli/internal/logger"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/routine"
	"github.com/julianstephens/aurora/aurora-cli/internal/utils"
)

// PlacementRequest is the input to a sequential batch placement
type PlacementRequest struct {
	// Tasks are placed in the given order
	Tasks []models.Task
	// Start is where the first task may begin; zero or past means now
	Start       time.Time
	Events      []models.Event
	Routine     string
	Preferences models.SchedulingPreferences
	Profile     models.EnergyProfile
}

type placer struct {
	s         *Scheduler
	routine   routine.Routine
	prefs     models.SchedulingPreferences
	workStart int
	workEnd   int
	events    []models.Event
	ceiling   time.Time
	blocks    map[string][]models.RoutineBlock
}

// PlaceSequentially places tasks one after another from req.Start, stepping
// past routine blocks and existing events. Placement never reaches past
// tomorrow; tasks that do not fit by then are reported as unscheduled.
func (s *Scheduler) PlaceSequentially(req PlacementRequest) (models.PlacementResult, error) {
	result := models.PlacementResult{Placements: []models.Placement{}}

	for _, t := range req.Tasks {
		if t.EstimatedDurationMinutes < 0 {
			return result, fmt.Errorf("task %q: %w", t.Title, ErrInvalidDuration)
		}
	}

	p, err := s.newPlacer(req)
	if err != nil {
		return result, err
	}

	// placement never starts in the past
	cursor := req.Start
	if now := s.now(); cursor.IsZero() || cursor.Before(now) {
		cursor = now
	}

	for i, task := range req.Tasks {
		start, attempts, ok := p.place(cursor, task.DurationMinutes())
		if !ok {
			for _, rest := range req.Tasks[i:] {
				result.UnscheduledTaskIDs = append(result.UnscheduledTaskIDs, rest.ID)
			}
			result.Unscheduled = len(req.Tasks) - i
			logger.With("placer").Info("batch placement stopped", "placed", i, "unscheduled", result.Unscheduled)
			break
		}

		duration := time.Duration(task.DurationMinutes()) * time.Minute
		scored := s.ScoreSlot(RequestFromTask(task), models.NewSlot(start, start.Add(duration)), req.Profile)
		reasoning := Reasoning(scored)
		if attempts > 0 {
			reasoning = fmt.Sprintf("%s (moved past %d conflicts)", reasoning, attempts)
		}

		result.Placements = append(result.Placements, models.Placement{
			TaskID:          task.ID,
			ScheduledTime:   start,
			DurationMinutes: task.DurationMinutes(),
			Confidence:      scored.Confidence,
			Reasoning:       reasoning,
		})
		cursor = start.Add(duration).Add(constants.PlacementBuffer)
	}

	return result, nil
}

func (s *Scheduler) newPlacer(req PlacementRequest) (*placer, error) {
	r := routine.Parse(req.Routine)

	var workStart, workEnd int
	if r.WorkStart.Set {
		workStart, workEnd = r.WorkStart.Minutes, r.WorkEnd.Minutes
	} else {
		var err error
		if workStart, err = utils.ParseClock(req.Preferences.WorkStart); err != nil {
			return nil, apperrors.Invalidf("work start: %v", err)
		}
		if workEnd, err = utils.ParseClock(req.Preferences.WorkEnd); err != nil {
			return nil, apperrors.Invalidf("work end: %v", err)
		}
		workEnd = routine.CoerceWorkEnd(workEnd)
	}
	if workStart >= workEnd {
		return nil, apperrors.Invalidf("work start %s is not before work end %s",
			utils.FormatMinutes(workStart), utils.FormatMinutes(workEnd))
	}

	today := utils.StartOfDay(s.now())
	return &placer{
		s:         s,
		routine:   r,
		prefs:     req.Preferences,
		workStart: workStart,
		workEnd:   workEnd,
		events:    req.Events,
		ceiling:   today.AddDate(0, 0, constants.PlacementHorizonDays+1),
		blocks:    map[string][]models.RoutineBlock{},
	}, nil
}

// place finds the first acceptable start at or after cursor. It returns the
// number of conflicts stepped past and false when the horizon or the attempt
// bound is reached first.
func (p *placer) place(cursor time.Time, durationMin int) (time.Time, int, bool) {
	duration := time.Duration(durationMin) * time.Minute

	for attempt := 0; attempt < constants.MaxPlacementAttempts; attempt++ {
		if !cursor.Before(p.ceiling) {
			return time.Time{}, attempt, false
		}

		day := utils.StartOfDay(cursor)
		if !p.prefs.IsWorkDay(day.Weekday()) {
			cursor = p.nextWorkDayStart(day)
			continue
		}

		dayStart := utils.AtMinutes(day, p.workStart)
		if cursor.Before(dayStart) {
			cursor = dayStart
		}

		end := cursor.Add(duration)
		if end.After(utils.AtMinutes(day, p.workEnd)) {
			cursor = p.nextWorkDayStart(day)
			continue
		}

		if block, ok := firstBlockOverlap(p.blocksFor(day), cursor, end); ok {
			logger.Debug("placement hits routine block", "block", block.Type, "at", cursor.Format(time.RFC3339))
			cursor = block.End.Add(constants.PlacementBuffer)
			continue
		}

		if event, ok := firstEventOverlap(p.events, cursor, end); ok {
			logger.Debug("placement hits event", "event", event.Title, "at", cursor.Format(time.RFC3339))
			cursor = event.EndTime.Add(constants.PlacementBuffer)
			continue
		}

		return cursor, attempt, true
	}

	logger.Warn("placement attempts exhausted", "attempts", constants.MaxPlacementAttempts)
	return time.Time{}, constants.MaxPlacementAttempts, false
}

// nextWorkDayStart returns work start on the first work day after day.
// With every weekday excluded it gives up after a week; the horizon check
// then stops placement.
func (p *placer) nextWorkDayStart(day time.Time) time.Time {
	next := day.AddDate(0, 0, 1)
	for i := 0; i < 7 && !p.prefs.IsWorkDay(next.Weekday()); i++ {
		next = next.AddDate(0, 0, 1)
	}
	return utils.AtMinutes(next, p.workStart)
}

func (p *placer) blocksFor(day time.Time) []models.RoutineBlock {
	key := day.Format(constants.DateFormat)
	blocks, ok := p.blocks[key]
	if !ok {
		blocks = p.routine.Blocks(day)
		p.blocks[key] = blocks
	}
	return blocks
}

func firstBlockOverlap(blocks []models.RoutineBlock, start, end time.Time) (models.RoutineBlock, bool) {
	for _, b := range blocks {
		if b.Overlaps(start, end) {
			return b, true
		}
	}
	return models.RoutineBlock{}, false
}

func firstEventOverlap(events []models.Event, start, end time.Time) (models.Event, bool) {
	for _, e := range events {
		if e.Overlaps(start, end) {
			return e, true
		}
	}
	return models.Event{}, false
}
