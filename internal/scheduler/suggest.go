package scheduler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/logger"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
)

const (
	longTaskMinutes       = 120
	highWorkloadCount     = 5
	morningHeavyCount     = 3
	splitTaskAdvice       = "Break this task into smaller subtasks"
	nextWeekAdvice        = "Schedule for next week when more time is available"
	delegateAdvice        = "Reschedule or delegate lower-priority tasks to make room"
	insightHighWorkload   = "Heavy schedule ahead: consider blocking buffer time between tasks"
	insightMorningHeavy   = "Most work lands in the morning, when focus is usually highest"
	insightUrgent         = "Urgent tasks were placed as early as possible"
	insightNoEnergyData   = "Log energy levels to get slots matched to your energy patterns"
	insightAllUnscheduled = "No tasks could be scheduled; consider extending working hours or the horizon"
)

// SuggestionRequest is the input to a batch slot suggestion
type SuggestionRequest struct {
	Tasks       []models.Task
	Events      []models.Event
	Preferences models.SchedulingPreferences
	Profile     models.EnergyProfile
	DaysAhead   int
}

// SuggestSchedule picks a slot for every unscheduled task. Tasks are
// considered most pressing first; each choice consumes the used part of its
// slot so later tasks cannot be given the same time.
func (s *Scheduler) SuggestSchedule(req SuggestionRequest) (models.ScheduleSuggestions, error) {
	out := models.ScheduleSuggestions{
		Scheduled:   []models.Suggestion{},
		Unscheduled: []models.UnscheduledTask{},
	}

	pool, err := s.FindAvailableSlots(req.Events, req.Preferences, req.DaysAhead)
	if err != nil {
		return out, err
	}

	tasks := make([]models.Task, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		if t.IsUnscheduled() {
			tasks = append(tasks, t)
		}
	}
	SortByPressure(tasks)

	buffer := time.Duration(req.Preferences.BufferBetweenTasksMinutes) * time.Minute
	for _, task := range tasks {
		slotReq := RequestFromTask(task)
		ranked, err := s.RankSlots(slotReq, pool, req.Profile)
		if err != nil {
			return out, fmt.Errorf("task %q: %w", task.Title, err)
		}
		if len(ranked) == 0 {
			out.Unscheduled = append(out.Unscheduled, models.UnscheduledTask{
				TaskID:       task.ID,
				Title:        task.Title,
				Reason:       fmt.Sprintf("No free slot of %d minutes in the next %d days", task.DurationMinutes(), req.DaysAhead),
				Alternatives: UnscheduledAlternatives(task),
			})
			continue
		}

		best := ranked[0]
		alternatives := ranked[1:]
		if len(alternatives) > constants.MaxAlternatives {
			alternatives = alternatives[:constants.MaxAlternatives]
		}
		out.Scheduled = append(out.Scheduled, models.Suggestion{
			TaskID:       task.ID,
			TaskTitle:    task.Title,
			Slot:         fitSlot(best.Slot, task.DurationMinutes()),
			Score:        best.Score,
			Confidence:   best.Confidence,
			Reasoning:    Reasoning(best),
			Alternatives: append([]models.ScoredSlot(nil), alternatives...),
		})

		pool = consumeSlot(pool, best.Slot, task.DurationMinutes(), buffer, req.Preferences.MinTaskDurationMinutes)
	}

	out.Insights = Insights(out, req.Profile)
	logger.With("scheduler").Info("schedule suggested", "scheduled", len(out.Scheduled), "unscheduled", len(out.Unscheduled))
	return out, nil
}

// SortByPressure orders tasks urgent first, then longer first, then by id
func SortByPressure(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		ri, rj := models.PriorityRank(tasks[i].Priority), models.PriorityRank(tasks[j].Priority)
		if ri != rj {
			return ri < rj
		}
		di, dj := tasks[i].DurationMinutes(), tasks[j].DurationMinutes()
		if di != dj {
			return di > dj
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// fitSlot trims slot to the task's length, starting at the slot start
func fitSlot(slot models.AvailableSlot, durationMin int) models.AvailableSlot {
	return models.NewSlot(slot.StartTime, slot.StartTime.Add(time.Duration(durationMin)*time.Minute))
}

// consumeSlot removes used from pool and puts back whatever remains after
// the task and its buffer, if still long enough to be useful.
func consumeSlot(pool []models.AvailableSlot, used models.AvailableSlot, durationMin int, buffer time.Duration, minMinutes int) []models.AvailableSlot {
	next := make([]models.AvailableSlot, 0, len(pool))
	for _, slot := range pool {
		if !slot.StartTime.Equal(used.StartTime) || !slot.EndTime.Equal(used.EndTime) {
			next = append(next, slot)
			continue
		}
		remainderStart := used.StartTime.Add(time.Duration(durationMin) * time.Minute).Add(buffer)
		if remainderStart.Before(used.EndTime) {
			remainder := models.NewSlot(remainderStart, used.EndTime)
			if remainder.DurationMinutes >= minMinutes {
				next = append(next, remainder)
			}
		}
	}
	return next
}

// UnscheduledAlternatives lists follow-up actions for a task that could not be placed
func UnscheduledAlternatives(task models.Task) []string {
	var alts []string
	if task.DurationMinutes() > longTaskMinutes {
		alts = append(alts, splitTaskAdvice)
	}
	if task.Priority != constants.PriorityUrgent {
		alts = append(alts, nextWeekAdvice)
	}
	return append(alts, delegateAdvice)
}

// Insights summarizes a suggestion run for the user
func Insights(out models.ScheduleSuggestions, profile models.EnergyProfile) []string {
	insights := []string{}

	if len(out.Scheduled) == 0 && len(out.Unscheduled) > 0 {
		insights = append(insights, insightAllUnscheduled)
	}
	if len(out.Scheduled) > highWorkloadCount {
		insights = append(insights, insightHighWorkload)
	}

	mornings := 0
	for _, sg := range out.Scheduled {
		if sg.Slot.Type == constants.SlotMorning {
			mornings++
		}
	}
	if mornings > morningHeavyCount {
		insights = append(insights, insightMorningHeavy)
	}

	for _, sg := range out.Scheduled {
		if strings.Contains(strings.ToLower(sg.Reasoning), "urgent") {
			insights = append(insights, insightUrgent)
			break
		}
	}

	if !profile.PatternsAvailable {
		insights = append(insights, insightNoEnergyData)
	}
	return insights
}

// EisenhowerHorizon returns how many days ahead to search for a task with no
// explicit horizon, based on its urgency and importance.
func EisenhowerHorizon(task models.Task) int {
	switch {
	case task.IsUrgent() && task.IsImportant():
		return 2
	case task.IsImportant():
		return 14
	case task.IsUrgent():
		return 3
	default:
		return constants.DefaultDaysAhead
	}
}
