package scheduler

import (
	"math"
	"sort"
	"strings"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/utils"
)

const (
	peakHourBonus    = 30
	lowHourPenalty   = 20
	deepWorkBonus    = 20
	urgencyBase      = 10
	urgencyDecay     = 2
	bestWeekdayBonus = 10
)

// SlotRequest carries the task fields the scorer reads. Zero values mean
// "not specified".
type SlotRequest struct {
	TaskID             string
	Title              string
	DurationMinutes    int
	Priority           constants.Priority
	Type               constants.TaskType
	PreferredTimeOfDay constants.TimeOfDay
}

// RequestFromTask builds a SlotRequest for a stored task
func RequestFromTask(t models.Task) SlotRequest {
	return SlotRequest{
		TaskID:             t.ID,
		Title:              t.Title,
		DurationMinutes:    t.EstimatedDurationMinutes,
		Priority:           t.Priority,
		Type:               t.Type,
		PreferredTimeOfDay: t.PreferredTimeOfDay,
	}
}

func (r SlotRequest) duration() int {
	if r.DurationMinutes == 0 {
		return constants.DefaultTaskDurationMin
	}
	return r.DurationMinutes
}

func (r SlotRequest) favorsDeepWork() bool {
	return r.Type == constants.TaskTypeResearch || r.Type == constants.TaskTypeDeepWork
}

// ScoreSlot scores a single slot for the request. Energy terms only apply
// when the profile was learned from samples.
func (s *Scheduler) ScoreSlot(req SlotRequest, slot models.AvailableSlot, profile models.EnergyProfile) models.ScoredSlot {
	score := 0
	var reasons []string

	hour := slot.StartTime.Hour()
	if profile.PatternsAvailable {
		if profile.IsPeakHour(hour) {
			score += peakHourBonus
			reasons = append(reasons, "peak energy hour")
		} else if profile.IsLowHour(hour) {
			score -= lowHourPenalty
			reasons = append(reasons, "low energy hour")
		}
	}

	if req.favorsDeepWork() && slot.Type == constants.SlotMorning {
		score += deepWorkBonus
		reasons = append(reasons, "morning focus for deep work")
	}

	if req.Priority == constants.PriorityUrgent {
		days := utils.DaysBetween(s.now(), slot.StartTime)
		if days < 0 {
			days = 0
		}
		if bonus := urgencyBase - urgencyDecay*days; bonus > 0 {
			score += bonus
			reasons = append(reasons, "urgent task scheduled soon")
		}
	}

	if profile.PatternsAvailable && profile.IsBestWeekday(slot.StartTime.Weekday()) {
		score += bestWeekdayBonus
		reasons = append(reasons, "high-energy weekday")
	}

	return models.ScoredSlot{
		Slot:       slot,
		Score:      score,
		Confidence: confidence(score),
		Reasons:    reasons,
	}
}

func confidence(score int) float64 {
	c := 0.5 + float64(score)/100
	return math.Max(0, math.Min(constants.MaxConfidence, c))
}

// Reasoning renders the reasons of a scored slot as one sentence
func Reasoning(scored models.ScoredSlot) string {
	if len(scored.Reasons) == 0 {
		return "Fits available time"
	}
	text := strings.Join(scored.Reasons, ", ")
	return strings.ToUpper(text[:1]) + text[1:]
}

// matchesTimeOfDay applies the preferred time-of-day filter
func matchesTimeOfDay(pref constants.TimeOfDay, slot models.AvailableSlot) bool {
	hour := slot.StartTime.Hour()
	switch pref {
	case constants.TimeOfDayMorning:
		return hour < 12
	case constants.TimeOfDayAfternoon:
		return hour >= 12 && hour < 17
	case constants.TimeOfDayEvening:
		return hour >= 17
	default:
		return true
	}
}

// RankSlots scores every slot long enough for the request and orders them
// by score descending, then start time ascending.
func (s *Scheduler) RankSlots(req SlotRequest, slots []models.AvailableSlot, profile models.EnergyProfile) ([]models.ScoredSlot, error) {
	if req.DurationMinutes < 0 {
		return nil, ErrInvalidDuration
	}

	duration := req.duration()
	var ranked []models.ScoredSlot
	for _, slot := range slots {
		if slot.DurationMinutes < duration {
			continue
		}
		if !matchesTimeOfDay(req.PreferredTimeOfDay, slot) {
			continue
		}
		ranked = append(ranked, s.ScoreSlot(req, slot, profile))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Slot.StartTime.Before(ranked[j].Slot.StartTime)
	})
	return ranked, nil
}

// SelectBestSlot returns the highest scoring slot that fits, or nil when
// nothing fits. A nil result is a normal outcome, not an error.
func (s *Scheduler) SelectBestSlot(req SlotRequest, slots []models.AvailableSlot, profile models.EnergyProfile) (*models.ScoredSlot, error) {
	ranked, err := s.RankSlots(req, slots, profile)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, nil
	}
	best := ranked[0]
	return &best, nil
}

// SuggestAlternatives returns up to limit ranked slots after the best one
func (s *Scheduler) SuggestAlternatives(req SlotRequest, slots []models.AvailableSlot, profile models.EnergyProfile, limit int) ([]models.ScoredSlot, error) {
	ranked, err := s.RankSlots(req, slots, profile)
	if err != nil {
		return nil, err
	}
	if len(ranked) <= 1 {
		return nil, nil
	}
	ranked = ranked[1:]
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
