package models

import (
	"fmt"
	"time"
)

// EnergySample is a single self-reported energy/mood observation
type EnergySample struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Timestamp   time.Time `json:"timestamp"`
	EnergyLevel int       `json:"energy_level"`
	MoodLevel   int       `json:"mood_level"`
}

func (s *EnergySample) Validate() error {
	if s.EnergyLevel < 1 || s.EnergyLevel > 10 {
		return fmt.Errorf("energy level must be between 1 and 10, got %d", s.EnergyLevel)
	}
	if s.MoodLevel < 1 || s.MoodLevel > 10 {
		return fmt.Errorf("mood level must be between 1 and 10, got %d", s.MoodLevel)
	}
	if s.Timestamp.IsZero() {
		return fmt.Errorf("sample timestamp cannot be empty")
	}
	return nil
}

// EnergyProfile summarizes energy samples by hour of day and weekday
type EnergyProfile struct {
	PeakHours         []int              `json:"peak_hours"`
	LowHours          []int              `json:"low_hours"`
	EnergyByHour      map[int]float64    `json:"energy_by_hour"`
	MoodByHour        map[int]float64    `json:"mood_by_hour"`
	EnergyByWeekday   map[string]float64 `json:"energy_by_weekday"`
	BestWeekdays      []string           `json:"best_weekdays"`
	PatternsAvailable bool               `json:"patterns_available"`
	SampleCount       int                `json:"sample_count"`
}

func (p *EnergyProfile) IsPeakHour(hour int) bool {
	return containsInt(p.PeakHours, hour)
}

func (p *EnergyProfile) IsLowHour(hour int) bool {
	return containsInt(p.LowHours, hour)
}

func (p *EnergyProfile) IsBestWeekday(day time.Weekday) bool {
	for _, name := range p.BestWeekdays {
		if name == day.String() {
			return true
		}
	}
	return false
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
