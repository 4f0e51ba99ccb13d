package energy

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/logger"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
)

const (
	peakHourCount    = 4
	lowHourCount     = 4
	bestWeekdayCount = 3
)

// SampleSource provides the raw samples a profile is computed from
type SampleSource interface {
	GetSamples(userID string, since time.Time) ([]models.EnergySample, error)
}

// Analyzer derives energy profiles from stored samples
type Analyzer struct {
	source SampleSource
}

// NewAnalyzer creates a new Analyzer
func NewAnalyzer(source SampleSource) *Analyzer {
	return &Analyzer{source: source}
}

// Profile reads the samples of the lookback window ending at now and analyzes them.
// Sample timestamps are converted to now's location before bucketing.
func (a *Analyzer) Profile(userID string, now time.Time) (models.EnergyProfile, error) {
	since := now.AddDate(0, 0, -constants.EnergyLookbackDays)
	samples, err := a.source.GetSamples(userID, since)
	if err != nil {
		return models.EnergyProfile{}, fmt.Errorf("failed to get energy samples: %w", err)
	}
	for i := range samples {
		samples[i].Timestamp = samples[i].Timestamp.In(now.Location())
	}
	profile := Analyze(samples)
	logger.Debug("energy profile computed", "user", userID, "samples", profile.SampleCount,
		"patterns", profile.PatternsAvailable)
	return profile, nil
}

// DefaultProfile is returned when there are no samples to learn from.
func DefaultProfile() models.EnergyProfile {
	return models.EnergyProfile{
		PeakHours:       []int{10, 11, 14, 15},
		LowHours:        []int{13, 17, 18},
		EnergyByHour:    map[int]float64{},
		MoodByHour:      map[int]float64{},
		EnergyByWeekday: map[string]float64{},
		BestWeekdays:    []string{"Tuesday", "Wednesday", "Thursday"},
	}
}

type bucket struct {
	energySum float64
	moodSum   float64
	count     int
}

type ranked struct {
	key  int
	mean float64
}

// Analyze buckets samples by hour of day and by weekday and derives peak
// hours, low hours and best weekdays from the bucket means.
func Analyze(samples []models.EnergySample) models.EnergyProfile {
	if len(samples) == 0 {
		return DefaultProfile()
	}

	hours := map[int]*bucket{}
	days := map[time.Weekday]*bucket{}
	for _, s := range samples {
		h := s.Timestamp.Hour()
		if hours[h] == nil {
			hours[h] = &bucket{}
		}
		hours[h].energySum += float64(s.EnergyLevel)
		hours[h].moodSum += float64(s.MoodLevel)
		hours[h].count++

		wd := s.Timestamp.Weekday()
		if days[wd] == nil {
			days[wd] = &bucket{}
		}
		days[wd].energySum += float64(s.EnergyLevel)
		days[wd].count++
	}

	profile := models.EnergyProfile{
		EnergyByHour:      make(map[int]float64, len(hours)),
		MoodByHour:        make(map[int]float64, len(hours)),
		EnergyByWeekday:   make(map[string]float64, len(days)),
		PatternsAvailable: true,
		SampleCount:       len(samples),
	}

	hourRank := make([]ranked, 0, len(hours))
	for h, b := range hours {
		mean := b.energySum / float64(b.count)
		profile.EnergyByHour[h] = mean
		profile.MoodByHour[h] = b.moodSum / float64(b.count)
		hourRank = append(hourRank, ranked{key: h, mean: mean})
	}
	sortRanked(hourRank)

	profile.PeakHours = []int{}
	for i := 0; i < len(hourRank) && i < peakHourCount; i++ {
		if hourRank[i].mean >= constants.PeakEnergyThreshold {
			profile.PeakHours = append(profile.PeakHours, hourRank[i].key)
		}
	}

	profile.LowHours = []int{}
	lowFrom := len(hourRank) - lowHourCount
	if lowFrom < 0 {
		lowFrom = 0
	}
	for _, r := range hourRank[lowFrom:] {
		if r.mean < constants.LowEnergyThreshold {
			profile.LowHours = append(profile.LowHours, r.key)
		}
	}

	dayRank := make([]ranked, 0, len(days))
	for wd, b := range days {
		mean := b.energySum / float64(b.count)
		profile.EnergyByWeekday[wd.String()] = mean
		dayRank = append(dayRank, ranked{key: int(wd), mean: mean})
	}
	sortRanked(dayRank)

	profile.BestWeekdays = []string{}
	for i := 0; i < len(dayRank) && i < bestWeekdayCount; i++ {
		profile.BestWeekdays = append(profile.BestWeekdays, time.Weekday(dayRank[i].key).String())
	}

	return profile
}

// sortRanked orders by mean descending, then key ascending so ties are stable
func sortRanked(r []ranked) {
	sort.Slice(r, func(i, j int) bool {
		if r[i].mean != r[j].mean {
			return r[i].mean > r[j].mean
		}
		return r[i].key < r[j].key
	})
}
