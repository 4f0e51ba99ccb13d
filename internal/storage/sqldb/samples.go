package sqldb

import (
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/models"
)

type sampleRow struct {
	ID          string `db:"id"`
	UserID      string `db:"user_id"`
	RecordedAt  string `db:"recorded_at"`
	EnergyLevel int    `db:"energy_level"`
	MoodLevel   int    `db:"mood_level"`
}

// AddSample records an energy sample; samples are never updated
func (s *Store) AddSample(sample models.EnergySample) error {
	if err := sample.Validate(); err != nil {
		return err
	}
	_, err := s.db.NamedExec(`
		INSERT INTO energy_samples (id, user_id, recorded_at, energy_level, mood_level)
		VALUES (:id, :user_id, :recorded_at, :energy_level, :mood_level)`, sampleRow{
		ID:          sample.ID,
		UserID:      sample.UserID,
		RecordedAt:  formatTime(sample.Timestamp),
		EnergyLevel: sample.EnergyLevel,
		MoodLevel:   sample.MoodLevel,
	})
	return err
}

// GetSamples returns the user's samples recorded at or after since, oldest first
func (s *Store) GetSamples(userID string, since time.Time) ([]models.EnergySample, error) {
	var rows []sampleRow
	err := s.db.Select(&rows, s.q(`
		SELECT id, user_id, recorded_at, energy_level, mood_level FROM energy_samples
		WHERE user_id = ? AND recorded_at >= ?
		ORDER BY recorded_at, id`), userID, formatTime(since))
	if err != nil {
		return nil, err
	}

	samples := make([]models.EnergySample, 0, len(rows))
	for _, r := range rows {
		ts, err := parseTime(r.RecordedAt)
		if err != nil {
			return nil, err
		}
		samples = append(samples, models.EnergySample{
			ID:          r.ID,
			UserID:      r.UserID,
			Timestamp:   ts,
			EnergyLevel: r.EnergyLevel,
			MoodLevel:   r.MoodLevel,
		})
	}
	return samples, nil
}
