package sqldb

import (
	"fmt"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
)

type settingRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

func (s *Store) getSettings(userID string) (map[string]string, error) {
	var rows []settingRow
	if err := s.db.Select(&rows, s.q("SELECT key, value FROM settings WHERE user_id = ?"), userID); err != nil {
		return nil, err
	}
	values := make(map[string]string, len(rows))
	for _, r := range rows {
		values[r.Key] = r.Value
	}
	return values, nil
}

func (s *Store) saveSettings(userID string, values map[string]string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(tx.Rebind(`
		INSERT INTO settings (user_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT (user_id, key) DO UPDATE SET value = excluded.value`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range values {
		if _, err := stmt.Exec(userID, key, value); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// HasSettings reports whether anything is stored for the user
func (s *Store) HasSettings(userID string) (bool, error) {
	var count int
	if err := s.db.Get(&count, s.q("SELECT COUNT(*) FROM settings WHERE user_id = ?"), userID); err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetPreferences returns the user's preferences, defaulting unset values
func (s *Store) GetPreferences(userID string) (models.SchedulingPreferences, error) {
	values, err := s.getSettings(userID)
	if err != nil {
		return models.SchedulingPreferences{}, err
	}
	return models.MapToPreferences(values)
}

func (s *Store) SavePreferences(userID string, prefs models.SchedulingPreferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	return s.saveSettings(userID, models.PreferencesToMap(prefs))
}

// GetRoutine returns the free-text routine description, empty when unset
func (s *Store) GetRoutine(userID string) (string, error) {
	values, err := s.getSettings(userID)
	if err != nil {
		return "", err
	}
	return values[constants.SettingRoutine], nil
}

func (s *Store) SaveRoutine(userID, routine string) error {
	return s.saveSettings(userID, map[string]string{constants.SettingRoutine: routine})
}
