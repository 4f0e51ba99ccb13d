package sqldb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
)

const eventColumns = `id, user_id, title, start_time, end_time, priority, is_urgent, is_important,
	contributes_to_goal, depends_on, dependency_type, auto_reschedule_enabled,
	reschedule_buffer_minutes, reschedule_count, last_rescheduled_at`

type eventRow struct {
	ID                      string         `db:"id"`
	UserID                  string         `db:"user_id"`
	Title                   string         `db:"title"`
	StartTime               string         `db:"start_time"`
	EndTime                 string         `db:"end_time"`
	Priority                string         `db:"priority"`
	IsUrgent                bool           `db:"is_urgent"`
	IsImportant             bool           `db:"is_important"`
	ContributesToGoal       bool           `db:"contributes_to_goal"`
	DependsOn               string         `db:"depends_on"`
	DependencyType          string         `db:"dependency_type"`
	AutoRescheduleEnabled   bool           `db:"auto_reschedule_enabled"`
	RescheduleBufferMinutes int            `db:"reschedule_buffer_minutes"`
	RescheduleCount         int            `db:"reschedule_count"`
	LastRescheduledAt       sql.NullString `db:"last_rescheduled_at"`
}

func toEventRow(e models.Event) (eventRow, error) {
	deps := e.DependsOn
	if deps == nil {
		deps = []string{}
	}
	depsJSON, err := json.Marshal(deps)
	if err != nil {
		return eventRow{}, fmt.Errorf("encoding dependencies: %w", err)
	}
	return eventRow{
		ID:                      e.ID,
		UserID:                  e.UserID,
		Title:                   e.Title,
		StartTime:               formatTime(e.StartTime),
		EndTime:                 formatTime(e.EndTime),
		Priority:                string(e.Priority),
		IsUrgent:                e.IsUrgent,
		IsImportant:             e.IsImportant,
		ContributesToGoal:       e.ContributesToGoal,
		DependsOn:               string(depsJSON),
		DependencyType:          string(e.EffectiveDependencyType()),
		AutoRescheduleEnabled:   e.AutoRescheduleEnabled,
		RescheduleBufferMinutes: e.RescheduleBufferMinutes,
		RescheduleCount:         e.RescheduleCount,
		LastRescheduledAt:       formatNullTime(e.LastRescheduledAt),
	}, nil
}

func (r eventRow) toModel() (models.Event, error) {
	e := models.Event{
		ID:                      r.ID,
		UserID:                  r.UserID,
		Title:                   r.Title,
		Priority:                constants.Priority(r.Priority),
		IsUrgent:                r.IsUrgent,
		IsImportant:             r.IsImportant,
		ContributesToGoal:       r.ContributesToGoal,
		DependencyType:          constants.DependencyType(r.DependencyType),
		AutoRescheduleEnabled:   r.AutoRescheduleEnabled,
		RescheduleBufferMinutes: r.RescheduleBufferMinutes,
		RescheduleCount:         r.RescheduleCount,
	}

	var err error
	if e.StartTime, err = parseTime(r.StartTime); err != nil {
		return models.Event{}, err
	}
	if e.EndTime, err = parseTime(r.EndTime); err != nil {
		return models.Event{}, err
	}
	if e.LastRescheduledAt, err = parseNullTime(r.LastRescheduledAt); err != nil {
		return models.Event{}, err
	}
	if r.DependsOn != "" {
		if err := json.Unmarshal([]byte(r.DependsOn), &e.DependsOn); err != nil {
			return models.Event{}, fmt.Errorf("event %s: decoding dependencies: %w", r.ID, err)
		}
		if len(e.DependsOn) == 0 {
			e.DependsOn = nil
		}
	}
	return e, nil
}

func eventsFromRows(rows []eventRow) ([]models.Event, error) {
	events := make([]models.Event, 0, len(rows))
	for _, r := range rows {
		e, err := r.toModel()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

func insertEvent(ext sqlx.Ext, e models.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	row, err := toEventRow(e)
	if err != nil {
		return err
	}
	_, err = sqlx.NamedExec(ext, `
		INSERT INTO events (`+eventColumns+`)
		VALUES (:id, :user_id, :title, :start_time, :end_time, :priority, :is_urgent, :is_important,
			:contributes_to_goal, :depends_on, :dependency_type, :auto_reschedule_enabled,
			:reschedule_buffer_minutes, :reschedule_count, :last_rescheduled_at)`, row)
	return err
}

func updateEvent(ext sqlx.Ext, e models.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	row, err := toEventRow(e)
	if err != nil {
		return err
	}
	res, err := sqlx.NamedExec(ext, `
		UPDATE events SET
			title = :title, start_time = :start_time, end_time = :end_time, priority = :priority,
			is_urgent = :is_urgent, is_important = :is_important, contributes_to_goal = :contributes_to_goal,
			depends_on = :depends_on, dependency_type = :dependency_type,
			auto_reschedule_enabled = :auto_reschedule_enabled,
			reschedule_buffer_minutes = :reschedule_buffer_minutes,
			reschedule_count = :reschedule_count, last_rescheduled_at = :last_rescheduled_at
		WHERE id = :id AND user_id = :user_id`, row)
	if err != nil {
		return err
	}
	return requireRow(res, "event", e.ID)
}

func (s *Store) AddEvent(e models.Event) error {
	return insertEvent(s.db, e)
}

func (s *Store) GetEvent(userID, id string) (models.Event, error) {
	var row eventRow
	err := s.db.Get(&row, s.q("SELECT "+eventColumns+" FROM events WHERE id = ? AND user_id = ?"), id, userID)
	if err != nil {
		return models.Event{}, notFound(err, "event", id)
	}
	return row.toModel()
}

// GetEvents returns the user's events overlapping [from, to), ordered by start
func (s *Store) GetEvents(userID string, from, to time.Time) ([]models.Event, error) {
	var rows []eventRow
	err := s.db.Select(&rows, s.q(`
		SELECT `+eventColumns+` FROM events
		WHERE user_id = ? AND start_time < ? AND end_time > ?
		ORDER BY start_time, id`), userID, formatTime(to), formatTime(from))
	if err != nil {
		return nil, err
	}
	return eventsFromRows(rows)
}

func (s *Store) GetAllEvents(userID string) ([]models.Event, error) {
	var rows []eventRow
	err := s.db.Select(&rows, s.q("SELECT "+eventColumns+" FROM events WHERE user_id = ? ORDER BY start_time, id"), userID)
	if err != nil {
		return nil, err
	}
	return eventsFromRows(rows)
}

func (s *Store) UpdateEvent(e models.Event) error {
	return updateEvent(s.db, e)
}

func (s *Store) DeleteEvent(userID, id string) error {
	res, err := s.db.Exec(s.q("DELETE FROM events WHERE id = ? AND user_id = ?"), id, userID)
	if err != nil {
		return err
	}
	return requireRow(res, "event", id)
}
