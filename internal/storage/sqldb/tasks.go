package sqldb

import (
	"database/sql"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
)

const taskColumns = `id, user_id, title, estimated_duration_minutes, priority, energy_level_required,
	preferred_time_of_day, task_type, scheduled_for, goal_id`

type taskRow struct {
	ID                       string         `db:"id"`
	UserID                   string         `db:"user_id"`
	Title                    string         `db:"title"`
	EstimatedDurationMinutes int            `db:"estimated_duration_minutes"`
	Priority                 string         `db:"priority"`
	EnergyLevelRequired      int            `db:"energy_level_required"`
	PreferredTimeOfDay       string         `db:"preferred_time_of_day"`
	TaskType                 string         `db:"task_type"`
	ScheduledFor             sql.NullString `db:"scheduled_for"`
	GoalID                   string         `db:"goal_id"`
}

func toTaskRow(t models.Task) taskRow {
	return taskRow{
		ID:                       t.ID,
		UserID:                   t.UserID,
		Title:                    t.Title,
		EstimatedDurationMinutes: t.EstimatedDurationMinutes,
		Priority:                 string(t.Priority),
		EnergyLevelRequired:      t.EnergyLevelRequired,
		PreferredTimeOfDay:       string(t.PreferredTimeOfDay),
		TaskType:                 string(t.Type),
		ScheduledFor:             formatNullTime(t.ScheduledFor),
		GoalID:                   t.GoalID,
	}
}

func (r taskRow) toModel() (models.Task, error) {
	scheduled, err := parseNullTime(r.ScheduledFor)
	if err != nil {
		return models.Task{}, err
	}
	return models.Task{
		ID:                       r.ID,
		UserID:                   r.UserID,
		Title:                    r.Title,
		EstimatedDurationMinutes: r.EstimatedDurationMinutes,
		Priority:                 constants.Priority(r.Priority),
		EnergyLevelRequired:      r.EnergyLevelRequired,
		PreferredTimeOfDay:       constants.TimeOfDay(r.PreferredTimeOfDay),
		Type:                     constants.TaskType(r.TaskType),
		ScheduledFor:             scheduled,
		GoalID:                   r.GoalID,
	}, nil
}

func (s *Store) selectTasks(query string, args ...interface{}) ([]models.Task, error) {
	var rows []taskRow
	if err := s.db.Select(&rows, s.q(query), args...); err != nil {
		return nil, err
	}
	tasks := make([]models.Task, 0, len(rows))
	for _, r := range rows {
		t, err := r.toModel()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (s *Store) AddTask(t models.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	_, err := s.db.NamedExec(`
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (:id, :user_id, :title, :estimated_duration_minutes, :priority, :energy_level_required,
			:preferred_time_of_day, :task_type, :scheduled_for, :goal_id)`, toTaskRow(t))
	return err
}

func (s *Store) GetTask(userID, id string) (models.Task, error) {
	var row taskRow
	err := s.db.Get(&row, s.q("SELECT "+taskColumns+" FROM tasks WHERE id = ? AND user_id = ?"), id, userID)
	if err != nil {
		return models.Task{}, notFound(err, "task", id)
	}
	return row.toModel()
}

// GetUnscheduledTasks returns the tasks that are candidates for placement
func (s *Store) GetUnscheduledTasks(userID string) ([]models.Task, error) {
	return s.selectTasks("SELECT "+taskColumns+" FROM tasks WHERE user_id = ? AND scheduled_for IS NULL ORDER BY id", userID)
}

func (s *Store) GetAllTasks(userID string) ([]models.Task, error) {
	return s.selectTasks("SELECT "+taskColumns+" FROM tasks WHERE user_id = ? ORDER BY id", userID)
}

func (s *Store) UpdateTask(t models.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	res, err := s.db.NamedExec(`
		UPDATE tasks SET
			title = :title, estimated_duration_minutes = :estimated_duration_minutes, priority = :priority,
			energy_level_required = :energy_level_required, preferred_time_of_day = :preferred_time_of_day,
			task_type = :task_type, scheduled_for = :scheduled_for, goal_id = :goal_id
		WHERE id = :id AND user_id = :user_id`, toTaskRow(t))
	if err != nil {
		return err
	}
	return requireRow(res, "task", t.ID)
}

func (s *Store) DeleteTask(userID, id string) error {
	res, err := s.db.Exec(s.q("DELETE FROM tasks WHERE id = ? AND user_id = ?"), id, userID)
	if err != nil {
		return err
	}
	return requireRow(res, "task", id)
}
