package sqldb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/logger"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage"
)

// inTx runs fn in a transaction, rolling back on any error
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ApplyReschedule stores the moved event and every rescheduled dependent
// together; if any row fails none are changed.
func (s *Store) ApplyReschedule(ctx context.Context, result models.RescheduleResult) error {
	if len(result.Updated) == 0 {
		return nil
	}
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, e := range result.Updated {
			if err := updateEvent(tx, e); err != nil {
				return fmt.Errorf("updating event %s: %w", e.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.With("storage").Info("reschedule committed", "event", result.MovedEvent.ID, "updated", len(result.Updated))
	return nil
}

// ApplyPlacements turns each placement into an event and marks its task as
// scheduled. Overlap is checked again inside the transaction so a placement
// computed from a stale snapshot is refused instead of double-booking.
func (s *Store) ApplyPlacements(ctx context.Context, userID string, placements []models.Placement, tasks []models.Task) error {
	byID := make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, p := range placements {
			task, ok := byID[p.TaskID]
			if !ok {
				return fmt.Errorf("task %s: %w", p.TaskID, storage.ErrNotFound)
			}

			var overlapping int
			err := tx.GetContext(ctx, &overlapping, tx.Rebind(`
				SELECT COUNT(*) FROM events
				WHERE user_id = ? AND start_time < ? AND end_time > ? AND start_time < end_time`),
				userID, formatTime(p.End()), formatTime(p.ScheduledTime))
			if err != nil {
				return err
			}
			if overlapping > 0 {
				return fmt.Errorf("task %q at %s: %w", task.Title, p.ScheduledTime.Format("2006-01-02 15:04"), storage.ErrSlotTaken)
			}

			event := models.Event{
				ID:                      uuid.NewString(),
				UserID:                  userID,
				Title:                   task.Title,
				StartTime:               p.ScheduledTime,
				EndTime:                 p.End(),
				Priority:                task.Priority,
				IsUrgent:                task.IsUrgent(),
				IsImportant:             task.IsImportant(),
				ContributesToGoal:       task.GoalID != "",
				DependencyType:          constants.DependencySequential,
				AutoRescheduleEnabled:   true,
				RescheduleBufferMinutes: constants.DefaultRescheduleBufferMin,
			}
			if err := insertEvent(tx, event); err != nil {
				return fmt.Errorf("creating event for task %s: %w", task.ID, err)
			}

			scheduled := p.ScheduledTime
			res, err := tx.ExecContext(ctx, tx.Rebind("UPDATE tasks SET scheduled_for = ? WHERE id = ? AND user_id = ?"),
				formatNullTime(&scheduled), task.ID, userID)
			if err != nil {
				return err
			}
			if err := requireRow(res, "task", task.ID); err != nil {
				return err
			}
		}
		return nil
	})
}
