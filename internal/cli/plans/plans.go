package plans

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	apperrors "github.com/julianstephens/aurora/aurora-cli/internal/errors"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage"
)

// commit runs fn under the user's write lock when apply is set so the
// snapshot fn reads cannot change before its placements are stored
func commit(ctx *cli.Context, apply bool, fn func(context.Context) error) error {
	if !apply {
		return fn(context.Background())
	}
	return ctx.WithLock(fn)
}

// applyPlacements asks for confirmation and stores placements as events
func applyPlacements(ctx *cli.Context, commitCtx context.Context, yes bool, placements []models.Placement, tasks []models.Task) error {
	if len(placements) == 0 {
		fmt.Println("Nothing to apply.")
		return nil
	}
	ok, err := ctx.Confirmed(yes, fmt.Sprintf("Add %d task(s) to your calendar?", len(placements)))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Nothing applied.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.ApplyPlacements(commitCtx, ctx.UserID(), placements, tasks); err != nil {
		if errors.Is(err, storage.ErrSlotTaken) {
			return fmt.Errorf("%w; re-run to plan against the current calendar", err)
		}
		return fmt.Errorf("failed to apply placements: %w", err)
	}
	fmt.Println(cli.Check("Scheduled %d task(s)", len(placements)))
	return nil
}

// resolveTasks returns the named tasks in the given order, or every
// unscheduled task when ids is empty
func resolveTasks(ctx *cli.Context, ids []string) ([]models.Task, error) {
	user := ctx.UserID()
	if len(ids) == 0 {
		tasks, err := ctx.Store.GetUnscheduledTasks(user)
		if err != nil {
			return nil, fmt.Errorf("failed to get tasks: %w", err)
		}
		return tasks, nil
	}

	tasks := make([]models.Task, 0, len(ids))
	for _, id := range ids {
		t, err := ctx.Store.GetTask(user, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, apperrors.Invalidf("task %s not found", id)
			}
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func horizon(ctx *cli.Context, days int) (int, error) {
	if days < 0 {
		return 0, apperrors.Invalidf("--days must not be negative")
	}
	if days == 0 {
		return ctx.DaysAhead(), nil
	}
	return days, nil
}

func slotRow(s models.ScoredSlot) []string {
	return []string{
		cli.FormatRange(s.Slot.StartTime, s.Slot.EndTime),
		fmt.Sprintf("%d", s.Score),
		fmt.Sprintf("%.0f%%", s.Confidence*100),
		strings.Join(s.Reasons, "; "),
	}
}

func printAlternatives(alts []models.ScoredSlot) {
	if len(alts) == 0 {
		return
	}
	rows := make([][]string, 0, len(alts))
	for _, a := range alts {
		rows = append(rows, slotRow(a))
	}
	fmt.Println("Alternatives:")
	fmt.Println(cli.Table([]string{"Slot", "Score", "Confidence", "Why"}, rows))
}

func durationLabel(m int) string {
	if m >= 60 && m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	if m > 60 {
		return fmt.Sprintf("%dh%02dm", m/60, m%60)
	}
	return fmt.Sprintf("%dm", m)
}
