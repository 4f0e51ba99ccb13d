package plans

import (
	"context"
	"fmt"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/scheduler"
)

// SuggestCmd picks the best slot for one task and lists fallbacks
type SuggestCmd struct {
	TaskID string `arg:"" help:"ID of the task to find a slot for."`
	Days   int    `help:"Days to search. Defaults to a window based on the task's urgency and importance."`
	Apply  bool   `help:"Put the task in the suggested slot."`
	Yes    bool   `help:"Apply without asking for confirmation." short:"y"`
}

func (c *SuggestCmd) Run(ctx *cli.Context) error {
	tasks, err := resolveTasks(ctx, []string{c.TaskID})
	if err != nil {
		return err
	}
	task := tasks[0]

	days := c.Days
	if days == 0 {
		days = scheduler.EisenhowerHorizon(task)
	}
	if days, err = horizon(ctx, days); err != nil {
		return err
	}

	return commit(ctx, c.Apply, func(commitCtx context.Context) error {
		snap, err := ctx.LoadSnapshot(days)
		if err != nil {
			return err
		}
		slots, err := ctx.Scheduler.FindAvailableSlots(snap.Events, snap.Preferences, days)
		if err != nil {
			return err
		}

		req := scheduler.RequestFromTask(task)
		best, err := ctx.Scheduler.SelectBestSlot(req, slots, snap.Profile)
		if err != nil {
			return err
		}
		if best == nil {
			fmt.Printf("No free slot of %d minutes for %q in the next %d day(s).\n", task.DurationMinutes(), task.Title, days)
			for _, alt := range scheduler.UnscheduledAlternatives(task) {
				fmt.Printf("  • %s\n", alt)
			}
			return nil
		}

		start := best.Slot.StartTime
		end := start.Add(minutes(task.DurationMinutes()))
		fmt.Printf("Best slot for %q: %s\n", task.Title, cli.FormatRange(start, end))
		fmt.Printf("  Score %d, confidence %.0f%%: %s\n", best.Score, best.Confidence*100, scheduler.Reasoning(*best))

		alts, err := ctx.Scheduler.SuggestAlternatives(req, slots, snap.Profile, constants.MaxAlternatives)
		if err != nil {
			return err
		}
		printAlternatives(alts)

		if !c.Apply {
			return nil
		}
		placement := models.Placement{
			TaskID:          task.ID,
			ScheduledTime:   start,
			DurationMinutes: task.DurationMinutes(),
			Confidence:      best.Confidence,
			Reasoning:       scheduler.Reasoning(*best),
		}
		return applyPlacements(ctx, commitCtx, c.Yes, []models.Placement{placement}, tasks)
	})
}
