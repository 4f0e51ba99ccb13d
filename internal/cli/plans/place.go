package plans

import (
	"context"
	"fmt"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/scheduler"
)

// PlaceCmd places tasks back to back from a start time, stepping around the
// routine and existing events
type PlaceCmd struct {
	TaskIDs []string `arg:"" optional:"" help:"Tasks to place, in order. Defaults to every unscheduled task, most pressing first."`
	Start   string   `help:"Earliest start for the first task." default:"now"`
	Apply   bool     `help:"Add the placements to the calendar."`
	Yes     bool     `help:"Apply without asking for confirmation." short:"y"`
}

func (c *PlaceCmd) Run(ctx *cli.Context) error {
	start, err := cli.ParseWhen(c.Start, ctx.Now())
	if err != nil {
		return err
	}

	return commit(ctx, c.Apply, func(commitCtx context.Context) error {
		tasks, err := resolveTasks(ctx, c.TaskIDs)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks to place.")
			return nil
		}
		if len(c.TaskIDs) == 0 {
			scheduler.SortByPressure(tasks)
		}

		snap, err := ctx.LoadSnapshot(constants.PlacementHorizonDays)
		if err != nil {
			return err
		}
		result, err := ctx.Scheduler.PlaceSequentially(scheduler.PlacementRequest{
			Tasks:       tasks,
			Start:       start,
			Events:      snap.Events,
			Routine:     snap.Routine,
			Preferences: snap.Preferences,
			Profile:     snap.Profile,
		})
		if err != nil {
			return err
		}

		titles := make(map[string]string, len(tasks))
		for _, t := range tasks {
			titles[t.ID] = t.Title
		}
		if len(result.Placements) > 0 {
			rows := make([][]string, 0, len(result.Placements))
			for _, p := range result.Placements {
				rows = append(rows, []string{
					titles[p.TaskID],
					cli.FormatRange(p.ScheduledTime, p.End()),
					fmt.Sprintf("%.0f%%", p.Confidence*100),
					p.Reasoning,
				})
			}
			fmt.Println(cli.Table([]string{"Task", "When", "Confidence", "Why"}, rows))
		}
		if result.Unscheduled > 0 {
			fmt.Println(cli.Warn("%d task(s) did not fit before the end of tomorrow: %s", result.Unscheduled, joinIDs(result.UnscheduledTaskIDs)))
		}

		if !c.Apply {
			if len(result.Placements) > 0 {
				fmt.Println(cli.MutedStyle.Render("Preview only. Re-run with --apply to add these to your calendar."))
			}
			return nil
		}
		return applyPlacements(ctx, commitCtx, c.Yes, result.Placements, tasks)
	})
}
