package plans

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/scheduler"
)

// ScheduleCmd suggests a slot for every unscheduled task at once
type ScheduleCmd struct {
	Days  int  `help:"Days to search, starting today. Defaults to the configured horizon."`
	Apply bool `help:"Add the suggested slots to the calendar."`
	Yes   bool `help:"Apply without asking for confirmation." short:"y"`
}

func (c *ScheduleCmd) Run(ctx *cli.Context) error {
	days, err := horizon(ctx, c.Days)
	if err != nil {
		return err
	}

	return commit(ctx, c.Apply, func(commitCtx context.Context) error {
		tasks, err := resolveTasks(ctx, nil)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("No unscheduled tasks.")
			return nil
		}
		snap, err := ctx.LoadSnapshot(days)
		if err != nil {
			return err
		}

		out, err := ctx.Scheduler.SuggestSchedule(scheduler.SuggestionRequest{
			Tasks:       tasks,
			Events:      snap.Events,
			Preferences: snap.Preferences,
			Profile:     snap.Profile,
			DaysAhead:   days,
		})
		if err != nil {
			return err
		}
		printSuggestions(out)

		if !c.Apply {
			if len(out.Scheduled) > 0 {
				fmt.Println(cli.MutedStyle.Render("Preview only. Re-run with --apply to add these to your calendar."))
			}
			return nil
		}
		return applyPlacements(ctx, commitCtx, c.Yes, Placements(out), tasks)
	})
}

// Placements converts suggestions into placements of each task's own length
func Placements(out models.ScheduleSuggestions) []models.Placement {
	placements := make([]models.Placement, 0, len(out.Scheduled))
	for _, s := range out.Scheduled {
		placements = append(placements, models.Placement{
			TaskID:          s.TaskID,
			ScheduledTime:   s.Slot.StartTime,
			DurationMinutes: s.Slot.DurationMinutes,
			Confidence:      s.Confidence,
			Reasoning:       s.Reasoning,
		})
	}
	return placements
}

func printSuggestions(out models.ScheduleSuggestions) {
	if len(out.Scheduled) > 0 {
		rows := make([][]string, 0, len(out.Scheduled))
		for _, s := range out.Scheduled {
			rows = append(rows, []string{
				s.TaskTitle,
				cli.FormatRange(s.Slot.StartTime, s.Slot.EndTime),
				fmt.Sprintf("%.0f%%", s.Confidence*100),
				s.Reasoning,
			})
		}
		fmt.Println(cli.Table([]string{"Task", "When", "Confidence", "Why"}, rows))
	}

	for _, u := range out.Unscheduled {
		fmt.Println(cli.Warn("%s: %s", u.Title, u.Reason))
		for _, alt := range u.Alternatives {
			fmt.Printf("   • %s\n", alt)
		}
	}

	if len(out.Insights) > 0 {
		fmt.Println()
		fmt.Println("Insights:")
		for _, in := range out.Insights {
			fmt.Printf("  %s\n", in)
		}
	}
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

func joinIDs(ids []string) string {
	return strings.Join(ids, ", ")
}
