package events

import (
	"context"
	"fmt"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	"github.com/julianstephens/aurora/aurora-cli/internal/dependency"
	"github.com/julianstephens/aurora/aurora-cli/internal/energy"
	apperrors "github.com/julianstephens/aurora/aurora-cli/internal/errors"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
)

// MoveCmd moves an event and cascades the move to the events depending on it
type MoveCmd struct {
	ID    string `arg:"" help:"ID of the event to move."`
	Start string `arg:"" help:"New start time (\"YYYY-MM-DD HH:MM\" or RFC3339)."`
	Apply bool   `help:"Commit the move instead of only previewing it."`
	Force bool   `help:"Move even when the new time overlaps another event."`
	Yes   bool   `help:"Apply without asking for confirmation." short:"y"`
}

func (c *MoveCmd) Run(ctx *cli.Context) error {
	newStart, err := cli.ParseWhen(c.Start, ctx.Now())
	if err != nil {
		return err
	}

	return ctx.WithLock(func(commitCtx context.Context) error {
		events, err := ctx.AllEvents()
		if err != nil {
			return err
		}
		event, err := find(events, c.ID)
		if err != nil {
			return err
		}

		profile, err := energy.NewAnalyzer(ctx.Store).Profile(ctx.UserID(), ctx.Now())
		if err != nil {
			return err
		}
		check := ctx.Scheduler.ValidateTimeChange(event, newStart, events, profile)
		printCheck(check)
		if !check.Valid && !c.Force {
			return apperrors.Invalidf("new time overlaps another event (use --force to move anyway)")
		}

		result, err := ctx.Rescheduler.Reschedule(events, event.ID, newStart)
		if err != nil {
			return err
		}
		printCascade(result)

		if !c.Apply {
			fmt.Println(cli.MutedStyle.Render("Preview only. Re-run with --apply to commit."))
			return nil
		}

		ok, err := ctx.Confirmed(c.Yes, fmt.Sprintf("Move %q and %d dependent event(s)?", event.Title, result.Summary.EventsRescheduled))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Move cancelled.")
			return nil
		}

		ctx.PerformAutomaticBackup()
		if err := ctx.Store.ApplyReschedule(commitCtx, result); err != nil {
			return fmt.Errorf("failed to apply reschedule: %w", err)
		}
		fmt.Println(cli.Check("Moved %q and rescheduled %d dependent event(s)", event.Title, result.Summary.EventsRescheduled))
		if result.Summary.ConflictsFound > 0 {
			fmt.Println(cli.Warn("%d dependent event(s) need manual rescheduling", result.Summary.ConflictsFound))
		}
		return nil
	})
}

// ValidateMoveCmd reports whether an event can move to a new time without
// changing anything
type ValidateMoveCmd struct {
	ID    string `arg:"" help:"ID of the event to check."`
	Start string `arg:"" help:"Proposed start time (\"YYYY-MM-DD HH:MM\" or RFC3339)."`
}

func (c *ValidateMoveCmd) Run(ctx *cli.Context) error {
	newStart, err := cli.ParseWhen(c.Start, ctx.Now())
	if err != nil {
		return err
	}
	events, err := ctx.AllEvents()
	if err != nil {
		return err
	}
	event, err := find(events, c.ID)
	if err != nil {
		return err
	}
	profile, err := energy.NewAnalyzer(ctx.Store).Profile(ctx.UserID(), ctx.Now())
	if err != nil {
		return err
	}

	check := ctx.Scheduler.ValidateTimeChange(event, newStart, events, profile)
	printCheck(check)
	if !check.Valid {
		return fmt.Errorf("cannot move %q to %s", event.Title, cli.FormatTime(newStart))
	}
	fmt.Println(cli.Check("%q can move to %s", event.Title, cli.FormatTime(newStart)))
	return nil
}

func find(events []models.Event, id string) (models.Event, error) {
	for _, e := range events {
		if e.ID == id {
			return e, nil
		}
	}
	return models.Event{}, fmt.Errorf("%w: %s", dependency.ErrEventNotFound, id)
}

func printCheck(check models.TimeChangeCheck) {
	for _, w := range check.Warnings {
		fmt.Println(cli.Warn("%s", w))
	}
	for _, e := range check.Conflicts {
		fmt.Printf("   overlaps %q %s\n", e.Title, cli.FormatRange(e.StartTime, e.EndTime))
	}
}

func printCascade(result models.RescheduleResult) {
	moved := result.MovedEvent
	fmt.Printf("%s -> %s\n", moved.Title, cli.FormatRange(moved.StartTime, moved.EndTime))

	if result.Summary.TotalAffected == 0 {
		fmt.Println(cli.MutedStyle.Render("No dependent events."))
		return
	}

	rows := make([][]string, 0, result.Summary.TotalAffected)
	for _, r := range result.RescheduledEvents {
		rows = append(rows, []string{
			r.Title,
			string(r.DependencyType),
			cli.FormatTime(r.OldStart),
			cli.FormatRange(r.NewStart, r.NewEnd),
			cli.SuccessStyle.Render("rescheduled"),
		})
	}
	for _, cf := range result.Conflicts {
		rows = append(rows, []string{cf.Title, "", "", "", cli.WarningStyle.Render(cf.Reason)})
	}
	fmt.Println(cli.Table([]string{"Event", "Dependency", "Was", "Now", "Status"}, rows))
}
