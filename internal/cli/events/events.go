package events

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	apperrors "github.com/julianstephens/aurora/aurora-cli/internal/errors"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage"
	"github.com/julianstephens/aurora/aurora-cli/internal/utils"
)

type EventAddCmd struct {
	Title          string   `arg:"" help:"Title of the event."`
	Start          string   `help:"Start time (\"YYYY-MM-DD HH:MM\" or RFC3339)." required:""`
	Duration       int      `help:"Duration in minutes." default:"60"`
	End            string   `help:"End time; overrides --duration."`
	Priority       string   `help:"Priority (low, medium, high, urgent)." enum:"low,medium,high,urgent" default:"medium"`
	Urgent         bool     `help:"Mark the event urgent."`
	Important      bool     `help:"Mark the event important."`
	Goal           bool     `help:"The event contributes to a goal."`
	DependsOn      []string `help:"IDs of events this event depends on." sep:","`
	DependencyType string   `help:"How this event follows its dependencies." enum:"sequential,same_day,before_deadline" default:"sequential"`
	AutoReschedule bool     `help:"Move this event automatically when an event it depends on moves."`
	Buffer         int      `help:"Minutes to keep after the event it depends on when rescheduled." default:"15"`
}

func (c *EventAddCmd) Run(ctx *cli.Context) error {
	now := ctx.Now()
	start, err := cli.ParseWhen(c.Start, now)
	if err != nil {
		return err
	}
	end := start.Add(time.Duration(c.Duration) * time.Minute)
	if c.End != "" {
		if end, err = cli.ParseWhen(c.End, now); err != nil {
			return err
		}
	}
	if !start.Before(end) {
		return apperrors.Invalidf("event must end after it starts")
	}

	user := ctx.UserID()
	for _, dep := range c.DependsOn {
		if _, err := ctx.Store.GetEvent(user, dep); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return apperrors.Invalidf("dependency %s does not exist", dep)
			}
			return err
		}
	}

	event := models.Event{
		ID:                      uuid.New().String(),
		UserID:                  user,
		Title:                   c.Title,
		StartTime:               start,
		EndTime:                 end,
		Priority:                constants.Priority(c.Priority),
		IsUrgent:                c.Urgent,
		IsImportant:             c.Important,
		ContributesToGoal:       c.Goal,
		DependsOn:               c.DependsOn,
		DependencyType:          constants.DependencyType(c.DependencyType),
		AutoRescheduleEnabled:   c.AutoReschedule,
		RescheduleBufferMinutes: c.Buffer,
	}
	if err := event.Validate(); err != nil {
		return apperrors.Invalidf("%v", err)
	}

	events, err := ctx.AllEvents()
	if err != nil {
		return err
	}
	check := ctx.Scheduler.ValidateTimeChange(event, start, events, models.EnergyProfile{})
	for _, w := range check.Warnings {
		fmt.Println(cli.Warn("%s", w))
	}

	if err := ctx.Store.AddEvent(event); err != nil {
		return fmt.Errorf("failed to add event: %w", err)
	}
	fmt.Println(cli.Check("Added event %q (%s)", event.Title, event.ID))
	fmt.Printf("  %s\n", cli.FormatRange(event.StartTime, event.EndTime))
	return nil
}

type EventListCmd struct {
	From string `help:"First date to list (YYYY-MM-DD). Defaults to today."`
	Days int    `help:"Number of days to list." default:"7"`
	All  bool   `help:"List every stored event."`
}

func (c *EventListCmd) Run(ctx *cli.Context) error {
	var events []models.Event
	var err error
	if c.All {
		events, err = ctx.AllEvents()
	} else {
		events, err = c.window(ctx)
	}
	if err != nil {
		return err
	}

	if len(events) == 0 {
		fmt.Println("No events found.")
		return nil
	}

	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			shortID(e.ID),
			e.Title,
			cli.FormatRange(e.StartTime, e.EndTime),
			dependencySummary(e),
		})
	}
	fmt.Println(cli.Table([]string{"ID", "Title", "When", "Depends on"}, rows))
	return nil
}

func (c *EventListCmd) window(ctx *cli.Context) ([]models.Event, error) {
	if c.Days <= 0 {
		return nil, apperrors.Invalidf("--days must be positive")
	}
	now := ctx.Now()
	from := utils.StartOfDay(now)
	if c.From != "" {
		d, err := utils.ParseDateInLocation(c.From, now.Location())
		if err != nil {
			return nil, apperrors.Invalidf("invalid date %q (expected YYYY-MM-DD)", c.From)
		}
		from = d
	}

	return ctx.EventsBetween(from, from.AddDate(0, 0, c.Days))
}

type EventDeleteCmd struct {
	ID  string `arg:"" help:"ID of the event to delete."`
	Yes bool   `help:"Delete without asking for confirmation." short:"y"`
}

func (c *EventDeleteCmd) Run(ctx *cli.Context) error {
	user := ctx.UserID()
	event, err := ctx.Store.GetEvent(user, c.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.Invalidf("event %s not found", c.ID)
		}
		return err
	}

	all, err := ctx.Store.GetAllEvents(user)
	if err != nil {
		return fmt.Errorf("failed to get events: %w", err)
	}
	var dependents []string
	for _, e := range all {
		if e.DependsOnEvent(event.ID) {
			dependents = append(dependents, e.Title)
		}
	}
	if len(dependents) > 0 {
		fmt.Println(cli.Warn("%d event(s) depend on %q: %s", len(dependents), event.Title, strings.Join(dependents, ", ")))
	}

	ok, err := ctx.Confirmed(c.Yes, fmt.Sprintf("Delete event %q?", event.Title))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Delete cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Store.DeleteEvent(user, event.ID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	fmt.Println(cli.Check("Deleted event %q", event.Title))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func dependencySummary(e models.Event) string {
	if len(e.DependsOn) == 0 {
		return "-"
	}
	ids := make([]string, len(e.DependsOn))
	for i, id := range e.DependsOn {
		ids[i] = shortID(id)
	}
	summary := fmt.Sprintf("%s (%s)", strings.Join(ids, ","), e.EffectiveDependencyType())
	if e.AutoRescheduleEnabled {
		summary += " auto"
	}
	return summary
}
