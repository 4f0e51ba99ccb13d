package plans

import (
	"fmt"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
)

// SlotsCmd lists the free working time in the coming days
type SlotsCmd struct {
	Days        int `help:"Number of days to search, starting today. Defaults to the configured horizon."`
	MinDuration int `help:"Only show slots at least this many minutes long."`
}

func (c *SlotsCmd) Run(ctx *cli.Context) error {
	days, err := horizon(ctx, c.Days)
	if err != nil {
		return err
	}
	snap, err := ctx.LoadSnapshot(days)
	if err != nil {
		return err
	}
	slots, err := ctx.Scheduler.FindAvailableSlots(snap.Events, snap.Preferences, days)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(slots))
	total := 0
	for _, s := range slots {
		if s.DurationMinutes < c.MinDuration {
			continue
		}
		total += s.DurationMinutes
		rows = append(rows, []string{cli.FormatRange(s.StartTime, s.EndTime), durationLabel(s.DurationMinutes), string(s.Type)})
	}
	if len(rows) == 0 {
		fmt.Printf("No free slots in the next %d day(s).\n", days)
		return nil
	}
	fmt.Println(cli.Table([]string{"Slot", "Length", "Part of day"}, rows))
	fmt.Printf("%d slot(s), %s free\n", len(rows), durationLabel(total))
	return nil
}
