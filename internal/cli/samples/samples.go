package samples

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/energy"
	apperrors "github.com/julianstephens/aurora/aurora-cli/internal/errors"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
)

// EnergyLogCmd records a self-reported energy and mood sample
type EnergyLogCmd struct {
	Energy int    `arg:"" help:"Energy level from 1 (drained) to 10 (peak)."`
	Mood   int    `arg:"" help:"Mood level from 1 to 10."`
	At     string `help:"When the sample was taken. Defaults to now." default:"now"`
}

func (c *EnergyLogCmd) Run(ctx *cli.Context) error {
	at, err := cli.ParseWhen(c.At, ctx.Now())
	if err != nil {
		return err
	}
	if at.After(ctx.Now()) {
		return apperrors.Invalidf("samples cannot be logged in the future")
	}

	sample := models.EnergySample{
		ID:          uuid.New().String(),
		UserID:      ctx.UserID(),
		Timestamp:   at,
		EnergyLevel: c.Energy,
		MoodLevel:   c.Mood,
	}
	if err := sample.Validate(); err != nil {
		return apperrors.Invalidf("%v", err)
	}
	if err := ctx.Store.AddSample(sample); err != nil {
		return fmt.Errorf("failed to log sample: %w", err)
	}
	fmt.Println(cli.Check("Logged energy %d, mood %d at %s", c.Energy, c.Mood, cli.FormatTime(at)))
	return nil
}

// EnergyProfileCmd shows the energy profile learned from recent samples
type EnergyProfileCmd struct{}

func (c *EnergyProfileCmd) Run(ctx *cli.Context) error {
	profile, err := energy.NewAnalyzer(ctx.Store).Profile(ctx.UserID(), ctx.Now())
	if err != nil {
		return err
	}

	if !profile.PatternsAvailable {
		fmt.Printf("Not enough samples in the last %d days to learn your patterns (%d logged).\n",
			constants.EnergyLookbackDays, profile.SampleCount)
		fmt.Println(cli.MutedStyle.Render("Log samples with 'aurora energy log ENERGY MOOD'. Scheduling ignores energy until then."))
		return nil
	}

	fmt.Printf("Energy profile from %d sample(s) over the last %d days\n\n", profile.SampleCount, constants.EnergyLookbackDays)
	fmt.Printf("  Peak hours:    %s\n", formatHours(profile.PeakHours))
	fmt.Printf("  Low hours:     %s\n", formatHours(profile.LowHours))
	fmt.Printf("  Best weekdays: %s\n\n", strings.Join(profile.BestWeekdays, ", "))

	hours := make([]int, 0, len(profile.EnergyByHour))
	for h := range profile.EnergyByHour {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	rows := make([][]string, 0, len(hours))
	for _, h := range hours {
		marker := ""
		switch {
		case profile.IsPeakHour(h):
			marker = cli.SuccessStyle.Render("peak")
		case profile.IsLowHour(h):
			marker = cli.WarningStyle.Render("low")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%02d:00", h),
			fmt.Sprintf("%.1f", profile.EnergyByHour[h]),
			fmt.Sprintf("%.1f", profile.MoodByHour[h]),
			marker,
		})
	}
	fmt.Println(cli.Table([]string{"Hour", "Energy", "Mood", ""}, rows))
	return nil
}

func formatHours(hours []int) string {
	if len(hours) == 0 {
		return "none"
	}
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = fmt.Sprintf("%02d:00", h)
	}
	return strings.Join(parts, ", ")
}
