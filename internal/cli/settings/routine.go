package settings

import (
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	apperrors "github.com/julianstephens/aurora/aurora-cli/internal/errors"
	"github.com/julianstephens/aurora/aurora-cli/internal/routine"
	"github.com/julianstephens/aurora/aurora-cli/internal/utils"
)

type RoutineCmd struct {
	Show RoutineShowCmd `cmd:"" default:"1" help:"Show the routine and the blocks it protects."`
	Set  RoutineSetCmd  `cmd:"" help:"Replace the routine description."`
}

type RoutineShowCmd struct {
	Date string `help:"Show blocks for this date (YYYY-MM-DD). Defaults to today."`
}

func (c *RoutineShowCmd) Run(ctx *cli.Context) error {
	text, err := ctx.Store.GetRoutine(ctx.UserID())
	if err != nil {
		return fmt.Errorf("failed to get routine: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		fmt.Println("No routine set. Example:")
		fmt.Println(`  aurora routine set "Wake: 06:30, Gym: 07:00, Lunch: 12:30, Dinner: 19:00, Sleep: 23:00"`)
		return nil
	}

	date := ctx.Now()
	if c.Date != "" {
		date, err = utils.ParseDateInLocation(c.Date, date.Location())
		if err != nil {
			return apperrors.Invalidf("invalid date %q (expected YYYY-MM-DD)", c.Date)
		}
	}

	fmt.Println(text)
	fmt.Println()

	blocks := routine.Build(text, date)
	if len(blocks) == 0 {
		fmt.Println(cli.Warn("No recognizable times in routine."))
		return nil
	}
	rows := make([][]string, 0, len(blocks))
	for _, b := range blocks {
		rows = append(rows, []string{cli.FormatRange(b.Start, b.End), string(b.Type), b.Description})
	}
	fmt.Println(cli.Table([]string{"Time", "Block", "Description"}, rows))
	return nil
}

type RoutineSetCmd struct {
	Text string `arg:"" optional:"" help:"Routine description, e.g. \"Wake: 06:30, Work: 09:00-17:00, Sleep: 23:00\"."`
	File string `help:"Read the routine description from a file." type:"existingfile"`
}

func (c *RoutineSetCmd) Run(ctx *cli.Context) error {
	text := c.Text
	if c.File != "" {
		data, err := os.ReadFile(c.File)
		if err != nil {
			return fmt.Errorf("failed to read routine file: %w", err)
		}
		text = string(data)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return apperrors.Invalidf("routine text is required (pass it as an argument or with --file)")
	}

	r := routine.Parse(text)
	if !r.Wake.Set && !r.Gym.Set && !r.Lunch.Set && !r.Dinner.Set && !r.Sleep.Set && !r.WorkStart.Set {
		fmt.Println(cli.Warn("No recognizable times found; the routine will not protect any blocks."))
	}

	if err := ctx.Store.SaveRoutine(ctx.UserID(), text); err != nil {
		return fmt.Errorf("failed to save routine: %w", err)
	}
	fmt.Println(cli.Check("Routine saved."))
	return nil
}
