package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	apperrors "github.com/julianstephens/aurora/aurora-cli/internal/errors"
	"github.com/julianstephens/aurora/aurora-cli/internal/utils"
	"github.com/julianstephens/aurora/aurora-cli/internal/validation"
)

type ValidateCmd struct {
	Date string `help:"Only check events on this date (YYYY-MM-DD)."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	events, err := ctx.AllEvents()
	if err != nil {
		return err
	}
	tasks, err := ctx.Store.GetAllTasks(ctx.UserID())
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}

	var date *time.Time
	if c.Date != "" {
		d, err := utils.ParseDateInLocation(c.Date, ctx.Now().Location())
		if err != nil {
			return apperrors.Invalidf("invalid date %q (expected YYYY-MM-DD)", c.Date)
		}
		date = &d
	}

	v := validation.New()
	result := v.ValidateEventsForDate(events, date)
	result.Conflicts = append(result.Conflicts, v.ValidateTasks(tasks).Conflicts...)

	fmt.Print(result.FormatReport())
	if !result.HasConflicts() {
		fmt.Println()
		return nil
	}
	return fmt.Errorf("%d conflict(s) found", len(result.Conflicts))
}
