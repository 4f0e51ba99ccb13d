package settings

import (
	"fmt"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	apperrors "github.com/julianstephens/aurora/aurora-cli/internal/errors"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/utils"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" default:"1" help:"Show scheduling preferences."`
	Set  SettingsSetCmd  `cmd:"" help:"Update scheduling preferences."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	prefs, err := ctx.Store.GetPreferences(ctx.UserID())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	printPreferences(prefs)
	return nil
}

type SettingsSetCmd struct {
	WorkStart       *string `help:"Start of the working day (HH:MM)."`
	WorkEnd         *string `help:"End of the working day (HH:MM)."`
	LunchStart      *string `help:"Start of the lunch break (HH:MM)."`
	LunchDuration   *int    `help:"Lunch break length in minutes."`
	MinTaskDuration *int    `help:"Shortest free gap worth offering, in minutes."`
	MaxTaskDuration *int    `help:"Longest task the scheduler will place, in minutes."`
	Buffer          *int    `help:"Minutes kept free between placed tasks."`
	NoWorkDays      *string `help:"Comma-separated weekdays without work (e.g. sat,sun)."`
	Timezone        *string `help:"IANA timezone name, or Local."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	prefs, err := ctx.Store.GetPreferences(ctx.UserID())
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	updated, err := c.apply(&prefs)
	if err != nil {
		return err
	}
	if !updated {
		fmt.Println("No changes specified. Run 'aurora settings show' to view settings or pass flags to update them.")
		return nil
	}

	if err := prefs.Validate(); err != nil {
		return apperrors.Invalidf("%v", err)
	}
	if err := ctx.Store.SavePreferences(ctx.UserID(), prefs); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println(cli.Check("Settings updated successfully."))
	return nil
}

// apply copies every flag that was given onto prefs
func (c *SettingsSetCmd) apply(prefs *models.SchedulingPreferences) (bool, error) {
	updated := false

	clocks := []struct {
		name  string
		value *string
		dst   *string
	}{
		{constants.SettingWorkStart, c.WorkStart, &prefs.WorkStart},
		{constants.SettingWorkEnd, c.WorkEnd, &prefs.WorkEnd},
		{constants.SettingLunchStart, c.LunchStart, &prefs.LunchStart},
	}
	for _, f := range clocks {
		if f.value == nil {
			continue
		}
		if !utils.ValidateTimeFormat(*f.value) {
			return false, apperrors.Invalidf("invalid %s %q (expected HH:MM)", f.name, *f.value)
		}
		*f.dst = *f.value
		updated = true
	}

	minutes := []struct {
		name  string
		value *int
		dst   *int
	}{
		{constants.SettingLunchDurationMin, c.LunchDuration, &prefs.LunchDurationMinutes},
		{constants.SettingMinTaskDurationMin, c.MinTaskDuration, &prefs.MinTaskDurationMinutes},
		{constants.SettingMaxTaskDurationMin, c.MaxTaskDuration, &prefs.MaxTaskDurationMinutes},
		{constants.SettingBufferBetweenTasksMin, c.Buffer, &prefs.BufferBetweenTasksMinutes},
	}
	for _, f := range minutes {
		if f.value == nil {
			continue
		}
		if *f.value < 0 {
			return false, apperrors.Invalidf("%s must not be negative", f.name)
		}
		*f.dst = *f.value
		updated = true
	}

	if c.NoWorkDays != nil {
		days, err := models.ParseWeekdays(*c.NoWorkDays)
		if err != nil {
			return false, apperrors.Invalidf("%v", err)
		}
		prefs.NoWorkDays = days
		updated = true
	}

	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return false, apperrors.Invalidf("invalid timezone %q", *c.Timezone)
		}
		prefs.Timezone = *c.Timezone
		updated = true
	}

	return updated, nil
}

func printPreferences(prefs models.SchedulingPreferences) {
	lunch := "none"
	if prefs.LunchStart != "" {
		lunch = fmt.Sprintf("%s (%d min)", prefs.LunchStart, prefs.LunchDurationMinutes)
	}
	noWork := models.FormatWeekdays(prefs.NoWorkDays)
	if noWork == "" {
		noWork = "none"
	}

	rows := [][]string{
		{"Work hours", prefs.WorkStart + "-" + prefs.WorkEnd},
		{"Lunch", lunch},
		{"Task duration", fmt.Sprintf("%d-%d min", prefs.MinTaskDurationMinutes, prefs.MaxTaskDurationMinutes)},
		{"Buffer between tasks", fmt.Sprintf("%d min", prefs.BufferBetweenTasksMinutes)},
		{"No-work days", noWork},
		{"Timezone", prefs.Timezone},
	}
	fmt.Println(cli.Table([]string{"Setting", "Value"}, rows))

	if prefs.Timezone != "" && prefs.Timezone != "Local" {
		if now, err := utils.NowInTimezone(prefs.Timezone); err == nil {
			fmt.Println(cli.MutedStyle.Render("Local time there: " + now.Format(time.Kitchen)))
		}
	}
}
