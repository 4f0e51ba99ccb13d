package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	apperrors "github.com/julianstephens/aurora/aurora-cli/internal/errors"
	"github.com/julianstephens/aurora/aurora-cli/internal/utils"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	DangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Table renders rows under headers with the shared border and header style
func Table(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

// FormatTime renders an instant the way every listing shows it
func FormatTime(t time.Time) string {
	return t.Format("Mon 2006-01-02 15:04")
}

// FormatRange renders [start, end), dropping the second date when both fall
// on the same day
func FormatRange(start, end time.Time) string {
	if utils.SameDate(start, end) {
		return fmt.Sprintf("%s-%s", FormatTime(start), end.Format("15:04"))
	}
	return fmt.Sprintf("%s - %s", FormatTime(start), FormatTime(end))
}

// ParseWhen parses a command-line date-time in loc. "now" is accepted.
func ParseWhen(s string, now time.Time) (time.Time, error) {
	if strings.EqualFold(strings.TrimSpace(s), "now") {
		return now, nil
	}
	t, err := utils.ParseDateTime(s, now.Location())
	if err != nil {
		return time.Time{}, apperrors.Invalidf("%v", err)
	}
	return t, nil
}

// Check prefixes a status line with a check mark
func Check(format string, args ...interface{}) string {
	return SuccessStyle.Render("✓") + " " + fmt.Sprintf(format, args...)
}

// Warn prefixes a status line with a warning sign
func Warn(format string, args ...interface{}) string {
	return WarningStyle.Render("⚠ " + fmt.Sprintf(format, args...))
}
