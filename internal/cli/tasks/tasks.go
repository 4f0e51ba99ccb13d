package tasks

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli"
	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	apperrors "github.com/julianstephens/aurora/aurora-cli/internal/errors"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage"
)

type TaskAddCmd struct {
	Title     string `arg:"" help:"Title of the task."`
	Duration  int    `help:"Estimated duration in minutes." default:"30"`
	Priority  string `help:"Priority (low, medium, high, urgent)." enum:"low,medium,high,urgent" default:"medium"`
	Energy    int    `help:"Energy level the task needs (1-10, 0 for any)."`
	TimeOfDay string `help:"Preferred time of day (morning, afternoon, evening)."`
	Type      string `help:"Kind of work (general, research, deep_work, creative, admin, meeting)." default:"general"`
	Goal      string `help:"ID of the goal this task contributes to."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	task := models.Task{
		ID:                       uuid.New().String(),
		UserID:                   ctx.UserID(),
		Title:                    c.Title,
		EstimatedDurationMinutes: c.Duration,
		Priority:                 constants.Priority(c.Priority),
		EnergyLevelRequired:      c.Energy,
		PreferredTimeOfDay:       constants.TimeOfDay(c.TimeOfDay),
		Type:                     constants.TaskType(c.Type),
		GoalID:                   c.Goal,
	}
	if err := task.Validate(); err != nil {
		return apperrors.Invalidf("%v", err)
	}

	if err := ctx.Store.AddTask(task); err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	fmt.Println(cli.Check("Added task %q (%s)", task.Title, task.ID))
	return nil
}

type TaskListCmd struct {
	All bool `help:"Include tasks that already have a time."`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	var tasks []models.Task
	var err error
	if c.All {
		tasks, err = ctx.Store.GetAllTasks(ctx.UserID())
	} else {
		tasks, err = ctx.Store.GetUnscheduledTasks(ctx.UserID())
	}
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	loc := ctx.Now().Location()
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		scheduled := "-"
		if t.ScheduledFor != nil {
			scheduled = cli.FormatTime(t.ScheduledFor.In(loc))
		}
		rows = append(rows, []string{
			shortID(t.ID),
			t.Title,
			string(t.Priority),
			strconv.Itoa(t.DurationMinutes()) + " min",
			string(t.Type),
			scheduled,
		})
	}
	fmt.Println(cli.Table([]string{"ID", "Title", "Priority", "Duration", "Type", "Scheduled"}, rows))
	return nil
}

type TaskDeleteCmd struct {
	ID  string `arg:"" help:"ID of the task to delete."`
	Yes bool   `help:"Delete without asking for confirmation." short:"y"`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Store.GetTask(ctx.UserID(), c.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.Invalidf("task %s not found", c.ID)
		}
		return err
	}

	ok, err := ctx.Confirmed(c.Yes, fmt.Sprintf("Delete task %q?", task.Title))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Delete cancelled.")
		return nil
	}

	if err := ctx.Store.DeleteTask(ctx.UserID(), task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	fmt.Println(cli.Check("Deleted task %q", task.Title))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
