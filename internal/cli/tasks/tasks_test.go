package tasks

import (
	"errors"
	"testing"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli/clitest"
	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	apperrors "github.com/julianstephens/aurora/aurora-cli/internal/errors"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
	"github.com/julianstephens/aurora/aurora-cli/internal/storage"
)

func TestTaskAddCmd(t *testing.T) {
	tests := []struct {
		name    string
		cmd     TaskAddCmd
		wantErr bool
	}{
		{name: "defaults", cmd: TaskAddCmd{Title: "Inbox zero", Duration: 30, Priority: "medium", Type: "general"}},
		{name: "deep work in the morning", cmd: TaskAddCmd{Title: "Write paper", Duration: 120, Priority: "high", Type: "deep_work", TimeOfDay: "morning", Energy: 8}},
		{name: "bad time of day", cmd: TaskAddCmd{Title: "X", Duration: 30, Priority: "low", Type: "general", TimeOfDay: "midnight"}, wantErr: true},
		{name: "bad type", cmd: TaskAddCmd{Title: "X", Duration: 30, Priority: "low", Type: "chores"}, wantErr: true},
		{name: "energy out of range", cmd: TaskAddCmd{Title: "X", Duration: 30, Priority: "low", Type: "general", Energy: 11}, wantErr: true},
		{name: "negative duration", cmd: TaskAddCmd{Title: "X", Duration: -5, Priority: "low", Type: "general"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := clitest.NewInitializedContext(t)

			err := tt.cmd.Run(ctx)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrInvalidInput) {
					t.Errorf("expected invalid input error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("TaskAddCmd.Run() error = %v", err)
			}

			tasks, err := ctx.Store.GetUnscheduledTasks(ctx.UserID())
			if err != nil {
				t.Fatal(err)
			}
			if len(tasks) != 1 {
				t.Fatalf("expected 1 task, got %d", len(tasks))
			}
			got := tasks[0]
			if got.Title != tt.cmd.Title || got.EstimatedDurationMinutes != tt.cmd.Duration ||
				string(got.Type) != tt.cmd.Type || string(got.PreferredTimeOfDay) != tt.cmd.TimeOfDay {
				t.Errorf("stored task = %+v", got)
			}
		})
	}
}

func TestTaskListAndDelete(t *testing.T) {
	ctx := clitest.NewInitializedContext(t)

	if err := (&TaskListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list on empty store: %v", err)
	}

	scheduled := clitest.Now
	clitest.MustAddTasks(t, ctx,
		models.Task{ID: "t1", UserID: constants.DefaultUserID, Title: "Report", Priority: constants.PriorityHigh, EstimatedDurationMinutes: 60},
		models.Task{ID: "t2", UserID: constants.DefaultUserID, Title: "Email", Priority: constants.PriorityLow, ScheduledFor: &scheduled},
	)
	for _, cmd := range []TaskListCmd{{}, {All: true}} {
		if err := cmd.Run(ctx); err != nil {
			t.Errorf("TaskListCmd%+v.Run() error = %v", cmd, err)
		}
	}

	if err := (&TaskDeleteCmd{ID: "t1"}).Run(ctx); err != nil {
		t.Fatalf("TaskDeleteCmd.Run() error = %v", err)
	}
	if _, err := ctx.Store.GetTask(ctx.UserID(), "t1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := (&TaskDeleteCmd{ID: "t1", Yes: true}).Run(ctx); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("expected invalid input for unknown task, got %v", err)
	}
}
