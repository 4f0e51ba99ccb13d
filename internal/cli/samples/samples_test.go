package samples

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/cli/clitest"
	apperrors "github.com/julianstephens/aurora/aurora-cli/internal/errors"
)

func TestEnergyLogCmd(t *testing.T) {
	tests := []struct {
		name    string
		cmd     EnergyLogCmd
		wantAt  time.Time
		wantErr bool
	}{
		{name: "now", cmd: EnergyLogCmd{Energy: 7, Mood: 6, At: "now"}, wantAt: clitest.Now},
		{name: "earlier today", cmd: EnergyLogCmd{Energy: 3, Mood: 4, At: "2026-03-10 07:30"}, wantAt: time.Date(2026, 3, 10, 7, 30, 0, 0, time.UTC)},
		{name: "energy too high", cmd: EnergyLogCmd{Energy: 11, Mood: 5, At: "now"}, wantErr: true},
		{name: "mood zero", cmd: EnergyLogCmd{Energy: 5, Mood: 0, At: "now"}, wantErr: true},
		{name: "future", cmd: EnergyLogCmd{Energy: 5, Mood: 5, At: "2026-03-11 09:00"}, wantErr: true},
		{name: "bad time", cmd: EnergyLogCmd{Energy: 5, Mood: 5, At: "yesterday"}, wantErr: true},
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
				t.Fatalf("EnergyLogCmd.Run() error = %v", err)
			}

			samples, err := ctx.Store.GetSamples(ctx.UserID(), time.Time{})
			if err != nil {
				t.Fatal(err)
			}
			if len(samples) != 1 {
				t.Fatalf("expected 1 sample, got %d", len(samples))
			}
			if !samples[0].Timestamp.Equal(tt.wantAt) {
				t.Errorf("timestamp = %v, want %v", samples[0].Timestamp, tt.wantAt)
			}
		})
	}
}

func TestEnergyProfileCmd(t *testing.T) {
	ctx := clitest.NewInitializedContext(t)

	if err := (&EnergyProfileCmd{}).Run(ctx); err != nil {
		t.Fatalf("profile without samples: %v", err)
	}

	for day := 1; day <= 3; day++ {
		morning := clitest.Now.AddDate(0, 0, -day)
		for _, cmd := range []EnergyLogCmd{
			{Energy: 8, Mood: 7, At: morning.Format(time.RFC3339)},
			{Energy: 3, Mood: 4, At: morning.Add(5 * time.Hour).Format(time.RFC3339)},
		} {
			if err := cmd.Run(ctx); err != nil {
				t.Fatalf("EnergyLogCmd.Run() error = %v", err)
			}
		}
	}

	if err := (&EnergyProfileCmd{}).Run(ctx); err != nil {
		t.Errorf("EnergyProfileCmd.Run() error = %v", err)
	}
}

func TestFormatHours(t *testing.T) {
	if got := formatHours(nil); got != "none" {
		t.Errorf("formatHours(nil) = %q", got)
	}
	if got := formatHours([]int{9, 14}); got != "09:00, 14:00" {
		t.Errorf("formatHours = %q", got)
	}
}
