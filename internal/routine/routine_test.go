package routine

import (
	"testing"
	"time"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
)

var testDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
}

func findBlock(blocks []models.RoutineBlock, blockType constants.BlockType) (models.RoutineBlock, bool) {
	for _, b := range blocks {
		if b.Type == blockType {
			return b, true
		}
	}
	return models.RoutineBlock{}, false
}

func TestBuild_GymBlockPadding(t *testing.T) {
	blocks := Build("Gym: 06:00", testDate)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d: %+v", len(blocks), blocks)
	}
	gym := blocks[0]
	if gym.Type != constants.BlockGym {
		t.Errorf("Type = %s, want gym", gym.Type)
	}
	if !gym.Start.Equal(at(5, 30)) || !gym.End.Equal(at(7, 30)) {
		t.Errorf("gym block = %s-%s, want 05:30-07:30", gym.Start.Format("15:04"), gym.End.Format("15:04"))
	}
}

func TestBuild_MissingDinnerProducesNoDinnerBlock(t *testing.T) {
	text := "Wake: 06:30, Gym: 07:00, Lunch: 12:30, Work: 09:00-17:00, Sleep: 22:30"

	blocks := Build(text, testDate)

	if _, ok := findBlock(blocks, constants.BlockDinner); ok {
		t.Error("expected no dinner block when routine has no Dinner entry")
	}
	if _, ok := findBlock(blocks, constants.BlockLunch); !ok {
		t.Error("expected a lunch block")
	}
}

func TestBuild_FullRoutine(t *testing.T) {
	text := "Wake up: 06:00\nGym: 07:00\nWork hours: 09:00 - 18:00\nLunch: 12:30\nDinner: 19:00\nSleep: 23:00"

	blocks := Build(text, testDate)

	tests := []struct {
		blockType constants.BlockType
		desc      string
		start     time.Time
		end       time.Time
	}{
		{constants.BlockSleep, "Sleep until wake-up", at(0, 0), at(6, 0)},
		{constants.BlockPreWork, "Morning routine before work", at(6, 0), at(9, 0)},
		{constants.BlockGym, "Gym (prep and session)", at(6, 30), at(8, 30)},
		{constants.BlockLunch, "Lunch", at(12, 30), at(13, 30)},
		{constants.BlockPostWork, "Personal time after work", at(18, 0), at(23, 0)},
		{constants.BlockDinner, "Dinner", at(19, 0), at(20, 30)},
		{constants.BlockSleep, "Sleep", at(23, 0), time.Date(2026, 3, 11, 23, 59, 0, 0, time.UTC)},
	}

	if len(blocks) != len(tests) {
		t.Fatalf("expected %d blocks, got %d: %+v", len(tests), len(blocks), blocks)
	}
	for i, tt := range tests {
		b := blocks[i]
		if b.Type != tt.blockType || b.Description != tt.desc || !b.Start.Equal(tt.start) || !b.End.Equal(tt.end) {
			t.Errorf("block %d = {%s %q %v %v}, want {%s %q %v %v}",
				i, b.Type, b.Description, b.Start, b.End, tt.blockType, tt.desc, tt.start, tt.end)
		}
	}
}

func TestBuild_SortedByStart(t *testing.T) {
	blocks := Build("Dinner: 18:00, Lunch: 12:00, Gym: 07:00", testDate)
	for i := 1; i < len(blocks); i++ {
		if blocks[i].Start.Before(blocks[i-1].Start) {
			t.Fatalf("blocks not sorted: %+v", blocks)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Routine
	}{
		{
			name: "empty text",
			text: "",
			want: Routine{},
		},
		{
			name: "lowercase labels",
			text: "wake: 7:15 work: 8:00-16:30",
			want: Routine{
				Wake:      Clock{Minutes: 7*60 + 15, Set: true},
				WorkStart: Clock{Minutes: 8 * 60, Set: true},
				WorkEnd:   Clock{Minutes: 16*60 + 30, Set: true},
			},
		},
		{
			name: "malformed gym time is skipped",
			text: "Gym: 26:00, Lunch: 12:00",
			want: Routine{Lunch: Clock{Minutes: 12 * 60, Set: true}},
		},
		{
			name: "early work end coerced to 19:00",
			text: "Work: 09:00-05:00",
			want: Routine{
				WorkStart: Clock{Minutes: 9 * 60, Set: true},
				WorkEnd:   Clock{Minutes: 19 * 60, Set: true},
			},
		},
		{
			name: "work end at 06:59 is coerced",
			text: "Work: 10:00-6:59",
			want: Routine{
				WorkStart: Clock{Minutes: 10 * 60, Set: true},
				WorkEnd:   Clock{Minutes: 19 * 60, Set: true},
			},
		},
		{
			name: "implausible sleep time falls back",
			text: "Sleep: 02:00",
			want: Routine{Sleep: Clock{Minutes: 23 * 60, Set: true}},
		},
		{
			name: "surrounding words tolerated",
			text: "I usually have dinner around: 19:30 and go to sleep at: 22:45",
			want: Routine{
				Dinner: Clock{Minutes: 19*60 + 30, Set: true},
				Sleep:  Clock{Minutes: 22*60 + 45, Set: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.text); got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestBuild_PreAndPostWorkRequireOrdering(t *testing.T) {
	// wake after work start and work end after sleep: neither bridge block applies
	blocks := Build("Wake: 10:00, Work: 09:00-23:30, Sleep: 23:00", testDate)
	if _, ok := findBlock(blocks, constants.BlockPreWork); ok {
		t.Error("unexpected pre_work block when wake is after work start")
	}
	if _, ok := findBlock(blocks, constants.BlockPostWork); ok {
		t.Error("unexpected post_work block when work ends after sleep")
	}
}

func TestBuild_BlocksFollowDateLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	date := time.Date(2026, 3, 10, 15, 45, 0, 0, loc)
	blocks := Build("Lunch: 12:00", date)
	if len(blocks) != 1 {
		t.Fatalf("expected one block, got %d", len(blocks))
	}
	want := time.Date(2026, 3, 10, 12, 0, 0, 0, loc)
	if !blocks[0].Start.Equal(want) {
		t.Errorf("Start = %v, want %v", blocks[0].Start, want)
	}
}
