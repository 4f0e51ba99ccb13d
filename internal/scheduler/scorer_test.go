package scheduler

import (
	"errors"
	"testing"

	"github.com/julianstephens/aurora/aurora-cli/internal/constants"
	"github.com/julianstephens/aurora/aurora-cli/internal/models"
)

func TestSelectBestSlot_UrgencyPrefersEarlierPeakSlot(t *testing.T) {
	s := New(fixedClock(at(10, 8, 0)))
	profile := learnedProfile([]int{9, 10}, nil)
	slots := []models.AvailableSlot{
		slot(at(15, 9, 0), at(15, 10, 0)), // five days out
		slot(at(11, 9, 0), at(11, 10, 0)), // tomorrow
	}
	req := SlotRequest{TaskID: "t1", DurationMinutes: 30, Priority: constants.PriorityUrgent}

	best, err := s.SelectBestSlot(req, slots, profile)
	if err != nil {
		t.Fatalf("SelectBestSlot() error = %v", err)
	}
	if best == nil {
		t.Fatal("expected a slot")
	}
	if !best.Slot.StartTime.Equal(at(11, 9, 0)) {
		t.Errorf("chose %s, want tomorrow 09:00", describeSlot(best.Slot))
	}
	if best.Score != 38 {
		t.Errorf("Score = %d, want 38 (peak 30 + urgency 8)", best.Score)
	}
	if diff := best.Confidence - 0.88; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Confidence = %v, want 0.88", best.Confidence)
	}
}

func TestScoreSlot_UrgencyDecay(t *testing.T) {
	s := New(fixedClock(at(10, 8, 0)))
	req := SlotRequest{Priority: constants.PriorityUrgent}
	profile := models.EnergyProfile{}

	tests := []struct {
		day  int
		want int
	}{
		{10, 10}, {11, 8}, {12, 6}, {13, 4}, {14, 2}, {15, 0}, {16, 0},
	}
	for _, tt := range tests {
		got := s.ScoreSlot(req, slot(at(tt.day, 14, 0), at(tt.day, 15, 0)), profile)
		if got.Score != tt.want {
			t.Errorf("day %d: Score = %d, want %d", tt.day, got.Score, tt.want)
		}
	}
}

func TestScoreSlot_Terms(t *testing.T) {
	s := New(fixedClock(at(10, 8, 0)))

	tests := []struct {
		name           string
		req            SlotRequest
		slot           models.AvailableSlot
		profile        models.EnergyProfile
		wantScore      int
		wantConfidence float64
	}{
		{
			name:           "default profile adds no energy preference",
			req:            SlotRequest{},
			slot:           slot(at(11, 10, 0), at(11, 11, 0)),
			profile:        models.EnergyProfile{PeakHours: []int{10}, LowHours: []int{13}},
			wantScore:      0,
			wantConfidence: 0.5,
		},
		{
			name:           "low energy hour penalty",
			req:            SlotRequest{},
			slot:           slot(at(11, 13, 0), at(11, 14, 0)),
			profile:        learnedProfile(nil, []int{13}),
			wantScore:      -20,
			wantConfidence: 0.3,
		},
		{
			name:           "deep work in the morning",
			req:            SlotRequest{Type: constants.TaskTypeResearch},
			slot:           slot(at(11, 9, 0), at(11, 10, 0)),
			profile:        models.EnergyProfile{},
			wantScore:      20,
			wantConfidence: 0.7,
		},
		{
			name:           "deep work in the afternoon gets nothing",
			req:            SlotRequest{Type: constants.TaskTypeDeepWork},
			slot:           slot(at(11, 14, 0), at(11, 15, 0)),
			profile:        models.EnergyProfile{},
			wantScore:      0,
			wantConfidence: 0.5,
		},
		{
			name:           "best weekday bonus",
			req:            SlotRequest{},
			slot:           slot(at(11, 15, 0), at(11, 16, 0)), // Wednesday
			profile:        learnedProfile(nil, nil, "Wednesday"),
			wantScore:      10,
			wantConfidence: 0.6,
		},
		{
			name:           "confidence is capped",
			req:            SlotRequest{Type: constants.TaskTypeDeepWork, Priority: constants.PriorityUrgent},
			slot:           slot(at(10, 9, 0), at(10, 10, 0)), // Tuesday, today
			profile:        learnedProfile([]int{9}, nil, "Tuesday"),
			wantScore:      70,
			wantConfidence: constants.MaxConfidence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ScoreSlot(tt.req, tt.slot, tt.profile)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", got.Score, tt.wantScore)
			}
			if diff := got.Confidence - tt.wantConfidence; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestSelectBestSlot_DurationSufficiency(t *testing.T) {
	s := New(fixedClock(at(10, 8, 0)))
	profile := learnedProfile([]int{9}, nil)
	slots := []models.AvailableSlot{
		slot(at(10, 9, 0), at(10, 9, 20)),  // peak hour but too short
		slot(at(10, 14, 0), at(10, 15, 0)), // long enough
	}

	best, err := s.SelectBestSlot(SlotRequest{DurationMinutes: 30}, slots, profile)
	if err != nil {
		t.Fatalf("SelectBestSlot() error = %v", err)
	}
	if best == nil || !best.Slot.StartTime.Equal(at(10, 14, 0)) {
		t.Fatalf("expected the 14:00 slot, got %+v", best)
	}

	best, err = s.SelectBestSlot(SlotRequest{DurationMinutes: 90}, slots, profile)
	if err != nil {
		t.Fatalf("SelectBestSlot() error = %v", err)
	}
	if best != nil {
		t.Errorf("expected no slot for a 90 minute task, got %s", describeSlot(best.Slot))
	}
}

func TestSelectBestSlot_NoSlots(t *testing.T) {
	s := New(fixedClock(at(10, 8, 0)))
	best, err := s.SelectBestSlot(SlotRequest{DurationMinutes: 30}, nil, models.EnergyProfile{})
	if err != nil || best != nil {
		t.Errorf("SelectBestSlot(nil) = %v, %v; want nil, nil", best, err)
	}
}

func TestSelectBestSlot_TieBreaksOnEarliestStart(t *testing.T) {
	s := New(fixedClock(at(10, 8, 0)))
	slots := []models.AvailableSlot{
		slot(at(12, 14, 0), at(12, 15, 0)),
		slot(at(11, 16, 0), at(11, 17, 0)),
		slot(at(11, 14, 0), at(11, 15, 0)),
	}
	for i := 0; i < 3; i++ {
		best, err := s.SelectBestSlot(SlotRequest{}, slots, models.EnergyProfile{})
		if err != nil {
			t.Fatalf("SelectBestSlot() error = %v", err)
		}
		if !best.Slot.StartTime.Equal(at(11, 14, 0)) {
			t.Fatalf("run %d chose %s, want 2026-03-11 14:00", i, describeSlot(best.Slot))
		}
	}
}

func TestRankSlots_PreferredTimeOfDay(t *testing.T) {
	s := New(fixedClock(at(10, 8, 0)))
	slots := []models.AvailableSlot{
		slot(at(11, 9, 0), at(11, 10, 0)),
		slot(at(11, 13, 0), at(11, 14, 0)),
		slot(at(11, 17, 0), at(11, 18, 0)),
	}

	tests := []struct {
		pref      constants.TimeOfDay
		wantStart []int
	}{
		{constants.TimeOfDayMorning, []int{9}},
		{constants.TimeOfDayAfternoon, []int{13}},
		{constants.TimeOfDayEvening, []int{17}},
		{"", []int{9, 13, 17}},
	}
	for _, tt := range tests {
		ranked, err := s.RankSlots(SlotRequest{PreferredTimeOfDay: tt.pref}, slots, models.EnergyProfile{})
		if err != nil {
			t.Fatalf("RankSlots() error = %v", err)
		}
		if len(ranked) != len(tt.wantStart) {
			t.Fatalf("%q: got %d slots, want %d", tt.pref, len(ranked), len(tt.wantStart))
		}
		for i, h := range tt.wantStart {
			if ranked[i].Slot.StartTime.Hour() != h {
				t.Errorf("%q: slot %d starts at %d, want %d", tt.pref, i, ranked[i].Slot.StartTime.Hour(), h)
			}
		}
	}
}

func TestRankSlots_NegativeDuration(t *testing.T) {
	s := New(fixedClock(at(10, 8, 0)))
	_, err := s.RankSlots(SlotRequest{DurationMinutes: -5}, nil, models.EnergyProfile{})
	if !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestSuggestAlternatives(t *testing.T) {
	s := New(fixedClock(at(10, 8, 0)))
	var slots []models.AvailableSlot
	for h := 9; h < 15; h++ {
		slots = append(slots, slot(at(11, h, 0), at(11, h+1, 0)))
	}

	alts, err := s.SuggestAlternatives(SlotRequest{}, slots, models.EnergyProfile{}, 3)
	if err != nil {
		t.Fatalf("SuggestAlternatives() error = %v", err)
	}
	if len(alts) != 3 {
		t.Fatalf("got %d alternatives, want 3", len(alts))
	}
	for i, want := range []int{10, 11, 12} {
		if alts[i].Slot.StartTime.Hour() != want {
			t.Errorf("alternative %d starts at %d, want %d", i, alts[i].Slot.StartTime.Hour(), want)
		}
	}
}

func TestReasoning(t *testing.T) {
	if got := Reasoning(models.ScoredSlot{}); got != "Fits available time" {
		t.Errorf("Reasoning(empty) = %q", got)
	}
	got := Reasoning(models.ScoredSlot{Reasons: []string{"peak energy hour", "high-energy weekday"}})
	if got != "Peak energy hour, high-energy weekday" {
		t.Errorf("Reasoning() = %q", got)
	}
}
