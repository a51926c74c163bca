package session

import (
	"testing"
)

func TestBuildResult(t *testing.T) {
	tests := []struct {
		name     string
		user     []Answer
		correct  []Answer
		score    int
		accuracy string
	}{
		{"mixed", []Answer{0, 1, 2, NoAnswer, 1}, []Answer{0, 1, 1, 2, 1}, 3, "60.0"},
		{"all right", []Answer{1, 1}, []Answer{1, 1}, 2, "100.0"},
		{"none answered", []Answer{NoAnswer, NoAnswer, NoAnswer}, []Answer{0, 0, 0}, 0, "0.0"},
		{"thirds round", []Answer{0, 1, 1}, []Answer{0, 0, 0}, 1, "33.3"},
		{"two thirds round", []Answer{0, 0, 1}, []Answer{0, 0, 0}, 2, "66.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := BuildResult(tt.user, tt.correct)
			if res.Score != tt.score {
				t.Errorf("score = %d, want %d", res.Score, tt.score)
			}
			if got := res.AccuracyText(); got != tt.accuracy {
				t.Errorf("accuracy = %q, want %q", got, tt.accuracy)
			}
			if len(res.Questions) != len(tt.correct) {
				t.Fatalf("questions = %d, want %d", len(res.Questions), len(tt.correct))
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{60, "1:00"},
		{3599, "59:59"},
		{3600, "60:00"},
		{-3, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.secs); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestUrgencyFor(t *testing.T) {
	tests := []struct {
		secs int
		want Urgency
	}{
		{0, UrgencyDanger},
		{60, UrgencyDanger},
		{61, UrgencyWarning},
		{300, UrgencyWarning},
		{301, UrgencyNormal},
	}
	for _, tt := range tests {
		if got := UrgencyFor(tt.secs); got != tt.want {
			t.Errorf("UrgencyFor(%d) = %v, want %v", tt.secs, got, tt.want)
		}
	}
}

func TestParseLabels(t *testing.T) {
	got := ParseLabels(" A, B ,,C,  ")
	want := []string{"A", "B", "C"}
	if len(got) != len(want) {
		t.Fatalf("ParseLabels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d = %q, want %q", i, got[i], want[i])
		}
	}

	if JoinLabels(DefaultLabels(5)) != "A, B, C, D, E" {
		t.Errorf("JoinLabels(DefaultLabels(5)) = %q", JoinLabels(DefaultLabels(5)))
	}
}

func TestModeNames(t *testing.T) {
	for _, m := range []Mode{ModeSetup, ModeAnswer, ModeGrading} {
		got, err := ParseMode(m.String())
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", m.String(), err)
		}
		if got != m {
			t.Errorf("ParseMode(%q) = %v, want %v", m.String(), got, m)
		}
	}
	if _, err := ParseMode("resultsMode"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
