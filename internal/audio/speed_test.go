package audio

import (
	"errors"
	"testing"
)

func TestAtempoChain(t *testing.T) {
	tests := []struct {
		speed float64
		want  string
	}{
		{0.25, "atempo=0.5,atempo=0.5"},
		{0.5, "atempo=0.5"},
		{0.75, "atempo=0.75"},
		{1, "atempo=1"},
		{1.25, "atempo=1.25"},
		{2, "atempo=2"},
	}
	for _, tt := range tests {
		got, err := AtempoChain(tt.speed)
		if err != nil {
			t.Errorf("AtempoChain(%v): %v", tt.speed, err)
			continue
		}
		if got != tt.want {
			t.Errorf("AtempoChain(%v) = %q, want %q", tt.speed, got, tt.want)
		}
	}
}

func TestAtempoChain_Unsupported(t *testing.T) {
	for _, speed := range []float64{0, 0.1, 2.5, -1} {
		if _, err := AtempoChain(speed); !errors.Is(err, ErrUnsupportedSpeed) {
			t.Errorf("AtempoChain(%v) err = %v, want ErrUnsupportedSpeed", speed, err)
		}
	}
}

func TestParseSpeed(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1.5", 1.5, false},
		{"0.25x", 0.25, false},
		{" 2 ", 2, false},
		{"3", 0, true},
		{"fast", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSpeed(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSpeed(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSpeed(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
