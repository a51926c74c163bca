// Package audio renders speed-adjusted copies of audio files with ffmpeg.
package audio

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Speeds are the playback-rate presets, slowest first.
var Speeds = []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75, 2}

const (
	MinSpeed     = 0.25
	MaxSpeed     = 2.0
	DefaultSpeed = 1.0
)

// atempo accepts factors in this range; anything slower is chained.
const (
	atempoMin = 0.5
	atempoMax = 2.0
)

// ErrUnsupportedSpeed is returned for a rate outside [MinSpeed, MaxSpeed].
var ErrUnsupportedSpeed = errors.New("audio: unsupported playback speed")

// ValidateSpeed checks that speed is within the supported range.
func ValidateSpeed(speed float64) error {
	if speed < MinSpeed || speed > MaxSpeed {
		return fmt.Errorf("%w: %sx (want %sx to %sx)", ErrUnsupportedSpeed,
			FormatSpeed(speed), FormatSpeed(MinSpeed), FormatSpeed(MaxSpeed))
	}
	return nil
}

// ParseSpeed reads "1.5" or "1.5x".
func ParseSpeed(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "x"), 64)
	if err != nil {
		return 0, fmt.Errorf("parse speed %q: %w", s, err)
	}
	if err := ValidateSpeed(v); err != nil {
		return 0, err
	}
	return v, nil
}

// FormatSpeed renders a rate without trailing zeros, e.g. 0.25 or 1.
func FormatSpeed(speed float64) string {
	return strconv.FormatFloat(speed, 'f', -1, 64)
}

// AtempoChain builds the ffmpeg audio filter for speed. A single atempo
// only covers 0.5–2.0, so slower rates are split into several stages
// whose product is speed: 0.25 becomes "atempo=0.5,atempo=0.5".
func AtempoChain(speed float64) (string, error) {
	if err := ValidateSpeed(speed); err != nil {
		return "", err
	}

	var stages []string
	for speed < atempoMin {
		stages = append(stages, "atempo="+FormatSpeed(atempoMin))
		speed /= atempoMin
	}
	for speed > atempoMax {
		stages = append(stages, "atempo="+FormatSpeed(atempoMax))
		speed /= atempoMax
	}
	stages = append(stages, "atempo="+FormatSpeed(speed))
	return strings.Join(stages, ","), nil
}

// speedIndex returns the preset closest to speed.
func speedIndex(speed float64) int {
	best := 0
	for i, s := range Speeds {
		if abs(s-speed) < abs(Speeds[best]-speed) {
			best = i
		}
	}
	return best
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
