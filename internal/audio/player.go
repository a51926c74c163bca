package audio

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// SeekStep is how far one seek moves the position.
const SeekStep = 5 * time.Second

// Player tracks the loaded file, the playback rate and the position a
// render starts from.
type Player struct {
	Info     Info
	Speed    float64
	Position time.Duration
}

// NewPlayer loads info at normal speed from the beginning.
func NewPlayer(info Info) *Player {
	return &Player{Info: info, Speed: DefaultSpeed}
}

// Seek moves the position by delta, clamped to [0, duration]. With an
// unknown duration only the lower bound applies.
func (p *Player) Seek(delta time.Duration) {
	pos := p.Position + delta
	if pos < 0 {
		pos = 0
	}
	if d := p.Info.Duration; d > 0 && pos > d {
		pos = d
	}
	p.Position = pos
}

// Forward seeks SeekStep ahead.
func (p *Player) Forward() { p.Seek(SeekStep) }

// Back seeks SeekStep back.
func (p *Player) Back() { p.Seek(-SeekStep) }

// SetSpeed changes the playback rate.
func (p *Player) SetSpeed(speed float64) error {
	if err := ValidateSpeed(speed); err != nil {
		return err
	}
	p.Speed = speed
	return nil
}

// NextSpeed steps to the next faster preset, stopping at the fastest.
func (p *Player) NextSpeed() {
	if i := speedIndex(p.Speed); i < len(Speeds)-1 {
		p.Speed = Speeds[i+1]
	}
}

// PrevSpeed steps to the next slower preset, stopping at the slowest.
func (p *Player) PrevSpeed() {
	if i := speedIndex(p.Speed); i > 0 {
		p.Speed = Speeds[i-1]
	}
}

// Remaining is the source time left after the position.
func (p *Player) Remaining() time.Duration {
	if p.Info.Duration <= p.Position {
		return 0
	}
	return p.Info.Duration - p.Position
}

// OutputDuration is how long the rendered file will play.
func (p *Player) OutputDuration() time.Duration {
	return time.Duration(float64(p.Remaining()) / p.Speed)
}

// Job describes the render for the current player state.
func (p *Player) Job(out string) Job {
	return Job{Input: p.Info.Path, Output: out, Speed: p.Speed, Start: p.Position}
}

// OutputName derives the rendered file name: lecture.mp3 at 1.5x becomes
// lecture_1.5x.mp3.
func OutputName(input string, speed float64) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".mp3"
	}
	return fmt.Sprintf("%s_%sx%s", strings.TrimSuffix(base, filepath.Ext(base)), FormatSpeed(speed), ext)
}

// FormatPosition renders a duration as m:ss, or h:mm:ss past an hour.
func FormatPosition(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	if secs >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
