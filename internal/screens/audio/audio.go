// Package audio is the playback-speed screen: pick a file, choose a speed
// and start point, then render a sped-up copy with ffmpeg.
package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	aud "github.com/hachiman-oct/cbtkit/internal/audio"
	"github.com/hachiman-oct/cbtkit/internal/screen"
	"github.com/hachiman-oct/cbtkit/internal/ui/components"
	"github.com/hachiman-oct/cbtkit/internal/ui/layout"
)

type stage int

const (
	stagePath stage = iota
	stageLoaded
)

type probedMsg struct {
	Info aud.Info
	Err  error
}

type renderedMsg struct {
	Path string
	Err  error
}

// AudioScreen drives an audio.Player.
type AudioScreen struct {
	outputDir string
	log       *zap.Logger

	probe  func(path string) (aud.Info, error)
	render func(ctx context.Context, job aud.Job) error

	stage   stage
	input   components.TextInput
	player  *aud.Player
	probing bool

	rendering bool
	cancel    context.CancelFunc

	notice string
	errMsg string
}

var (
	_ screen.Screen          = (*AudioScreen)(nil)
	_ screen.KeyHintProvider = (*AudioScreen)(nil)
	_ screen.EscapeHandler   = (*AudioScreen)(nil)
)

// New creates the screen. Rendered files go into outputDir.
func New(outputDir string, log *zap.Logger) *AudioScreen {
	if log == nil {
		log = zap.NewNop()
	}
	return &AudioScreen{
		outputDir: outputDir,
		log:       log,
		probe:     aud.Probe,
		render:    aud.Render,
		input:     components.NewTextInput("/path/to/lecture.mp3", false, 70),
	}
}

func (s *AudioScreen) Init() tea.Cmd {
	if s.stage == stagePath {
		return s.input.Focus()
	}
	return nil
}

func (s *AudioScreen) Title() string {
	return "Audio Speed"
}

// CapturesEscape keeps Esc on this screen while a render can be cancelled.
func (s *AudioScreen) CapturesEscape() bool {
	return s.rendering
}

func (s *AudioScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case probedMsg:
		s.probing = false
		if msg.Err != nil {
			s.errMsg = probeError(msg.Err)
			s.log.Info("audio probe failed", zap.String("path", s.input.Value()), zap.Error(msg.Err))
			return s, nil
		}
		s.player = aud.NewPlayer(msg.Info)
		s.stage = stageLoaded
		s.errMsg = ""
		s.notice = ""
		s.input.Blur()
		return s, nil

	case renderedMsg:
		s.rendering = false
		s.cancel = nil
		switch {
		case errors.Is(msg.Err, context.Canceled):
			s.errMsg = ""
			s.notice = "Render cancelled"
		case msg.Err != nil:
			s.notice = ""
			s.errMsg = "Render failed: " + msg.Err.Error()
			s.log.Warn("audio render failed", zap.Error(msg.Err))
		default:
			s.errMsg = ""
			s.notice = "Saved " + msg.Path
			s.log.Info("audio rendered", zap.String("output", msg.Path))
		}
		return s, nil

	case tea.KeyMsg:
		if s.stage == stagePath {
			return s.updatePath(msg)
		}
		return s.updateLoaded(msg)
	}

	if s.stage == stagePath {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *AudioScreen) updatePath(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "enter" {
		if s.probing {
			return s, nil
		}
		path := cleanPath(s.input.Value())
		if path == "" {
			s.errMsg = "Enter the path of an audio file."
			return s, nil
		}
		s.input.SetValue(path)
		s.probing = true
		s.errMsg = ""
		probe := s.probe
		return s, func() tea.Msg {
			info, err := probe(path)
			return probedMsg{Info: info, Err: err}
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *AudioScreen) updateLoaded(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.rendering {
		switch msg.String() {
		case "esc", "c":
			if s.cancel != nil {
				s.cancel()
			}
		}
		return s, nil
	}

	switch msg.String() {
	case "left", "h":
		s.player.Back()
	case "right", "l":
		s.player.Forward()
	case "home", "0":
		s.player.Position = 0
	case "up", "k", "+", "=":
		s.player.NextSpeed()
	case "down", "j", "-":
		s.player.PrevSpeed()
	case "o":
		s.stage = stagePath
		s.player = nil
		s.notice = ""
		s.errMsg = ""
		return s, s.input.Focus()
	case "enter":
		return s, s.startRender()
	default:
		return s, nil
	}
	s.notice = ""
	return s, nil
}

func (s *AudioScreen) outputPath() string {
	return filepath.Join(s.outputDir, aud.OutputName(s.player.Info.Path, s.player.Speed))
}

func (s *AudioScreen) startRender() tea.Cmd {
	job := s.player.Job(s.outputPath())
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.rendering = true
	s.notice = ""
	s.errMsg = ""

	s.log.Info("audio render started",
		zap.String("input", job.Input),
		zap.String("output", job.Output),
		zap.Float64("speed", job.Speed),
		zap.Duration("start", job.Start),
	)

	render := s.render
	return func() tea.Msg {
		defer cancel()
		return renderedMsg{Path: job.Output, Err: render(ctx, job)}
	}
}

// cleanPath strips the quotes terminals add when a file is dropped in and
// expands a leading ~/.
func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if len(p) >= 2 && (p[0] == '\'' || p[0] == '"') && p[len(p)-1] == p[0] {
		p = p[1 : len(p)-1]
	}
	if rest, ok := strings.CutPrefix(p, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, rest)
		}
	}
	return p
}

func probeError(err error) string {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "File not found."
	case errors.Is(err, aud.ErrNoAudioStream):
		return "That file has no audio stream."
	default:
		return "Could not read file: " + err.Error()
	}
}

func (s *AudioScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.stage == stagePath:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Load"},
			{Key: "Esc", Description: "Home"},
		}
	case s.rendering:
		return []layout.KeyHint{
			{Key: "Esc", Description: "Cancel render"},
		}
	default:
		return []layout.KeyHint{
			{Key: "←/→", Description: "Seek 5s"},
			{Key: "↑/↓", Description: "Speed"},
			{Key: "0", Description: "Start"},
			{Key: "Enter", Description: "Render"},
			{Key: "O", Description: "Open"},
			{Key: "Esc", Description: "Home"},
		}
	}
}
