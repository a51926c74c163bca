package audio

import (
	"fmt"
	"path/filepath"
	"strings"

	"charm.land/lipgloss/v2"

	aud "github.com/hachiman-oct/cbtkit/internal/audio"
	"github.com/hachiman-oct/cbtkit/internal/ui/components"
	"github.com/hachiman-oct/cbtkit/internal/ui/theme"
)

func (s *AudioScreen) View(width, height int) string {
	var body string
	if s.stage == stagePath {
		body = s.renderPath()
	} else {
		body = s.renderLoaded(width)
	}

	switch {
	case s.errMsg != "":
		body += "\n\n" + theme.Problem.Render(s.errMsg)
	case s.notice != "":
		body += "\n\n" + theme.Notice.Render(s.notice)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *AudioScreen) renderPath() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Load an audio file"))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")
	if s.probing {
		b.WriteString(theme.Hint.Render("Reading file..."))
	} else {
		b.WriteString(theme.Hint.Render("Rendered copies are saved into " + s.outputDir))
	}
	return b.String()
}

func (s *AudioScreen) renderLoaded(width int) string {
	p := s.player
	info := p.Info

	var b strings.Builder
	b.WriteString(theme.Title.Render(filepath.Base(info.Path)))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(describe(info)))
	b.WriteString("\n\n")

	barWidth := width - 30
	if barWidth > 64 {
		barWidth = 64
	}
	if barWidth < 24 {
		barWidth = 24
	}
	bar := components.NewProgressBar("Start", int(p.Position.Seconds()), int(info.Duration.Seconds()), barWidth)
	bar.Caption = aud.FormatPosition(p.Position) + " / " + aud.FormatPosition(info.Duration)
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	b.WriteString(theme.Label.Render("Speed  "))
	b.WriteString(renderSpeeds(p.Speed))
	b.WriteString("\n\n")

	b.WriteString(theme.Body.Render(fmt.Sprintf("Output %s  (%s)", s.outputPath(), aud.FormatPosition(p.OutputDuration()))))
	if s.rendering {
		b.WriteString("\n\n")
		b.WriteString(theme.Subtitle.Render("Rendering..."))
	}
	return b.String()
}

func describe(info aud.Info) string {
	parts := []string{info.Format}
	if info.Codec != "" {
		parts = append(parts, info.Codec)
	}
	if info.SampleRate > 0 {
		parts = append(parts, fmt.Sprintf("%d Hz", info.SampleRate))
	}
	if info.Channels > 0 {
		parts = append(parts, fmt.Sprintf("%d ch", info.Channels))
	}
	return strings.Join(parts, " · ")
}

func renderSpeeds(current float64) string {
	var parts []string
	for _, sp := range aud.Speeds {
		label := aud.FormatSpeed(sp) + "x"
		if sp == current {
			parts = append(parts, theme.ChoiceActive.Render(label))
		} else {
			parts = append(parts, theme.ChoiceInactive.Render(label))
		}
	}
	return strings.Join(parts, " ")
}
