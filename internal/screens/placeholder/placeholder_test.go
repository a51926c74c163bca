package placeholder

import (
	"strings"
	"testing"
)

func TestPlaceholderView(t *testing.T) {
	p := New("Audio Speed", "ffmpeg was not found.")
	if p.Title() != "Audio Speed" {
		t.Errorf("Title() = %q", p.Title())
	}
	out := p.View(80, 20)
	for _, want := range []string{"Audio Speed unavailable", "ffmpeg was not found.", "Esc"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if s, cmd := p.Update(nil); s != p || cmd != nil {
		t.Error("Update should be a no-op")
	}
}
