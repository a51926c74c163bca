package textsaver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hachiman-oct/cbtkit/internal/store"
)

// Storage keys for the autosaved draft.
const (
	TitleKey   = "textSaver_title"
	ContentKey = "textSaver_content"
	FormatKey  = "textSaver_format"
)

// Saver owns the draft and mirrors every edit into the store.
type Saver struct {
	kv    store.KV
	log   *zap.Logger
	draft Draft
}

// New creates a Saver with an empty txt draft. Call Load to pick up an
// autosaved one.
func New(kv store.KV, log *zap.Logger) *Saver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Saver{
		kv:    kv,
		log:   log,
		draft: Draft{Format: FormatTxt},
	}
}

// Load restores the autosaved draft. Missing keys keep their defaults and
// an unknown stored format falls back to txt.
func (s *Saver) Load(ctx context.Context) error {
	title, ok, err := s.kv.Get(ctx, TitleKey)
	if err != nil {
		return fmt.Errorf("load draft title: %w", err)
	}
	if ok {
		s.draft.Title = title
	}

	content, ok, err := s.kv.Get(ctx, ContentKey)
	if err != nil {
		return fmt.Errorf("load draft content: %w", err)
	}
	if ok {
		s.draft.Content = content
	}

	raw, ok, err := s.kv.Get(ctx, FormatKey)
	if err != nil {
		return fmt.Errorf("load draft format: %w", err)
	}
	if ok {
		if f, err := ParseFormat(raw); err == nil && string(f) == raw {
			s.draft.Format = f
		}
	}
	return nil
}

// Draft returns the current draft.
func (s *Saver) Draft() Draft {
	return s.draft
}

// HasContent reports whether clearing would discard anything.
func (s *Saver) HasContent() bool {
	return s.draft.HasContent()
}

// SetTitle updates the title and autosaves.
func (s *Saver) SetTitle(title string) {
	if s.draft.Title == title {
		return
	}
	s.draft.Title = title
	s.persist()
}

// SetContent updates the content and autosaves.
func (s *Saver) SetContent(content string) {
	if s.draft.Content == content {
		return
	}
	s.draft.Content = content
	s.persist()
}

// SetFormat switches the output format and autosaves.
func (s *Saver) SetFormat(f Format) error {
	parsed, err := ParseFormat(string(f))
	if err != nil {
		return err
	}
	s.draft.Format = parsed
	s.persist()
	return nil
}

// Clear empties the draft, resets the format to txt and removes the
// autosaved keys.
func (s *Saver) Clear() {
	s.draft = Draft{Format: FormatTxt}
	ctx := context.Background()
	for _, key := range []string{TitleKey, ContentKey, FormatKey} {
		if err := s.kv.Remove(ctx, key); err != nil {
			s.log.Warn("failed to remove draft key", zap.String("key", key), zap.Error(err))
		}
	}
}

// Save writes the draft into dir and returns the path written.
func (s *Saver) Save(dir string, now time.Time) (string, error) {
	path, err := WriteFile(dir, s.draft, now)
	if err != nil {
		return "", err
	}
	s.log.Info("draft saved", zap.String("path", path), zap.Int("bytes", len(s.draft.Content)))
	return path, nil
}

// persist writes all three keys, the way every edit is mirrored.
func (s *Saver) persist() {
	ctx := context.Background()
	values := [][2]string{
		{TitleKey, s.draft.Title},
		{ContentKey, s.draft.Content},
		{FormatKey, string(s.draft.Format)},
	}
	for _, kv := range values {
		if err := s.kv.Set(ctx, kv[0], kv[1]); err != nil {
			s.log.Warn("failed to autosave draft", zap.String("key", kv[0]), zap.Error(err))
		}
	}
}

// WriteFile writes d.Content as UTF-8 into dir under Filename(d, now).
// An existing file is never overwritten; a " (n)" suffix is added instead.
func WriteFile(dir string, d Draft, now time.Time) (string, error) {
	if strings.TrimSpace(d.Content) == "" {
		return "", ErrEmptyContent
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	name := Filename(d, now)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", base, i, ext)
		}
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create %s: %w", candidate, err)
		}
		if _, err := f.WriteString(d.Content); err != nil {
			f.Close()
			return "", fmt.Errorf("write %s: %w", candidate, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close %s: %w", candidate, err)
		}
		return path, nil
	}
}
