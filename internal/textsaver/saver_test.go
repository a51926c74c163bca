package textsaver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hachiman-oct/cbtkit/internal/store"
)

var fixedNow = time.Date(2026, 10, 19, 14, 30, 0, 0, time.Local)

func TestSaver_AutosavesEveryEdit(t *testing.T) {
	kv := store.NewMemKV()
	s := New(kv, nil)
	ctx := context.Background()

	s.SetContent("hello")
	v, ok, _ := kv.Get(ctx, ContentKey)
	require.True(t, ok)
	assert.Equal(t, "hello", v)

	// Every edit mirrors all three keys.
	f, ok, _ := kv.Get(ctx, FormatKey)
	require.True(t, ok)
	assert.Equal(t, "txt", f)

	s.SetTitle("memo")
	require.NoError(t, s.SetFormat(FormatMD))

	restored := New(kv, nil)
	require.NoError(t, restored.Load(ctx))
	assert.Equal(t, Draft{Title: "memo", Content: "hello", Format: FormatMD}, restored.Draft())
}

func TestSaver_LoadUnknownFormatFallsBack(t *testing.T) {
	kv := store.NewMemKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, FormatKey, "docx"))
	require.NoError(t, kv.Set(ctx, ContentKey, "body"))

	s := New(kv, nil)
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, FormatTxt, s.Draft().Format)
	assert.Equal(t, "body", s.Draft().Content)
}

func TestSaver_SetFormatRejectsUnknown(t *testing.T) {
	s := New(store.NewMemKV(), nil)
	assert.Error(t, s.SetFormat("pdf"))
	assert.Equal(t, FormatTxt, s.Draft().Format)
}

func TestSaver_ClearRemovesKeys(t *testing.T) {
	kv := store.NewMemKV()
	s := New(kv, nil)
	s.SetTitle("t")
	s.SetContent("c")
	require.NoError(t, s.SetFormat(FormatMD))
	require.Equal(t, 3, kv.Len())

	s.Clear()
	assert.Equal(t, 0, kv.Len())
	assert.Equal(t, Draft{Format: FormatTxt}, s.Draft())
	assert.False(t, s.HasContent())
}

func TestSaver_SaveWritesFile(t *testing.T) {
	dir := t.TempDir()
	s := New(store.NewMemKV(), nil)
	s.SetTitle("Notes/1")
	s.SetContent("line one\nline two\n")

	path, err := s.Save(dir, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Notes_1.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(data))
}

func TestSaver_SaveEmptyContent(t *testing.T) {
	s := New(store.NewMemKV(), nil)
	s.SetTitle("only a title")
	s.SetContent("   \n")

	_, err := s.Save(t.TempDir(), fixedNow)
	assert.True(t, errors.Is(err, ErrEmptyContent))
}

func TestWriteFile_DoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	d := Draft{Content: "x", Format: FormatMD}

	first, err := WriteFile(dir, d, fixedNow)
	require.NoError(t, err)
	second, err := WriteFile(dir, d, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "memo_20261019_143000.md"), first)
	assert.Equal(t, filepath.Join(dir, "memo_20261019_143000 (1).md"), second)
}

func TestWriteFile_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	path, err := WriteFile(dir, Draft{Title: "a", Content: "b", Format: FormatTxt}, fixedNow)
	require.NoError(t, err)
	assert.FileExists(t, path)
}
