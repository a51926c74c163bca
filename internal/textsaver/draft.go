// Package textsaver keeps a plain-text draft in the key-value store and
// writes it out as a .txt or .md file.
package textsaver

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Format is the file extension the draft is saved with.
type Format string

const (
	FormatTxt Format = "txt"
	FormatMD  Format = "md"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatTxt, FormatMD}

// ErrEmptyContent is returned when saving a draft whose content is blank.
var ErrEmptyContent = errors.New("textsaver: content is empty")

// ParseFormat accepts "txt" or "md", case-insensitively, with or without
// a leading dot.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")) {
	case FormatTxt:
		return FormatTxt, nil
	case FormatMD:
		return FormatMD, nil
	}
	return FormatTxt, fmt.Errorf("unsupported format %q (want txt or md)", s)
}

// Next cycles to the following format.
func (f Format) Next() Format {
	if f == FormatTxt {
		return FormatMD
	}
	return FormatTxt
}

// Draft is the text being edited.
type Draft struct {
	Title   string
	Content string
	Format  Format
}

// HasContent reports whether the title or content holds anything but
// whitespace.
func (d Draft) HasContent() bool {
	return strings.TrimSpace(d.Title) != "" || strings.TrimSpace(d.Content) != ""
}

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

// SanitizeFilename replaces characters that are invalid in file names on
// Windows or Unix with underscores and trims surrounding space.
func SanitizeFilename(name string) string {
	return strings.TrimSpace(invalidFilenameChars.ReplaceAllString(name, "_"))
}

// Filename returns the file name the draft is saved under. A blank title
// falls back to a memo_YYYYMMDD_HHMMSS timestamp.
func Filename(d Draft, now time.Time) string {
	format := d.Format
	if format == "" {
		format = FormatTxt
	}
	if title := strings.TrimSpace(d.Title); title != "" {
		return SanitizeFilename(title) + "." + string(format)
	}
	return "memo_" + now.Format("20060102_150405") + "." + string(format)
}
