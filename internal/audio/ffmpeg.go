package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Info is what ffprobe reports about an audio file.
type Info struct {
	Path       string
	Duration   time.Duration
	Format     string
	Codec      string
	SampleRate int
	Channels   int
	BitRate    int64
	Size       int64
}

// ErrNoAudioStream is returned when a probed file carries no audio.
var ErrNoAudioStream = errors.New("audio: no audio stream")

// Probe reads the file's metadata with ffprobe.
func Probe(path string) (Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("audio file: %w", err)
	}
	if fi.IsDir() {
		return Info{}, fmt.Errorf("audio file %s is a directory", path)
	}

	out, err := ffmpeg.Probe(path)
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, err)
	}

	info, err := parseProbe([]byte(out))
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, err)
	}
	info.Path = path
	if info.Size == 0 {
		info.Size = fi.Size()
	}
	return info, nil
}

type probeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
		Size     string `json:"size"`
		BitRate  string `json:"bit_rate"`
		Name     string `json:"format_name"`
	} `json:"format"`
}

func parseProbe(raw []byte) (Info, error) {
	var out probeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return Info{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	var info Info
	found := false
	for _, s := range out.Streams {
		if s.CodecType != "audio" {
			continue
		}
		info.Codec = s.CodecName
		info.Channels = s.Channels
		info.SampleRate, _ = strconv.Atoi(s.SampleRate)
		found = true
		break
	}
	if !found {
		return Info{}, ErrNoAudioStream
	}

	if secs, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
		info.Duration = time.Duration(secs * float64(time.Second))
	}
	info.Size, _ = strconv.ParseInt(out.Format.Size, 10, 64)
	info.BitRate, _ = strconv.ParseInt(out.Format.BitRate, 10, 64)

	info.Format = "unknown"
	if name, _, _ := strings.Cut(out.Format.Name, ","); name != "" {
		info.Format = name
	}
	return info, nil
}

const ffmpegBinary = "ffmpeg"

// Available reports whether the ffmpeg and ffprobe binaries are on PATH.
func Available() bool {
	for _, bin := range []string{ffmpegBinary, "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			return false
		}
	}
	return true
}

// Job is one render: Input from Start onwards at Speed, written to Output.
type Job struct {
	Input  string
	Output string
	Speed  float64
	Start  time.Duration
}

func (j Job) stream() (*ffmpeg.Stream, error) {
	if j.Input == "" || j.Output == "" {
		return nil, errors.New("audio: input and output are required")
	}
	filter, err := AtempoChain(j.Speed)
	if err != nil {
		return nil, err
	}

	in := ffmpeg.KwArgs{}
	if j.Start > 0 {
		in["ss"] = strconv.FormatFloat(j.Start.Seconds(), 'f', 3, 64)
	}
	return ffmpeg.Input(j.Input, in).
		Output(j.Output, ffmpeg.KwArgs{"filter:a": filter}).
		OverWriteOutput(), nil
}

// Args returns the ffmpeg arguments for the job, without the binary name.
func (j Job) Args() ([]string, error) {
	st, err := j.stream()
	if err != nil {
		return nil, err
	}
	return st.GetArgs(), nil
}

// Render runs ffmpeg for job. Cancelling ctx kills the process.
func Render(ctx context.Context, job Job) error {
	args, err := job.Args()
	if err != nil {
		return err
	}
	if abs, err := filepath.Abs(job.Input); err == nil {
		if out, err := filepath.Abs(job.Output); err == nil && abs == out {
			return fmt.Errorf("audio: output would overwrite input %s", job.Input)
		}
	}
	if dir := filepath.Dir(job.Output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	cmd := exec.CommandContext(ctx, ffmpegBinary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, lastLine(stderr.String()))
	}
	return nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
