package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hachiman-oct/cbtkit/internal/audio"
)

var audioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Inspect audio files and render speed-changed copies",
}

var audioInfoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Show duration and stream details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := audio.Probe(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "File:        %s\n", info.Path)
		fmt.Fprintf(out, "Duration:    %s\n", audio.FormatPosition(info.Duration))
		fmt.Fprintf(out, "Format:      %s\n", info.Format)
		if info.Codec != "" {
			fmt.Fprintf(out, "Codec:       %s\n", info.Codec)
		}
		if info.SampleRate > 0 {
			fmt.Fprintf(out, "Sample rate: %d Hz\n", info.SampleRate)
		}
		if info.Channels > 0 {
			fmt.Fprintf(out, "Channels:    %d\n", info.Channels)
		}
		if info.BitRate > 0 {
			fmt.Fprintf(out, "Bit rate:    %d kb/s\n", info.BitRate/1000)
		}
		for _, sp := range audio.Speeds {
			if sp == audio.DefaultSpeed {
				continue
			}
			p := audio.NewPlayer(info)
			p.Speed = sp
			fmt.Fprintf(out, "  at %-5s %s\n", audio.FormatSpeed(sp)+"x", audio.FormatPosition(p.OutputDuration()))
		}
		return nil
	},
}

var audioRenderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Write a copy of FILE played at a different speed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		speedFlag, _ := cmd.Flags().GetString("speed")
		startFlag, _ := cmd.Flags().GetString("start")
		output, _ := cmd.Flags().GetString("output")

		speed, err := audio.ParseSpeed(speedFlag)
		if err != nil {
			return err
		}
		start, err := parseStart(startFlag)
		if err != nil {
			return err
		}

		info, err := audio.Probe(args[0])
		if err != nil {
			return err
		}
		p := audio.NewPlayer(info)
		if err := p.SetSpeed(speed); err != nil {
			return err
		}
		p.Seek(start)

		if output == "" {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			output = filepath.Join(cfg.OutputDir, audio.OutputName(info.Path, speed))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		fmt.Fprintf(cmd.ErrOrStderr(), "Rendering %s at %sx from %s...\n",
			filepath.Base(info.Path), audio.FormatSpeed(speed), audio.FormatPosition(p.Position))
		if err := audio.Render(ctx, p.Job(output)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), output)
		return nil
	},
}

func init() {
	audioRenderCmd.Flags().StringP("speed", "s", "1.5", "Playback speed, one of 0.25 0.5 0.75 1 1.25 1.5 1.75 2")
	audioRenderCmd.Flags().String("start", "0", "Start position: seconds, m:ss, h:mm:ss or a Go duration like 1m30s")
	audioRenderCmd.Flags().StringP("output", "o", "", "Output file (default: <name>_<speed>x.<ext> in the output directory)")

	audioCmd.AddCommand(audioInfoCmd)
	audioCmd.AddCommand(audioRenderCmd)
}

// parseStart accepts "90", "1:30", "1:02:03" or "1m30s".
func parseStart(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("start %q is negative", s)
		}
		return d, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid start %q", s)
	}
	var total float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid start %q", s)
		}
		if i > 0 && v >= 60 {
			return 0, fmt.Errorf("invalid start %q", s)
		}
		total = total*60 + v
	}
	return time.Duration(total * float64(time.Second)), nil
}
