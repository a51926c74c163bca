package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hachiman-oct/cbtkit/internal/textsaver"
)

var saveCmd = &cobra.Command{
	Use:   "save [FILE|-]",
	Short: "Save text from a file or stdin as .txt or .md",
	Long: "Save text into the output directory, the same way the Text Saver screen does.\n" +
		"Reads FILE, or stdin when FILE is - or omitted. With --draft, saves the draft\n" +
		"autosaved by the TUI instead.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		formatFlag, _ := cmd.Flags().GetString("format")
		outDir, _ := cmd.Flags().GetString("out")
		fromDraft, _ := cmd.Flags().GetBool("draft")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if outDir == "" {
			outDir = cfg.OutputDir
		}

		var d textsaver.Draft
		if fromDraft {
			if len(args) > 0 {
				return errors.New("--draft does not take a FILE argument")
			}
			d, err = storedDraft(cmd)
			if err != nil {
				return err
			}
		} else {
			d, err = readDraft(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
		}

		if cmd.Flags().Changed("title") {
			d.Title = title
		}
		if cmd.Flags().Changed("format") || d.Format == "" {
			f, err := textsaver.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			d.Format = f
		}

		path, err := textsaver.WriteFile(outDir, d, time.Now())
		if err != nil {
			if errors.Is(err, textsaver.ErrEmptyContent) {
				return errors.New("nothing to save: content is empty")
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	saveCmd.Flags().StringP("title", "t", "", "File name without extension (default: input file name, or memo_YYYYMMDD_HHMMSS)")
	saveCmd.Flags().StringP("format", "f", "txt", "Output format: txt or md")
	saveCmd.Flags().StringP("out", "o", "", "Output directory (overrides CBTKIT_OUTPUT_DIR env var)")
	saveCmd.Flags().Bool("draft", false, "Save the text draft autosaved by the TUI")
}

// readDraft builds a draft from FILE or stdin. A file's base name becomes
// the title.
func readDraft(stdin io.Reader, args []string) (textsaver.Draft, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return textsaver.Draft{}, fmt.Errorf("read stdin: %w", err)
		}
		return textsaver.Draft{Content: string(data)}, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return textsaver.Draft{}, err
	}
	base := filepath.Base(args[0])
	return textsaver.Draft{
		Title:   strings.TrimSuffix(base, filepath.Ext(base)),
		Content: string(data),
	}, nil
}

func storedDraft(cmd *cobra.Command) (textsaver.Draft, error) {
	rt, err := openRuntime(cmd)
	if err != nil {
		return textsaver.Draft{}, err
	}
	defer rt.Close()

	saver := textsaver.New(rt.store.KV(), rt.log)
	if err := saver.Load(cmd.Context()); err != nil {
		return textsaver.Draft{}, fmt.Errorf("load draft: %w", err)
	}
	return saver.Draft(), nil
}
