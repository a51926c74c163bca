package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hachiman-oct/cbtkit/internal/session"
	"github.com/hachiman-oct/cbtkit/internal/textsaver"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved quiz and text draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		kv := rt.store.KV()
		sess := session.New(kv, session.WithLogger(rt.log))
		if err := sess.Load(ctx); err != nil {
			return fmt.Errorf("restore quiz: %w", err)
		}
		saver := textsaver.New(kv, rt.log)
		if err := saver.Load(ctx); err != nil {
			return fmt.Errorf("restore text draft: %w", err)
		}

		keys, err := kv.Keys(ctx, "")
		if err != nil {
			return fmt.Errorf("list stored keys: %w", err)
		}

		out := cmd.OutOrStdout()
		printQuizStatus(out, sess)
		fmt.Fprintln(out)
		printDraftStatus(out, saver.Draft())
		printStoredKeys(out, keys)
		return nil
	},
}

func printQuizStatus(w io.Writer, sess *session.Session) {
	cfg, ok := sess.Config()
	if !ok {
		fmt.Fprintln(w, "Quiz:        not started")
		printConfig(w, "Next setup:  ", sess.SetupDefaults())
		return
	}

	mode := "answering"
	if sess.Mode() == session.ModeGrading {
		mode = "grading"
	}
	fmt.Fprintf(w, "Quiz:        %s\n", mode)
	fmt.Fprintf(w, "Session:     %s\n", sess.ID())
	printConfig(w, "Setup:       ", cfg)
	fmt.Fprintf(w, "Answered:    %d/%d\n", cfg.QuestionCount-sess.UnansweredCount(), cfg.QuestionCount)

	switch sess.Mode() {
	case session.ModeAnswer:
		if cfg.Timed() {
			remaining := sess.State().RemainingSeconds
			if remaining == 0 {
				fmt.Fprintln(w, "Remaining:   0:00 (time up, submits on next launch)")
			} else {
				fmt.Fprintf(w, "Remaining:   %s\n", session.FormatClock(remaining))
			}
		}
	case session.ModeGrading:
		fmt.Fprintf(w, "Key entered: %d/%d\n", cfg.QuestionCount-sess.MissingCorrectCount(), cfg.QuestionCount)
	}
}

func printConfig(w io.Writer, label string, cfg session.Configuration) {
	limit := "no time limit"
	if cfg.Timed() {
		limit = fmt.Sprintf("%d min", cfg.TimeLimitMinutes)
	}
	fmt.Fprintf(w, "%s%d questions, choices %s, %s\n",
		label, cfg.QuestionCount, session.JoinLabels(cfg.ChoiceLabels), limit)
}

func printDraftStatus(w io.Writer, d textsaver.Draft) {
	if !d.HasContent() && strings.TrimSpace(d.Title) == "" {
		fmt.Fprintln(w, "Text draft:  empty")
		return
	}
	title := d.Title
	if strings.TrimSpace(title) == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(w, "Text draft:  %s [%s], %d chars\n", title, d.Format, len([]rune(d.Content)))
}

func printStoredKeys(w io.Writer, keys []string) {
	if len(keys) == 0 {
		fmt.Fprintln(w, "Stored:      nothing")
		return
	}
	fmt.Fprintf(w, "Stored:      %s\n", strings.Join(keys, ", "))
}
