package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hachiman-oct/cbtkit/internal/session"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase the saved quiz and its configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		out := cmd.OutOrStdout()
		if !yes {
			yes, err = confirm(cmd.InOrStdin(), out, "Erase the saved quiz and all its progress? [y/N]: ")
			if err != nil {
				return err
			}
		}

		sess := session.New(rt.store.KV(), session.WithLogger(rt.log))
		if err := sess.Reset(yes); err != nil {
			if errors.Is(err, session.ErrConfirmationRequired) {
				fmt.Fprintln(out, "Nothing erased.")
				return nil
			}
			return fmt.Errorf("reset quiz: %w", err)
		}
		fmt.Fprintln(out, "Saved quiz erased.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}

// confirm asks a yes/no question on w and reads the answer from r. Anything
// but y or yes counts as no.
func confirm(r io.Reader, w io.Writer, prompt string) (bool, error) {
	fmt.Fprint(w, prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
