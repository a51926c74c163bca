package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hachiman-oct/cbtkit/internal/app"
	"github.com/hachiman-oct/cbtkit/internal/audio"
	"github.com/hachiman-oct/cbtkit/internal/session"
	"github.com/hachiman-oct/cbtkit/internal/textsaver"
)

// runApp opens the store, restores saved state, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	kv := rt.store.KV()
	sess := session.New(kv, session.WithLogger(rt.log))
	if err := sess.RestoreOnLaunch(ctx); err != nil {
		return fmt.Errorf("restore quiz: %w", err)
	}
	saver := textsaver.New(kv, rt.log)
	if err := saver.Load(ctx); err != nil {
		return fmt.Errorf("restore text draft: %w", err)
	}

	opts := app.Options{
		Session:        sess,
		Saver:          saver,
		OutputDir:      rt.cfg.OutputDir,
		Logger:         rt.log,
		AudioAvailable: audio.Available(),
	}
	rt.log.Info("starting",
		zap.String("version", version),
		zap.Stringer("quiz_mode", sess.Mode()),
		zap.Bool("audio", opts.AudioAvailable),
	)
	return app.Run(opts)
}
