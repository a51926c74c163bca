package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hachiman-oct/cbtkit/internal/config"
	"github.com/hachiman-oct/cbtkit/internal/logging"
	"github.com/hachiman-oct/cbtkit/internal/store"
)

// runtime is what every command needs: settings, a logger and the store.
type runtime struct {
	cfg      config.Config
	log      *zap.Logger
	store    *store.Store
	closeLog func() error
}

// loadConfig reads the environment and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("log-file"); p != "" {
		cfg.LogFile = p
	}
	return cfg, nil
}

// openRuntime sets up logging and opens the store. Callers must Close it.
func openRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, closeLog, err := logging.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("set up logging: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open store: %w", err)
	}

	log.Debug("store opened", zap.String("path", dbPath), zap.String("command", cmd.Name()))
	return &runtime{cfg: cfg, log: log, store: st, closeLog: closeLog}, nil
}

func (r *runtime) Close() {
	if err := r.store.Close(); err != nil {
		r.log.Warn("close store", zap.Error(err))
	}
	r.closeLog()
}
