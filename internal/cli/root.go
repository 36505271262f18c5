package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gridops/gridassess/internal/config"
	"github.com/gridops/gridassess/internal/logx"
	"github.com/gridops/gridassess/internal/store"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "gridassess",
		Short:        "Grid-leader capability assessment service",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "path to service config YAML")
	cmd.PersistentFlags().Bool("debug", false, "enable verbose logging")

	cmd.AddCommand(
		serveCmd(),
		initCmd(),
		migrateCmd(),
		importCmd(),
		exportCmd(),
		backupCmd(),
		cleanupCmd(),
		checkCmd(),
		addUserCmd(),
	)
	return cmd
}

// app bundles what every subcommand needs.
type app struct {
	cfg    config.Config
	logger logx.Logger
}

func setup(cmd *cobra.Command) (*app, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.Debug = true
	}

	logger, err := logx.NewStdLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, logger: logger}, nil
}

func (a *app) openStore() (*store.Store, error) {
	return store.Open(a.cfg.DatabasePath(), a.logger)
}
