package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/gridops/gridassess/internal/auth"
	"github.com/gridops/gridassess/internal/httpapi"
	"github.com/gridops/gridassess/internal/rank"
	"github.com/gridops/gridassess/internal/store"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the assessment API server",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := setup(cmd)
			if err != nil {
				return err
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, st.Close())
			}()

			if err := st.InitSchema(); err != nil {
				return err
			}

			authFile, err := auth.LoadFile(a.cfg.AuthFile)
			if err != nil {
				return err
			}
			authr := auth.New(authFile, a.logger)

			board, err := rank.NewBoard()
			if err != nil {
				return err
			}

			janitor := store.NewJanitor(st, a.cfg.RetentionDays, a.logger)
			janitor.Run(a.cfg.CleanupInterval)
			defer func() {
				err = multierr.Append(err, janitor.Stop(true))
			}()

			srv := httpapi.NewServer(a.cfg, st, authr, board, a.logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Run(ctx)
		},
	}
}
