package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zeusync/simmeta/internal/core/observability/log"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset and serve it over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("listen") {
				root.cfg.Server.Listen = listen
			}
			app := root.app()
			if _, err := app.Library.LoadDataset(cmd.Context()); err != nil {
				app.Logger.Warn("dataset loaded with errors", log.Error(err))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.Server.Start(ctx); err != nil {
				return &ExitError{Code: ExitServerFailure, Cause: err}
			}
			<-ctx.Done()

			if err := app.Server.Stop(context.Background()); err != nil {
				return &ExitError{Code: ExitServerFailure, Cause: err}
			}
			return app.Server.Close()
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address, overrides the config file")
	return cmd
}
