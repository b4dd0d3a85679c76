package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/sbm/api"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the run, dis and doc commands over HTTP",
		Args:  cobra.NoArgs,
		RunE:  a.serveHandler,
	}
	cmd.Flags().String("addr", "localhost:8080", "address to listen on")
	cmd.Flags().Duration("timeout", api.DefaultTimeout, "maximum duration of a run")
	cmd.Flags().Int("max-steps", api.DefaultMaxSteps, "maximum instructions per run")
	return cmd
}

func (a *app) serveHandler(cmd *cobra.Command, args []string) error {
	handler := api.New(
		api.WithLogger(a.logger),
		api.WithTimeout(a.v.GetDuration("timeout")),
		api.WithMaxSteps(a.v.GetInt("max-steps")),
	)
	srv := &http.Server{
		Addr:              a.v.GetString("addr"),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", srv.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
