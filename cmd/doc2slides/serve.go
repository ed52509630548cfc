package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/doc-to-slides/internal/server"
)

func serveCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			addr := a.cfg.Server.Addr()
			srv := &http.Server{
				Addr:         addr,
				Handler:      server.NewRouter(a.svc, a.log, server.Options{MaxUploadBytes: a.cfg.Upload.MaxBytes}),
				ReadTimeout:  a.cfg.Server.ReadTimeout,
				WriteTimeout: a.cfg.Server.WriteTimeout,
				IdleTimeout:  a.cfg.Server.IdleTimeout,
			}

			serverErrors := make(chan error, 1)
			go func() {
				a.log.Info().Str("addr", addr).Str("ai", a.cfg.AI.Provider).Msg("HTTP server listening")
				serverErrors <- srv.ListenAndServe()
			}()

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(shutdown)

			select {
			case err := <-serverErrors:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case sig := <-shutdown:
				a.log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
			}

			ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.GracefulShutdown)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				a.log.Error().Err(err).Msg("graceful shutdown failed")
				return srv.Close()
			}
			a.log.Info().Msg("server stopped")
			return nil
		},
	}
}
