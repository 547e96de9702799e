package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/rippleid/internal/http/server"
	"github.com/dropDatabas3/rippleid/internal/observability/logger"
)

func newServeCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP de login",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, cleanup, err := server.Build(ctx, cfg, server.Options{RuntimeCollectors: true})
			if err != nil {
				return err
			}
			defer func() {
				if err := cleanup(); err != nil {
					logger.L().Warn("cleanup failed", logger.Err(err))
				}
			}()

			srv := &http.Server{
				Addr:         cfg.Server.Addr,
				Handler:      app.Handler,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.S().Infof("listening on %s (providers: %v)", cfg.Server.Addr, app.Registry.Names())
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				logger.With(logger.Component("serve")).Info("shutting down")

				sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(sctx)
			})
			return g.Wait()
		},
	}
}
