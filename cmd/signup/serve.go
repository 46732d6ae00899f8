package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	signup "github.com/goliatone/go-signup"
	component "github.com/goliatone/go-signup/components/signup"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sign-up wizard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().String("addr", "", "listen address (SIGNUP_ADDR)")
	cmd.Flags().String("base-path", "", "path prefix for every route (SIGNUP_BASE_PATH)")
	cmd.Flags().String("theme-variant", "", "theme variant, e.g. dark (SIGNUP_THEME_VARIANT)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	svc, err := a.service(ctx, signup.WithComponentOptions(
		component.WithRoutePath(a.cfg.RoutePath),
		component.WithThemeVariant(a.cfg.ThemeVariant),
		component.WithSecureCookie(a.cfg.SecureCookie),
		component.WithFinalizeTimeout(a.cfg.BackendTimeout),
	))
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	routes, err := svc.RegisterRoutes(mux, a.cfg.BasePath)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	a.logger.Info("listening", zap.String("addr", a.cfg.Addr), zap.Strings("routes", routes))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return svc.RunSweeper(gctx)
	})
	g.Go(func() error {
		return runServer(gctx, srv, a.cfg.ShutdownTimeout, a.logger)
	})
	return g.Wait()
}

// runServer serves until ctx ends, then shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
