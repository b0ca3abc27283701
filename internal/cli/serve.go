package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/doxymark/internal/api"
	"github.com/dgallion1/doxymark/internal/pipeline"
	"github.com/dgallion1/doxymark/internal/watch"
)

func (a *app) newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Convert, then preview the generated Markdown over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Serve.Addr = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides serve.addr")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}
	orch := pipeline.NewOrchestrator(a.cfg, a.log)

	// A failed first conversion still leaves the server up for rebuilds.
	if err := a.runOnce(ctx, orch); err != nil {
		a.log.Warn("initial conversion failed", "error", err)
	}

	httpServer := &http.Server{
		Addr:         a.cfg.Serve.Addr,
		Handler:      api.NewServer(orch, a.cfg.Serve.Token, a.log),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("starting preview server", "addr", a.cfg.Serve.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	if a.watch {
		g.Go(func() error {
			return watch.New(a.cfg.Directory, a.cfg.Watch.Debounce, func(ctx context.Context) error {
				return a.runOnce(ctx, orch)
			}, a.log).Watch(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
