package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"post_syncer/internal/httpapi"
	"post_syncer/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the step API and optionally run scheduled syncs",
	Long: `Starts the HTTP step API used by remote runners, the public media
endpoint and /metrics. With schedule.enabled a full sync also runs on
schedule.interval.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to release resources", "error", err)
		}
	}()

	server := httpapi.NewServer(httpapi.Config{
		Addr:         cfg.HTTP.Addr,
		PublicURL:    cfg.HTTP.PublicURL,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, a.service, a.stores.media, a.stores.blobs, a.registry, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})

	if cfg.Schedule.Enabled {
		sched := scheduler.NewScheduler(newRunner(a.service, cfg, logger), cfg.Schedule.Interval, cfg.Schedule.Timeout, logger)
		g.Go(func() error {
			if err := sched.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("scheduler: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}
