package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"post_syncer/internal/config"
	"post_syncer/internal/domain"
	"post_syncer/internal/httpapi"
	"post_syncer/internal/runner"
)

var remoteURL string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one complete sync of every configured target",
	Long: `Drives a full sync step by step, printing progress after every page.
By default steps execute in-process. With --remote the steps are sent to
a running "syncer serve" instance instead.`,
	RunE: runSync,
}

func init() {
	runCmd.Flags().StringVar(&remoteURL, "remote", "", "base URL of a syncer serve instance")
	rootCmd.AddCommand(runCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	var stepper runner.Stepper
	if remoteURL != "" {
		stepper = httpapi.NewClient(remoteURL, cfg.Runner.StepTimeout, logger)
	} else {
		a, err := buildApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				logger.Error("failed to release resources", "error", err)
			}
		}()
		stepper = a.service
	}

	r := newRunner(stepper, cfg, logger)
	r.OnStep(func(cursor domain.SyncCursor, result *domain.StepResult, overall float64) {
		cmd.Printf("%s page %d/%d: synced %d, %d errors (total %d, %.0f%%)\n",
			result.Target, result.Page, result.TotalPages,
			result.SyncedCount, len(result.Errors), cursor.Synced, overall)
		for _, e := range result.Errors {
			cmd.Printf("  %s\n", e)
		}
	})

	summary, err := r.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("sync failed after %d steps: %w", summary.Steps, err)
	}

	cmd.Printf("Sync %s completed: %d synced, %d errors in %s.\n",
		summary.RunID, summary.Synced, len(summary.Errors), summary.Duration.Round(time.Millisecond))
	return nil
}

func newRunner(stepper runner.Stepper, cfg *config.Config, logger *slog.Logger) *runner.Runner {
	return runner.New(stepper, runner.Config{
		MaxAttempts:    cfg.Runner.MaxAttempts,
		InitialBackoff: cfg.Runner.InitialBackoff,
		MaxBackoff:     cfg.Runner.MaxBackoff,
	}, logger)
}
