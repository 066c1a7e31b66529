package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"ytscribe/internal/api"
	"ytscribe/internal/config"
	"ytscribe/internal/logging"
	"ytscribe/internal/pipeline"
	"ytscribe/internal/preflight"
	"ytscribe/internal/staging"
)

// staleWorkDirAge bounds how long an abandoned work directory survives a
// restart.
const staleWorkDirAge = 6 * time.Hour

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP transcription service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), ctx)
		},
	}
}

func runServe(cmdCtx context.Context, ctx *commandContext) error {
	if cmdCtx == nil {
		cmdCtx = context.Background()
	}
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	lock, acquired, err := staging.AcquireLock(cfg.Paths.StagingDir)
	if err != nil {
		return fmt.Errorf("acquire staging lock: %w", err)
	}
	if !acquired {
		return fmt.Errorf("another ytscribe server is using %s", cfg.Paths.StagingDir)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("release staging lock", logging.Error(err))
		}
	}()

	cleanStaleWorkDirs(signalCtx, cfg, logger)
	reportPreflight(signalCtx, cfg, logger)

	gin.SetMode(gin.ReleaseMode)
	srv, err := api.NewServer(cfg, pipeline.NewFromConfig(cfg, logger), logger)
	if err != nil {
		return err
	}
	return srv.Run(signalCtx)
}

func cleanStaleWorkDirs(ctx context.Context, cfg *config.Config, logger *slog.Logger) {
	result := staging.CleanStale(ctx, cfg.Paths.StagingDir, staleWorkDirAge, logger)
	if len(result.Removed) > 0 {
		logger.Info("removed stale work directories",
			logging.Int("count", len(result.Removed)),
			logging.String(logging.FieldEventType, "staging_cleanup"),
		)
	}
	for _, failure := range result.Errors {
		logging.WarnWithContext(logger, "stale work directory not removed", "staging_cleanup_failed",
			logging.String("path", failure.Path),
			logging.Error(failure.Error),
			logging.String(logging.FieldErrorHint, "check staging_dir permissions"),
		)
	}
}

func reportPreflight(ctx context.Context, cfg *config.Config, logger *slog.Logger) {
	for _, status := range preflight.CheckSystemDeps(ctx, cfg) {
		if status.Available || status.Optional {
			continue
		}
		logging.WarnWithContext(logger, "dependency unavailable", "dependency_missing",
			logging.String("dependency", status.Name),
			logging.String("detail", status.Detail),
			logging.String(logging.FieldErrorHint, "install it or fix the configured command"),
			logging.String(logging.FieldImpact, "transcription requests will fail"),
		)
	}
	for _, result := range preflight.RunAll(ctx, cfg) {
		if result.Passed {
			continue
		}
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
		)
	}
}
