package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/retailpulse/retailpulse/internal/app"
	"github.com/retailpulse/retailpulse/internal/auth"
	jobmetrics "github.com/retailpulse/retailpulse/internal/jobs"
	"github.com/retailpulse/retailpulse/internal/platform/db"
	"github.com/retailpulse/retailpulse/internal/shared"
	"github.com/retailpulse/retailpulse/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	auditLogger := shared.NewAuditLogger(pool, logger)
	authService := auth.NewService(auth.NewRepository(pool))
	metrics := jobmetrics.NewMetrics(nil)

	retentionJob := jobs.NewAuditRetentionJob(auditLogger, logger, metrics)
	purgeJob := jobs.NewSessionsPurgeJob(authService, logger, metrics)

	retentionTask, err := jobs.NewAuditRetentionTask(cfg.AuditRetention)
	if err != nil {
		logger.Error("build retention task", slog.Any("error", err))
		os.Exit(1)
	}
	purgeTask, err := jobs.NewSessionsPurgeTask(time.Now().UTC())
	if err != nil {
		logger.Error("build purge task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskAuditRetention, Handler: retentionJob.Handle},
			{Type: jobs.TaskSessionsPurge, Handler: purgeJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "30 2 * * *", Task: retentionTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "45 2 * * *", Task: purgeTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
