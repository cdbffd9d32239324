package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"academy_crm_backend/internal/email"
	"academy_crm_backend/internal/scheduler"
	"academy_crm_backend/platform/config"
	"academy_crm_backend/platform/logger"
)

// The worker process drains the Redis task queue: it delivers notification
// emails over SMTP so the API never blocks on a mail server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.AsynqQueueName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender := email.NewSender(cfg)
	if !cfg.EmailEnabled {
		log.Warn("EMAIL_ENABLED is false; queued emails will be dropped")
	}

	worker, err := scheduler.NewWorker(cfg, sender, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	if err := worker.Run(ctx); err != nil {
		log.Error("worker stopped", "error", err)
		panic("worker stopped: " + err.Error())
	}
}
