package scheduler

import (
	"context"
	"fmt"

	"academy_crm_backend/internal/email"
	"academy_crm_backend/platform/config"
	"academy_crm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker runs the asynq server and delivers queued notification emails.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sender email.Sender
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		sender: sender,
		log:    log,
	}

	mux.HandleFunc(TaskNotificationEmail, w.handleNotificationEmail)

	return w, nil
}

// Run blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()
	return w.server.Run(w.mux)
}

func (w *Worker) handleNotificationEmail(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseNotificationEmailPayload(task)
	if err != nil {
		return err
	}

	if err := w.sender.SendNotificationEmail(ctx, payload.Email, payload.Subject, payload.Heading, payload.Message); err != nil {
		w.log.Error("notification email delivery failed",
			"user_id", payload.UserID, "error", err.Error())
		return err
	}

	w.log.Info("notification email delivered", "user_id", payload.UserID)
	return nil
}
