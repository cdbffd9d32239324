package scheduler

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type testSchedulerConfig struct {
	redisURL string
	queue    string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool  { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string  { return c.queue }
func (c testSchedulerConfig) GetAsynqConcurrency() int   { return 1 }

func TestClient_EnqueueNotificationEmail(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{
		redisURL: "redis://" + mr.Addr(),
		queue:    "crm",
	})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	defer client.Close()

	err = client.EnqueueNotificationEmail(context.Background(), NotificationEmailPayload{
		UserID:  "11111111-1111-1111-1111-111111111111",
		Email:   "sales@example.com",
		Subject: "New lead in the pool",
		Heading: "New lead in the pool",
		Message: "A new website lead is waiting to be claimed.",
	})
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	var sawQueueKey bool
	for _, key := range mr.Keys() {
		if strings.Contains(key, "crm") {
			sawQueueKey = true
		}
	}
	if !sawQueueKey {
		t.Fatalf("expected task data under the crm queue, keys: %v", mr.Keys())
	}
}

func TestClient_RequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatal("expected an error without a redis url")
	}
}

func TestNotificationEmailTask_RoundTrip(t *testing.T) {
	payload := NotificationEmailPayload{
		UserID:  "user-1",
		Email:   "admin@example.com",
		Subject: "Deal closed",
		Heading: "Deal closed",
		Message: "LEAD-000042 was closed with a deal value of 25000.",
	}

	task, err := NewNotificationEmailTask(payload)
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != TaskNotificationEmail {
		t.Fatalf("unexpected task type %s", task.Type())
	}

	parsed, err := ParseNotificationEmailPayload(task)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed != payload {
		t.Fatalf("payload mismatch: %+v", parsed)
	}

	if _, err := ParseNotificationEmailPayload(asynq.NewTask(TaskNotificationEmail, []byte("{"))); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
