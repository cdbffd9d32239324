package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskNotificationEmail = "notifications.email"

// NotificationEmailPayload carries a rendered notification to the worker for
// SMTP delivery.
type NotificationEmailPayload struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Heading string `json:"heading"`
	Message string `json:"message"`
}

func NewNotificationEmailTask(payload NotificationEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationEmail, data), nil
}

func ParseNotificationEmailPayload(task *asynq.Task) (NotificationEmailPayload, error) {
	var payload NotificationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return NotificationEmailPayload{}, err
	}
	return payload, nil
}
