// Package notify delivers email notifications through an asynq work queue
// backed by Redis. Producers enqueue and move on; retries and failure
// handling belong to the queue, never to the request that triggered the send.
package notify

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TypeEmailDelivery is the task type for outbound notification emails.
const TypeEmailDelivery = "notify:email"

// emailQueue is the asynq queue notifications are routed to.
const emailQueue = "notifications"

// EmailPayload carries one outbound message.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewEmailTask builds the asynq task for one email delivery.
func NewEmailTask(to, subject, body string) (*asynq.Task, error) {
	payload, err := json.Marshal(EmailPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmailDelivery, payload, asynq.Queue(emailQueue), asynq.MaxRetry(5)), nil
}
