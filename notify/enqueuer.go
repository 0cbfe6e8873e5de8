package notify

import (
	"net"
	"strconv"

	"github.com/hibiken/asynq"

	"goreddit/config"
)

// Enqueuer hands notification emails to the work queue. It satisfies
// services.Notifier.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer creates an Enqueuer connected to the configured Redis.
func NewEnqueuer(cfg config.AppConfig) *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(redisOpt(cfg))}
}

// Notify enqueues one email delivery. Returning an error only means the task
// could not be queued; delivery outcome is never reported back.
func (e *Enqueuer) Notify(to, subject, body string) error {
	task, err := NewEmailTask(to, subject, body)
	if err != nil {
		return err
	}
	_, err = e.client.Enqueue(task)
	return err
}

// Close releases the underlying queue connection.
func (e *Enqueuer) Close() error {
	return e.client.Close()
}

func redisOpt(cfg config.AppConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}
