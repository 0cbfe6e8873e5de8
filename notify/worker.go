package notify

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"goreddit/config"
	"goreddit/utils"
)

// Worker consumes notification tasks and delivers them over SMTP.
type Worker struct {
	server *asynq.Server
}

// NewWorker creates the queue consumer. A failed delivery is retried by the
// queue up to the task's MaxRetry with exponential backoff.
func NewWorker(cfg config.AppConfig) *Worker {
	server := asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				emailQueue: 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				utils.Sugar.Warnf("notification task failed type=%s retry=%d/%d err=%v", task.Type(), retried, maxRetry, err)
			}),
		},
	)
	return &Worker{server: server}
}

// Run starts consuming until Shutdown is called. Blocking.
func (w *Worker) Run() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailDelivery, handleEmailDelivery)
	return w.server.Run(mux)
}

// Shutdown stops the consumer, waiting for in-flight tasks.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func handleEmailDelivery(ctx context.Context, task *asynq.Task) error {
	var p EmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		// Malformed payloads will never succeed; drop instead of retrying.
		utils.Sugar.Errorf("dropping malformed notification payload: %v", err)
		return nil
	}
	if err := utils.SendMail(p.To, p.Subject, p.Body); err != nil {
		return err
	}
	utils.Sugar.Infof("notification delivered to=%s subject=%q", p.To, p.Subject)
	return nil
}
