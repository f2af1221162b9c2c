package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/vkhromov/retail_orders/internal/notify"
)

// Worker consumes notification tasks and executes them. A failed task is
// logged and skipped; retry policy belongs to the queue, not to this code.
type Worker struct {
	Brokers  []string
	GroupID  string
	Topics   []string
	Notifier *notify.Notifier
	Log      *slog.Logger
}

func (w *Worker) Run(ctx context.Context) error {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     w.Brokers,
		GroupID:     w.GroupID,
		GroupTopics: w.Topics,
	})
	defer r.Close()

	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		w.Handle(ctx, m.Value)
	}
}

func (w *Worker) Handle(ctx context.Context, payload []byte) {
	var task notify.Task
	if err := json.Unmarshal(payload, &task); err != nil {
		w.Log.Error("bad task payload", "error", err)
		return
	}

	var err error
	switch task.Type {
	case notify.TaskNewUserRegistered:
		err = w.Notifier.NewUserRegistered(ctx, task.UserID)
	case notify.TaskNewOrder:
		err = w.Notifier.NewOrder(ctx, task.UserID)
	default:
		w.Log.Warn("unknown task type", "type", task.Type)
		return
	}

	if err != nil {
		w.Log.Error("task failed", "type", task.Type, "user_id", task.UserID, "error", err)
	}
}
