package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"woosync/internal/config"
	"woosync/internal/lock"
	"woosync/internal/logger"
	"woosync/internal/queue"
	"woosync/internal/sync"
	"woosync/internal/woo"

	"github.com/segmentio/kafka-go"
)

// Worker consumes queued sync events and drives the sync engine. One
// consumer per group processes a partition sequentially, which keeps
// events for the same order in delivery order.
type Worker struct {
	config *config.Config
	logger *logger.Logger
	reader *kafka.Reader
	engine *sync.Engine
	locker *lock.Locker
}

func New(cfg *config.Config, log *logger.Logger, engine *sync.Engine, locker *lock.Locker) *Worker {
	return &Worker{
		config: cfg,
		logger: log,
		reader: queue.NewReader(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaTopic),
		engine: engine,
		locker: locker,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Worker started, listening for sync events...")

	for {
		message, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		var event queue.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		w.handle(ctx, event)
	}
}

func (w *Worker) handle(ctx context.Context, event queue.Event) {
	switch event.Type {
	case queue.EventTypeOrder:
		var order woo.Order
		if err := json.Unmarshal(event.Payload, &order); err != nil {
			w.logger.Error("Failed to parse order payload in event %s: %v", event.ID, err)
			return
		}
		err := w.locker.WithLock(ctx, queue.OrderKey(order.ID), time.Minute, func() {
			w.engine.ProcessOrder(&order)
		})
		if err != nil {
			w.logger.Error("Order %d not processed: %v", order.ID, err)
		}

	case queue.EventTypeCustomer:
		var customer woo.Customer
		if err := json.Unmarshal(event.Payload, &customer); err != nil {
			w.logger.Error("Failed to parse customer payload in event %s: %v", event.ID, err)
			return
		}
		w.engine.ProcessCustomer(&customer)

	default:
		w.logger.Warn("Unknown event type %q in event %s", event.Type, event.ID)
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
