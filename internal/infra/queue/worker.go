package queue

import (
	"context"
	"encoding/json"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// LeadNotifier delivers the sales alert for a qualified lead.
type LeadNotifier interface {
	NotifyQualifiedLead(ctx context.Context, event LeadCreatedEvent) error
}

// Consumer is the subset of *amqp091.Channel the worker needs.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error)
}

type Worker struct {
	Channel  Consumer
	Notifier LeadNotifier
	Logger   *zap.Logger
}

func NewWorker(ch Consumer, notifier LeadNotifier, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		Channel:  ch,
		Notifier: notifier,
		Logger:   logger,
	}
}

// Start consumes queueName until ctx is cancelled or the delivery channel
// closes. It blocks.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return eris.Wrapf(err, "queue: consume %s", queueName)
	}

	w.Logger.Info("worker waiting for messages", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("worker stopping", zap.String("queue", queueName))
			return nil
		case d, ok := <-msgs:
			if !ok {
				w.Logger.Warn("delivery channel closed", zap.String("queue", queueName))
				return nil
			}
			w.dispatch(ctx, d)
		}
	}
}

func (w *Worker) dispatch(ctx context.Context, d amqp091.Delivery) {
	if err := w.handle(ctx, d.Body); err != nil {
		w.Logger.Error("rejecting message to dead letter queue",
			zap.String("message_id", d.MessageId),
			zap.Error(err),
		)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

// handle returns an error when the message must be dead-lettered.
func (w *Worker) handle(ctx context.Context, body []byte) error {
	var event LeadCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return eris.Wrap(err, "queue: malformed lead.created")
	}

	if !event.Qualified {
		w.Logger.Debug("lead not qualified, no alert", zap.String("lead_id", event.LeadID))
		return nil
	}

	if err := w.Notifier.NotifyQualifiedLead(ctx, event); err != nil {
		return eris.Wrapf(err, "queue: notify qualified lead %s", event.LeadID)
	}

	w.Logger.Info("qualified lead alert sent",
		zap.String("lead_id", event.LeadID),
		zap.Int("score", event.Score),
	)
	return nil
}
