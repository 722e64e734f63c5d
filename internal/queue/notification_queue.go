package queue

import (
	"context"

	"event-reservations/internal/model"
	"event-reservations/pkg/logger"

	"go.uber.org/zap"
)

type Delivery struct {
	Data *model.Notification
	Ack  func()
	Nack func(requeue bool)
}

// NotificationQueue decouples confirmation-email dispatch from the
// reservation path. Publishing is fire-and-forget from the caller's
// point of view; the worker drains the queue.
type NotificationQueue interface {
	Publish(ctx context.Context, n *model.Notification) error
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

// ChannelNotificationQueue is the in-process implementation, used in
// tests and single-node deployments without redis.
type ChannelNotificationQueue struct {
	ch chan *model.Notification
}

func NewChannelNotificationQueue(bufferSize int) *ChannelNotificationQueue {
	return &ChannelNotificationQueue{
		ch: make(chan *model.Notification, bufferSize),
	}
}

func (q *ChannelNotificationQueue) Publish(ctx context.Context, n *model.Notification) error {
	select {
	case q.ch <- n:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *ChannelNotificationQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: n,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if !requeue {
							return
						}
						// Never block the worker on a full buffer; a
						// dropped retry is logged, not deadlocked on.
						select {
						case q.ch <- n:
						default:
							logger.WithComponent("mq").Warn("requeue dropped, buffer full",
								zap.String("notification_id", n.ID))
						}
					},
				}
			}
		}
	}()

	return out, nil
}
