package worker

import (
	"context"

	"event-reservations/internal/model"
	"event-reservations/internal/queue"
	"event-reservations/pkg/logger"

	"go.uber.org/zap"
)

// Dispatcher delivers one notification (the confirmation email). The
// engine only owns the dispatch contract; rendering and SMTP live with
// the CMS.
type Dispatcher interface {
	Dispatch(ctx context.Context, n *model.Notification) error
}

// LogDispatcher records the notification instead of sending it; the
// default when no mail backend is wired.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(ctx context.Context, n *model.Notification) error {
	logger.WithComponent("notify").Info("dispatching notification",
		zap.String("notification_id", n.ID),
		zap.String("type", string(n.Type)),
		zap.Int("ticket_id", n.TicketID),
		zap.String("email", n.Email))
	return nil
}

type NotificationWorker interface {
	Start(ctx context.Context) error
}

type NotificationWorkerImpl struct {
	queue      queue.NotificationQueue
	dispatcher Dispatcher
}

func NewNotificationWorker(q queue.NotificationQueue, dispatcher Dispatcher) NotificationWorker {
	return &NotificationWorkerImpl{
		queue:      q,
		dispatcher: dispatcher,
	}
}

func (w *NotificationWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			err := w.dispatcher.Dispatch(ctx, msg.Data)
			if err != nil {
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}
