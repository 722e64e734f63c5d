package model

import "time"

// NotificationType identifies what the dispatcher should send.
type NotificationType string

const (
	NotificationTicketConfirmed NotificationType = "ticket_confirmed"
)

// Notification is the fire-and-forget payload published when a ticket
// becomes CONFIRMED. Delivery is best effort; the reservation itself
// never waits on it.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	TicketID  int              `json:"ticket_id"`
	EventID   int              `json:"event_id"`
	Email     string           `json:"email"`
	CreatedAt time.Time        `json:"created_at"`
}
