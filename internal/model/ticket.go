package model

import (
	"regexp"
	"strings"
	"time"
)

// TicketStatus is the ticket state machine.
type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "pending"
	TicketStatusConfirmed TicketStatus = "confirmed"
	TicketStatusAttended  TicketStatus = "attended"
	TicketStatusCancelled TicketStatus = "cancelled"
)

func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusPending, TicketStatusConfirmed, TicketStatusAttended, TicketStatusCancelled:
		return true
	}
	return false
}

// Active reports whether the status counts toward reserved seats.
// PENDING holds seats on purpose: a paid reservation keeps its seats
// while the purchaser is at the checkout.
func (s TicketStatus) Active() bool {
	switch s {
	case TicketStatusPending, TicketStatusConfirmed, TicketStatusAttended:
		return true
	}
	return false
}

// CanTransitionTo checks a status override against the state machine.
// Same-status transitions are no-ops and always allowed (check-in and
// payment callbacks are idempotent). PENDING only exists at creation,
// nothing transitions back into it. Leaving CANCELLED is allowed but
// the caller must re-run the capacity check first.
func (s TicketStatus) CanTransitionTo(target TicketStatus) bool {
	if !target.IsValid() {
		return false
	}
	if s == target {
		return true
	}
	if target == TicketStatusPending {
		return false
	}
	if s == TicketStatusCancelled {
		return target == TicketStatusConfirmed || target == TicketStatusAttended
	}
	return true
}

// Ticket is a persisted reservation. ID is internal (admin-facing only);
// AccessToken is the purchaser's sole credential. Tickets are never
// deleted, cancellation is a status transition.
type Ticket struct {
	ID          int          `json:"id" db:"id"`
	EventID     int          `json:"event_id" db:"event_id"`
	AccessToken string       `json:"access_token" db:"access_token"`
	HolderName  string       `json:"holder_name" db:"holder_name"`
	HolderEmail string       `json:"holder_email" db:"holder_email"`
	HolderPhone *string      `json:"holder_phone,omitempty" db:"holder_phone"`
	Seats       int          `json:"seats" db:"seats"`
	Status      TicketStatus `json:"status" db:"status"`
	Notes       *string      `json:"notes,omitempty" db:"notes"`
	CheckoutRef *string      `json:"-" db:"checkout_ref"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

const (
	MinSeatsPerTicket = 1
	MaxSeatsPerTicket = 4
)

var (
	emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneChars = regexp.MustCompile(`^[0-9+()\-\s]+$`)
)

// ReserveRequest is the public reservation payload.
type ReserveRequest struct {
	HolderName  string  `json:"holder_name" binding:"required"`
	HolderEmail string  `json:"holder_email" binding:"required"`
	HolderPhone *string `json:"holder_phone"`
	Seats       int     `json:"seats" binding:"required"`
	Notes       *string `json:"notes"`
}

// Validate applies the admission preconditions: seat count in range,
// non-empty name, email shape, loose phone charset.
func (r *ReserveRequest) Validate() bool {
	if r.Seats < MinSeatsPerTicket || r.Seats > MaxSeatsPerTicket {
		return false
	}
	if strings.TrimSpace(r.HolderName) == "" {
		return false
	}
	if !emailShape.MatchString(r.HolderEmail) {
		return false
	}
	if r.HolderPhone != nil && *r.HolderPhone != "" && !phoneChars.MatchString(*r.HolderPhone) {
		return false
	}
	return true
}

// ReserveResult is what the reservation service hands back: a CONFIRMED
// ticket on the free path, a checkout URL on the paid path.
type ReserveResult struct {
	Ticket      *Ticket `json:"ticket,omitempty"`
	CheckoutURL string  `json:"checkout_url,omitempty"`
}

// TicketFilter narrows admin listings and exports. Search is a
// case-insensitive substring match over holder name, email and phone.
type TicketFilter struct {
	Search string
	Status TicketStatus
}

// Matches applies the filter in memory; the Postgres store applies the
// same predicate in SQL.
func (f TicketFilter) Matches(t *Ticket) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		phone := ""
		if t.HolderPhone != nil {
			phone = *t.HolderPhone
		}
		if !strings.Contains(strings.ToLower(t.HolderName), needle) &&
			!strings.Contains(strings.ToLower(t.HolderEmail), needle) &&
			!strings.Contains(strings.ToLower(phone), needle) {
			return false
		}
	}
	return true
}
