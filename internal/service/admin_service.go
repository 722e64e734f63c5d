package service

import (
	"context"
	"io"

	"event-reservations/internal/export"
	"event-reservations/internal/metrics"
	"event-reservations/internal/model"
	"event-reservations/internal/repository"
	"event-reservations/pkg/apperrors"
)

// AdminService is the staff surface: filtered listings, check-in,
// status overrides and CSV export. Writes go through the same event
// locks as the public reservation path.
type AdminService interface {
	ListTickets(ctx context.Context, eventID int, filter model.TicketFilter) ([]*model.Ticket, error)
	// CheckIn moves a ticket to ATTENDED. Idempotent: checking in an
	// already-ATTENDED ticket is a no-op. Cancelled tickets cannot be
	// checked in.
	CheckIn(ctx context.Context, ticketID int) (*model.Ticket, error)
	// SetStatus is the free-form override. Into CANCELLED releases
	// seats; out of CANCELLED re-runs the capacity check and may fail
	// with ErrSoldOut.
	SetStatus(ctx context.Context, ticketID int, status model.TicketStatus) (*model.Ticket, error)
	ExportTickets(ctx context.Context, w io.Writer, eventID int, filter model.TicketFilter) error
}

type AdminServiceImpl struct {
	events  repository.EventRepository
	tickets repository.TicketRepository
	ledger  LedgerService
	locks   *EventLocks
}

func NewAdminService(
	events repository.EventRepository,
	tickets repository.TicketRepository,
	ledger LedgerService,
	locks *EventLocks,
) AdminService {
	return &AdminServiceImpl{
		events:  events,
		tickets: tickets,
		ledger:  ledger,
		locks:   locks,
	}
}

func (s *AdminServiceImpl) ListTickets(ctx context.Context, eventID int, filter model.TicketFilter) ([]*model.Ticket, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.tickets.ListByEvent(ctx, eventID, filter)
}

func (s *AdminServiceImpl) CheckIn(ctx context.Context, ticketID int) (*model.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(ticket.EventID)
	defer s.locks.Unlock(ticket.EventID)

	// Re-read under the lock; the sweeper or a failure callback may have
	// moved the ticket since the lookup.
	ticket, err = s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if ticket.Status == model.TicketStatusAttended {
		return ticket, nil
	}
	if ticket.Status == model.TicketStatusCancelled {
		return nil, apperrors.ErrInvalidTransition
	}

	updated, err := s.tickets.UpdateStatus(ctx, ticketID, model.TicketStatusAttended)
	if err != nil {
		return nil, err
	}
	metrics.CheckInsTotal.Inc()
	return updated, nil
}

func (s *AdminServiceImpl) SetStatus(ctx context.Context, ticketID int, status model.TicketStatus) (*model.Ticket, error) {
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}

	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(ticket.EventID)
	defer s.locks.Unlock(ticket.EventID)

	// Re-read under the lock: the transition decision must be made
	// against the status the ticket has once we hold it, not the one it
	// had at lookup time.
	ticket, err = s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if ticket.Status == status {
		return ticket, nil
	}
	if !ticket.Status.CanTransitionTo(status) {
		return nil, apperrors.ErrInvalidTransition
	}

	// Reviving a cancelled ticket re-holds its seats, and the event may
	// have sold out in the interim. Same atomic unit as a reservation.
	if ticket.Status == model.TicketStatusCancelled && status.Active() {
		seats, err := s.ledger.ComputeSeatsInfo(ctx, ticket.EventID)
		if err != nil {
			return nil, err
		}
		if !seats.HasRoomFor(ticket.Seats) {
			return nil, apperrors.ErrSoldOut
		}
	}

	return s.tickets.UpdateStatus(ctx, ticketID, status)
}

func (s *AdminServiceImpl) ExportTickets(ctx context.Context, w io.Writer, eventID int, filter model.TicketFilter) error {
	tickets, err := s.ListTickets(ctx, eventID, filter)
	if err != nil {
		return err
	}
	return export.WriteCSV(w, tickets)
}
