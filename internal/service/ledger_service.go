package service

import (
	"context"

	"event-reservations/internal/model"
	"event-reservations/internal/repository"
)

// LedgerService is the capacity ledger: seat counters derived from the
// ticket store on every read. There is no stored counter to drift.
type LedgerService interface {
	ComputeSeatsInfo(ctx context.Context, eventID int) (model.SeatsInfo, error)
}

type LedgerServiceImpl struct {
	events  repository.EventRepository
	tickets repository.TicketRepository
}

func NewLedgerService(events repository.EventRepository, tickets repository.TicketRepository) LedgerService {
	return &LedgerServiceImpl{events: events, tickets: tickets}
}

func (s *LedgerServiceImpl) ComputeSeatsInfo(ctx context.Context, eventID int) (model.SeatsInfo, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return model.SeatsInfo{}, err
	}
	return s.seatsInfoFor(ctx, event)
}

func (s *LedgerServiceImpl) seatsInfoFor(ctx context.Context, event *model.Event) (model.SeatsInfo, error) {
	reserved, err := s.tickets.SumActiveSeats(ctx, event.ID)
	if err != nil {
		return model.SeatsInfo{}, err
	}

	info := model.SeatsInfo{ReservedSeats: reserved}
	if event.MaxSeats != nil {
		maxSeats := *event.MaxSeats
		available := maxSeats - reserved
		if available < 0 {
			available = 0
		}
		info.MaxSeats = &maxSeats
		info.AvailableSeats = &available
	}
	return info, nil
}
