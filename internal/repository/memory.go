package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"event-reservations/internal/model"
	"event-reservations/pkg/apperrors"
)

// MemoryEventRepository is an in-memory EventRepository used by tests
// and local runs without Postgres.
type MemoryEventRepository struct {
	mu     sync.RWMutex
	events map[int]*model.Event
}

func NewMemoryEventRepository(events ...*model.Event) *MemoryEventRepository {
	r := &MemoryEventRepository{events: make(map[int]*model.Event)}
	for _, e := range events {
		r.Put(e)
	}
	return r
}

func (r *MemoryEventRepository) Put(event *model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *event
	r.events[event.ID] = &copied
}

func (r *MemoryEventRepository) FindByID(ctx context.Context, id int) (*model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	event, ok := r.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *MemoryEventRepository) List(ctx context.Context) ([]*model.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	events := make([]*model.Event, 0, len(r.events))
	for _, e := range r.events {
		copied := *e
		events = append(events, &copied)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

// MemoryTicketRepository is an in-memory TicketRepository implementing
// the same contract as the Postgres store.
type MemoryTicketRepository struct {
	mu      sync.RWMutex
	nextID  int
	tickets map[int]*model.Ticket
}

func NewMemoryTicketRepository() *MemoryTicketRepository {
	return &MemoryTicketRepository{
		nextID:  1,
		tickets: make(map[int]*model.Ticket),
	}
}

func (r *MemoryTicketRepository) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *ticket
	copied.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	copied.CreatedAt = now
	copied.UpdatedAt = now
	r.tickets[copied.ID] = &copied

	out := copied
	return &out, nil
}

func (r *MemoryTicketRepository) FindByID(ctx context.Context, id int) (*model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, apperrors.ErrTicketNotFound
	}
	copied := *ticket
	return &copied, nil
}

func (r *MemoryTicketRepository) FindByAccessToken(ctx context.Context, token string) (*model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tickets {
		if t.AccessToken == token {
			copied := *t
			return &copied, nil
		}
	}
	return nil, apperrors.ErrTicketNotFound
}

func (r *MemoryTicketRepository) FindByCheckoutRef(ctx context.Context, ref string) (*model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.tickets {
		if t.CheckoutRef != nil && *t.CheckoutRef == ref {
			copied := *t
			return &copied, nil
		}
	}
	return nil, apperrors.ErrTicketNotFound
}

func (r *MemoryTicketRepository) UpdateStatus(ctx context.Context, id int, status model.TicketStatus) (*model.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, apperrors.ErrTicketNotFound
	}
	ticket.Status = status
	ticket.UpdatedAt = time.Now().UTC()
	copied := *ticket
	return &copied, nil
}

func (r *MemoryTicketRepository) SetCheckoutRef(ctx context.Context, id int, ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return apperrors.ErrTicketNotFound
	}
	ticket.CheckoutRef = &ref
	ticket.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryTicketRepository) ListByEvent(ctx context.Context, eventID int, filter model.TicketFilter) ([]*model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tickets := make([]*model.Ticket, 0)
	for _, t := range r.tickets {
		if t.EventID != eventID || !filter.Matches(t) {
			continue
		}
		copied := *t
		tickets = append(tickets, &copied)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })
	return tickets, nil
}

func (r *MemoryTicketRepository) SumActiveSeats(ctx context.Context, eventID int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, t := range r.tickets {
		if t.EventID == eventID && t.Status.Active() {
			total += t.Seats
		}
	}
	return total, nil
}

func (r *MemoryTicketRepository) ListExpiredPending(ctx context.Context, cutoff time.Time) ([]*model.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tickets := make([]*model.Ticket, 0)
	for _, t := range r.tickets {
		if t.Status == model.TicketStatusPending && t.CreatedAt.Before(cutoff) {
			copied := *t
			tickets = append(tickets, &copied)
		}
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })
	return tickets, nil
}

// SetCreatedAt backdates a ticket; test helper for the hold sweeper.
func (r *MemoryTicketRepository) SetCreatedAt(id int, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tickets[id]; ok {
		t.CreatedAt = at
	}
}
