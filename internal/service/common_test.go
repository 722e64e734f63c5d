package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"event-reservations/config"
	"event-reservations/internal/model"
	"event-reservations/internal/payment"
	"event-reservations/internal/queue"
	"event-reservations/internal/repository"
	"event-reservations/internal/service"

	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

// fakeCheckout stands in for the payment processor: it records every
// session request and mints predictable references.
type fakeCheckout struct {
	mu       sync.Mutex
	requests []payment.CreateSessionParams
	failNext bool
	counter  int
}

func (f *fakeCheckout) CreateCheckoutSession(ctx context.Context, params payment.CreateSessionParams) (*payment.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		f.failNext = false
		return nil, fmt.Errorf("processor unavailable")
	}
	f.requests = append(f.requests, params)
	f.counter++
	return &payment.CheckoutSession{
		URL:       fmt.Sprintf("https://pay.example.com/checkout/%d", f.counter),
		Reference: fmt.Sprintf("cs_%d", f.counter),
	}, nil
}

func (f *fakeCheckout) lastRequest(t *testing.T) payment.CreateSessionParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

type testEnv struct {
	events       *repository.MemoryEventRepository
	tickets      *repository.MemoryTicketRepository
	ledger       service.LedgerService
	locks        *service.EventLocks
	checkout     *fakeCheckout
	notify       *queue.ChannelNotificationQueue
	reservations service.ReservationService
	admin        service.AdminService
}

func newTestEnv(events ...*model.Event) *testEnv {
	eventRepo := repository.NewMemoryEventRepository(events...)
	ticketRepo := repository.NewMemoryTicketRepository()
	locks := service.NewEventLocks()
	ledger := service.NewLedgerService(eventRepo, ticketRepo)
	checkout := &fakeCheckout{}
	notify := queue.NewChannelNotificationQueue(128)

	cfg := &config.CheckoutConfig{
		Currency:   "ILS",
		SuccessURL: "https://example.com/success",
		CancelURL:  "https://example.com/cancel",
	}

	return &testEnv{
		events:       eventRepo,
		tickets:      ticketRepo,
		ledger:       ledger,
		locks:        locks,
		checkout:     checkout,
		notify:       notify,
		reservations: service.NewReservationService(eventRepo, ticketRepo, ledger, locks, checkout, notify, cfg),
		admin:        service.NewAdminService(eventRepo, ticketRepo, ledger, locks),
	}
}

func freeEvent(id int, maxSeats *int) *model.Event {
	return &model.Event{
		ID:        id,
		Title:     fmt.Sprintf("Lecture %d", id),
		EventDate: time.Now().AddDate(0, 1, 0),
		Price:     0,
		MaxSeats:  maxSeats,
	}
}

func paidEvent(id int, price int64, maxSeats *int) *model.Event {
	e := freeEvent(id, maxSeats)
	e.Price = price
	return e
}

func validRequest(seats int) model.ReserveRequest {
	return model.ReserveRequest{
		HolderName:  "Dana Levi",
		HolderEmail: "dana@example.com",
		HolderPhone: strPtr("+972 54-123-4567"),
		Seats:       seats,
	}
}

func (env *testEnv) reservedSeats(t *testing.T, eventID int) int {
	info, err := env.ledger.ComputeSeatsInfo(context.Background(), eventID)
	require.NoError(t, err)
	return info.ReservedSeats
}
