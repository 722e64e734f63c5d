package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"event-reservations/internal/model"

	"github.com/stretchr/testify/mock"
)

var InvalidJSON = `{"invalid": json}`

func createJSONRequest(data interface{}) *bytes.Buffer {
	if raw, ok := data.(string); ok {
		return bytes.NewBufferString(raw)
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBuffer([]byte(""))
	}
	return bytes.NewBuffer(jsonData)
}

func createJSONHTTPRequest(method, url string, data interface{}) *http.Request {
	req, err := http.NewRequest(method, url, createJSONRequest(data))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

// MockReservationService is a hand-rolled testify mock of
// service.ReservationService.
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) Reserve(ctx context.Context, eventID int, req model.ReserveRequest) (*model.ReserveResult, error) {
	args := m.Called(ctx, eventID, req)
	if result := args.Get(0); result != nil {
		return result.(*model.ReserveResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReservationService) GetByAccessToken(ctx context.Context, accessToken string) (*model.Ticket, error) {
	args := m.Called(ctx, accessToken)
	if ticket := args.Get(0); ticket != nil {
		return ticket.(*model.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReservationService) ConfirmPayment(ctx context.Context, reference string) error {
	return m.Called(ctx, reference).Error(0)
}

func (m *MockReservationService) ReleasePayment(ctx context.Context, reference string) error {
	return m.Called(ctx, reference).Error(0)
}

func (m *MockReservationService) SweepExpiredHolds(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

// MockLedgerService is a hand-rolled testify mock of
// service.LedgerService.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) ComputeSeatsInfo(ctx context.Context, eventID int) (model.SeatsInfo, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(model.SeatsInfo), args.Error(1)
}

// MockAdminService is a hand-rolled testify mock of
// service.AdminService.
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) ListTickets(ctx context.Context, eventID int, filter model.TicketFilter) ([]*model.Ticket, error) {
	args := m.Called(ctx, eventID, filter)
	if tickets := args.Get(0); tickets != nil {
		return tickets.([]*model.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAdminService) CheckIn(ctx context.Context, ticketID int) (*model.Ticket, error) {
	args := m.Called(ctx, ticketID)
	if ticket := args.Get(0); ticket != nil {
		return ticket.(*model.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAdminService) SetStatus(ctx context.Context, ticketID int, status model.TicketStatus) (*model.Ticket, error) {
	args := m.Called(ctx, ticketID, status)
	if ticket := args.Get(0); ticket != nil {
		return ticket.(*model.Ticket), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAdminService) ExportTickets(ctx context.Context, w io.Writer, eventID int, filter model.TicketFilter) error {
	args := m.Called(ctx, w, eventID, filter)
	return args.Error(0)
}
