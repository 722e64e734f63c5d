package service

import (
	"context"
	"fmt"
	"time"

	"event-reservations/config"
	"event-reservations/internal/metrics"
	"event-reservations/internal/model"
	"event-reservations/internal/payment"
	"event-reservations/internal/queue"
	"event-reservations/internal/repository"
	"event-reservations/pkg/apperrors"
	"event-reservations/pkg/logger"
	"event-reservations/pkg/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReservationService owns the admission-control protocol: the free and
// paid issuance paths, the payment confirmation transitions, token
// lookup and the expired-hold sweep.
type ReservationService interface {
	Reserve(ctx context.Context, eventID int, req model.ReserveRequest) (*model.ReserveResult, error)
	GetByAccessToken(ctx context.Context, accessToken string) (*model.Ticket, error)
	// ConfirmPayment and ReleasePayment consume processor callbacks.
	// Both are idempotent under at-least-once delivery: a callback for
	// a ticket no longer PENDING is a logged no-op.
	ConfirmPayment(ctx context.Context, reference string) error
	ReleasePayment(ctx context.Context, reference string) error
	// SweepExpiredHolds cancels PENDING tickets created before cutoff,
	// returning how many were released.
	SweepExpiredHolds(ctx context.Context, cutoff time.Time) (int, error)
}

type ReservationServiceImpl struct {
	events   repository.EventRepository
	tickets  repository.TicketRepository
	ledger   LedgerService
	locks    *EventLocks
	checkout payment.Client
	notify   queue.NotificationQueue
	cfg      *config.CheckoutConfig
}

func NewReservationService(
	events repository.EventRepository,
	tickets repository.TicketRepository,
	ledger LedgerService,
	locks *EventLocks,
	checkout payment.Client,
	notify queue.NotificationQueue,
	cfg *config.CheckoutConfig,
) ReservationService {
	return &ReservationServiceImpl{
		events:   events,
		tickets:  tickets,
		ledger:   ledger,
		locks:    locks,
		checkout: checkout,
		notify:   notify,
		cfg:      cfg,
	}
}

func (s *ReservationServiceImpl) Reserve(ctx context.Context, eventID int, req model.ReserveRequest) (*model.ReserveResult, error) {
	if !req.Validate() {
		metrics.ReservationsTotal.WithLabelValues("invalid").Inc()
		return nil, apperrors.ErrValidation
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.RegistrationClosed {
		metrics.ReservationsTotal.WithLabelValues("closed").Inc()
		return nil, apperrors.ErrRegistrationClosed
	}

	// The capacity check and the insert must be one atomic unit per
	// event, otherwise two racing requests can both see spare capacity
	// and both write.
	s.locks.Lock(event.ID)
	defer s.locks.Unlock(event.ID)

	seats, err := s.ledger.ComputeSeatsInfo(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	if !seats.HasRoomFor(req.Seats) {
		metrics.ReservationsTotal.WithLabelValues("sold_out").Inc()
		return nil, apperrors.ErrSoldOut
	}

	accessToken, err := token.NewAccessToken()
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	status := model.TicketStatusConfirmed
	if !event.IsFree() {
		status = model.TicketStatusPending
	}

	ticket, err := s.tickets.Create(ctx, &model.Ticket{
		EventID:     event.ID,
		AccessToken: accessToken,
		HolderName:  req.HolderName,
		HolderEmail: req.HolderEmail,
		HolderPhone: req.HolderPhone,
		Seats:       req.Seats,
		Status:      status,
		Notes:       req.Notes,
	})
	if err != nil {
		return nil, err
	}

	if event.IsFree() {
		metrics.ReservationsTotal.WithLabelValues("confirmed").Inc()
		s.publishConfirmed(ticket)
		return &model.ReserveResult{Ticket: ticket}, nil
	}

	session, err := s.checkout.CreateCheckoutSession(ctx, payment.CreateSessionParams{
		Amount:      event.Price * int64(ticket.Seats),
		Currency:    s.cfg.Currency,
		Description: event.Title,
		TicketID:    ticket.ID,
		SuccessURL:  s.cfg.SuccessURL,
		CancelURL:   s.cfg.CancelURL,
	})
	if err != nil {
		// The hold must not survive a failed session request, or the
		// seats stay locked until the sweeper runs. Cancellation uses
		// context.Background so it happens even if the caller is gone.
		log := logger.WithComponent("reservation")
		log.Error("checkout session creation failed, releasing hold",
			zap.Int("ticket_id", ticket.ID), zap.Error(err))
		if _, cancelErr := s.tickets.UpdateStatus(context.Background(), ticket.ID, model.TicketStatusCancelled); cancelErr != nil {
			log.Error("failed to release hold", zap.Int("ticket_id", ticket.ID), zap.Error(cancelErr))
		}
		metrics.ReservationsTotal.WithLabelValues("error").Inc()
		return nil, apperrors.ErrInternalServer
	}

	if err := s.tickets.SetCheckoutRef(ctx, ticket.ID, session.Reference); err != nil {
		// A hold without its reference is unreachable by any callback;
		// release it rather than strand the seats until the sweeper runs.
		log := logger.WithComponent("reservation")
		log.Error("failed to store checkout reference, releasing hold",
			zap.Int("ticket_id", ticket.ID), zap.Error(err))
		if _, cancelErr := s.tickets.UpdateStatus(context.Background(), ticket.ID, model.TicketStatusCancelled); cancelErr != nil {
			log.Error("failed to release hold", zap.Int("ticket_id", ticket.ID), zap.Error(cancelErr))
		}
		metrics.ReservationsTotal.WithLabelValues("error").Inc()
		return nil, apperrors.ErrInternalServer
	}

	metrics.ReservationsTotal.WithLabelValues("pending").Inc()
	return &model.ReserveResult{CheckoutURL: session.URL}, nil
}

func (s *ReservationServiceImpl) GetByAccessToken(ctx context.Context, accessToken string) (*model.Ticket, error) {
	return s.tickets.FindByAccessToken(ctx, accessToken)
}

func (s *ReservationServiceImpl) ConfirmPayment(ctx context.Context, reference string) error {
	ticket, err := s.tickets.FindByCheckoutRef(ctx, reference)
	if err != nil {
		metrics.PaymentCallbacksTotal.WithLabelValues("unknown").Inc()
		return err
	}

	s.locks.Lock(ticket.EventID)
	defer s.locks.Unlock(ticket.EventID)

	// Re-read under the lock; an admin override or a redelivered
	// callback may have moved the ticket since the lookup.
	ticket, err = s.tickets.FindByID(ctx, ticket.ID)
	if err != nil {
		return err
	}
	if ticket.Status != model.TicketStatusPending {
		logger.WithComponent("payment").Info("confirmation callback for non-pending ticket, ignoring",
			zap.Int("ticket_id", ticket.ID), zap.String("status", string(ticket.Status)))
		metrics.PaymentCallbacksTotal.WithLabelValues("conflict").Inc()
		return nil
	}

	confirmed, err := s.tickets.UpdateStatus(ctx, ticket.ID, model.TicketStatusConfirmed)
	if err != nil {
		return err
	}

	metrics.PaymentCallbacksTotal.WithLabelValues("confirmed").Inc()
	s.publishConfirmed(confirmed)
	return nil
}

func (s *ReservationServiceImpl) ReleasePayment(ctx context.Context, reference string) error {
	ticket, err := s.tickets.FindByCheckoutRef(ctx, reference)
	if err != nil {
		metrics.PaymentCallbacksTotal.WithLabelValues("unknown").Inc()
		return err
	}

	s.locks.Lock(ticket.EventID)
	defer s.locks.Unlock(ticket.EventID)

	ticket, err = s.tickets.FindByID(ctx, ticket.ID)
	if err != nil {
		return err
	}
	if ticket.Status != model.TicketStatusPending {
		logger.WithComponent("payment").Info("failure callback for non-pending ticket, ignoring",
			zap.Int("ticket_id", ticket.ID), zap.String("status", string(ticket.Status)))
		metrics.PaymentCallbacksTotal.WithLabelValues("conflict").Inc()
		return nil
	}

	if _, err := s.tickets.UpdateStatus(ctx, ticket.ID, model.TicketStatusCancelled); err != nil {
		return err
	}

	metrics.PaymentCallbacksTotal.WithLabelValues("released").Inc()
	return nil
}

func (s *ReservationServiceImpl) SweepExpiredHolds(ctx context.Context, cutoff time.Time) (int, error) {
	expired, err := s.tickets.ListExpiredPending(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	log := logger.WithComponent("sweeper")
	swept := 0
	for _, ticket := range expired {
		s.locks.Lock(ticket.EventID)
		current, err := s.tickets.FindByID(ctx, ticket.ID)
		if err == nil && current.Status == model.TicketStatusPending {
			if _, err := s.tickets.UpdateStatus(ctx, ticket.ID, model.TicketStatusCancelled); err != nil {
				log.Error("failed to cancel expired hold", zap.Int("ticket_id", ticket.ID), zap.Error(err))
			} else {
				swept++
				metrics.HoldsSweptTotal.Inc()
				log.Info("cancelled expired hold",
					zap.Int("ticket_id", ticket.ID),
					zap.Int("event_id", ticket.EventID),
					zap.Int("seats", ticket.Seats))
			}
		}
		s.locks.Unlock(ticket.EventID)
	}

	return swept, nil
}

// publishConfirmed queues the confirmation email. Best effort: a
// publish failure is logged, never surfaced to the purchaser.
func (s *ReservationServiceImpl) publishConfirmed(ticket *model.Ticket) {
	n := &model.Notification{
		ID:        uuid.New().String(),
		Type:      model.NotificationTicketConfirmed,
		TicketID:  ticket.ID,
		EventID:   ticket.EventID,
		Email:     ticket.HolderEmail,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notify.Publish(context.Background(), n); err != nil {
		logger.WithComponent("reservation").Warn("failed to publish confirmation notification",
			zap.Int("ticket_id", ticket.ID), zap.Error(err))
	}
}
