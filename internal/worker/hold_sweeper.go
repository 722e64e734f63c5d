package worker

import (
	"context"
	"time"

	"event-reservations/internal/service"
	"event-reservations/pkg/logger"

	"go.uber.org/zap"
)

// HoldSweeper cancels PENDING holds whose checkout session has run out,
// so an abandoned checkout cannot starve an event of seats. The TTL
// should match the processor's session lifetime; a hold younger than
// that may still complete via the callback.
type HoldSweeper struct {
	reservations service.ReservationService
	holdTTL      time.Duration
	interval     time.Duration
}

func NewHoldSweeper(reservations service.ReservationService, holdTTL, interval time.Duration) *HoldSweeper {
	return &HoldSweeper{
		reservations: reservations,
		holdTTL:      holdTTL,
		interval:     interval,
	}
}

func (s *HoldSweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()
}

func (s *HoldSweeper) RunOnce(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.holdTTL)
	swept, err := s.reservations.SweepExpiredHolds(ctx, cutoff)
	if err != nil {
		logger.WithComponent("sweeper").Error("hold sweep failed", zap.Error(err))
		return
	}
	if swept > 0 {
		logger.WithComponent("sweeper").Info("hold sweep released seats", zap.Int("holds_cancelled", swept))
	}
}
