package handler

import (
	"errors"
	"net/http"

	"event-reservations/internal/service"
	"event-reservations/pkg/apperrors"
	"event-reservations/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler consumes the processor's asynchronous confirmation
// callbacks. The processor redelivers under at-least-once semantics, so
// every path through here must be safe to repeat.
type PaymentHandler struct {
	reservations service.ReservationService
}

func NewPaymentHandler(reservations service.ReservationService) *PaymentHandler {
	return &PaymentHandler{reservations: reservations}
}

func (h *PaymentHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("payments/webhook", h.HandleCallback)
	}
}

type paymentCallbackRequest struct {
	Reference string `json:"reference" binding:"required"`
	Outcome   string `json:"outcome" binding:"required"`
}

const (
	outcomeSucceeded = "succeeded"
	outcomeFailed    = "failed"
	outcomeExpired   = "expired"
)

func (h *PaymentHandler) HandleCallback(c *gin.Context) {
	var req paymentCallbackRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	log := logger.WithComponent("handler").With(
		zap.String("operation", "PaymentCallback"),
		zap.String("reference", req.Reference),
		zap.String("outcome", req.Outcome))

	var err error
	switch req.Outcome {
	case outcomeSucceeded:
		err = h.reservations.ConfirmPayment(c, req.Reference)
	case outcomeFailed, outcomeExpired:
		err = h.reservations.ReleasePayment(c, req.Reference)
	default:
		log.Warn("Unknown callback outcome")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown outcome"})
		return
	}

	if err != nil {
		if errors.Is(err, apperrors.ErrTicketNotFound) {
			log.Warn("Callback for unknown session reference")
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session reference"})
			return
		}
		log.Error("Callback processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Status(http.StatusOK)
}
