package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservations_total",
			Help: "Reservation attempts by outcome",
		},
		[]string{"outcome"}, // confirmed, pending, sold_out, closed, invalid, error
	)

	PaymentCallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_callbacks_total",
			Help: "Payment processor callbacks by outcome",
		},
		[]string{"outcome"}, // confirmed, released, conflict, unknown
	)

	HoldsSweptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "holds_swept_total",
			Help: "PENDING holds cancelled by the expiry sweeper",
		},
	)

	CheckInsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checkins_total",
			Help: "Tickets transitioned to attended",
		},
	)
)
