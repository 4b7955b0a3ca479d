package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sonciv_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code", "method"},
	)

	BookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sonciv_bookings_created_total",
			Help: "Bookings created, by vertical",
		},
		[]string{"type"},
	)

	BookingsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sonciv_bookings_cancelled_total",
			Help: "Bookings moved to cancelled",
		},
	)

	PaymentIntentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sonciv_payment_intents_total",
			Help: "Payment intents created with the provider",
		},
	)

	PaymentsConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sonciv_payments_confirmed_total",
			Help: "Bookings confirmed after provider-verified payment",
		},
	)

	ProviderCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sonciv_provider_call_seconds",
			Help:    "Duration of payment provider calls",
			Buckets: prometheus.DefBuckets,
		},
	)

	RateLimitExceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sonciv_rate_limit_exceeded_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)
