package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/isuprotikroy/Sonciv/internal/auth"
	"github.com/isuprotikroy/Sonciv/internal/idempotency"
	"github.com/isuprotikroy/Sonciv/internal/observability"
	"github.com/isuprotikroy/Sonciv/internal/rateLimit"
)

func SetupRouter(h *Handlers, guard *auth.Guard, logger observability.Logger, rl *rateLimit.RateLimiter, idemp *idempotency.Idempotency) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(TracingMiddleware)
	r.Use(MetricsMiddleware)

	// Catalog and probes are public.
	r.Get("/api/catalog/{vertical}", h.CatalogByVertical)
	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(guard))
		r.Use(RateLimitMiddleware(rl))
		r.Use(IdempotencyMiddleware(idemp))

		r.Post("/api/bookings", h.CreateBooking)
		r.Get("/api/bookings/my-bookings", h.MyBookings)
		r.Get("/api/bookings/{id}", h.GetBooking)
		r.Patch("/api/bookings/{id}", h.UpdateBooking)
		r.Delete("/api/bookings/{id}", h.CancelBooking)
		r.Post("/api/payments/create-payment-intent", h.CreatePaymentIntent)
		r.Post("/api/payments/payment-success", h.PaymentSuccess)
	})

	return r
}
