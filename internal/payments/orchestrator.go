// Package payments stages provider-side payment intents and, once the
// provider reports success, moves bookings to their paid state.
package payments

import (
	"context"
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/isuprotikroy/Sonciv/internal/booking"
	"github.com/isuprotikroy/Sonciv/internal/domain"
	"github.com/isuprotikroy/Sonciv/internal/observability"
)

// Store is the slice of the booking store the orchestrator needs: an
// ownership-scoped read and the atomic confirm transition.
type Store interface {
	FindOne(ctx context.Context, userID, id uuid.UUID) (*domain.Booking, error)
	ConfirmPayment(ctx context.Context, userID, id uuid.UUID, paymentID string) (*domain.Booking, error)
}

type Orchestrator struct {
	store    Store
	provider IntentClient
	currency string
	events   booking.EventSink
	audit    booking.Auditor
	logger   observability.Logger
}

func NewOrchestrator(store Store, provider IntentClient, currency string, events booking.EventSink, audit booking.Auditor, logger observability.Logger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		provider: provider,
		currency: currency,
		events:   events,
		audit:    audit,
		logger:   logger,
	}
}

// CreateIntent stages a provider payment for the booking's total, tagged
// with the booking id. The booking itself is not mutated. The provider is
// called exactly once; there is no retry.
func (o *Orchestrator) CreateIntent(ctx context.Context, userID, bookingID uuid.UUID, amount float64) (*Intent, error) {
	b, err := o.store.FindOne(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if math.Abs(amount-b.TotalAmount) > 0.01 {
		return nil, errors.Wrapf(domain.ErrValidation, "amount %.2f does not match booking total %.2f", amount, b.TotalAmount)
	}

	minor := int64(math.Round(b.TotalAmount * 100))
	start := time.Now()
	intent, err := o.provider.CreateIntent(ctx, minor, o.currency, map[string]string{"booking_id": bookingID.String()})
	observability.ProviderCallDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, errors.Wrapf(domain.ErrPaymentProvider, "create intent: %v", err)
	}
	observability.PaymentIntentsCreated.Inc()
	return intent, nil
}

// ConfirmPayment verifies the intent with the provider before touching the
// booking: the intent must have succeeded and must be tagged with this
// booking. On success the booking moves to paymentStatus=completed,
// status=confirmed with the intent id linked, atomically and scoped by
// ownership. A cancelled booking is never confirmed.
func (o *Orchestrator) ConfirmPayment(ctx context.Context, userID, bookingID uuid.UUID, intentID string) (*domain.Booking, error) {
	start := time.Now()
	intent, err := o.provider.GetIntent(ctx, intentID)
	observability.ProviderCallDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, errors.Wrapf(domain.ErrPaymentProvider, "get intent %s: %v", intentID, err)
	}
	if intent.Status != StatusSucceeded {
		return nil, errors.Wrapf(domain.ErrValidation, "intent %s has status %q", intentID, intent.Status)
	}
	if intent.Metadata["booking_id"] != bookingID.String() {
		return nil, errors.Wrapf(domain.ErrValidation, "intent %s is not for this booking", intentID)
	}

	b, err := o.store.ConfirmPayment(ctx, userID, bookingID, intentID)
	if err != nil {
		return nil, err
	}
	observability.PaymentsConfirmed.Inc()
	if o.events != nil {
		if err := o.events.BookingEvent(ctx, "booking.confirmed", *b); err != nil {
			o.logger.Warn("failed to record booking event", err)
		}
	}
	if o.audit != nil {
		if err := o.audit.LogBooking(ctx, "booking.confirmed", *b); err != nil {
			o.logger.Warn("failed to write audit log", err)
		}
	}
	return b, nil
}
