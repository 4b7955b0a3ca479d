// Package booking implements the booking lifecycle: creation with
// authoritative server-side pricing, ownership-scoped reads and updates,
// and cancellation as a status transition.
package booking

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/isuprotikroy/Sonciv/internal/domain"
	"github.com/isuprotikroy/Sonciv/internal/observability"
	"github.com/isuprotikroy/Sonciv/internal/pricing"
)

// Store is the booking record store. Implementations must scope every
// operation by the owning user and apply updates atomically per document.
type Store interface {
	Insert(ctx context.Context, b *domain.Booking) error
	FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	FindOne(ctx context.Context, userID, id uuid.UUID) (*domain.Booking, error)
	ApplyPatch(ctx context.Context, userID, id uuid.UUID, patch domain.Patch) (*domain.Booking, error)
	Cancel(ctx context.Context, userID, id uuid.UUID) (*domain.Booking, error)
	ConfirmPayment(ctx context.Context, userID, id uuid.UUID, paymentID string) (*domain.Booking, error)
}

type RateSource interface {
	GetRate(ctx context.Context, vertical domain.BookingType, key string) (*domain.RateCard, error)
}

// EventSink records booking lifecycle events for asynchronous delivery.
type EventSink interface {
	BookingEvent(ctx context.Context, eventType string, b domain.Booking) error
}

type Auditor interface {
	LogBooking(ctx context.Context, action string, b domain.Booking) error
}

type Service struct {
	store  Store
	rates  RateSource
	events EventSink
	audit  Auditor
	logger observability.Logger
}

func NewService(store Store, rates RateSource, events EventSink, audit Auditor, logger observability.Logger) *Service {
	return &Service{store: store, rates: rates, events: events, audit: audit, logger: logger}
}

// Total recomputes a booking's price from the authoritative rate card.
func Total(card *domain.RateCard, t domain.BookingType, details domain.Details) (float64, error) {
	switch t {
	case domain.TypeHotel:
		return pricing.HotelTotal(card.PricePerNight, details.Hotel.CheckIn, details.Hotel.CheckOut, details.Hotel.RoomType)
	case domain.TypeRide:
		return pricing.RideTotal(card.BasePrice, card.PricePerKm, pricing.EstimatedDistanceKm)
	case domain.TypeEvent:
		return pricing.EventTotal(card.BasePrice, card.PricePerGuest, details.Event.GuestCount)
	case domain.TypeLuxury:
		return pricing.LuxuryTotal(card.PricePerHour, details.Luxury.RentalDuration)
	default:
		return 0, errors.Wrapf(domain.ErrValidation, "unknown booking type %q", t)
	}
}

// Create validates the variant, recomputes the total against the rate card
// and rejects submissions whose total disagrees. Nothing is persisted on a
// validation failure.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, t domain.BookingType, details domain.Details, submittedTotal float64) (*domain.Booking, error) {
	b, err := domain.NewBooking(userID, t, details, submittedTotal)
	if err != nil {
		return nil, err
	}

	card, err := s.rates.GetRate(ctx, t, details.RateKey(t))
	if err != nil {
		return nil, err
	}
	authoritative, err := Total(card, t, details)
	if err != nil {
		return nil, err
	}
	if math.Abs(authoritative-submittedTotal) > 0.01 {
		return nil, errors.Wrapf(domain.ErrValidation, "submitted total %.2f does not match price %.2f", submittedTotal, authoritative)
	}
	b.TotalAmount = authoritative

	if err := s.store.Insert(ctx, &b); err != nil {
		return nil, err
	}
	observability.BookingsCreated.WithLabelValues(string(t)).Inc()
	s.record(ctx, "booking.created", b)
	return &b, nil
}

func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return s.store.FindByUser(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Booking, error) {
	return s.store.FindOne(ctx, userID, id)
}

// Update applies the restricted patch, scoped by ownership. The patch is
// validated against the booking's own vertical before the store write.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, patch domain.Patch) (*domain.Booking, error) {
	existing, err := s.store.FindOne(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := patch.Validate(existing.Type); err != nil {
		return nil, err
	}
	return s.store.ApplyPatch(ctx, userID, id, patch)
}

// Cancel moves the booking to cancelled from any state, including completed.
// Repeated calls succeed; the booking stays cancelled.
func (s *Service) Cancel(ctx context.Context, userID, id uuid.UUID) (*domain.Booking, error) {
	b, err := s.store.Cancel(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	observability.BookingsCancelled.Inc()
	s.record(ctx, "booking.cancelled", *b)
	return b, nil
}

// record writes the outbox event and audit entry. Failures are logged, not
// propagated: the booking mutation has already committed and is the source
// of truth.
func (s *Service) record(ctx context.Context, eventType string, b domain.Booking) {
	if s.events != nil {
		if err := s.events.BookingEvent(ctx, eventType, b); err != nil {
			s.logger.Warn("failed to record booking event", err)
		}
	}
	if s.audit != nil {
		if err := s.audit.LogBooking(ctx, eventType, b); err != nil {
			s.logger.Warn("failed to write audit log", err)
		}
	}
}
