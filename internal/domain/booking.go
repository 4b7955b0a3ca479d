package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type BookingType string

const (
	TypeHotel  BookingType = "hotel"
	TypeRide   BookingType = "ride"
	TypeEvent  BookingType = "event"
	TypeLuxury BookingType = "luxury"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type Booking struct {
	ID            uuid.UUID     `bson:"_id" json:"id"`
	UserID        uuid.UUID     `bson:"user_id" json:"userId"`
	Type          BookingType   `bson:"type" json:"type"`
	Details       Details       `bson:"details" json:"details"`
	Status        Status        `bson:"status" json:"status"`
	TotalAmount   float64       `bson:"total_amount" json:"totalAmount"`
	PaymentStatus PaymentStatus `bson:"payment_status" json:"paymentStatus"`
	PaymentID     string        `bson:"payment_id,omitempty" json:"paymentId,omitempty"`
	CreatedAt     time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updatedAt"`
}

// NewBooking builds a pending booking owned by userID. The detail variant
// must match the booking type and pass its own validation.
func NewBooking(userID uuid.UUID, t BookingType, details Details, total float64) (Booking, error) {
	if userID == uuid.Nil {
		return Booking{}, fmt.Errorf("%w: missing user", ErrValidation)
	}
	if err := details.validateFor(t); err != nil {
		return Booking{}, err
	}
	if total < 0 {
		return Booking{}, fmt.Errorf("%w: negative total amount", ErrValidation)
	}
	return Booking{
		ID:            uuid.New(),
		UserID:        userID,
		Type:          t,
		Details:       details,
		Status:        StatusPending,
		TotalAmount:   total,
		PaymentStatus: PaymentPending,
	}, nil
}

// Patch is the restricted update surface of a booking. Identity and money
// fields (user, type, total, payment linkage) are not patchable; a details
// replacement must carry the booking's own vertical.
type Patch struct {
	Status  *Status  `json:"status,omitempty"`
	Details *Details `json:"details,omitempty"`
}

func (p Patch) Validate(t BookingType) error {
	if p.Status == nil && p.Details == nil {
		return fmt.Errorf("%w: empty patch", ErrValidation)
	}
	if p.Status != nil {
		switch *p.Status {
		case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		default:
			return fmt.Errorf("%w: unknown status %q", ErrValidation, *p.Status)
		}
	}
	if p.Details != nil {
		if err := p.Details.validateFor(t); err != nil {
			return err
		}
	}
	return nil
}
