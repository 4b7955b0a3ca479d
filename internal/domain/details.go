package domain

import (
	"fmt"
	"time"
)

type RoomType string

const (
	RoomDeluxe       RoomType = "deluxe"
	RoomSuite        RoomType = "suite"
	RoomPresidential RoomType = "presidential"
)

type RideType string

const (
	RideCab  RideType = "cab"
	RideBike RideType = "bike"
)

type LuxuryType string

const (
	LuxuryJet        LuxuryType = "jet"
	LuxuryHelicopter LuxuryType = "helicopter"
	LuxuryCar        LuxuryType = "car"
	LuxuryYacht      LuxuryType = "yacht"
)

const (
	MinGuests = 20
	MaxGuests = 500
)

type HotelDetails struct {
	HotelName string    `bson:"hotel_name" json:"hotelName"`
	RoomType  RoomType  `bson:"room_type" json:"roomType"`
	CheckIn   time.Time `bson:"check_in" json:"checkIn"`
	CheckOut  time.Time `bson:"check_out" json:"checkOut"`
}

func (d *HotelDetails) Validate() error {
	if d.HotelName == "" {
		return fmt.Errorf("%w: hotel name required", ErrValidation)
	}
	switch d.RoomType {
	case RoomDeluxe, RoomSuite, RoomPresidential:
	default:
		return fmt.Errorf("%w: unknown room type %q", ErrValidation, d.RoomType)
	}
	if !d.CheckOut.After(d.CheckIn) {
		return fmt.Errorf("%w: check-out must be after check-in", ErrValidation)
	}
	return nil
}

type RideDetails struct {
	RideType       RideType  `bson:"ride_type" json:"rideType"`
	PickupLocation string    `bson:"pickup_location" json:"pickupLocation"`
	DropLocation   string    `bson:"drop_location" json:"dropLocation"`
	RideDate       time.Time `bson:"ride_date" json:"rideDate"`
}

func (d *RideDetails) Validate() error {
	switch d.RideType {
	case RideCab, RideBike:
	default:
		return fmt.Errorf("%w: unknown ride type %q", ErrValidation, d.RideType)
	}
	if d.PickupLocation == "" || d.DropLocation == "" {
		return fmt.Errorf("%w: pickup and drop locations required", ErrValidation)
	}
	return nil
}

type EventDetails struct {
	EventType  string    `bson:"event_type" json:"eventType"`
	EventDate  time.Time `bson:"event_date" json:"eventDate"`
	GuestCount int       `bson:"guest_count" json:"guestCount"`
	Venue      string    `bson:"venue" json:"venue"`
}

func (d *EventDetails) Validate() error {
	if d.EventType == "" {
		return fmt.Errorf("%w: event type required", ErrValidation)
	}
	if d.GuestCount < MinGuests || d.GuestCount > MaxGuests {
		return fmt.Errorf("%w: guest count %d outside %d-%d", ErrValidation, d.GuestCount, MinGuests, MaxGuests)
	}
	return nil
}

type LuxuryDetails struct {
	LuxuryType     LuxuryType `bson:"luxury_type" json:"luxuryType"`
	RentalDuration int        `bson:"rental_duration" json:"rentalDuration"`
}

func (d *LuxuryDetails) Validate() error {
	switch d.LuxuryType {
	case LuxuryJet, LuxuryHelicopter, LuxuryCar, LuxuryYacht:
	default:
		return fmt.Errorf("%w: unknown luxury type %q", ErrValidation, d.LuxuryType)
	}
	if d.RentalDuration < 1 {
		return fmt.Errorf("%w: rental duration must be at least 1 hour", ErrValidation)
	}
	return nil
}

// Details is the variant payload of a booking. Exactly one field is set,
// and it must match the booking type.
type Details struct {
	Hotel  *HotelDetails  `bson:"hotel,omitempty" json:"hotel,omitempty"`
	Ride   *RideDetails   `bson:"ride,omitempty" json:"ride,omitempty"`
	Event  *EventDetails  `bson:"event,omitempty" json:"event,omitempty"`
	Luxury *LuxuryDetails `bson:"luxury,omitempty" json:"luxury,omitempty"`
}

func (d Details) variants() int {
	n := 0
	if d.Hotel != nil {
		n++
	}
	if d.Ride != nil {
		n++
	}
	if d.Event != nil {
		n++
	}
	if d.Luxury != nil {
		n++
	}
	return n
}

// RateKey is the catalog key the authoritative rate card is resolved by:
// hotel name, ride type, event type or luxury type.
func (d Details) RateKey(t BookingType) string {
	switch t {
	case TypeHotel:
		if d.Hotel != nil {
			return d.Hotel.HotelName
		}
	case TypeRide:
		if d.Ride != nil {
			return string(d.Ride.RideType)
		}
	case TypeEvent:
		if d.Event != nil {
			return d.Event.EventType
		}
	case TypeLuxury:
		if d.Luxury != nil {
			return string(d.Luxury.LuxuryType)
		}
	}
	return ""
}

func (d Details) validateFor(t BookingType) error {
	if d.variants() != 1 {
		return fmt.Errorf("%w: exactly one detail variant required", ErrValidation)
	}
	switch t {
	case TypeHotel:
		if d.Hotel == nil {
			return fmt.Errorf("%w: hotel details required", ErrValidation)
		}
		return d.Hotel.Validate()
	case TypeRide:
		if d.Ride == nil {
			return fmt.Errorf("%w: ride details required", ErrValidation)
		}
		return d.Ride.Validate()
	case TypeEvent:
		if d.Event == nil {
			return fmt.Errorf("%w: event details required", ErrValidation)
		}
		return d.Event.Validate()
	case TypeLuxury:
		if d.Luxury == nil {
			return fmt.Errorf("%w: luxury details required", ErrValidation)
		}
		return d.Luxury.Validate()
	default:
		return fmt.Errorf("%w: unknown booking type %q", ErrValidation, t)
	}
}
