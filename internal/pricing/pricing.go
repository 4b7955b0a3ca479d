// Package pricing holds the per-vertical total calculators. All functions
// are pure and deterministic; invalid inputs are rejected with errors, a
// returned total is never negative.
package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/isuprotikroy/Sonciv/internal/domain"
)

// EstimatedDistanceKm stands in for a routing provider. Ride totals use a
// fixed distance until one is integrated.
const EstimatedDistanceKm = 10.0

func roomMultiplier(rt domain.RoomType) (float64, error) {
	switch rt {
	case domain.RoomDeluxe:
		return 1, nil
	case domain.RoomSuite:
		return 1.5, nil
	case domain.RoomPresidential:
		return 2.5, nil
	default:
		return 0, fmt.Errorf("%w: unknown room type %q", domain.ErrValidation, rt)
	}
}

// HotelTotal is pricePerNight x nights x room multiplier, nights rounded up
// to whole days.
func HotelTotal(pricePerNight float64, checkIn, checkOut time.Time, roomType domain.RoomType) (float64, error) {
	if pricePerNight <= 0 {
		return 0, fmt.Errorf("%w: non-positive nightly rate", domain.ErrValidation)
	}
	if !checkOut.After(checkIn) {
		return 0, fmt.Errorf("%w: check-out must be after check-in", domain.ErrValidation)
	}
	mult, err := roomMultiplier(roomType)
	if err != nil {
		return 0, err
	}
	nights := math.Ceil(checkOut.Sub(checkIn).Hours() / 24)
	return pricePerNight * nights * mult, nil
}

func RideTotal(basePrice, pricePerKm, distanceKm float64) (float64, error) {
	if basePrice < 0 || pricePerKm < 0 || distanceKm < 0 {
		return 0, fmt.Errorf("%w: negative ride rate", domain.ErrValidation)
	}
	return basePrice + pricePerKm*distanceKm, nil
}

func EventTotal(basePrice, pricePerGuest float64, guestCount int) (float64, error) {
	if basePrice < 0 || pricePerGuest < 0 {
		return 0, fmt.Errorf("%w: negative event rate", domain.ErrValidation)
	}
	if guestCount < domain.MinGuests || guestCount > domain.MaxGuests {
		return 0, fmt.Errorf("%w: guest count %d outside %d-%d", domain.ErrValidation, guestCount, domain.MinGuests, domain.MaxGuests)
	}
	return basePrice + pricePerGuest*float64(guestCount), nil
}

func LuxuryTotal(pricePerHour float64, durationHours int) (float64, error) {
	if pricePerHour <= 0 {
		return 0, fmt.Errorf("%w: non-positive hourly rate", domain.ErrValidation)
	}
	if durationHours < 1 {
		return 0, fmt.Errorf("%w: rental duration must be at least 1 hour", domain.ErrValidation)
	}
	return pricePerHour * float64(durationHours), nil
}
