package client

import (
	"context"
	"time"

	"github.com/isuprotikroy/Sonciv/internal/domain"
	"github.com/isuprotikroy/Sonciv/internal/pricing"
)

type HotelParams struct {
	HotelName string
	RoomType  domain.RoomType
	CheckIn   time.Time
	CheckOut  time.Time
}

type RideParams struct {
	RideType       domain.RideType
	PickupLocation string
	DropLocation   string
	RideDate       time.Time
}

type EventParams struct {
	EventType  string
	EventDate  time.Time
	GuestCount int
	Venue      string
}

type LuxuryParams struct {
	LuxuryType    domain.LuxuryType
	DurationHours int
}

// BookHotel prices a stay at the published per-night rate, adjusted for the
// room type, and books it.
func (c *Client) BookHotel(ctx context.Context, p HotelParams) (*Receipt, error) {
	details := domain.Details{Hotel: &domain.HotelDetails{
		HotelName: p.HotelName,
		RoomType:  p.RoomType,
		CheckIn:   p.CheckIn,
		CheckOut:  p.CheckOut,
	}}
	if err := details.Hotel.Validate(); err != nil {
		return nil, err
	}

	card, err := c.rate(ctx, domain.TypeHotel, p.HotelName)
	if err != nil {
		return nil, err
	}
	total, err := pricing.HotelTotal(card.PricePerNight, p.CheckIn, p.CheckOut, p.RoomType)
	if err != nil {
		return nil, err
	}
	return c.book(ctx, domain.TypeHotel, details, total)
}

// BookRide prices a trip at the vehicle's base fare plus the per-kilometre
// rate over the estimated distance.
func (c *Client) BookRide(ctx context.Context, p RideParams) (*Receipt, error) {
	details := domain.Details{Ride: &domain.RideDetails{
		RideType:       p.RideType,
		PickupLocation: p.PickupLocation,
		DropLocation:   p.DropLocation,
		RideDate:       p.RideDate,
	}}
	if err := details.Ride.Validate(); err != nil {
		return nil, err
	}

	card, err := c.rate(ctx, domain.TypeRide, string(p.RideType))
	if err != nil {
		return nil, err
	}
	total, err := pricing.RideTotal(card.BasePrice, card.PricePerKm, pricing.EstimatedDistanceKm)
	if err != nil {
		return nil, err
	}
	return c.book(ctx, domain.TypeRide, details, total)
}

// BookEvent prices a function at its base package rate plus the per-guest
// surcharge.
func (c *Client) BookEvent(ctx context.Context, p EventParams) (*Receipt, error) {
	details := domain.Details{Event: &domain.EventDetails{
		EventType:  p.EventType,
		EventDate:  p.EventDate,
		GuestCount: p.GuestCount,
		Venue:      p.Venue,
	}}
	if err := details.Event.Validate(); err != nil {
		return nil, err
	}

	card, err := c.rate(ctx, domain.TypeEvent, p.EventType)
	if err != nil {
		return nil, err
	}
	total, err := pricing.EventTotal(card.BasePrice, card.PricePerGuest, p.GuestCount)
	if err != nil {
		return nil, err
	}
	return c.book(ctx, domain.TypeEvent, details, total)
}

// BookLuxury prices a charter at the vehicle's hourly rate.
func (c *Client) BookLuxury(ctx context.Context, p LuxuryParams) (*Receipt, error) {
	details := domain.Details{Luxury: &domain.LuxuryDetails{
		LuxuryType:     p.LuxuryType,
		RentalDuration: p.DurationHours,
	}}
	if err := details.Luxury.Validate(); err != nil {
		return nil, err
	}

	card, err := c.rate(ctx, domain.TypeLuxury, string(p.LuxuryType))
	if err != nil {
		return nil, err
	}
	total, err := pricing.LuxuryTotal(card.PricePerHour, p.DurationHours)
	if err != nil {
		return nil, err
	}
	return c.book(ctx, domain.TypeLuxury, details, total)
}
