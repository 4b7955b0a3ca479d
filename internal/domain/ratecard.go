package domain

// RateCard is the authoritative price source for one vertical key (hotel
// name, ride type, event type or luxury type). Only the fields relevant to
// the vertical are set.
type RateCard struct {
	Vertical      BookingType `bson:"vertical" json:"vertical"`
	Key           string      `bson:"key" json:"key"`
	PricePerNight float64     `bson:"price_per_night,omitempty" json:"pricePerNight,omitempty"`
	BasePrice     float64     `bson:"base_price,omitempty" json:"basePrice,omitempty"`
	PricePerKm    float64     `bson:"price_per_km,omitempty" json:"pricePerKm,omitempty"`
	PricePerGuest float64     `bson:"price_per_guest,omitempty" json:"pricePerGuest,omitempty"`
	PricePerHour  float64     `bson:"price_per_hour,omitempty" json:"pricePerHour,omitempty"`
}
