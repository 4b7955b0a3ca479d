package pricing_test

import (
	"errors"
	"testing"
	"time"

	"github.com/isuprotikroy/Sonciv/internal/domain"
	"github.com/isuprotikroy/Sonciv/internal/pricing"
)

var day0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestHotelTotal(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		nights   int
		roomType domain.RoomType
		want     float64
	}{
		{"two nights deluxe", 15000, 2, domain.RoomDeluxe, 30000},
		{"two nights presidential", 15000, 2, domain.RoomPresidential, 75000},
		{"one night suite", 12000, 1, domain.RoomSuite, 18000},
		{"three nights deluxe", 18000, 3, domain.RoomDeluxe, 54000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pricing.HotelTotal(tt.rate, day0, day0.AddDate(0, 0, tt.nights), tt.roomType)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHotelTotal_PartialDayRoundsUp(t *testing.T) {
	// 36 hours counts as two nights.
	got, err := pricing.HotelTotal(15000, day0, day0.Add(36*time.Hour), domain.RoomDeluxe)
	if err != nil {
		t.Fatal(err)
	}
	if got != 30000 {
		t.Errorf("got %v, want 30000", got)
	}
}

func TestHotelTotal_Invalid(t *testing.T) {
	if _, err := pricing.HotelTotal(15000, day0, day0, domain.RoomDeluxe); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("check-out equal to check-in: got %v, want validation error", err)
	}
	if _, err := pricing.HotelTotal(15000, day0, day0.AddDate(0, 0, -1), domain.RoomDeluxe); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("check-out before check-in: got %v, want validation error", err)
	}
	if _, err := pricing.HotelTotal(0, day0, day0.AddDate(0, 0, 1), domain.RoomDeluxe); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("zero rate: got %v, want validation error", err)
	}
	if _, err := pricing.HotelTotal(15000, day0, day0.AddDate(0, 0, 1), "penthouse"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown room type: got %v, want validation error", err)
	}
}

func TestRideTotal(t *testing.T) {
	got, err := pricing.RideTotal(500, 25, pricing.EstimatedDistanceKm)
	if err != nil {
		t.Fatal(err)
	}
	if got != 750 {
		t.Errorf("got %v, want 750", got)
	}

	if _, err := pricing.RideTotal(-1, 25, 10); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("negative base: got %v, want validation error", err)
	}
}

func TestRideTotal_Deterministic(t *testing.T) {
	a, _ := pricing.RideTotal(300, 15, pricing.EstimatedDistanceKm)
	b, _ := pricing.RideTotal(300, 15, pricing.EstimatedDistanceKm)
	if a != b {
		t.Errorf("same inputs produced %v and %v", a, b)
	}
}

func TestEventTotal(t *testing.T) {
	got, err := pricing.EventTotal(200000, 2500, 100)
	if err != nil {
		t.Fatal(err)
	}
	if got != 450000 {
		t.Errorf("got %v, want 450000", got)
	}

	for _, guests := range []int{0, 19, 501} {
		if _, err := pricing.EventTotal(200000, 2500, guests); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("guest count %d: got %v, want validation error", guests, err)
		}
	}
}

func TestLuxuryTotal(t *testing.T) {
	got, err := pricing.LuxuryTotal(150000, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got != 600000 {
		t.Errorf("got %v, want 600000", got)
	}

	if _, err := pricing.LuxuryTotal(150000, 0); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("zero duration: got %v, want validation error", err)
	}
	if _, err := pricing.LuxuryTotal(150000, -3); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("negative duration: got %v, want validation error", err)
	}
}
