// Package client is the Go consumer of the booking API. Each vertical flow
// fetches the published rate card, computes the total locally, creates the
// booking and stages its payment intent.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/isuprotikroy/Sonciv/internal/domain"
)

type Client struct {
	base  string
	token string
	http  *http.Client
}

func New(base, token string) *Client {
	return &Client{base: base, token: token, http: http.DefaultClient}
}

// Receipt is what a completed flow hands back: the created booking and the
// provider secret needed to finish the payment externally.
type Receipt struct {
	Booking      domain.Booking
	ClientSecret string
}

func statusError(code int, body []byte) error {
	msg := string(bytes.TrimSpace(body))
	switch code {
	case http.StatusUnauthorized:
		return errors.Wrap(domain.ErrUnauthenticated, msg)
	case http.StatusBadRequest:
		return errors.Wrap(domain.ErrValidation, msg)
	case http.StatusNotFound:
		return errors.Wrap(domain.ErrNotFound, msg)
	case http.StatusConflict:
		return errors.Wrap(domain.ErrBookingCancelled, msg)
	case http.StatusBadGateway:
		return errors.Wrap(domain.ErrPaymentProvider, msg)
	default:
		return fmt.Errorf("unexpected status %d: %s", code, msg)
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if method == http.MethodPost {
		req.Header.Set("Idempotency-Key", uuid.New().String())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, data)
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

// Rates returns the published rate cards for one vertical.
func (c *Client) Rates(ctx context.Context, vertical domain.BookingType) ([]domain.RateCard, error) {
	var cards []domain.RateCard
	if err := c.do(ctx, http.MethodGet, "/api/catalog/"+string(vertical), nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// AllRates fetches every vertical's rate cards concurrently.
func (c *Client) AllRates(ctx context.Context) (map[domain.BookingType][]domain.RateCard, error) {
	verticals := []domain.BookingType{domain.TypeHotel, domain.TypeRide, domain.TypeEvent, domain.TypeLuxury}
	out := make(map[domain.BookingType][]domain.RateCard, len(verticals))

	g, gctx := errgroup.WithContext(ctx)
	results := make([][]domain.RateCard, len(verticals))
	for i, v := range verticals {
		i, v := i, v
		g.Go(func() error {
			cards, err := c.Rates(gctx, v)
			if err != nil {
				return err
			}
			results[i] = cards
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, v := range verticals {
		out[v] = results[i]
	}
	return out, nil
}

func (c *Client) rate(ctx context.Context, vertical domain.BookingType, key string) (*domain.RateCard, error) {
	cards, err := c.Rates(ctx, vertical)
	if err != nil {
		return nil, err
	}
	for i := range cards {
		if cards[i].Key == key {
			return &cards[i], nil
		}
	}
	return nil, errors.Wrapf(domain.ErrValidation, "no rate card for %s %q", vertical, key)
}

func (c *Client) MyBookings(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := c.do(ctx, http.MethodGet, "/api/bookings/my-bookings", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) GetBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var b domain.Booking
	if err := c.do(ctx, http.MethodGet, "/api/bookings/"+id.String(), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) UpdateBooking(ctx context.Context, id uuid.UUID, patch domain.Patch) (*domain.Booking, error) {
	var b domain.Booking
	if err := c.do(ctx, http.MethodPatch, "/api/bookings/"+id.String(), patch, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) CancelBooking(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var b domain.Booking
	if err := c.do(ctx, http.MethodDelete, "/api/bookings/"+id.String(), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ConfirmPayment reports a finished payment back to the platform. The server
// re-verifies the intent with the provider before confirming.
func (c *Client) ConfirmPayment(ctx context.Context, bookingID uuid.UUID, intentID string) (*domain.Booking, error) {
	req := map[string]interface{}{"bookingId": bookingID, "paymentIntentId": intentID}
	var b domain.Booking
	if err := c.do(ctx, http.MethodPost, "/api/payments/payment-success", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// book creates the booking and stages its payment intent.
func (c *Client) book(ctx context.Context, t domain.BookingType, details domain.Details, total float64) (*Receipt, error) {
	createReq := map[string]interface{}{
		"type":        t,
		"details":     details,
		"totalAmount": total,
	}
	var b domain.Booking
	if err := c.do(ctx, http.MethodPost, "/api/bookings", createReq, &b); err != nil {
		return nil, err
	}

	intentReq := map[string]interface{}{
		"bookingId": b.ID,
		"amount":    b.TotalAmount,
	}
	var intentResp struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/payments/create-payment-intent", intentReq, &intentResp); err != nil {
		return nil, err
	}

	return &Receipt{Booking: b, ClientSecret: intentResp.ClientSecret}, nil
}
