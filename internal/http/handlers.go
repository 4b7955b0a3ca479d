package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/isuprotikroy/Sonciv/internal/booking"
	"github.com/isuprotikroy/Sonciv/internal/config"
	"github.com/isuprotikroy/Sonciv/internal/domain"
	"github.com/isuprotikroy/Sonciv/internal/idempotency"
	"github.com/isuprotikroy/Sonciv/internal/payments"
)

// Catalog is the read-only rate-card source exposed to clients.
type Catalog interface {
	ListByVertical(ctx context.Context, vertical domain.BookingType) ([]domain.RateCard, error)
}

type Handlers struct {
	cfg      *config.Config
	bookings *booking.Service
	orch     *payments.Orchestrator
	catalog  Catalog
	idemp    *idempotency.Idempotency
}

func NewHandlers(cfg *config.Config, bookings *booking.Service, orch *payments.Orchestrator, catalog Catalog, idemp *idempotency.Idempotency) *Handlers {
	return &Handlers{
		cfg:      cfg,
		bookings: bookings,
		orch:     orch,
		catalog:  catalog,
		idemp:    idemp,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		http.Error(w, "please authenticate", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "booking not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrBookingCancelled):
		http.Error(w, "booking is cancelled", http.StatusConflict)
	case errors.Is(err, domain.ErrPaymentProvider):
		http.Error(w, "payment provider error", http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) []byte {
	data, _ := json.Marshal(v)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
	return data
}

// replay serves the stored response for a repeated idempotency key. Keys
// are scoped per user so one account's key cannot replay another's response.
func (h *Handlers) replay(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (string, bool) {
	if h.idemp == nil {
		return "", false
	}
	key := userID.String() + ":" + r.Header.Get("Idempotency-Key")
	existing, err := h.idemp.Get(r.Context(), key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return key, true
	}
	if existing != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(existing.Status)
		w.Write(existing.Result)
		return key, true
	}
	return key, false
}

func (h *Handlers) remember(ctx context.Context, key string, status int, result []byte) {
	if h.idemp == nil || key == "" {
		return
	}
	h.idemp.Set(ctx, key, idempotency.Response{Status: status, Result: result})
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		http.Error(w, "please authenticate", http.StatusUnauthorized)
		return
	}
	key, done := h.replay(w, r, userID)
	if done {
		return
	}

	var req struct {
		Type        domain.BookingType `json:"type"`
		Details     domain.Details     `json:"details"`
		TotalAmount float64            `json:"totalAmount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.bookings.Create(r.Context(), userID, req.Type, req.Details, req.TotalAmount)
	if err != nil {
		writeError(w, err)
		return
	}

	data := writeJSON(w, http.StatusCreated, b)
	h.remember(r.Context(), key, http.StatusCreated, data)
}

func (h *Handlers) MyBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		http.Error(w, "please authenticate", http.StatusUnauthorized)
		return
	}

	bookings, err := h.bookings.ListMine(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *Handlers) bookingID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		http.Error(w, "please authenticate", http.StatusUnauthorized)
		return
	}
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}

	b, err := h.bookings.GetByID(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		http.Error(w, "please authenticate", http.StatusUnauthorized)
		return
	}
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}

	var patch domain.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.bookings.Update(r.Context(), userID, id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		http.Error(w, "please authenticate", http.StatusUnauthorized)
		return
	}
	id, ok := h.bookingID(w, r)
	if !ok {
		return
	}

	b, err := h.bookings.Cancel(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		http.Error(w, "please authenticate", http.StatusUnauthorized)
		return
	}
	key, done := h.replay(w, r, userID)
	if done {
		return
	}

	var req struct {
		BookingID uuid.UUID `json:"bookingId"`
		Amount    float64   `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	intent, err := h.orch.CreateIntent(r.Context(), userID, req.BookingID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	data := writeJSON(w, http.StatusOK, map[string]string{"clientSecret": intent.ClientSecret})
	h.remember(r.Context(), key, http.StatusOK, data)
}

func (h *Handlers) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		http.Error(w, "please authenticate", http.StatusUnauthorized)
		return
	}
	key, done := h.replay(w, r, userID)
	if done {
		return
	}

	var req struct {
		BookingID       uuid.UUID `json:"bookingId"`
		PaymentIntentID string    `json:"paymentIntentId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.orch.ConfirmPayment(r.Context(), userID, req.BookingID, req.PaymentIntentID)
	if err != nil {
		writeError(w, err)
		return
	}

	data := writeJSON(w, http.StatusOK, b)
	h.remember(r.Context(), key, http.StatusOK, data)
}

func (h *Handlers) CatalogByVertical(w http.ResponseWriter, r *http.Request) {
	vertical := domain.BookingType(chi.URLParam(r, "vertical"))
	switch vertical {
	case domain.TypeHotel, domain.TypeRide, domain.TypeEvent, domain.TypeLuxury:
	default:
		http.Error(w, "unknown vertical", http.StatusBadRequest)
		return
	}

	cards, err := h.catalog.ListByVertical(r.Context(), vertical)
	if err != nil {
		writeError(w, err)
		return
	}
	if cards == nil {
		cards = []domain.RateCard{}
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
