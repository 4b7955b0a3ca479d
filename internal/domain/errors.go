package domain

import "errors"

var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrValidation       = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrPaymentProvider  = errors.New("payment provider failure")
	ErrBookingCancelled = errors.New("booking cancelled")
)
