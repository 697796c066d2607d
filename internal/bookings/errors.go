package bookings

import (
	"errors"
)

var (
	ErrBookingNotFound         = errors.New("booking not found")
	ErrResourceOwnerMismatch   = errors.New("selected hall does not belong to the specified hall owner")
	ErrSlotBusy                = errors.New("another booking for this slot is being processed")
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")
	ErrDuplicateCode           = errors.New("booking code already exists")
)

// ValidationError is a rejected request; Message is shown to the caller as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// ConflictError reports the active booking that overlaps the requested slot.
type ConflictError struct {
	Conflict *Conflict
	Debug    ConflictDebug
}

func (e *ConflictError) Error() string {
	return "time slot is already booked"
}
