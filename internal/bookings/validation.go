package bookings

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"hallbook/internal/shared/utils/clock"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const missingFieldsMessage = "Missing required fields: customerName, customerEmail, customerPhone, eventType, selectedHall, bookingDate, startTime, endTime, hallOwnerId"

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[1-9]\d{0,15}$`)
	phoneNoise   = regexp.MustCompile(`[\s\-()]`)

	validate = newValidator()

	registerOnce sync.Once
)

// RegisterValidators adds the hhmm and calendar_date tags to v.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return clock.ValidHHMM(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		_, err := clock.ParseDate(fl.Field().String(), time.UTC)
		return err == nil
	})
}

// registerBindingValidators makes the custom tags available to gin binding.
// Query DTOs use calendar_date, so a failure here is fatal.
func registerBindingValidators() {
	registerOnce.Do(func() {
		if err := registerEngine(binding.Validator.Engine()); err != nil {
			panic(fmt.Errorf("bookings: register binding validators: %w", err))
		}
	})
}

func registerEngine(engine interface{}) error {
	v, ok := engine.(*validator.Validate)
	if !ok {
		return fmt.Errorf("unsupported validator engine %T", engine)
	}
	return RegisterValidators(v)
}

func newValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterValidators(v); err != nil {
		panic(err)
	}
	return v
}

// validatedBooking is a CreateBookingRequest after normalisation.
type validatedBooking struct {
	req        *CreateBookingRequest
	name       string
	email      string
	phone      string
	date       time.Time
	customerID *uuid.UUID
	avatar     *string
	source     string
}

// validateCreate runs the form checks in order and stops at the first
// failure. now decides what "today" is, at midnight in now's location.
func validateCreate(req *CreateBookingRequest, now time.Time) (*validatedBooking, error) {
	if req.CustomerName == "" || req.CustomerEmail == "" || req.CustomerPhone == "" ||
		req.EventType == "" || req.SelectedHall == "" || req.BookingDate == "" ||
		req.StartTime == "" || req.EndTime == "" || req.HallOwnerID == "" {
		return nil, invalid(missingFieldsMessage)
	}

	if !emailPattern.MatchString(req.CustomerEmail) {
		return nil, invalid("Invalid email format")
	}

	phone := phoneNoise.ReplaceAllString(req.CustomerPhone, "")
	if !phonePattern.MatchString(phone) {
		return nil, invalid("Invalid phone number format")
	}

	if validate.Var(req.BookingDate, "calendar_date") != nil {
		return nil, invalid("Invalid booking date format")
	}
	date, _ := clock.ParseDate(req.BookingDate, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return nil, invalid("Booking date cannot be in the past")
	}

	if validate.Var(req.StartTime, "hhmm") != nil || validate.Var(req.EndTime, "hhmm") != nil {
		return nil, invalid("Invalid time format. Use HH:MM format (e.g., 09:00)")
	}
	start, _ := clock.Minutes(req.StartTime)
	end, _ := clock.Minutes(req.EndTime)
	if start >= end {
		return nil, invalid("Start time must be before end time")
	}

	v := &validatedBooking{
		req:    req,
		name:   strings.TrimSpace(req.CustomerName),
		email:  strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		phone:  phone,
		date:   date,
		source: req.BookingSource,
	}
	if v.source == "" {
		v.source = DefaultBookingSource
	}
	if id, err := uuid.Parse(req.CustomerID); err == nil {
		v.customerID = &id
	}
	if req.CustomerAvatar != "" {
		avatar := req.CustomerAvatar
		v.avatar = &avatar
	}
	return v, nil
}
