package bookings

import (
	"errors"
	"testing"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// fixedNow is Sunday 2025-03-09, mid-morning.
var fixedNow = time.Date(2025, 3, 9, 10, 30, 0, 0, time.Local)

func validRequest() *CreateBookingRequest {
	return &CreateBookingRequest{
		CustomerName:  "  Jane Citizen ",
		CustomerEmail: "Jane@Example.COM",
		CustomerPhone: "+61 (400) 123-456",
		EventType:     "Birthday",
		SelectedHall:  "hall",
		BookingDate:   "2025-03-10",
		StartTime:     "09:00",
		EndTime:       "11:00",
		HallOwnerID:   "owner",
	}
}

func validationMessage(t *testing.T, err error) string {
	t.Helper()
	var v *ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	return v.Message
}

func TestValidateCreateNormalises(t *testing.T) {
	req := validRequest()
	req.CustomerID = "6f1c1f0e-8a7e-4d36-9d2a-5d0b8b7f0a11"
	req.CustomerAvatar = "https://cdn.example.com/a.png"

	v, err := validateCreate(req, fixedNow)
	if err != nil {
		t.Fatalf("validateCreate: %v", err)
	}
	if v.name != "Jane Citizen" {
		t.Errorf("name = %q", v.name)
	}
	if v.email != "jane@example.com" {
		t.Errorf("email = %q", v.email)
	}
	if v.phone != "+61400123456" {
		t.Errorf("phone = %q", v.phone)
	}
	if v.source != DefaultBookingSource {
		t.Errorf("source = %q", v.source)
	}
	if v.customerID == nil || v.customerID.String() != req.CustomerID {
		t.Errorf("customerID = %v", v.customerID)
	}
	if v.avatar == nil || *v.avatar != req.CustomerAvatar {
		t.Errorf("avatar = %v", v.avatar)
	}
}

func TestValidateCreateIgnoresMalformedCustomerID(t *testing.T) {
	req := validRequest()
	req.CustomerID = "not-a-uuid"
	req.BookingSource = "phone"
	v, err := validateCreate(req, fixedNow)
	if err != nil {
		t.Fatalf("validateCreate: %v", err)
	}
	if v.customerID != nil {
		t.Errorf("customerID = %v, want nil", v.customerID)
	}
	if v.source != "phone" {
		t.Errorf("source = %q", v.source)
	}
}

func TestValidateCreateMessages(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *CreateBookingRequest)
		want   string
	}{
		{"missing name", func(r *CreateBookingRequest) { r.CustomerName = "" }, missingFieldsMessage},
		{"missing owner", func(r *CreateBookingRequest) { r.HallOwnerID = "" }, missingFieldsMessage},
		{"missing end", func(r *CreateBookingRequest) { r.EndTime = "" }, missingFieldsMessage},
		{"email without domain", func(r *CreateBookingRequest) { r.CustomerEmail = "jane@example" }, "Invalid email format"},
		{"email with space", func(r *CreateBookingRequest) { r.CustomerEmail = "jane doe@example.com" }, "Invalid email format"},
		{"phone leading zero", func(r *CreateBookingRequest) { r.CustomerPhone = "0400123456" }, "Invalid phone number format"},
		{"phone letters", func(r *CreateBookingRequest) { r.CustomerPhone = "call me" }, "Invalid phone number format"},
		{"phone too long", func(r *CreateBookingRequest) { r.CustomerPhone = "12345678901234567" }, "Invalid phone number format"},
		{"date garbage", func(r *CreateBookingRequest) { r.BookingDate = "10/03/2025" }, "Invalid booking date format"},
		{"date impossible", func(r *CreateBookingRequest) { r.BookingDate = "2025-02-30" }, "Invalid booking date format"},
		{"date yesterday", func(r *CreateBookingRequest) { r.BookingDate = "2025-03-08" }, "Booking date cannot be in the past"},
		{"start malformed", func(r *CreateBookingRequest) { r.StartTime = "09:5" }, "Invalid time format. Use HH:MM format (e.g., 09:00)"},
		{"end out of range", func(r *CreateBookingRequest) { r.EndTime = "24:00" }, "Invalid time format. Use HH:MM format (e.g., 09:00)"},
		{"equal times", func(r *CreateBookingRequest) { r.EndTime = "09:00" }, "Start time must be before end time"},
		{"reversed times", func(r *CreateBookingRequest) { r.StartTime, r.EndTime = "12:00", "11:00" }, "Start time must be before end time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.modify(req)
			_, err := validateCreate(req, fixedNow)
			if got := validationMessage(t, err); got != tt.want {
				t.Errorf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateCreateTodayIsAllowed(t *testing.T) {
	req := validRequest()
	req.BookingDate = "2025-03-09"
	if _, err := validateCreate(req, fixedNow); err != nil {
		t.Fatalf("booking for today rejected: %v", err)
	}
}

func TestValidateCreateChecksInOrder(t *testing.T) {
	// bad email, bad phone and a past date: the email check wins
	req := validRequest()
	req.CustomerEmail = "nope"
	req.CustomerPhone = "nope"
	req.BookingDate = "2020-01-01"
	_, err := validateCreate(req, fixedNow)
	if got := validationMessage(t, err); got != "Invalid email format" {
		t.Errorf("message = %q", got)
	}

	// past date and reversed times: the date check wins
	req = validRequest()
	req.BookingDate = "2020-01-01"
	req.StartTime, req.EndTime = "12:00", "11:00"
	_, err = validateCreate(req, fixedNow)
	if got := validationMessage(t, err); got != "Booking date cannot be in the past" {
		t.Errorf("message = %q", got)
	}
}

func TestRegisterEngine(t *testing.T) {
	v := validator.New()
	if err := registerEngine(v); err != nil {
		t.Fatalf("registerEngine: %v", err)
	}
	if err := v.Var("2025-03-10", "calendar_date"); err != nil {
		t.Errorf("valid date rejected: %v", err)
	}
	if err := v.Var("2025-02-30", "calendar_date"); err == nil {
		t.Error("2025-02-30 accepted")
	}
	if err := v.Var("9:15", "hhmm"); err != nil {
		t.Errorf("valid time rejected: %v", err)
	}

	if err := registerEngine(struct{}{}); err == nil {
		t.Error("unsupported engine accepted")
	}
}

func TestControllerRegistersBindingTags(t *testing.T) {
	NewController(nil, false)

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		t.Fatalf("engine = %T", binding.Validator.Engine())
	}
	query := OwnerBookingsQuery{Date: "2025-13-01"}
	if err := v.Struct(query); err == nil {
		t.Error("invalid calendar_date passed gin's validator")
	}
	query.Date = "2025-03-10"
	if err := v.Struct(query); err != nil {
		t.Errorf("valid query rejected: %v", err)
	}
}
