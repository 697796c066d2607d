package bookings

import (
	"time"

	"hallbook/internal/pricing"

	"github.com/google/uuid"
)

const DefaultBookingSource = "website"

// Booking is one reservation of a resource for a time range on a calendar day.
type Booking struct {
	ID                    uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID            *uuid.UUID            `gorm:"type:uuid;index" json:"customerId"`
	CustomerName          string                `gorm:"not null" json:"customerName"`
	CustomerEmail         string                `gorm:"not null" json:"customerEmail"`
	CustomerPhone         string                `gorm:"type:varchar(20)" json:"customerPhone"`
	CustomerAvatar        *string               `json:"customerAvatar"`
	EventType             string                `json:"eventType"`
	SelectedHall          uuid.UUID             `gorm:"type:uuid;not null;index:idx_bookings_slot,priority:2" json:"selectedHall"`
	HallName              string                `json:"hallName"`
	HallOwnerID           uuid.UUID             `gorm:"type:uuid;not null;index:idx_bookings_slot,priority:1" json:"hallOwnerId"`
	BookingDate           string                `gorm:"type:varchar(10);not null;index:idx_bookings_slot,priority:3" json:"bookingDate"`
	StartTime             string                `gorm:"type:varchar(5);not null" json:"startTime"`
	EndTime               string                `gorm:"type:varchar(5);not null" json:"endTime"`
	GuestCount            *int                  `json:"guestCount"`
	AdditionalDescription string                `gorm:"type:text" json:"additionalDescription"`
	Status                Status                `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CalculatedPrice       float64               `gorm:"not null;default:0" json:"calculatedPrice"`
	PriceDetails          *pricing.PriceDetails `gorm:"type:jsonb;serializer:json" json:"priceDetails"`
	BookingCode           string                `gorm:"type:varchar(32);uniqueIndex" json:"bookingCode"`
	BookingSource         string                `gorm:"type:varchar(32);not null;default:'website'" json:"bookingSource"`
	CreatedAt             time.Time             `json:"createdAt"`
	UpdatedAt             time.Time             `json:"updatedAt"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}
