package pricing

import (
	"time"

	"github.com/google/uuid"
)

type RateType string

const (
	RateTypeHourly RateType = "hourly"
	RateTypeDaily  RateType = "daily"
)

// Rule is an owner's rate card for one resource.
type Rule struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	HallOwnerID  uuid.UUID `gorm:"type:uuid;not null;index:idx_pricing_owner_resource"`
	ResourceID   uuid.UUID `gorm:"type:uuid;not null;index:idx_pricing_owner_resource"`
	ResourceName string
	RateType     RateType `gorm:"not null;default:'hourly'"`
	WeekdayRate  float64
	WeekendRate  float64
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Rule) TableName() string {
	return "pricing"
}

// PriceDetails records how a booking price was derived.
type PriceDetails struct {
	RateType               string   `json:"rateType"`
	WeekdayRate            float64  `json:"weekdayRate"`
	WeekendRate            float64  `json:"weekendRate"`
	AppliedRate            float64  `json:"appliedRate"`
	DurationHours          float64  `json:"durationHours"`
	IsWeekend              bool     `json:"isWeekend"`
	CalculationMethod      string   `json:"calculationMethod"`
	FrontendEstimatedPrice *float64 `json:"frontendEstimatedPrice"`
}
