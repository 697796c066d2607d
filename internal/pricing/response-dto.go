package pricing

import "time"

type PublicPricing struct {
	ID           string     `json:"id"`
	ResourceID   string     `json:"resourceId"`
	ResourceName string     `json:"resourceName"`
	RateType     string     `json:"rateType"`
	WeekdayRate  float64    `json:"weekdayRate"`
	WeekendRate  float64    `json:"weekendRate"`
	Description  string     `json:"description"`
	HallOwnerID  string     `json:"hallOwnerId"`
	CreatedAt    *time.Time `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt"`
}

func toPublicPricing(r Rule) PublicPricing {
	rateType := string(r.RateType)
	if rateType == "" {
		rateType = string(RateTypeHourly)
	}
	out := PublicPricing{
		ID:           r.ID.String(),
		ResourceID:   r.ResourceID.String(),
		ResourceName: r.ResourceName,
		RateType:     rateType,
		WeekdayRate:  r.WeekdayRate,
		WeekendRate:  r.WeekendRate,
		Description:  r.Description,
		HallOwnerID:  r.HallOwnerID.String(),
	}
	if !r.CreatedAt.IsZero() {
		created := r.CreatedAt
		out.CreatedAt = &created
	}
	if !r.UpdatedAt.IsZero() {
		updated := r.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out
}
