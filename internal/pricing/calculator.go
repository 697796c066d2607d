package pricing

import (
	"errors"
	"time"

	"hallbook/internal/shared/utils/clock"
)

// A daily rate is charged in full from this many hours, half below it.
const fullDayHours = 8.0

var ErrInvalidInterval = errors.New("invalid booking interval")

// Quote is the result of pricing one booking.
type Quote struct {
	Price   float64
	Details *PriceDetails
}

// Calculate prices [start, end) on bookingDate against rule. estimated is the
// client-side figure, echoed into the details only.
func Calculate(rule Rule, bookingDate time.Time, start, end string, estimated *float64) (Quote, error) {
	startMin, ok := clock.Minutes(start)
	if !ok {
		return Quote{}, ErrInvalidInterval
	}
	endMin, ok := clock.Minutes(end)
	if !ok || endMin <= startMin {
		return Quote{}, ErrInvalidInterval
	}

	durationHours := float64(endMin-startMin) / 60
	weekend := clock.IsWeekend(bookingDate)

	rate := rule.WeekdayRate
	if weekend {
		rate = rule.WeekendRate
	}

	var price float64
	method := string(RateTypeDaily)
	if rule.RateType == RateTypeHourly {
		method = string(RateTypeHourly)
		price = rate * durationHours
	} else if durationHours >= fullDayHours {
		price = rate
	} else {
		price = rate * 0.5
	}

	return Quote{
		Price: price,
		Details: &PriceDetails{
			RateType:               string(rule.RateType),
			WeekdayRate:            rule.WeekdayRate,
			WeekendRate:            rule.WeekendRate,
			AppliedRate:            rate,
			DurationHours:          durationHours,
			IsWeekend:              weekend,
			CalculationMethod:      method,
			FrontendEstimatedPrice: nonZero(estimated),
		},
	}, nil
}

// Fallback is the price used when no rule applies: the client estimate or 0.
func Fallback(estimated *float64) float64 {
	if estimated == nil {
		return 0
	}
	return *estimated
}

func nonZero(v *float64) *float64 {
	if v == nil || *v == 0 {
		return nil
	}
	out := *v
	return &out
}
