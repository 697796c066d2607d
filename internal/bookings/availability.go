package bookings

import (
	"hallbook/internal/shared/utils/clock"
)

// Conflict summarises the existing booking a request collides with.
type Conflict struct {
	BookingID    string `json:"bookingId"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	CustomerName string `json:"customerName"`
	Status       Status `json:"status"`
}

// Overlaps reports whether the half-open intervals [s1, e1) and [s2, e2)
// intersect. Touching endpoints do not.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && e1 > s2
}

// FindConflict scans existing in order and returns the first active booking
// overlapping [start, end), or nil. start and end must already be valid HH:MM
// with start < end. Stored bookings with unparseable times are skipped.
func FindConflict(existing []Booking, start, end string) *Conflict {
	s1, ok := clock.Minutes(start)
	if !ok {
		return nil
	}
	e1, ok := clock.Minutes(end)
	if !ok {
		return nil
	}

	for i := range existing {
		b := &existing[i]
		if !b.Status.IsActive() {
			continue
		}

		s2, ok := clock.Minutes(b.StartTime)
		if !ok {
			continue
		}
		e2, ok := clock.Minutes(b.EndTime)
		if !ok {
			continue
		}

		if Overlaps(s1, e1, s2, e2) {
			return &Conflict{
				BookingID:    b.ID.String(),
				StartTime:    b.StartTime,
				EndTime:      b.EndTime,
				CustomerName: b.CustomerName,
				Status:       b.Status,
			}
		}
	}
	return nil
}
