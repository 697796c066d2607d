package bookings

import (
	"testing"

	"github.com/google/uuid"
)

func TestOverlapsMatchesHalfOpenIntervals(t *testing.T) {
	// every pair of quarter-hour intervals inside 08:00-12:00
	for s1 := 480; s1 < 720; s1 += 15 {
		for e1 := s1 + 15; e1 <= 720; e1 += 15 {
			for s2 := 480; s2 < 720; s2 += 15 {
				for e2 := s2 + 15; e2 <= 720; e2 += 15 {
					want := s1 < e2 && e1 > s2
					if got := Overlaps(s1, e1, s2, e2); got != want {
						t.Fatalf("Overlaps(%d,%d,%d,%d) = %v, want %v", s1, e1, s2, e2, got, want)
					}
					if Overlaps(s1, e1, s2, e2) != Overlaps(s2, e2, s1, e1) {
						t.Fatalf("Overlaps is not symmetric for (%d,%d) (%d,%d)", s1, e1, s2, e2)
					}
				}
			}
		}
	}
}

func TestOverlapsTouchingIsFree(t *testing.T) {
	if Overlaps(540, 660, 660, 780) {
		t.Error("09:00-11:00 and 11:00-13:00 must not conflict")
	}
	if Overlaps(660, 780, 540, 660) {
		t.Error("11:00-13:00 and 09:00-11:00 must not conflict")
	}
}

func slotBooking(start, end string, status Status) Booking {
	return Booking{
		ID:           uuid.New(),
		CustomerName: "Existing",
		StartTime:    start,
		EndTime:      end,
		Status:       status,
	}
}

func TestFindConflict(t *testing.T) {
	existing := []Booking{
		slotBooking("07:00", "08:00", StatusConfirmed),
		slotBooking("09:00", "11:00", StatusPending),
		slotBooking("14:00", "16:00", StatusConfirmed),
	}

	tests := []struct {
		name       string
		start, end string
		want       string
	}{
		{"overlaps start", "10:00", "12:00", "09:00"},
		{"inside", "09:30", "10:30", "09:00"},
		{"covers", "08:30", "17:00", "09:00"},
		{"touching before", "08:00", "09:00", ""},
		{"touching after", "11:00", "14:00", ""},
		{"second active", "15:00", "18:00", "14:00"},
		{"evening", "18:00", "22:00", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := FindConflict(existing, tt.start, tt.end)
			if tt.want == "" {
				if c != nil {
					t.Fatalf("conflict with %s-%s, want none", c.StartTime, c.EndTime)
				}
				return
			}
			if c == nil {
				t.Fatalf("no conflict, want one starting %s", tt.want)
			}
			if c.StartTime != tt.want {
				t.Errorf("conflict starts %s, want %s", c.StartTime, tt.want)
			}
		})
	}
}

func TestFindConflictIgnoresInactiveBookings(t *testing.T) {
	existing := []Booking{
		slotBooking("09:00", "17:00", StatusCancelled),
		slotBooking("09:00", "17:00", StatusRejected),
		slotBooking("09:00", "17:00", Status("archived")),
	}
	if c := FindConflict(existing, "10:00", "12:00"); c != nil {
		t.Fatalf("inactive booking %s reported as conflict", c.Status)
	}
}

func TestFindConflictSkipsUnparseableStoredTimes(t *testing.T) {
	existing := []Booking{
		slotBooking("", "", StatusConfirmed),
		slotBooking("9am", "11am", StatusPending),
		slotBooking("10:00", "11:00", StatusPending),
	}
	c := FindConflict(existing, "09:00", "12:00")
	if c == nil || c.StartTime != "10:00" {
		t.Fatalf("got %+v, want the 10:00 booking", c)
	}
	if c.BookingID != existing[2].ID.String() || c.CustomerName != "Existing" {
		t.Errorf("conflict summary = %+v", c)
	}
}
