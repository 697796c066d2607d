package bookings

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusRejected  Status = "rejected"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsActive reports whether the booking holds its slot. Only active bookings
// take part in conflict checks and the availability calendar.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanTransitionTo checks the owner-driven lifecycle:
// pending -> confirmed | rejected | cancelled, confirmed -> cancelled.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusRejected || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	}
	return false
}

// Label is the capitalised status used in e-mail subjects and titles.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusConfirmed:
		return "Confirmed"
	case StatusCancelled:
		return "Cancelled"
	case StatusRejected:
		return "Rejected"
	}
	return string(s)
}
