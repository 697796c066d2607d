package bookings

type CreateBookingResponse struct {
	BookingID       string  `json:"bookingId"`
	BookingCode     string  `json:"bookingCode"`
	BookingSource   string  `json:"bookingSource"`
	CalculatedPrice float64 `json:"calculatedPrice"`
	Status          Status  `json:"status"`
}

type ConflictDebug struct {
	RequestedTime string `json:"requestedTime"`
	BookedTime    string `json:"bookedTime"`
	Date          string `json:"date"`
	Resource      string `json:"resource"`
}

type ConflictResponse struct {
	ConflictingBooking *Conflict     `json:"conflictingBooking"`
	Debug              ConflictDebug `json:"debug"`
}

type UnavailableEntry struct {
	BookingID    string `json:"bookingId"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	CustomerName string `json:"customerName"`
	EventType    string `json:"eventType"`
	Status       string `json:"status"`
}

// UnavailableDatesResponse groups active bookings date -> resource id -> entries.
type UnavailableDatesResponse struct {
	UnavailableDates map[string]map[string][]UnavailableEntry `json:"unavailableDates"`
	TotalBookings    int                                      `json:"totalBookings"`
}

type DebugBooking struct {
	ID              string  `json:"id"`
	CustomerName    string  `json:"customerName"`
	CustomerEmail   string  `json:"customerEmail"`
	EventType       string  `json:"eventType"`
	SelectedHall    string  `json:"selectedHall"`
	HallName        string  `json:"hallName"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	Status          Status  `json:"status"`
	CalculatedPrice float64 `json:"calculatedPrice"`
	CreatedAt       *string `json:"createdAt"`
}

type DebugListResponse struct {
	TotalBookings  int                       `json:"totalBookings"`
	ActiveBookings int                       `json:"activeBookings"`
	Bookings       []DebugBooking            `json:"bookings"`
	GroupedByDate  map[string][]DebugBooking `json:"groupedByDate"`
	HallOwnerID    string                    `json:"hallOwnerId"`
}

type DeleteBookingResponse struct {
	BookingID string `json:"bookingId"`
}

type StatusChangeResponse struct {
	BookingID      string `json:"bookingId"`
	BookingCode    string `json:"bookingCode"`
	PreviousStatus Status `json:"previousStatus"`
	Status         Status `json:"status"`
}

type BookingListResponse struct {
	Bookings []Booking `json:"bookings"`
	Total    int64     `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}
