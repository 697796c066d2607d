package bookings

// CreateBookingRequest is the public booking form. Presence and format are
// checked by validateCreate so the caller gets the exact messages the form
// expects.
type CreateBookingRequest struct {
	CustomerID            string    `json:"customerId"`
	CustomerName          string    `json:"customerName"`
	CustomerEmail         string    `json:"customerEmail"`
	CustomerPhone         string    `json:"customerPhone"`
	EventType             string    `json:"eventType"`
	SelectedHall          string    `json:"selectedHall"`
	BookingDate           string    `json:"bookingDate"`
	StartTime             string    `json:"startTime"`
	EndTime               string    `json:"endTime"`
	AdditionalDescription string    `json:"additionalDescription"`
	HallOwnerID           string    `json:"hallOwnerId"`
	EstimatedPrice        FormFloat `json:"estimatedPrice"`
	CustomerAvatar        string    `json:"customerAvatar"`
	GuestCount            FormInt   `json:"guestCount"`
	BookingSource         string    `json:"bookingSource"`
}

type UnavailableDatesQuery struct {
	ResourceID string `form:"resourceId"`
	StartDate  string `form:"startDate" binding:"omitempty,calendar_date"`
	EndDate    string `form:"endDate" binding:"omitempty,calendar_date"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=confirmed rejected cancelled"`
}

type OwnerBookingsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled rejected"`
	Date   string `form:"date" binding:"omitempty,calendar_date"`
}

type HistoryQuery struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}
