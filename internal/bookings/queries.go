package bookings

import (
	"context"
	"fmt"
	"time"

	"hallbook/internal/shared/constants"
	"hallbook/pkg/retry"

	"github.com/google/uuid"
)

func (s *service) GetUnavailableDates(ctx context.Context, ownerID string, q UnavailableDatesQuery) (*UnavailableDatesResponse, error) {
	owner, err := s.deps.Owners.GetHallOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	ownerID = owner.ID.String()

	fetch := func() (interface{}, error) {
		list, err := retry.Do(ctx, s.policy, func(ctx context.Context) ([]Booking, error) {
			return s.repo.ListByOwner(ctx, ownerID)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load bookings: %w", err)
		}
		return buildUnavailableDates(list, q), nil
	}

	if s.deps.Cache == nil {
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		return data.(*UnavailableDatesResponse), nil
	}

	var resp UnavailableDatesResponse
	key := constants.BuildUnavailableDatesKey(ownerID, q.ResourceID, q.StartDate, q.EndDate)
	if err := s.deps.Cache.GetOrSet(ctx, key, constants.TTL_UNAVAILABLE_DATES, fetch, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// buildUnavailableDates groups the active bookings matching q by date and
// resource. Bounds are inclusive and compared as YYYY-MM-DD strings.
func buildUnavailableDates(list []Booking, q UnavailableDatesQuery) *UnavailableDatesResponse {
	resp := &UnavailableDatesResponse{
		UnavailableDates: make(map[string]map[string][]UnavailableEntry),
	}

	for i := range list {
		b := &list[i]
		if !b.Status.IsActive() {
			continue
		}
		resource := b.SelectedHall.String()
		if q.ResourceID != "" && resource != q.ResourceID {
			continue
		}
		if q.StartDate != "" && b.BookingDate < q.StartDate {
			continue
		}
		if q.EndDate != "" && b.BookingDate > q.EndDate {
			continue
		}
		resp.TotalBookings++

		if b.BookingDate == "" || b.SelectedHall == uuid.Nil {
			continue
		}

		byResource, ok := resp.UnavailableDates[b.BookingDate]
		if !ok {
			byResource = make(map[string][]UnavailableEntry)
			resp.UnavailableDates[b.BookingDate] = byResource
		}
		byResource[resource] = append(byResource[resource], UnavailableEntry{
			BookingID:    b.ID.String(),
			StartTime:    orDefault(b.StartTime, "N/A"),
			EndTime:      orDefault(b.EndTime, "N/A"),
			CustomerName: orDefault(b.CustomerName, "Unknown"),
			EventType:    orDefault(b.EventType, "Unknown"),
			Status:       orDefault(string(b.Status), "Unknown"),
		})
	}
	return resp
}

func (s *service) ListDebugBookings(ctx context.Context, ownerID string, includeAll bool) (*DebugListResponse, error) {
	resp := &DebugListResponse{
		Bookings:      []DebugBooking{},
		GroupedByDate: make(map[string][]DebugBooking),
		HallOwnerID:   ownerID,
	}
	// no owner can have a malformed id
	if _, err := uuid.Parse(ownerID); err != nil {
		return resp, nil
	}

	list, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	resp.TotalBookings = len(list)
	for i := range list {
		b := &list[i]
		if !includeAll && !b.Status.IsActive() {
			continue
		}
		d := toDebugBooking(b)
		resp.Bookings = append(resp.Bookings, d)
		key := b.BookingDate + " - " + b.HallName
		resp.GroupedByDate[key] = append(resp.GroupedByDate[key], d)
	}
	resp.ActiveBookings = len(resp.Bookings)
	return resp, nil
}

func (s *service) ListOwnerBookings(ctx context.Context, ownerID string, q OwnerBookingsQuery) ([]Booking, error) {
	list, err := s.repo.ListForOwner(ctx, ownerID, OwnerFilter{Status: Status(q.Status), Date: q.Date})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if list == nil {
		list = []Booking{}
	}
	return list, nil
}

func (s *service) ListCustomerBookings(ctx context.Context, customerID string, q HistoryQuery) (*BookingListResponse, error) {
	list, total, err := s.repo.ListByCustomer(ctx, customerID, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if list == nil {
		list = []Booking{}
	}
	return &BookingListResponse{
		Bookings: list,
		Total:    total,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}, nil
}

func toDebugBooking(b *Booking) DebugBooking {
	d := DebugBooking{
		ID:              b.ID.String(),
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		EventType:       b.EventType,
		SelectedHall:    b.SelectedHall.String(),
		HallName:        b.HallName,
		BookingDate:     b.BookingDate,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Status:          b.Status,
		CalculatedPrice: b.CalculatedPrice,
	}
	if !b.CreatedAt.IsZero() {
		created := b.CreatedAt.UTC().Format(time.RFC3339)
		d.CreatedAt = &created
	}
	return d
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
