package bookings

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hallbook/internal/shared/middleware"
	"hallbook/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// testAuth trusts the X-Test-User and X-Test-Role headers.
func testAuth(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Test-User")
		if id == "" {
			if required {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.Next()
			return
		}
		role := c.GetHeader("X-Test-Role")
		if role == "" {
			role = string(users.RoleHallOwner)
		}
		middleware.SetSession(c, &middleware.Session{UserID: id, Role: role})
		c.Next()
	}
}

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

func newTestRouter(f *fixture, debug bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupBookingRoutes(r.Group("/api/v1"), NewController(f.svc, debug), testAuth(true), testAuth(false))
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Code != http.StatusUnauthorized {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

func TestCreateBookingHandler(t *testing.T) {
	f := newFixture(t)
	f.hourly(50, 80)
	r := newTestRouter(f, true)

	w, env := do(t, r, http.MethodPost, "/api/v1/bookings", f.request("09:00", "11:00"), nil)
	if w.Code != http.StatusOK || env.Message != "Booking created successfully" {
		t.Fatalf("code = %d body = %s", w.Code, w.Body.String())
	}
	var created CreateBookingResponse
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatal(err)
	}
	if created.CalculatedPrice != 100 || created.Status != StatusPending || created.BookingID == "" {
		t.Errorf("created = %+v", created)
	}

	w, env = do(t, r, http.MethodPost, "/api/v1/bookings", f.request("10:00", "12:00"), nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("overlap: code = %d", w.Code)
	}
	if env.Message != "Time slot is already booked. Please choose a different time." {
		t.Errorf("overlap message = %q", env.Message)
	}
	var conflict ConflictResponse
	if err := json.Unmarshal(env.Data, &conflict); err != nil {
		t.Fatal(err)
	}
	if conflict.ConflictingBooking == nil || conflict.ConflictingBooking.BookingID != created.BookingID {
		t.Errorf("conflict = %+v", conflict)
	}
}

func TestCreateBookingHandlerErrors(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f, true)

	past := f.request("09:00", "11:00")
	past.BookingDate = "2025-03-08"
	unknownOwner := f.request("09:00", "11:00")
	unknownOwner.HallOwnerID = uuid.NewString()
	unknownHall := f.request("09:00", "11:00")
	unknownHall.SelectedHall = uuid.NewString()

	tests := []struct {
		name string
		body interface{}
		code int
		msg  string
	}{
		{"past date", past, http.StatusBadRequest, "Booking date cannot be in the past"},
		{"empty body", map[string]string{}, http.StatusBadRequest, missingFieldsMessage},
		{"unknown owner", unknownOwner, http.StatusNotFound, "Hall owner not found"},
		{"unknown hall", unknownHall, http.StatusNotFound, "Selected hall not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, r, http.MethodPost, "/api/v1/bookings", tt.body, nil)
			if w.Code != tt.code || env.Message != tt.msg {
				t.Errorf("code = %d message = %q, want %d %q", w.Code, env.Message, tt.code, tt.msg)
			}
		})
	}
}

func TestCreateBookingHandlerUsesSessionCustomer(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f, true)
	customer := uuid.NewString()

	w, _ := do(t, r, http.MethodPost, "/api/v1/bookings", f.request("09:00", "11:00"), map[string]string{
		"X-Test-User": customer,
		"X-Test-Role": string(users.RoleCustomer),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", w.Code, w.Body.String())
	}
	if b := f.repo.list[0]; b.CustomerID == nil || b.CustomerID.String() != customer {
		t.Errorf("customerId = %v, want %s", b.CustomerID, customer)
	}
}

// The booking form posts its number inputs as strings, empty when untouched.
func TestCreateBookingHandlerAcceptsFormStrings(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f, true)

	form := func(start, end string, guests, estimate interface{}) map[string]interface{} {
		req := f.request(start, end)
		return map[string]interface{}{
			"customerName":   req.CustomerName,
			"customerEmail":  req.CustomerEmail,
			"customerPhone":  req.CustomerPhone,
			"eventType":      req.EventType,
			"selectedHall":   req.SelectedHall,
			"bookingDate":    req.BookingDate,
			"startTime":      req.StartTime,
			"endTime":        req.EndTime,
			"hallOwnerId":    req.HallOwnerID,
			"guestCount":     guests,
			"estimatedPrice": estimate,
		}
	}

	tests := []struct {
		name      string
		body      map[string]interface{}
		wantGuest *int
		wantPrice float64
	}{
		{"empty strings", form("08:00", "09:00", "", ""), nil, 0},
		{"numeric strings", form("10:00", "11:00", "50", "150.50"), intPtr(50), 150.5},
		{"numbers", form("12:00", "13:00", 20, 99), intPtr(20), 99},
		{"null", form("14:00", "15:00", nil, nil), nil, 0},
		{"not a number", form("16:00", "17:00", "lots", "tbc"), nil, 0},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, r, http.MethodPost, "/api/v1/bookings", tt.body, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("code = %d message = %q", w.Code, env.Message)
			}
			b := f.repo.list[i]
			switch {
			case tt.wantGuest == nil && b.GuestCount != nil:
				t.Errorf("guestCount = %d, want unset", *b.GuestCount)
			case tt.wantGuest != nil && (b.GuestCount == nil || *b.GuestCount != *tt.wantGuest):
				t.Errorf("guestCount = %v, want %d", b.GuestCount, *tt.wantGuest)
			}
			if b.CalculatedPrice != tt.wantPrice {
				t.Errorf("price = %v, want %v", b.CalculatedPrice, tt.wantPrice)
			}
		})
	}
}

func intPtr(v int) *int { return &v }

func TestUnavailableDatesHandler(t *testing.T) {
	f := newFixture(t)
	f.seed("2025-03-10", "09:00", "11:00", StatusPending)
	r := newTestRouter(f, true)

	w, env := do(t, r, http.MethodGet, "/api/v1/bookings/unavailable-dates/"+f.owner.ID.String(), nil, nil)
	if w.Code != http.StatusOK || env.Message != "Successfully fetched unavailable dates" {
		t.Fatalf("code = %d body = %s", w.Code, w.Body.String())
	}
	var resp UnavailableDatesResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.TotalBookings != 1 {
		t.Errorf("total = %d", resp.TotalBookings)
	}

	w, _ = do(t, r, http.MethodGet, "/api/v1/bookings/unavailable-dates/"+f.owner.ID.String()+"?startDate=10-03-2025", nil, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad startDate: code = %d", w.Code)
	}

	w, _ = do(t, r, http.MethodGet, "/api/v1/bookings/unavailable-dates/"+uuid.NewString(), nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown owner: code = %d", w.Code)
	}
}

func TestDebugHandlers(t *testing.T) {
	f := newFixture(t)
	b := f.seed("2025-03-10", "09:00", "11:00", StatusPending)
	ownerID := f.owner.ID.String()
	asOwner := map[string]string{"X-Test-User": ownerID}
	path := "/api/v1/bookings/debug/" + ownerID

	if w, _ := do(t, newTestRouter(f, false), http.MethodGet, path, nil, asOwner); w.Code != http.StatusNotFound {
		t.Errorf("disabled: code = %d", w.Code)
	}

	r := newTestRouter(f, true)
	if w, _ := do(t, r, http.MethodGet, path, nil, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: code = %d", w.Code)
	}
	if w, _ := do(t, r, http.MethodGet, path, nil, map[string]string{"X-Test-User": uuid.NewString()}); w.Code != http.StatusForbidden {
		t.Errorf("other owner: code = %d", w.Code)
	}

	w, env := do(t, r, http.MethodGet, path+"?includeAll=true", nil, asOwner)
	if w.Code != http.StatusOK {
		t.Fatalf("list: code = %d", w.Code)
	}
	var list DebugListResponse
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatal(err)
	}
	if list.TotalBookings != 1 || list.HallOwnerID != ownerID {
		t.Errorf("list = %+v", list)
	}

	w, env = do(t, r, http.MethodDelete, path, nil, asOwner)
	if w.Code != http.StatusBadRequest || env.Message != "bookingId query parameter is required" {
		t.Errorf("missing id: code = %d message = %q", w.Code, env.Message)
	}

	w, env = do(t, r, http.MethodDelete, path+"?bookingId="+b.ID.String(), nil, map[string]string{
		"X-Test-User": "someone",
		"X-Test-Role": string(users.RoleAdmin),
	})
	if w.Code != http.StatusOK || env.Message != "Booking deleted successfully" {
		t.Errorf("admin delete: code = %d message = %q", w.Code, env.Message)
	}
	if f.repo.count() != 0 {
		t.Error("booking not deleted")
	}

	w, env = do(t, r, http.MethodGet, "/api/v1/bookings/debug/not-a-uuid", nil, map[string]string{
		"X-Test-User": "someone",
		"X-Test-Role": string(users.RoleAdmin),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("admin, malformed owner: code = %d message = %q", w.Code, env.Message)
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatal(err)
	}
	if list.TotalBookings != 0 || len(list.Bookings) != 0 {
		t.Errorf("admin, malformed owner: list = %+v", list)
	}
}

func TestOwnerStatusHandler(t *testing.T) {
	f := newFixture(t)
	b := f.seed("2025-03-12", "09:00", "11:00", StatusPending)
	r := newTestRouter(f, true)
	asOwner := map[string]string{"X-Test-User": f.owner.ID.String()}
	path := "/api/v1/owner/bookings/" + b.ID.String() + "/status"

	w, _ := do(t, r, http.MethodPatch, path, gin.H{"status": "pending"}, asOwner)
	if w.Code != http.StatusBadRequest {
		t.Errorf("pending target: code = %d", w.Code)
	}

	w, env := do(t, r, http.MethodPatch, path, gin.H{"status": "confirmed"}, asOwner)
	if w.Code != http.StatusOK {
		t.Fatalf("confirm: code = %d body = %s", w.Code, w.Body.String())
	}
	var change StatusChangeResponse
	if err := json.Unmarshal(env.Data, &change); err != nil {
		t.Fatal(err)
	}
	if change.PreviousStatus != StatusPending || change.Status != StatusConfirmed {
		t.Errorf("change = %+v", change)
	}

	if w, _ := do(t, r, http.MethodPatch, path, gin.H{"status": "rejected"}, asOwner); w.Code != http.StatusConflict {
		t.Errorf("confirmed -> rejected: code = %d", w.Code)
	}

	customer := map[string]string{"X-Test-User": uuid.NewString(), "X-Test-Role": string(users.RoleCustomer)}
	if w, _ := do(t, r, http.MethodPatch, path, gin.H{"status": "cancelled"}, customer); w.Code != http.StatusForbidden {
		t.Errorf("customer: code = %d", w.Code)
	}

	w, env = do(t, r, http.MethodGet, "/api/v1/owner/bookings?status=confirmed", nil, asOwner)
	if w.Code != http.StatusOK {
		t.Fatalf("list: code = %d", w.Code)
	}
	var list []Booking
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != b.ID {
		t.Errorf("owner list = %+v", list)
	}
}

func TestUserBookingsHandler(t *testing.T) {
	f := newFixture(t)
	b := f.seed("2025-03-12", "09:00", "11:00", StatusPending)
	r := newTestRouter(f, true)

	w, env := do(t, r, http.MethodGet, "/api/v1/users/bookings", nil, map[string]string{
		"X-Test-User": b.CustomerID.String(),
		"X-Test-Role": string(users.RoleCustomer),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("code = %d body = %s", w.Code, w.Body.String())
	}
	var resp BookingListResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 || resp.Limit != 20 || len(resp.Bookings) != 1 {
		t.Errorf("resp = %+v", resp)
	}

	w, _ = do(t, r, http.MethodGet, "/api/v1/users/bookings?limit=500", nil, map[string]string{"X-Test-User": b.CustomerID.String()})
	if w.Code != http.StatusBadRequest {
		t.Errorf("limit=500: code = %d", w.Code)
	}
}
