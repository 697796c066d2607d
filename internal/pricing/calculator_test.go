package pricing

import (
	"errors"
	"math"
	"testing"
	"time"

	"hallbook/internal/shared/utils/clock"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := clock.ParseDate(s, time.Local)
	if err != nil {
		t.Fatalf("ParseDate(%s): %v", s, err)
	}
	return d
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateHourlyWeekday(t *testing.T) {
	rule := Rule{RateType: RateTypeHourly, WeekdayRate: 50, WeekendRate: 80}

	// 2025-03-10 is a Monday
	q, err := Calculate(rule, mustDate(t, "2025-03-10"), "09:00", "11:00", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(q.Price, 100) {
		t.Errorf("price = %v, want 100", q.Price)
	}
	d := q.Details
	if d.IsWeekend || d.AppliedRate != 50 || d.DurationHours != 2 || d.CalculationMethod != "hourly" {
		t.Errorf("unexpected details: %+v", d)
	}
	if d.FrontendEstimatedPrice != nil {
		t.Errorf("frontendEstimatedPrice = %v, want nil", *d.FrontendEstimatedPrice)
	}
}

func TestCalculateDailyHalfAndFullDay(t *testing.T) {
	rule := Rule{RateType: RateTypeDaily, WeekdayRate: 200, WeekendRate: 300}
	monday := mustDate(t, "2025-03-10")

	tests := []struct {
		start, end string
		want       float64
	}{
		{"09:00", "13:00", 100}, // 4h, half day
		{"09:00", "18:00", 200}, // 9h, full day
		{"09:00", "17:00", 200}, // exactly 8h is a full day
		{"09:00", "16:59", 100}, // just under 8h
	}
	for _, tt := range tests {
		q, err := Calculate(rule, monday, tt.start, tt.end, nil)
		if err != nil {
			t.Fatalf("%s-%s: %v", tt.start, tt.end, err)
		}
		if !almostEqual(q.Price, tt.want) {
			t.Errorf("%s-%s: price = %v, want %v", tt.start, tt.end, q.Price, tt.want)
		}
		if q.Details.CalculationMethod != "daily" {
			t.Errorf("method = %q, want daily", q.Details.CalculationMethod)
		}
	}
}

func TestCalculateUnknownRateTypeIsDaily(t *testing.T) {
	rule := Rule{RateType: "flat", WeekdayRate: 120}
	q, err := Calculate(rule, mustDate(t, "2025-03-11"), "10:00", "12:00", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(q.Price, 60) || q.Details.CalculationMethod != "daily" {
		t.Errorf("got price %v method %s", q.Price, q.Details.CalculationMethod)
	}
}

func TestCalculateWeekendSwitchesRate(t *testing.T) {
	rule := Rule{RateType: RateTypeHourly, WeekdayRate: 50, WeekendRate: 75}

	fri, err := Calculate(rule, mustDate(t, "2025-03-14"), "10:00", "12:00", nil)
	if err != nil {
		t.Fatal(err)
	}
	sat, err := Calculate(rule, mustDate(t, "2025-03-15"), "10:00", "12:00", nil)
	if err != nil {
		t.Fatal(err)
	}

	if fri.Details.IsWeekend || !almostEqual(fri.Price, 100) {
		t.Errorf("friday: weekend=%v price=%v", fri.Details.IsWeekend, fri.Price)
	}
	if !sat.Details.IsWeekend || !almostEqual(sat.Price, 150) {
		t.Errorf("saturday: weekend=%v price=%v", sat.Details.IsWeekend, sat.Price)
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	rule := Rule{RateType: RateTypeHourly, WeekdayRate: 42.5, WeekendRate: 60}
	date := mustDate(t, "2025-03-12")
	est := 90.0

	first, err := Calculate(rule, date, "08:15", "10:45", &est)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, _ := Calculate(rule, date, "08:15", "10:45", &est)
		if again.Price != first.Price || *again.Details.FrontendEstimatedPrice != est {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
	if !almostEqual(first.Price, 42.5*2.5) {
		t.Errorf("price = %v", first.Price)
	}
}

func TestCalculateRejectsBadInterval(t *testing.T) {
	rule := Rule{RateType: RateTypeHourly, WeekdayRate: 50}
	date := mustDate(t, "2025-03-10")

	for _, iv := range [][2]string{{"11:00", "09:00"}, {"10:00", "10:00"}, {"25:00", "26:00"}} {
		if _, err := Calculate(rule, date, iv[0], iv[1], nil); !errors.Is(err, ErrInvalidInterval) {
			t.Errorf("%v: err = %v, want ErrInvalidInterval", iv, err)
		}
	}
}

func TestFallback(t *testing.T) {
	if got := Fallback(nil); got != 0 {
		t.Errorf("Fallback(nil) = %v", got)
	}
	est := 125.0
	if got := Fallback(&est); got != 125 {
		t.Errorf("Fallback(125) = %v", got)
	}
}
