// Package clock parses the wall-clock and calendar formats bookings use.
package clock

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the stored booking date format (no zone).
const DateLayout = "2006-01-02"

// hour may be written with one digit, minutes always with two
var hhmm = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// ValidHHMM reports whether s is a 24h HH:MM time.
func ValidHHMM(s string) bool {
	return hhmm.MatchString(s)
}

// Minutes converts an HH:MM string to minutes after midnight.
func Minutes(s string) (int, bool) {
	if !ValidHHMM(s) {
		return 0, false
	}
	h, m, _ := strings.Cut(s, ":")
	hours, _ := strconv.Atoi(h)
	mins, _ := strconv.Atoi(m)
	return hours*60 + mins, true
}

// ParseDate parses a YYYY-MM-DD date in the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// IsWeekend reports Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
