package database

import (
	"strings"
	"testing"
)

func TestBookingIndexes(t *testing.T) {
	seen := map[string]bool{}
	for _, idx := range bookingIndexes {
		if seen[idx.name] {
			t.Errorf("index %s declared twice", idx.name)
		}
		seen[idx.name] = true
		if !strings.Contains(idx.ddl, " "+idx.name+" ") {
			t.Errorf("%s: ddl creates a different index: %s", idx.name, idx.ddl)
		}
		if !strings.Contains(idx.ddl, "IF NOT EXISTS") {
			t.Errorf("%s: migration is not repeatable", idx.name)
		}
	}
}

// The slot lookup filters on owner, hall and date with no status predicate,
// so a partial index would never be chosen for it.
func TestSlotIndexMatchesSlotLookup(t *testing.T) {
	var ddl string
	for _, idx := range bookingIndexes {
		if idx.name == "idx_bookings_owner_slot" {
			ddl = idx.ddl
		}
	}
	if ddl == "" {
		t.Fatal("idx_bookings_owner_slot missing")
	}
	if strings.Contains(strings.ToUpper(ddl), "WHERE") {
		t.Errorf("slot index is partial: %s", ddl)
	}
	if !strings.HasSuffix(ddl, "(hall_owner_id, selected_hall, booking_date)") {
		t.Errorf("slot index columns: %s", ddl)
	}
}
