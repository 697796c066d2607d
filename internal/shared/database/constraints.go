package database

import (
	"fmt"

	"gorm.io/gorm"
)

type bookingIndex struct {
	name string
	ddl  string
}

var bookingIndexes = []bookingIndex{
	// Conflict checks read one owner, hall and date; the calendar reads the
	// owner prefix. Status is filtered in memory, so the index is not partial.
	{
		name: "idx_bookings_owner_slot",
		ddl:  "CREATE INDEX IF NOT EXISTS idx_bookings_owner_slot ON bookings (hall_owner_id, selected_hall, booking_date)",
	},
	// Customer history is read newest first
	{
		name: "idx_bookings_customer_created",
		ddl:  "CREATE INDEX IF NOT EXISTS idx_bookings_customer_created ON bookings (customer_id, created_at DESC)",
	},
	// The reminder job scans one date at a time
	{
		name: "idx_bookings_date_status",
		ddl:  "CREATE INDEX IF NOT EXISTS idx_bookings_date_status ON bookings (booking_date, status)",
	},
}

// MigrateConstraints adds the indexes the booking paths depend on.
func MigrateConstraints(db *gorm.DB) error {
	for _, idx := range bookingIndexes {
		if err := db.Exec(idx.ddl).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}
