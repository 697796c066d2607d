package database

import (
	"hallbook/internal/bookings"
	"hallbook/internal/customers"
	"hallbook/internal/notifications"
	"hallbook/internal/pricing"
	"hallbook/internal/resources"
	"hallbook/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return err
	}
	return db.AutoMigrate(
		&users.User{},
		&customers.Customer{},
		&resources.Resource{},
		&pricing.Rule{},
		&bookings.Booking{},
		&notifications.Notification{},
	)
}
