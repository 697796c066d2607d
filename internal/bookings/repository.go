package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnerFilter narrows an owner's booking list.
type OwnerFilter struct {
	Status Status
	Date   string
}

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	CodeExists(ctx context.Context, code string) (bool, error)

	// ListSlot returns every booking for one owner, resource and date, in
	// store order.
	ListSlot(ctx context.Context, ownerID, resourceID, date string) ([]Booking, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Booking, error)
	ListForOwner(ctx context.Context, ownerID string, filter OwnerFilter) ([]Booking, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]Booking, int64, error)
	ListByDateAndStatus(ctx context.Context, date string, status Status) ([]Booking, error)

	// UpdateStatus moves a booking from one status to another; it fails with
	// ErrInvalidStatusTransition when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to Status) error
	DeleteForOwner(ctx context.Context, ownerID, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	err := r.db.WithContext(ctx).Create(booking).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateCode
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrBookingNotFound
	}

	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Booking{}).Where("booking_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *repository) ListSlot(ctx context.Context, ownerID, resourceID, date string) ([]Booking, error) {
	var list []Booking
	err := r.db.WithContext(ctx).
		Where("hall_owner_id = ? AND selected_hall = ? AND booking_date = ?", ownerID, resourceID, date).
		Find(&list).Error
	return list, err
}

func (r *repository) ListByOwner(ctx context.Context, ownerID string) ([]Booking, error) {
	if _, err := uuid.Parse(ownerID); err != nil {
		return []Booking{}, nil
	}

	var list []Booking
	err := r.db.WithContext(ctx).Where("hall_owner_id = ?", ownerID).Find(&list).Error
	return list, err
}

func (r *repository) ListForOwner(ctx context.Context, ownerID string, filter OwnerFilter) ([]Booking, error) {
	if _, err := uuid.Parse(ownerID); err != nil {
		return []Booking{}, nil
	}

	query := r.db.WithContext(ctx).Where("hall_owner_id = ?", ownerID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		query = query.Where("booking_date = ?", filter.Date)
	}

	var list []Booking
	err := query.Order("booking_date ASC, start_time ASC").Find(&list).Error
	return list, err
}

func (r *repository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]Booking, int64, error) {
	if _, err := uuid.Parse(customerID); err != nil {
		return []Booking{}, 0, nil
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&Booking{}).
		Where("customer_id = ?", customerID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var list []Booking
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	return list, total, err
}

func (r *repository) ListByDateAndStatus(ctx context.Context, date string, status Status) ([]Booking, error) {
	var list []Booking
	err := r.db.WithContext(ctx).
		Where("booking_date = ? AND status = ?", date, status).
		Find(&list).Error
	return list, err
}

func (r *repository) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	result := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidStatusTransition
	}
	return nil
}

func (r *repository) DeleteForOwner(ctx context.Context, ownerID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrBookingNotFound
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND hall_owner_id = ?", id, ownerID).
		Delete(&Booking{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}
