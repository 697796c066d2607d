package pricing

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	// FindRule returns the first matching rule, or nil when none exists.
	FindRule(ctx context.Context, ownerID, resourceID string) (*Rule, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Rule, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindRule(ctx context.Context, ownerID, resourceID string) (*Rule, error) {
	var rule Rule
	// Take, not First: row order is left to the database
	err := r.db.WithContext(ctx).
		Where("hall_owner_id = ? AND resource_id = ?", ownerID, resourceID).
		Take(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID string) ([]Rule, error) {
	var rules []Rule
	err := r.db.WithContext(ctx).Where("hall_owner_id = ?", ownerID).Find(&rules).Error
	return rules, err
}
