package resources

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrResourceNotFound = errors.New("resource not found")

// Repository interface for resource operations
type Repository interface {
	GetByID(ctx context.Context, id string) (*Resource, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Resource, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new resource repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id string) (*Resource, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrResourceNotFound
	}

	var resource Resource
	err := r.db.WithContext(ctx).First(&resource, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return &resource, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID string) ([]Resource, error) {
	var list []Resource
	err := r.db.WithContext(ctx).Where("hall_owner_id = ?", ownerID).Find(&list).Error
	return list, err
}
