package resources

import (
	"time"

	"github.com/google/uuid"
)

const DefaultType = "hall"

// Resource is a bookable hall or room owned by a hall owner.
type Resource struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	HallOwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null"`
	Type        string    `gorm:"not null;default:'hall'"`
	Capacity    int
	Code        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BelongsTo reports whether the resource is owned by ownerID.
func (r *Resource) BelongsTo(ownerID string) bool {
	return r.HallOwnerID.String() == ownerID
}
