package customers

import (
	"time"

	"github.com/google/uuid"
)

const SourceWebsite = "website"

// Customer is the profile kept next to a customer account; ID equals the
// users.User id.
type Customer struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"index"`
	Phone     string    `json:"phone"`
	Avatar    string    `json:"avatar"`
	Source    string    `json:"source" gorm:"not null;default:'website'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
