package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleHallOwner Role = "hall_owner"
	RoleCustomer  Role = "customer"
	RoleAdmin     Role = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Role         Role      `json:"role" gorm:"not null;default:'customer';index"`
	Name         string    `json:"name"`
	BusinessName string    `json:"business_name"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Avatar       string    `json:"avatar"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Password     string    `json:"-" gorm:"not null"` // hide in json
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsHallOwner() bool {
	return u.Role == RoleHallOwner
}

// DisplayName prefers the personal name and falls back to the business name.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.BusinessName
}
