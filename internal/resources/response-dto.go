package resources

import (
	"time"

	"hallbook/internal/users"
)

type PublicResource struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Capacity    int        `json:"capacity"`
	Code        string     `json:"code"`
	Description string     `json:"description"`
	HallOwnerID string     `json:"hallOwnerId"`
	CreatedAt   *time.Time `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

type HallOwnerInfo struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	BusinessName string `json:"businessName"`
}

type PublicResourcesResponse struct {
	Resources []PublicResource `json:"resources"`
	HallOwner HallOwnerInfo    `json:"hallOwner"`
}

func toPublicResource(r Resource) PublicResource {
	out := PublicResource{
		ID:          r.ID.String(),
		Name:        r.Name,
		Type:        r.Type,
		Capacity:    r.Capacity,
		Code:        r.Code,
		Description: r.Description,
		HallOwnerID: r.HallOwnerID.String(),
		CreatedAt:   timePtr(r.CreatedAt),
		UpdatedAt:   timePtr(r.UpdatedAt),
	}
	if out.Type == "" {
		out.Type = DefaultType
	}
	return out
}

func toHallOwnerInfo(u *users.User) HallOwnerInfo {
	return HallOwnerInfo{
		Name:         firstNonEmpty(u.Name, u.BusinessName, "Hall Owner"),
		Address:      firstNonEmpty(u.Address, "Address not provided"),
		Phone:        firstNonEmpty(u.Phone, "Phone not provided"),
		Email:        firstNonEmpty(u.Email, "Email not provided"),
		BusinessName: firstNonEmpty(u.BusinessName, u.Name, "Business Name"),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
