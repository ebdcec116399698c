package models

import "time"

const (
	RoleUser  = "user"
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CanManageTurfs reports whether the user may create or edit turf listings.
func (u *User) CanManageTurfs() bool {
	return u.Role == RoleOwner || u.Role == RoleAdmin
}
