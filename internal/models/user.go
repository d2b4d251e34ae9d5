package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser            Role = "user"
	RolePropertyManager Role = "property_manager"
	RoleMaintenance     Role = "maintenance"
	RoleAdmin           Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RolePropertyManager, RoleMaintenance, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never serialize in JSON
	FirstName    *string    `json:"first_name" db:"first_name"`
	LastName     *string    `json:"last_name" db:"last_name"`
	PhoneNumber  *string    `json:"phone_number" db:"phone_number"`
	Role         Role       `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	IsSuperuser  bool       `json:"is_superuser" db:"is_superuser"`
	LastLogin    *time.Time `json:"last_login" db:"last_login"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsSuperuser
}

// Roles returns the role list embedded in access tokens.
func (u *User) Roles() []string {
	roles := []string{string(u.Role)}
	if u.IsSuperuser && u.Role != RoleAdmin {
		roles = append(roles, string(RoleAdmin))
	}
	return roles
}
