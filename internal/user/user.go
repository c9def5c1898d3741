package user

import (
	"time"

	userDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/user"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusDeleted  = "deleted"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusInactive, StatusDeleted:
		return true
	}
	return false
}

// User is the administrative view of an account. PasswordHash never
// leaves the service layer; handlers serialize SafeUser.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	Department   string     `json:"department"`
	Position     string     `json:"position"`
	LdapDN       *string    `json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) IsDirectoryManaged() bool {
	return u.LdapDN != nil && *u.LdapDN != ""
}

// SafeUser is the projection returned over HTTP.
type SafeUser struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Department  string     `json:"department"`
	Position    string     `json:"position"`
	LdapManaged bool       `json:"ldap_managed"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (u *User) Safe() *SafeUser {
	return &SafeUser{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Status:      u.Status,
		Department:  u.Department,
		Position:    u.Position,
		LdapManaged: u.IsDirectoryManaged(),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Status:       u.Status,
		Department:   u.Department,
		Position:     u.Position,
		LdapDN:       u.LdapDN,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Status:       u.Status,
		Department:   u.Department,
		Position:     u.Position,
		LdapDN:       u.LdapDN,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
