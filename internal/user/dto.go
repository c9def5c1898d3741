package user

import (
	"strings"

	"github.com/elitehr/elite-time/internal"
	"github.com/elitehr/elite-time/internal/permission"
)

type CreateUserDTO struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

func (d *CreateUserDTO) Validate() error {
	d.Email = strings.TrimSpace(strings.ToLower(d.Email))
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		return internal.NewValidationError("a valid email is required", internal.ErrCodeValidationFailed)
	}
	if d.Name == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Password) < 8 {
		return internal.NewValidationError("password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	if d.Role == "" {
		d.Role = permission.RoleEmployee
	}
	if !permission.ValidRole(d.Role) {
		return internal.NewValidationError("unknown role", internal.ErrCodeInvalidRole)
	}
	return nil
}

type UpdateUserDTO struct {
	Name       *string `json:"name,omitempty"`
	Role       *string `json:"role,omitempty"`
	Status     *string `json:"status,omitempty"`
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
	Password   *string `json:"password,omitempty"`
}

func (d *UpdateUserDTO) Validate() error {
	if d.Role != nil && !permission.ValidRole(*d.Role) {
		return internal.NewValidationError("unknown role", internal.ErrCodeInvalidRole)
	}
	if d.Status != nil && !ValidStatus(*d.Status) {
		return internal.NewValidationError("unknown status", internal.ErrCodeInvalidStatus)
	}
	if d.Password != nil && len(*d.Password) < 8 {
		return internal.NewValidationError("password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UsersResponse struct {
	Success bool        `json:"success"`
	Users   []*SafeUser `json:"users"`
}
