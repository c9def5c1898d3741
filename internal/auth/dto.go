package auth

import "github.com/elitehr/elite-time/internal"

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return internal.NewValidationError("email is required", internal.ErrCodeValidationFailed)
	}
	if d.Password == "" {
		return internal.NewValidationError("password is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type MeResponse struct {
	User *User `json:"user"`
}

type LoginResponse struct {
	Success bool  `json:"success"`
	User    *User `json:"user"`
}

type LogoutResponse struct {
	Success bool `json:"success"`
}

type UserPermissionsResponse struct {
	Success     bool     `json:"success"`
	Permissions []string `json:"permissions"`
	Role        string   `json:"role"`
}
