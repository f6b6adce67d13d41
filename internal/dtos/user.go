// File: internal/dtos/user.go
package dtos

import (
	"github.com/tmsanders/go-preceptor/internal/services/user_services"
)

// SignupRequest is the payload to create a new account.
type SignupRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	FullName string  `json:"full_name" validate:"max=120"`
	Role     string  `json:"role" validate:"omitempty,oneof=teacher student"`
	SchoolID *string `json:"school_id,omitempty"`
}

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UserResponse is the account view exposed by the API. The password
// hash and internal timestamps never leave the server.
type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// AuthResponse is returned by signup and login. The token also rides
// the auth_token cookie; the body copy serves non-browser clients.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// FromIdentity maps the auth provider's normalized identity to the API
// account view.
func FromIdentity(identity user_services.Identity) UserResponse {
	return UserResponse{
		ID:       identity.UserID,
		Email:    identity.Email,
		FullName: identity.FullName,
		Role:     identity.Role,
	}
}
