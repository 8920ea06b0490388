// Package types provides request and response payloads for the LernifyRoad API.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest represents the request to create a new user with password authentication.
type RegisterRequest struct {
	FirstName     string `json:"first_name" validate:"required,alpha,min=2,max=50"`
	LastName      string `json:"last_name" validate:"required,alpha,min=2,max=50"`
	Email         string `json:"email" validate:"required,email,max=254"`
	Phone         string `json:"phone" validate:"required,numeric,len=10"`
	Password      string `json:"password" validate:"required,min=6,max=64"`
	Qualification string `json:"qualification" validate:"required,min=2,max=80"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest changes the phone number and/or the password of the caller.
// A new password requires the current one.
type UpdateProfileRequest struct {
	Phone           string `json:"phone,omitempty" validate:"omitempty,numeric,len=10"`
	CurrentPassword string `json:"current_password,omitempty" validate:"required_with=NewPassword"`
	NewPassword     string `json:"new_password,omitempty" validate:"omitempty,min=6,max=64"`
}

// Empty reports whether the request changes nothing.
func (r *UpdateProfileRequest) Empty() bool {
	return r.Phone == "" && r.NewPassword == ""
}

// User represents a user profile for API responses. The password hash never leaves the db package.
type User struct {
	ID            uuid.UUID `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Qualification string    `json:"qualification"`
	Domains       []string  `json:"domains"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LoginResponse represents the login/register response with user data and authentication token.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
