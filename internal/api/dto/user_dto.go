package dto

import (
	"time"

	"github.com/resolvely/ticket-tracker/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the public profile of a user.
type UserResponse struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Image *string `json:"image"`
}

// ProviderResponse describes a sign-in method.
type ProviderResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// NewUserResponse maps a user; nil stays nil.
func NewUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image}
}

// NewUserResponses maps a user listing.
func NewUserResponses(users []domain.User) []UserResponse {
	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, *NewUserResponse(&users[i]))
	}
	return items
}

// NewProviderResponses maps sign-in providers.
func NewProviderResponses(providers []domain.Provider) []ProviderResponse {
	items := make([]ProviderResponse, 0, len(providers))
	for _, p := range providers {
		items = append(items, ProviderResponse{ID: p.ID, Name: p.Name, Type: p.Type})
	}
	return items
}
