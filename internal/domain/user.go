package domain

import "time"

// User is an identity known to the tracker. Profile fields are optional because
// accounts may come from external identity providers.
type User struct {
	ID           string
	Name         *string
	Email        *string
	Image        *string
	PasswordHash string
	CreatedAt    time.Time
}

// DisplayName returns the best human readable label for the user.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	if u.Email != nil {
		return *u.Email
	}
	return u.ID
}
