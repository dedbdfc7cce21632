package domain

import "time"

// Token represents issued access token metadata.
type Token struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Provider describes an identity provider callers may sign in with.
type Provider struct {
	ID   string
	Name string
	Type string
}
