package domain

import "time"

// Comment is an append-only note on a ticket thread.
type Comment struct {
	ID        string
	TicketID  string
	Content   string
	Author    *User
	CreatedAt time.Time

	// TicketTitle is only populated when comments are listed across tickets.
	TicketTitle string
}
