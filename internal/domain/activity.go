package domain

import "time"

// ActivityType enumerates the derived activity events.
type ActivityType string

const (
	ActivityTicketCreated   ActivityType = "ticket_created"
	ActivityTicketAssigned  ActivityType = "ticket_assigned"
	ActivityStatusChanged   ActivityType = "status_changed"
	ActivityPriorityChanged ActivityType = "priority_changed"
	ActivityCommentAdded    ActivityType = "comment_added"
)

// ActivityEvent is computed on demand from ticket and comment state; it is never
// persisted.
type ActivityEvent struct {
	ID        string
	Type      ActivityType
	Timestamp time.Time
	Actor     *User
	Payload   ActivityPayload
}

// ActivityPayload is implemented by exactly one payload struct per ActivityType.
type ActivityPayload interface {
	ActivityType() ActivityType
}

// TicketCreatedPayload describes a ticket_created event.
type TicketCreatedPayload struct {
	TicketID    string
	TicketTitle string
}

// TicketAssignedPayload describes a ticket_assigned event.
type TicketAssignedPayload struct {
	TicketID    string
	TicketTitle string
	Assignee    User
}

// StatusChangedPayload describes a status_changed event.
type StatusChangedPayload struct {
	TicketID  string
	NewStatus string
}

// PriorityChangedPayload describes a priority_changed event.
type PriorityChangedPayload struct {
	TicketID    string
	NewPriority string
}

// CommentAddedPayload describes a comment_added event.
type CommentAddedPayload struct {
	TicketID       string
	TicketTitle    string
	CommentID      string
	CommentPreview string
}

func (TicketCreatedPayload) ActivityType() ActivityType   { return ActivityTicketCreated }
func (TicketAssignedPayload) ActivityType() ActivityType  { return ActivityTicketAssigned }
func (StatusChangedPayload) ActivityType() ActivityType   { return ActivityStatusChanged }
func (PriorityChangedPayload) ActivityType() ActivityType { return ActivityPriorityChanged }
func (CommentAddedPayload) ActivityType() ActivityType    { return ActivityCommentAdded }
