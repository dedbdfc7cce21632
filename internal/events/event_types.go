package events

import (
	"time"

	"github.com/resolvely/ticket-tracker/internal/domain"
)

// EventType enumerates mutations published by the ticket service.
type EventType string

const (
	EventTicketCreated EventType = "ticket.created"
	EventTicketUpdated EventType = "ticket.updated"
	EventTicketDeleted EventType = "ticket.deleted"
	EventCommentAdded  EventType = "ticket.comment_added"
)

// AllEventTypes lists every published event type.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketUpdated,
	EventTicketDeleted,
	EventCommentAdded,
}

// Event represents a committed ticket mutation.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   *string     `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title      string `json:"title"`
	StatusID   string `json:"status_id"`
	PriorityID string `json:"priority_id"`
}

// FieldChange records one field's transition.
type FieldChange struct {
	Type domain.TicketChangeType `json:"type"`
	Old  any                     `json:"old"`
	New  any                     `json:"new"`
}

// TicketUpdatedPayload payload. Only fields whose value changed are listed.
type TicketUpdatedPayload struct {
	Changes []FieldChange `json:"changes"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	Title string `json:"title"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID string `json:"comment_id"`
	Preview   string `json:"preview"`
}
