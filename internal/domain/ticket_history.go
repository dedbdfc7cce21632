package domain

import "time"

// TicketChangeType captures what changed in a history entry.
type TicketChangeType string

const (
	ChangeTypeCreated     TicketChangeType = "CREATED"
	ChangeTypeTitle       TicketChangeType = "TITLE_CHANGE"
	ChangeTypeDescription TicketChangeType = "DESCRIPTION_CHANGE"
	ChangeTypeStatus      TicketChangeType = "STATUS_CHANGE"
	ChangeTypePriority    TicketChangeType = "PRIORITY_CHANGE"
	ChangeTypeAssignee    TicketChangeType = "ASSIGNEE_CHANGE"
	ChangeTypeComment     TicketChangeType = "COMMENT_ADDED"
	ChangeTypeDeleted     TicketChangeType = "DELETED"
)

// TicketHistory is an immutable audit trail entry. It outlives the ticket it
// describes, so TicketID is not a live reference.
type TicketHistory struct {
	ID         string
	TicketID   string
	ActorID    *string
	ChangeType TicketChangeType
	OldValue   map[string]any
	NewValue   map[string]any
	CreatedAt  time.Time
}
