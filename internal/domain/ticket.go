package domain

import "time"

// Catalog identifiers applied when a ticket is created without them.
const (
	DefaultStatusID   = "NEW"
	DefaultPriorityID = "NORMAL"

	// MaxTitleLength bounds ticket titles, counted in characters.
	MaxTitleLength = 255
)

// Status is a ticket lifecycle catalog entry.
type Status struct {
	ID   string
	Name string
}

// Priority is a ticket urgency catalog entry.
type Priority struct {
	ID   string
	Name string
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string
	Title       string
	Description *string
	Status      Status
	Priority    Priority
	Creator     *User
	Assignee    *User
	Comments    []Comment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatorID returns the creator's id or an empty string once the creator is gone.
func (t *Ticket) CreatorID() string {
	if t.Creator == nil {
		return ""
	}
	return t.Creator.ID
}

// AssigneeID returns the assignee's id or nil when unassigned.
func (t *Ticket) AssigneeID() *string {
	if t.Assignee == nil {
		return nil
	}
	id := t.Assignee.ID
	return &id
}

// AssigneeChange carries a new assignee; a nil UserID unassigns the ticket.
type AssigneeChange struct {
	UserID *string
}

// TicketPatch lists the fields a partial update touches. Nil fields stay unchanged.
type TicketPatch struct {
	Title       *string
	Description *string
	StatusID    *string
	PriorityID  *string
	Assignee    *AssigneeChange
}

// Empty reports whether the patch changes no field.
func (p TicketPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.StatusID == nil && p.PriorityID == nil && p.Assignee == nil
}
