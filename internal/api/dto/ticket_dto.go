package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/resolvely/ticket-tracker/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	StatusID    *string `json:"status_id"`
	PriorityID  *string `json:"priority_id"`
}

// UpdateTicketRequest payload. Omitted fields stay unchanged; assignee_id null
// unassigns the ticket.
type UpdateTicketRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	StatusID    *string        `json:"status_id"`
	PriorityID  *string        `json:"priority_id"`
	AssigneeID  OptionalString `json:"assignee_id"`
}

// Patch converts the request into a domain patch.
func (r UpdateTicketRequest) Patch() domain.TicketPatch {
	patch := domain.TicketPatch{
		Title:       r.Title,
		Description: r.Description,
		StatusID:    r.StatusID,
		PriorityID:  r.PriorityID,
	}
	if r.AssigneeID.Set {
		patch.Assignee = &domain.AssigneeChange{UserID: r.AssigneeID.Value}
	}
	return patch
}

// OptionalString distinguishes an absent JSON field from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON records that the field was present.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// CatalogEntry renders a status or priority reference.
type CatalogEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Badge string `json:"badge"`
}

// TicketSummary response.
type TicketSummary struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	Status      CatalogEntry  `json:"status"`
	Priority    CatalogEntry  `json:"priority"`
	Creator     *UserResponse `json:"creator"`
	Assignee    *UserResponse `json:"assignee"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	TicketSummary
	Comments []CommentResponse `json:"comments"`
}

// CommentResponse represents a ticket comment.
type CommentResponse struct {
	ID        string        `json:"id"`
	TicketID  string        `json:"ticket_id"`
	Content   string        `json:"content"`
	Author    *UserResponse `json:"author"`
	CreatedAt time.Time     `json:"created_at"`
}

// TicketHistoryResponse is one audit trail entry.
type TicketHistoryResponse struct {
	ID         string         `json:"id"`
	TicketID   string         `json:"ticket_id"`
	ActorID    *string        `json:"actor_id"`
	ChangeType string         `json:"change_type"`
	OldValue   map[string]any `json:"old_value"`
	NewValue   map[string]any `json:"new_value"`
	CreatedAt  time.Time      `json:"created_at"`
}

// NewTicketSummary maps a ticket without its comments.
func NewTicketSummary(t *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status: CatalogEntry{
			ID:    t.Status.ID,
			Name:  t.Status.Name,
			Badge: string(domain.StatusBadge(t.Status.Name)),
		},
		Priority: CatalogEntry{
			ID:    t.Priority.ID,
			Name:  t.Priority.Name,
			Badge: string(domain.PriorityBadge(t.Priority.Name)),
		},
		Creator:   NewUserResponse(t.Creator),
		Assignee:  NewUserResponse(t.Assignee),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// NewTicketSummaries maps a ticket listing.
func NewTicketSummaries(tickets []domain.Ticket) []TicketSummary {
	items := make([]TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketSummary(&tickets[i]))
	}
	return items
}

// NewTicketDetail maps a ticket with its comments.
func NewTicketDetail(t *domain.Ticket) TicketDetailResponse {
	comments := make([]CommentResponse, 0, len(t.Comments))
	for i := range t.Comments {
		comments = append(comments, NewCommentResponse(&t.Comments[i]))
	}
	return TicketDetailResponse{TicketSummary: NewTicketSummary(t), Comments: comments}
}

// NewCommentResponse maps a comment.
func NewCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		TicketID:  c.TicketID,
		Content:   c.Content,
		Author:    NewUserResponse(c.Author),
		CreatedAt: c.CreatedAt,
	}
}

// NewTicketHistory maps audit trail entries.
func NewTicketHistory(entries []domain.TicketHistory) []TicketHistoryResponse {
	items := make([]TicketHistoryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, TicketHistoryResponse{
			ID:         e.ID,
			TicketID:   e.TicketID,
			ActorID:    e.ActorID,
			ChangeType: string(e.ChangeType),
			OldValue:   e.OldValue,
			NewValue:   e.NewValue,
			CreatedAt:  e.CreatedAt,
		})
	}
	return items
}
