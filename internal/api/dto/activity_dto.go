package dto

import (
	"time"

	"github.com/resolvely/ticket-tracker/internal/domain"
)

// ActivityEventResponse renders a derived activity event.
type ActivityEventResponse struct {
	ID        string                  `json:"id"`
	Type      string                  `json:"type"`
	Timestamp time.Time               `json:"timestamp"`
	Actor     *UserResponse           `json:"actor"`
	Details   ActivityDetailsResponse `json:"details"`
}

// ActivityDetailsResponse carries the payload fields relevant to the event type.
type ActivityDetailsResponse struct {
	TicketID       string        `json:"ticket_id"`
	TicketTitle    string        `json:"ticket_title,omitempty"`
	Assignee       *UserResponse `json:"assignee,omitempty"`
	NewStatus      string        `json:"new_status,omitempty"`
	NewPriority    string        `json:"new_priority,omitempty"`
	CommentID      string        `json:"comment_id,omitempty"`
	CommentPreview string        `json:"comment_preview,omitempty"`
}

// NewActivityEvents maps activity events.
func NewActivityEvents(events []domain.ActivityEvent) []ActivityEventResponse {
	items := make([]ActivityEventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, ActivityEventResponse{
			ID:        e.ID,
			Type:      string(e.Type),
			Timestamp: e.Timestamp,
			Actor:     NewUserResponse(e.Actor),
			Details:   activityDetails(e.Payload),
		})
	}
	return items
}

func activityDetails(payload domain.ActivityPayload) ActivityDetailsResponse {
	switch p := payload.(type) {
	case domain.TicketCreatedPayload:
		return ActivityDetailsResponse{TicketID: p.TicketID, TicketTitle: p.TicketTitle}
	case domain.TicketAssignedPayload:
		assignee := p.Assignee
		return ActivityDetailsResponse{TicketID: p.TicketID, TicketTitle: p.TicketTitle, Assignee: NewUserResponse(&assignee)}
	case domain.StatusChangedPayload:
		return ActivityDetailsResponse{TicketID: p.TicketID, NewStatus: p.NewStatus}
	case domain.PriorityChangedPayload:
		return ActivityDetailsResponse{TicketID: p.TicketID, NewPriority: p.NewPriority}
	case domain.CommentAddedPayload:
		return ActivityDetailsResponse{
			TicketID:       p.TicketID,
			TicketTitle:    p.TicketTitle,
			CommentID:      p.CommentID,
			CommentPreview: p.CommentPreview,
		}
	default:
		return ActivityDetailsResponse{}
	}
}
