// Package activity reconstructs activity events from ticket and comment state.
//
// There is no append-only event log behind tickets, so the timeline is an
// approximation: a ticket yields at most one status and one priority event however
// often it changed, and assignment is dated by the ticket's last update.
package activity

import (
	"sort"

	"github.com/resolvely/ticket-tracker/internal/domain"
)

// PreviewLength is the number of characters kept in a comment preview.
const PreviewLength = 50

const ellipsis = "..."

// Timeline synthesizes the events of a single ticket, most recent first. The ticket's
// comments must already be loaded.
func Timeline(ticket *domain.Ticket) []domain.ActivityEvent {
	if ticket == nil {
		return nil
	}
	events := make([]domain.ActivityEvent, 0, 4+len(ticket.Comments))
	events = append(events, createdEvent(ticket))
	if ticket.Assignee != nil {
		events = append(events, assignedEvent(ticket))
	}

	actor := ticket.Assignee
	if actor == nil {
		actor = ticket.Creator
	}
	events = append(events,
		domain.ActivityEvent{
			ID:        "status-" + ticket.ID,
			Type:      domain.ActivityStatusChanged,
			Timestamp: ticket.UpdatedAt,
			Actor:     actor,
			Payload: domain.StatusChangedPayload{
				TicketID:  ticket.ID,
				NewStatus: ticket.Status.Name,
			},
		},
		domain.ActivityEvent{
			ID:        "priority-" + ticket.ID,
			Type:      domain.ActivityPriorityChanged,
			Timestamp: ticket.UpdatedAt,
			Actor:     actor,
			Payload: domain.PriorityChangedPayload{
				TicketID:    ticket.ID,
				NewPriority: ticket.Priority.Name,
			},
		},
	)

	for i := range ticket.Comments {
		comment := ticket.Comments[i]
		if comment.TicketTitle == "" {
			comment.TicketTitle = ticket.Title
		}
		events = append(events, commentEvent(&comment))
	}

	sortDescending(events)
	return events
}

// Feed merges creation, comment and assignment events sampled across all tickets
// and keeps the limit most recent. Tickets or comments outside the samples are
// not represented, so the feed is not a complete log.
func Feed(created []domain.Ticket, comments []domain.Comment, assigned []domain.Ticket, limit int) []domain.ActivityEvent {
	events := make([]domain.ActivityEvent, 0, len(created)+len(comments)+len(assigned))
	for i := range created {
		events = append(events, createdEvent(&created[i]))
	}
	for i := range comments {
		events = append(events, commentEvent(&comments[i]))
	}
	for i := range assigned {
		if assigned[i].Assignee == nil {
			continue
		}
		events = append(events, assignedEvent(&assigned[i]))
	}

	sortDescending(events)
	if limit >= 0 && len(events) > limit {
		events = events[:limit]
	}
	return events
}

// Preview returns the first n characters of content, followed by an ellipsis when
// content is longer.
func Preview(content string, n int) string {
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}
	return string(runes[:n]) + ellipsis
}

func createdEvent(ticket *domain.Ticket) domain.ActivityEvent {
	return domain.ActivityEvent{
		ID:        "creation-" + ticket.ID,
		Type:      domain.ActivityTicketCreated,
		Timestamp: ticket.CreatedAt,
		Actor:     ticket.Creator,
		Payload: domain.TicketCreatedPayload{
			TicketID:    ticket.ID,
			TicketTitle: ticket.Title,
		},
	}
}

// assignedEvent credits the creator at the last update time; neither the real
// assigner nor the assignment time is stored.
func assignedEvent(ticket *domain.Ticket) domain.ActivityEvent {
	return domain.ActivityEvent{
		ID:        "assigned-" + ticket.ID,
		Type:      domain.ActivityTicketAssigned,
		Timestamp: ticket.UpdatedAt,
		Actor:     ticket.Creator,
		Payload: domain.TicketAssignedPayload{
			TicketID:    ticket.ID,
			TicketTitle: ticket.Title,
			Assignee:    *ticket.Assignee,
		},
	}
}

func commentEvent(comment *domain.Comment) domain.ActivityEvent {
	return domain.ActivityEvent{
		ID:        "comment-" + comment.ID,
		Type:      domain.ActivityCommentAdded,
		Timestamp: comment.CreatedAt,
		Actor:     comment.Author,
		Payload: domain.CommentAddedPayload{
			TicketID:       comment.TicketID,
			TicketTitle:    comment.TicketTitle,
			CommentID:      comment.ID,
			CommentPreview: Preview(comment.Content, PreviewLength),
		},
	}
}

func sortDescending(events []domain.ActivityEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
}
