package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/resolvely/ticket-tracker/internal/domain"
	"github.com/resolvely/ticket-tracker/internal/events"
	"github.com/resolvely/ticket-tracker/internal/repository"
)

// AuditService records every published ticket mutation in the ticket history.
type AuditService struct {
	dispatcher events.Dispatcher
	history    repository.TicketHistoryRepository
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, history repository.TicketHistoryRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{dispatcher: dispatcher, history: history, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil || a.history == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		a.dispatcher.Subscribe(eventType, a.record)
	}
}

func (a *AuditService) record(ctx context.Context, event events.Event) error {
	entries, err := historyEntries(event)
	if err != nil {
		return err
	}
	for i := range entries {
		if err := a.history.Create(ctx, &entries[i]); err != nil {
			return fmt.Errorf("record %s for ticket %s: %w", entries[i].ChangeType, event.TicketID, err)
		}
	}
	return nil
}

// historyEntries converts an event into audit rows. An update yields one row per
// changed field.
func historyEntries(event events.Event) ([]domain.TicketHistory, error) {
	entry := func(changeType domain.TicketChangeType, oldValue, newValue map[string]any) domain.TicketHistory {
		return domain.TicketHistory{
			TicketID:   event.TicketID,
			ActorID:    event.ActorID,
			ChangeType: changeType,
			OldValue:   oldValue,
			NewValue:   newValue,
			CreatedAt:  event.Timestamp,
		}
	}

	switch payload := event.Payload.(type) {
	case events.TicketCreatedPayload:
		return []domain.TicketHistory{entry(domain.ChangeTypeCreated, nil, map[string]any{
			"title":      payload.Title,
			"statusId":   payload.StatusID,
			"priorityId": payload.PriorityID,
		})}, nil
	case events.TicketUpdatedPayload:
		entries := make([]domain.TicketHistory, 0, len(payload.Changes))
		for _, change := range payload.Changes {
			entries = append(entries, entry(change.Type,
				map[string]any{"value": change.Old},
				map[string]any{"value": change.New}))
		}
		return entries, nil
	case events.TicketDeletedPayload:
		return []domain.TicketHistory{entry(domain.ChangeTypeDeleted, map[string]any{"title": payload.Title}, nil)}, nil
	case events.CommentAddedPayload:
		return []domain.TicketHistory{entry(domain.ChangeTypeComment, nil, map[string]any{
			"commentId": payload.CommentID,
			"preview":   payload.Preview,
		})}, nil
	default:
		return nil, fmt.Errorf("unsupported payload %T for event %s", event.Payload, event.Type)
	}
}
