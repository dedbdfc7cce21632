package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/resolvely/ticket-tracker/internal/activity"
	"github.com/resolvely/ticket-tracker/internal/domain"
	"github.com/resolvely/ticket-tracker/internal/events"
	"github.com/resolvely/ticket-tracker/internal/repository"
	apperrors "github.com/resolvely/ticket-tracker/pkg/util/errorutil"
)

// DefaultRecentLimit is used by ListRecent when no limit is given.
const DefaultRecentLimit = 5

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	catalog     repository.CatalogRepository
	users       repository.UserRepository
	history     repository.TicketHistoryRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	recentLimit int
	now         func() time.Time
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	CatalogRepo repository.CatalogRepository
	UserRepo    repository.UserRepository
	HistoryRepo repository.TicketHistoryRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	RecentLimit int
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description *string
	StatusID    *string
	PriorityID  *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	recent := deps.RecentLimit
	if recent < MinListLimit || recent > MaxListLimit {
		recent = DefaultRecentLimit
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		catalog:     deps.CatalogRepo,
		users:       deps.UserRepo,
		history:     deps.HistoryRepo,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		recentLimit: recent,
		now:         time.Now,
	}
}

// CreateTicket creates a ticket owned by the caller. Status and priority default to
// NEW and NORMAL.
func (s *TicketService) CreateTicket(ctx context.Context, caller *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}

	statusID := domain.DefaultStatusID
	if input.StatusID != nil {
		statusID = *input.StatusID
	}
	priorityID := domain.DefaultPriorityID
	if input.PriorityID != nil {
		priorityID = *input.PriorityID
	}
	status, err := s.resolveStatus(ctx, statusID)
	if err != nil {
		return nil, err
	}
	priority, err := s.resolvePriority(ctx, priorityID)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Title:       input.Title,
		Description: input.Description,
		Status:      *status,
		Priority:    *priority,
		Creator:     caller,
		Comments:    []domain.Comment{},
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, storeFailure(s.logger, "ticket.create", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  &caller.ID,
		Payload: events.TicketCreatedPayload{
			Title:      ticket.Title,
			StatusID:   ticket.Status.ID,
			PriorityID: ticket.Priority.ID,
		},
	})
	return ticket, nil
}

// GetTicket returns a ticket with its comments, oldest first.
func (s *TicketService) GetTicket(ctx context.Context, caller *domain.User, id string) (*domain.Ticket, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.loadTicket(ctx, id)
}

// ListTickets returns every ticket, newest first.
func (s *TicketService) ListTickets(ctx context.Context, caller *domain.User) ([]domain.Ticket, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.list(ctx, "ticket.list", repository.TicketFilter{})
}

// ListRecent returns the most recently created tickets. A zero limit uses the
// configured default.
func (s *TicketService) ListRecent(ctx context.Context, caller *domain.User, limit int) ([]domain.Ticket, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	limit, err := resolveLimit(limit, s.recentLimit)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, "ticket.list_recent", repository.TicketFilter{Limit: limit})
}

// ListAssigned returns tickets assigned to the caller, newest first.
func (s *TicketService) ListAssigned(ctx context.Context, caller *domain.User) ([]domain.Ticket, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.list(ctx, "ticket.list_assigned", repository.TicketFilter{AssigneeID: &caller.ID})
}

// UpdateTicket applies a partial update. Only supplied fields change; updatedAt always
// advances.
func (s *TicketService) UpdateTicket(ctx context.Context, caller *domain.User, id string, patch domain.TicketPatch) (*domain.Ticket, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	before, err := s.getTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validatePatch(ctx, patch); err != nil {
		return nil, err
	}

	if err := s.tickets.Update(ctx, id, patch); err != nil {
		return nil, storeError(s.logger, "ticket.update", "ticket", map[string]any{"id": id}, err)
	}
	after, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	if changes := diffTickets(before, after); len(changes) > 0 {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketUpdated,
			TicketID: after.ID,
			ActorID:  &caller.ID,
			Payload:  events.TicketUpdatedPayload{Changes: changes},
		})
	}
	return after, nil
}

// DeleteTicket hard deletes a ticket and returns it as it was before deletion.
func (s *TicketService) DeleteTicket(ctx context.Context, caller *domain.User, id string) (*domain.Ticket, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	ticket, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		return nil, storeError(s.logger, "ticket.delete", "ticket", map[string]any{"id": id}, err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		ActorID:  &caller.ID,
		Payload:  events.TicketDeletedPayload{Title: ticket.Title},
	})
	return ticket, nil
}

// AddComment appends a comment authored by the caller.
func (s *TicketService) AddComment(ctx context.Context, caller *domain.User, ticketID, content string) (*domain.Comment, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if isBlank(content) {
		return nil, apperrors.NewValidationError("comment content is required", map[string]any{"field": "content"})
	}
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		TicketID:    ticket.ID,
		TicketTitle: ticket.Title,
		Content:     content,
		Author:      caller,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, storeError(s.logger, "comment.create", "ticket", map[string]any{"id": ticketID}, err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: ticket.ID,
		ActorID:  &caller.ID,
		Payload: events.CommentAddedPayload{
			CommentID: comment.ID,
			Preview:   activity.Preview(comment.Content, activity.PreviewLength),
		},
	})
	return comment, nil
}

// Timeline reconstructs the activity of one ticket, most recent first.
func (s *TicketService) Timeline(ctx context.Context, caller *domain.User, ticketID string) ([]domain.ActivityEvent, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return activity.Timeline(ticket), nil
}

// History returns the recorded audit trail of a ticket, oldest first. Entries outlive
// the ticket, so a deleted ticket's history stays readable.
func (s *TicketService) History(ctx context.Context, caller *domain.User, ticketID string) ([]domain.TicketHistory, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if s.history == nil {
		return []domain.TicketHistory{}, nil
	}
	entries, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, storeFailure(s.logger, "ticket_history.list", err)
	}
	if len(entries) == 0 {
		if _, err := s.getTicket(ctx, ticketID); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (s *TicketService) getTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, "ticket.get", "ticket", map[string]any{"id": id}, err)
	}
	return ticket, nil
}

func (s *TicketService) loadTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, storeFailure(s.logger, "comment.list", err)
	}
	for i := range comments {
		comments[i].TicketTitle = ticket.Title
	}
	ticket.Comments = comments
	return ticket, nil
}

func (s *TicketService) list(ctx context.Context, op string, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, filter)
	if err != nil {
		return nil, storeFailure(s.logger, op, err)
	}
	return tickets, nil
}

func (s *TicketService) validatePatch(ctx context.Context, patch domain.TicketPatch) error {
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return err
		}
	}
	if patch.StatusID != nil {
		if _, err := s.resolveStatus(ctx, *patch.StatusID); err != nil {
			return err
		}
	}
	if patch.PriorityID != nil {
		if _, err := s.resolvePriority(ctx, *patch.PriorityID); err != nil {
			return err
		}
	}
	if patch.Assignee != nil && patch.Assignee.UserID != nil {
		if _, err := s.users.GetByID(ctx, *patch.Assignee.UserID); err != nil {
			return referenceError(s.logger, "user.get", "assigneeId", *patch.Assignee.UserID, err)
		}
	}
	return nil
}

func (s *TicketService) resolveStatus(ctx context.Context, id string) (*domain.Status, error) {
	status, err := s.catalog.GetStatus(ctx, id)
	if err != nil {
		return nil, referenceError(s.logger, "catalog.get_status", "statusId", id, err)
	}
	return status, nil
}

func (s *TicketService) resolvePriority(ctx context.Context, id string) (*domain.Priority, error) {
	priority, err := s.catalog.GetPriority(ctx, id)
	if err != nil {
		return nil, referenceError(s.logger, "catalog.get_priority", "priorityId", id, err)
	}
	return priority, nil
}

// referenceError reports an unknown referenced id as invalid input.
func referenceError(logger *zap.Logger, op, field, id string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewValidationError("unknown "+field, map[string]any{"field": field, "value": id})
	}
	return storeFailure(logger, op, err)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// diffTickets lists the fields whose values differ between two snapshots.
func diffTickets(before, after *domain.Ticket) []events.FieldChange {
	changes := []events.FieldChange{}
	if before.Title != after.Title {
		changes = append(changes, events.FieldChange{Type: domain.ChangeTypeTitle, Old: before.Title, New: after.Title})
	}
	if !equalStringPtr(before.Description, after.Description) {
		changes = append(changes, events.FieldChange{Type: domain.ChangeTypeDescription, Old: before.Description, New: after.Description})
	}
	if before.Status.ID != after.Status.ID {
		changes = append(changes, events.FieldChange{Type: domain.ChangeTypeStatus, Old: before.Status.ID, New: after.Status.ID})
	}
	if before.Priority.ID != after.Priority.ID {
		changes = append(changes, events.FieldChange{Type: domain.ChangeTypePriority, Old: before.Priority.ID, New: after.Priority.ID})
	}
	if !equalStringPtr(before.AssigneeID(), after.AssigneeID()) {
		changes = append(changes, events.FieldChange{Type: domain.ChangeTypeAssignee, Old: before.AssigneeID(), New: after.AssigneeID()})
	}
	return changes
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
