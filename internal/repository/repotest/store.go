// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/resolvely/ticket-tracker/internal/domain"
	"github.com/resolvely/ticket-tracker/internal/repository"
)

// Store is an in-memory stand-in for the relational store. Every write advances a
// fake clock by one second.
type Store struct {
	mu         sync.Mutex
	clock      time.Time
	tickets    map[string]*storedTicket
	comments   []domain.Comment
	users      map[string]*domain.User
	statuses   map[string]domain.Status
	priorities map[string]domain.Priority
	history    []domain.TicketHistory
	revoked    map[string]time.Duration
	err        error
	commentErr error
}

type storedTicket struct {
	ticket     domain.Ticket
	statusID   string
	priorityID string
	creatorID  *string
	assigneeID *string
}

// NewStore returns a store seeded with the default status and priority catalog.
func NewStore() *Store {
	s := &Store{
		clock:      time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		tickets:    map[string]*storedTicket{},
		users:      map[string]*domain.User{},
		statuses:   map[string]domain.Status{},
		priorities: map[string]domain.Priority{},
		revoked:    map[string]time.Duration{},
	}
	for _, st := range []domain.Status{
		{ID: "NEW", Name: "NEW"}, {ID: "OPEN", Name: "OPEN"}, {ID: "IN_PROGRESS", Name: "IN PROGRESS"},
		{ID: "RESOLVED", Name: "RESOLVED"}, {ID: "CLOSED", Name: "CLOSED"}, {ID: "COMPLETED", Name: "COMPLETED"},
	} {
		s.statuses[st.ID] = st
	}
	for _, p := range []string{"LOW", "NORMAL", "MEDIUM", "HIGH", "URGENT"} {
		s.priorities[p] = domain.Priority{ID: p, Name: p}
	}
	return s
}

func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

// AddUser stores a user with a derived email address.
func (s *Store) AddUser(name string) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(name) + "@resolvely.test"
	u := &domain.User{ID: uuid.NewString(), Name: &name, Email: &email, CreatedAt: s.tick()}
	s.users[u.ID] = u
	return u
}

// Now returns the current fake clock reading.
func (s *Store) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

// FailWith makes ticket and user-count operations return err; nil clears it.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// FailCommentsWith makes comment creation return err; nil clears it.
func (s *Store) FailCommentsWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commentErr = err
}

// RevokedTTL reports the ttl a token id was revoked with.
func (s *Store) RevokedTTL(tokenID string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ttl, ok := s.revoked[tokenID]
	return ttl, ok
}

func (s *Store) Tickets() repository.TicketRepository { return &memTickets{s} }
func (s *Store) Comments() repository.CommentRepository { return &memComments{s} }
func (s *Store) Catalog() repository.CatalogRepository { return &memCatalog{s} }
func (s *Store) Users() repository.UserRepository { return &memUsers{s} }
func (s *Store) History() repository.TicketHistoryRepository { return &memHistory{s} }
func (s *Store) Revoker() *Revoker { return &Revoker{s} }

func (s *Store) resolve(st *storedTicket) domain.Ticket {
	t := st.ticket
	t.Status = s.statuses[st.statusID]
	t.Priority = s.priorities[st.priorityID]
	t.Creator, t.Assignee = nil, nil
	if st.creatorID != nil {
		if u, ok := s.users[*st.creatorID]; ok {
			cp := *u
			t.Creator = &cp
		}
	}
	if st.assigneeID != nil {
		if u, ok := s.users[*st.assigneeID]; ok {
			cp := *u
			t.Assignee = &cp
		}
	}
	t.Comments = nil
	return t
}

type memTickets struct{ s *Store }

func (f *memTickets) Create(_ context.Context, ticket *domain.Ticket) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return f.s.err
	}
	now := f.s.tick()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt, ticket.UpdatedAt = now, now
	st := &storedTicket{ticket: *ticket, statusID: ticket.Status.ID, priorityID: ticket.Priority.ID}
	if ticket.Creator != nil {
		id := ticket.Creator.ID
		st.creatorID = &id
	}
	f.s.tickets[ticket.ID] = st
	return nil
}

func (f *memTickets) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	st, ok := f.s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	t := f.s.resolve(st)
	return &t, nil
}

func (f *memTickets) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return nil, f.s.err
	}
	out := []domain.Ticket{}
	for _, st := range f.s.tickets {
		if filter.AssigneeID != nil && (st.assigneeID == nil || *st.assigneeID != *filter.AssigneeID) {
			continue
		}
		if filter.AssignedOnly && st.assigneeID == nil {
			continue
		}
		out = append(out, f.s.resolve(st))
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.OrderBy == repository.OrderByUpdated {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *memTickets) Update(_ context.Context, id string, patch domain.TicketPatch) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return f.s.err
	}
	st, ok := f.s.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if patch.Title != nil {
		st.ticket.Title = *patch.Title
	}
	if patch.Description != nil {
		d := *patch.Description
		st.ticket.Description = &d
	}
	if patch.StatusID != nil {
		st.statusID = *patch.StatusID
	}
	if patch.PriorityID != nil {
		st.priorityID = *patch.PriorityID
	}
	if patch.Assignee != nil {
		st.assigneeID = patch.Assignee.UserID
	}
	st.ticket.UpdatedAt = f.s.tick()
	return nil
}

func (f *memTickets) Delete(_ context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return f.s.err
	}
	if _, ok := f.s.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.s.tickets, id)
	kept := f.s.comments[:0]
	for _, c := range f.s.comments {
		if c.TicketID != id {
			kept = append(kept, c)
		}
	}
	f.s.comments = kept
	return nil
}

type memComments struct{ s *Store }

func (f *memComments) Create(_ context.Context, comment *domain.Comment) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.commentErr != nil {
		return f.s.commentErr
	}
	if _, ok := f.s.tickets[comment.TicketID]; !ok {
		return &pgconn.PgError{Code: "23503", ConstraintName: "comments_ticket_id_fkey"}
	}
	comment.ID = uuid.NewString()
	comment.CreatedAt = f.s.tick()
	f.s.comments = append(f.s.comments, *comment)
	return nil
}

func (f *memComments) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []domain.Comment{}
	for _, c := range f.s.comments {
		if c.TicketID == ticketID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *memComments) ListRecent(_ context.Context, limit int) ([]domain.Comment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []domain.Comment{}
	for i := len(f.s.comments) - 1; i >= 0; i-- {
		c := f.s.comments[i]
		if st, ok := f.s.tickets[c.TicketID]; ok {
			c.TicketTitle = st.ticket.Title
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type memCatalog struct{ s *Store }

func (f *memCatalog) ListStatuses(context.Context) ([]domain.Status, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []domain.Status{}
	for _, st := range f.s.statuses {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *memCatalog) ListPriorities(context.Context) ([]domain.Priority, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []domain.Priority{}
	for _, p := range f.s.priorities {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *memCatalog) GetStatus(_ context.Context, id string) (*domain.Status, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	st, ok := f.s.statuses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &st, nil
}

func (f *memCatalog) GetPriority(_ context.Context, id string) (*domain.Priority, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.priorities[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

type memUsers struct{ s *Store }

func (f *memUsers) Create(_ context.Context, user *domain.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = f.s.tick()
	cp := *user
	f.s.users[user.ID] = &cp
	return nil
}

func (f *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, u := range f.s.users {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *memUsers) List(context.Context) ([]domain.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []domain.User{}
	for _, u := range f.s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *memUsers) Count(context.Context) (int, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.err != nil {
		return 0, f.s.err
	}
	return len(f.s.users), nil
}

type memHistory struct{ s *Store }

func (f *memHistory) Create(_ context.Context, entry *domain.TicketHistory) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	entry.ID = uuid.NewString()
	f.s.history = append(f.s.history, *entry)
	return nil
}

func (f *memHistory) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketHistory, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []domain.TicketHistory{}
	for _, h := range f.s.history {
		if h.TicketID == ticketID {
			out = append(out, h)
		}
	}
	return out, nil
}

// Revoker records revoked token ids in the store.
type Revoker struct{ s *Store }

// Revoke records tokenID with its ttl.
func (f *Revoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.revoked[tokenID] = ttl
	return nil
}

// IsRevoked reports whether tokenID was revoked.
func (f *Revoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := f.s.RevokedTTL(tokenID)
	return ok, nil
}
