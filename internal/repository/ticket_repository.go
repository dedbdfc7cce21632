package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resolvely/ticket-tracker/internal/domain"
)

// TicketOrder selects the timestamp a listing is sorted by, newest first.
type TicketOrder int

const (
	OrderByCreated TicketOrder = iota
	OrderByUpdated
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	AssigneeID   *string
	AssignedOnly bool
	OrderBy      TicketOrder
	// Limit of zero returns every matching ticket.
	Limit int
}

// TicketRepository encapsulates ticket persistence. Comments are not loaded here.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Update(ctx context.Context, id string, patch domain.TicketPatch) error
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketSelect = `
        SELECT t.id::text, t.title, t.description, t.created_at, t.updated_at,
               s.id, s.name, p.id, p.name,
               c.id::text, c.name, c.email, c.image,
               a.id::text, a.name, a.email, a.image
        FROM tickets t
        JOIN ticket_statuses s ON s.id = t.status_id
        JOIN ticket_priorities p ON p.id = t.priority_id
        LEFT JOIN users c ON c.id = t.created_by_id
        LEFT JOIN users a ON a.id = t.assigned_to_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status_id, priority_id, created_by_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id::text, created_at, updated_at`
	var creatorID *string
	if ticket.Creator != nil {
		creatorID = &ticket.Creator.ID
	}
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status.ID,
		ticket.Priority.ID,
		creatorID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	ticket, err := scanTicket(r.pool.QueryRow(ctx, ticketSelect+` WHERE t.id=$1`, id))
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AssigneeID != nil {
		if !validID(*filter.AssigneeID) {
			return []domain.Ticket{}, nil
		}
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("t.assigned_to_id=$%d", len(args)))
	}
	if filter.AssignedOnly {
		clauses = append(clauses, "t.assigned_to_id IS NOT NULL")
	}

	order := "t.created_at DESC"
	if filter.OrderBy == OrderByUpdated {
		order = "t.updated_at DESC"
	}
	query := fmt.Sprintf(`%s WHERE %s ORDER BY %s`, ticketSelect, strings.Join(clauses, " AND "), order)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, rows.Err()
}

// Update writes only the patched columns. updated_at always moves forward, even when
// two updates land within the same clock tick. No version check is made, so
// concurrent updates of the same ticket are last-write-wins.
func (r *ticketRepository) Update(ctx context.Context, id string, patch domain.TicketPatch) error {
	if !validID(id) {
		return pgx.ErrNoRows
	}
	sets := []string{}
	args := []any{}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.StatusID != nil {
		set("status_id", *patch.StatusID)
	}
	if patch.PriorityID != nil {
		set("priority_id", *patch.PriorityID)
	}
	if patch.Assignee != nil {
		set("assigned_to_id", patch.Assignee.UserID)
	}
	sets = append(sets, "updated_at=GREATEST(NOW(), updated_at + INTERVAL '1 microsecond')")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return pgx.ErrNoRows
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket   domain.Ticket
		creator  nullableUser
		assignee nullableUser
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.Status.ID,
		&ticket.Status.Name,
		&ticket.Priority.ID,
		&ticket.Priority.Name,
		&creator.ID,
		&creator.Name,
		&creator.Email,
		&creator.Image,
		&assignee.ID,
		&assignee.Name,
		&assignee.Email,
		&assignee.Image,
	); err != nil {
		return nil, err
	}
	ticket.Creator = creator.user()
	ticket.Assignee = assignee.user()
	return &ticket, nil
}

// nullableUser receives the columns of a LEFT JOINed users row.
type nullableUser struct {
	ID    *string
	Name  *string
	Email *string
	Image *string
}

func (u nullableUser) user() *domain.User {
	if u.ID == nil {
		return nil
	}
	return &domain.User{ID: *u.ID, Name: u.Name, Email: u.Email, Image: u.Image}
}

// validID filters out ids that cannot exist so lookups report not found rather than a
// uuid syntax error from the store.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
