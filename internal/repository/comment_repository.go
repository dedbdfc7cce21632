package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resolvely/ticket-tracker/internal/domain"
)

// CommentRepository manages append-only ticket comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentSelect = `
        SELECT cm.id::text, cm.ticket_id::text, t.title, cm.content, cm.created_at,
               u.id::text, u.name, u.email, u.image
        FROM comments cm
        JOIN tickets t ON t.id = cm.ticket_id
        LEFT JOIN users u ON u.id = cm.author_id`

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if !validID(comment.TicketID) {
		return pgx.ErrNoRows
	}
	const query = `
        INSERT INTO comments (ticket_id, author_id, content)
        VALUES ($1,$2,$3)
        RETURNING id::text, created_at`
	var authorID *string
	if comment.Author != nil {
		authorID = &comment.Author.ID
	}
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		authorID,
		comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	if !validID(ticketID) {
		return []domain.Comment{}, nil
	}
	rows, err := r.pool.Query(ctx, commentSelect+` WHERE cm.ticket_id=$1 ORDER BY cm.created_at ASC`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

func (r *commentRepository) ListRecent(ctx context.Context, limit int) ([]domain.Comment, error) {
	query := commentSelect + ` ORDER BY cm.created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

func scanComments(rows pgx.Rows) ([]domain.Comment, error) {
	result := make([]domain.Comment, 0)
	for rows.Next() {
		var (
			comment domain.Comment
			author  nullableUser
		)
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.TicketTitle,
			&comment.Content,
			&comment.CreatedAt,
			&author.ID,
			&author.Name,
			&author.Email,
			&author.Image,
		); err != nil {
			return nil, err
		}
		comment.Author = author.user()
		result = append(result, comment)
	}
	return result, rows.Err()
}
