package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resolvely/ticket-tracker/internal/domain"
)

// CatalogRepository reads the status and priority reference tables.
type CatalogRepository interface {
	ListStatuses(ctx context.Context) ([]domain.Status, error)
	ListPriorities(ctx context.Context) ([]domain.Priority, error)
	GetStatus(ctx context.Context, id string) (*domain.Status, error)
	GetPriority(ctx context.Context, id string) (*domain.Priority, error)
}

type catalogRepository struct {
	pool *pgxpool.Pool
}

// NewCatalogRepository returns a Postgres-backed catalog.
func NewCatalogRepository(pool *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{pool: pool}
}

func (r *catalogRepository) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM ticket_statuses ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Status, error) {
		var s domain.Status
		err := row.Scan(&s.ID, &s.Name)
		return s, err
	})
}

func (r *catalogRepository) ListPriorities(ctx context.Context) ([]domain.Priority, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM ticket_priorities ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Priority, error) {
		var p domain.Priority
		err := row.Scan(&p.ID, &p.Name)
		return p, err
	})
}

func (r *catalogRepository) GetStatus(ctx context.Context, id string) (*domain.Status, error) {
	var s domain.Status
	if err := r.pool.QueryRow(ctx, `SELECT id, name FROM ticket_statuses WHERE id=$1`, id).Scan(&s.ID, &s.Name); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *catalogRepository) GetPriority(ctx context.Context, id string) (*domain.Priority, error) {
	var p domain.Priority
	if err := r.pool.QueryRow(ctx, `SELECT id, name FROM ticket_priorities WHERE id=$1`, id).Scan(&p.ID, &p.Name); err != nil {
		return nil, err
	}
	return &p, nil
}
