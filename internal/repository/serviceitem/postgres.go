package serviceitem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"servicofacil/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const pgColumns = `id, name, price::text, notes`

func (r *postgresRepo) List(ctx context.Context) ([]domain.ServiceItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+pgColumns+` FROM service_items ORDER BY id`)
	if err != nil {
		r.logger.Printf("service item repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.ServiceItem
	for rows.Next() {
		s, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.ServiceItem, error) {
	s, err := scanItem(r.pool.QueryRow(ctx, `SELECT `+pgColumns+` FROM service_items WHERE id = $1`, id))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("service item %d: %w", id, err)
	}
	if err != nil {
		r.logger.Printf("service item repo: get id=%d error=%v", id, err)
	}
	return s, err
}

func (r *postgresRepo) FindByName(ctx context.Context, name string) (*domain.ServiceItem, error) {
	s, err := scanItem(r.pool.QueryRow(ctx, `SELECT `+pgColumns+` FROM service_items WHERE lower(name) = lower($1) ORDER BY id LIMIT 1`, name))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("service item %q: %w", name, err)
	}
	return s, err
}

func (r *postgresRepo) Create(ctx context.Context, s domain.ServiceItem) (*domain.ServiceItem, error) {
	const q = `
INSERT INTO service_items (name, price, notes)
VALUES ($1, $2::numeric, $3)
RETURNING ` + pgColumns
	created, err := scanItem(r.pool.QueryRow(ctx, q, s.Name, s.Price.StringFixed(2), s.Notes))
	if err != nil {
		r.logger.Printf("service item repo: create name=%s error=%v", s.Name, err)
	}
	return created, err
}

func (r *postgresRepo) Update(ctx context.Context, s domain.ServiceItem) (*domain.ServiceItem, error) {
	const q = `
UPDATE service_items
SET name = $1, price = $2::numeric, notes = $3
WHERE id = $4
RETURNING ` + pgColumns
	updated, err := scanItem(r.pool.QueryRow(ctx, q, s.Name, s.Price.StringFixed(2), s.Notes, s.ID))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("service item %d: %w", s.ID, err)
	}
	if err != nil {
		r.logger.Printf("service item repo: update id=%d error=%v", s.ID, err)
	}
	return updated, err
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM service_items WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("service item repo: delete id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("service item %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanItem(row pgx.Row) (*domain.ServiceItem, error) {
	var s domain.ServiceItem
	var price string
	if err := row.Scan(&s.ID, &s.Name, &price, &s.Notes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("service item %d price %q: %w", s.ID, price, err)
	}
	s.Price = p
	return &s, nil
}
