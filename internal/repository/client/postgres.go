package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
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

const pgColumns = `id, name, phone, address, email`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+pgColumns+` FROM clients ORDER BY id`)
	if err != nil {
		r.logger.Printf("client repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Email); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	c, err := r.scanOne(ctx, `SELECT `+pgColumns+` FROM clients WHERE id = $1`, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("client %d: %w", id, err)
	}
	if err != nil {
		r.logger.Printf("client repo: get id=%d error=%v", id, err)
	}
	return c, err
}

func (r *postgresRepo) FindByName(ctx context.Context, name string) (*domain.Client, error) {
	c, err := r.scanOne(ctx, `SELECT `+pgColumns+` FROM clients WHERE lower(name) = lower($1) ORDER BY id LIMIT 1`, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("client %q: %w", name, err)
	}
	return c, err
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Client) (*domain.Client, error) {
	const q = `
INSERT INTO clients (name, phone, address, email)
VALUES ($1, $2, $3, $4)
RETURNING ` + pgColumns
	created, err := r.scanOne(ctx, q, c.Name, c.Phone, c.Address, c.Email)
	if err != nil {
		r.logger.Printf("client repo: create name=%s error=%v", c.Name, err)
	}
	return created, err
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Client) (*domain.Client, error) {
	const q = `
UPDATE clients
SET name = $1, phone = $2, address = $3, email = $4
WHERE id = $5
RETURNING ` + pgColumns
	updated, err := r.scanOne(ctx, q, c.Name, c.Phone, c.Address, c.Email, c.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("client %d: %w", c.ID, err)
	}
	if err != nil {
		r.logger.Printf("client repo: update id=%d error=%v", c.ID, err)
	}
	return updated, err
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("client repo: delete id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *postgresRepo) scanOne(ctx context.Context, q string, args ...any) (*domain.Client, error) {
	var c domain.Client
	err := r.pool.QueryRow(ctx, q, args...).Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
