package account

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

const pgColumns = `id, description, amount::text, due_date, recurring, paid`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+pgColumns+` FROM accounts ORDER BY due_date, id`)
	if err != nil {
		r.logger.Printf("account repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx, `SELECT `+pgColumns+` FROM accounts WHERE id = $1`, id))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("account %d: %w", id, err)
	}
	if err != nil {
		r.logger.Printf("account repo: get id=%d error=%v", id, err)
	}
	return a, err
}

func (r *postgresRepo) Create(ctx context.Context, a domain.Account) (*domain.Account, error) {
	const q = `
INSERT INTO accounts (description, amount, due_date, recurring, paid)
VALUES ($1, $2::numeric, $3, $4, $5)
RETURNING ` + pgColumns
	created, err := scanAccount(r.pool.QueryRow(ctx, q, a.Description, a.Amount.StringFixed(2), a.DueDate, a.Recurring, a.Paid))
	if err != nil {
		r.logger.Printf("account repo: create description=%s error=%v", a.Description, err)
	}
	return created, err
}

func (r *postgresRepo) Update(ctx context.Context, a domain.Account) (*domain.Account, error) {
	const q = `
UPDATE accounts
SET description = $1, amount = $2::numeric, due_date = $3, recurring = $4, paid = $5
WHERE id = $6
RETURNING ` + pgColumns
	updated, err := scanAccount(r.pool.QueryRow(ctx, q, a.Description, a.Amount.StringFixed(2), a.DueDate, a.Recurring, a.Paid, a.ID))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("account %d: %w", a.ID, err)
	}
	if err != nil {
		r.logger.Printf("account repo: update id=%d error=%v", a.ID, err)
	}
	return updated, err
}

func (r *postgresRepo) SetPaid(ctx context.Context, id int64, paid bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE accounts SET paid = $1 WHERE id = $2`, paid, id)
	if err != nil {
		r.logger.Printf("account repo: set paid id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("account repo: delete id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	var amount string
	if err := row.Scan(&a.ID, &a.Description, &amount, &a.DueDate, &a.Recurring, &a.Paid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("account %d amount %q: %w", a.ID, amount, err)
	}
	a.Amount = d
	a.DueDate = domain.DateOnly(a.DueDate)
	return &a, nil
}
