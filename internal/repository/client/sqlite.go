package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"

	"servicofacil/internal/domain"
)

type sqliteRepo struct {
	db     *sql.DB
	logger *log.Logger
}

// NewSQLite returns a Repository backed by a local sqlite database.
func NewSQLite(db *sql.DB, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &sqliteRepo{db: db, logger: logger}
}

const liteColumns = `id, name, phone, address, email`

func (r *sqliteRepo) List(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+liteColumns+` FROM clients ORDER BY id`)
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

func (r *sqliteRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	c, err := r.scanOne(ctx, `SELECT `+liteColumns+` FROM clients WHERE id = ?`, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("client %d: %w", id, err)
	}
	if err != nil {
		r.logger.Printf("client repo: get id=%d error=%v", id, err)
	}
	return c, err
}

func (r *sqliteRepo) FindByName(ctx context.Context, name string) (*domain.Client, error) {
	c, err := r.scanOne(ctx, `SELECT `+liteColumns+` FROM clients WHERE lower(name) = lower(?) ORDER BY id LIMIT 1`, name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("client %q: %w", name, err)
	}
	return c, err
}

func (r *sqliteRepo) Create(ctx context.Context, c domain.Client) (*domain.Client, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO clients (name, phone, address, email) VALUES (?, ?, ?, ?)`,
		c.Name, c.Phone, c.Address, c.Email)
	if err != nil {
		r.logger.Printf("client repo: create name=%s error=%v", c.Name, err)
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	c.ID = id
	return &c, nil
}

func (r *sqliteRepo) Update(ctx context.Context, c domain.Client) (*domain.Client, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE clients SET name = ?, phone = ?, address = ?, email = ? WHERE id = ?`,
		c.Name, c.Phone, c.Address, c.Email, c.ID)
	if err != nil {
		r.logger.Printf("client repo: update id=%d error=%v", c.ID, err)
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("client %d: %w", c.ID, domain.ErrNotFound)
	}
	return &c, nil
}

func (r *sqliteRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		r.logger.Printf("client repo: delete id=%d error=%v", id, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *sqliteRepo) scanOne(ctx context.Context, q string, args ...any) (*domain.Client, error) {
	var c domain.Client
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
