package serviceitem

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/shopspring/decimal"
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

const liteColumns = `id, name, price, notes`

type scanner interface {
	Scan(dest ...any) error
}

func (r *sqliteRepo) List(ctx context.Context) ([]domain.ServiceItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+liteColumns+` FROM service_items ORDER BY id`)
	if err != nil {
		r.logger.Printf("service item repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.ServiceItem
	for rows.Next() {
		s, err := scanLiteItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func (r *sqliteRepo) GetByID(ctx context.Context, id int64) (*domain.ServiceItem, error) {
	s, err := scanLiteItem(r.db.QueryRowContext(ctx, `SELECT `+liteColumns+` FROM service_items WHERE id = ?`, id))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("service item %d: %w", id, err)
	}
	if err != nil {
		r.logger.Printf("service item repo: get id=%d error=%v", id, err)
	}
	return s, err
}

func (r *sqliteRepo) FindByName(ctx context.Context, name string) (*domain.ServiceItem, error) {
	s, err := scanLiteItem(r.db.QueryRowContext(ctx, `SELECT `+liteColumns+` FROM service_items WHERE lower(name) = lower(?) ORDER BY id LIMIT 1`, name))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("service item %q: %w", name, err)
	}
	return s, err
}

func (r *sqliteRepo) Create(ctx context.Context, s domain.ServiceItem) (*domain.ServiceItem, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO service_items (name, price, notes) VALUES (?, ?, ?)`,
		s.Name, domain.FormatMoney(s.Price), s.Notes)
	if err != nil {
		r.logger.Printf("service item repo: create name=%s error=%v", s.Name, err)
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	s.ID = id
	return &s, nil
}

func (r *sqliteRepo) Update(ctx context.Context, s domain.ServiceItem) (*domain.ServiceItem, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE service_items SET name = ?, price = ?, notes = ? WHERE id = ?`,
		s.Name, domain.FormatMoney(s.Price), s.Notes, s.ID)
	if err != nil {
		r.logger.Printf("service item repo: update id=%d error=%v", s.ID, err)
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("service item %d: %w", s.ID, domain.ErrNotFound)
	}
	return &s, nil
}

func (r *sqliteRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM service_items WHERE id = ?`, id)
	if err != nil {
		r.logger.Printf("service item repo: delete id=%d error=%v", id, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("service item %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanLiteItem(row scanner) (*domain.ServiceItem, error) {
	var s domain.ServiceItem
	var price string
	if err := row.Scan(&s.ID, &s.Name, &price, &s.Notes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
