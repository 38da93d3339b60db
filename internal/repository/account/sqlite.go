package account

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

const liteColumns = `id, description, amount, due_date, recurring, paid`

type scanner interface {
	Scan(dest ...any) error
}

func (r *sqliteRepo) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+liteColumns+` FROM accounts ORDER BY due_date, id`)
	if err != nil {
		r.logger.Printf("account repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Account
	for rows.Next() {
		a, err := scanLiteAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (r *sqliteRepo) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	a, err := scanLiteAccount(r.db.QueryRowContext(ctx, `SELECT `+liteColumns+` FROM accounts WHERE id = ?`, id))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("account %d: %w", id, err)
	}
	if err != nil {
		r.logger.Printf("account repo: get id=%d error=%v", id, err)
	}
	return a, err
}

func (r *sqliteRepo) Create(ctx context.Context, a domain.Account) (*domain.Account, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO accounts (description, amount, due_date, recurring, paid) VALUES (?, ?, ?, ?, ?)`,
		a.Description, domain.FormatMoney(a.Amount), domain.FormatISODate(a.DueDate), a.Recurring, a.Paid)
	if err != nil {
		r.logger.Printf("account repo: create description=%s error=%v", a.Description, err)
		return nil, err
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *sqliteRepo) Update(ctx context.Context, a domain.Account) (*domain.Account, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET description = ?, amount = ?, due_date = ?, recurring = ?, paid = ? WHERE id = ?`,
		a.Description, domain.FormatMoney(a.Amount), domain.FormatISODate(a.DueDate), a.Recurring, a.Paid, a.ID)
	if err != nil {
		r.logger.Printf("account repo: update id=%d error=%v", a.ID, err)
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("account %d: %w", a.ID, domain.ErrNotFound)
	}
	return &a, nil
}

func (r *sqliteRepo) SetPaid(ctx context.Context, id int64, paid bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET paid = ? WHERE id = ?`, paid, id)
	if err != nil {
		r.logger.Printf("account repo: set paid id=%d error=%v", id, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *sqliteRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		r.logger.Printf("account repo: delete id=%d error=%v", id, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("account %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanLiteAccount(row scanner) (*domain.Account, error) {
	var a domain.Account
	var amount, due string
	if err := row.Scan(&a.ID, &a.Description, &amount, &due, &a.Recurring, &a.Paid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var err error
	if a.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("account %d amount %q: %w", a.ID, amount, err)
	}
	if a.DueDate, err = domain.ParseISODate(due); err != nil {
		return nil, fmt.Errorf("account %d due date %q: %w", a.ID, due, err)
	}
	return &a, nil
}
