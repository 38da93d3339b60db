package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

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

const liteHeaderColumns = `id, client_id, order_date, status, delivery, notes, completion_date`

type scanner interface {
	Scan(dest ...any) error
}

func (r *sqliteRepo) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+liteHeaderColumns+` FROM orders ORDER BY id`)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanLiteHeader(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	return result, rows.Err()
}

func (r *sqliteRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := scanLiteHeader(r.db.QueryRowContext(ctx, `SELECT `+liteHeaderColumns+` FROM orders WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("order %d: %w", id, err)
		}
		r.logger.Printf("order repo: get id=%d error=%v", id, err)
		return nil, err
	}
	lines, err := r.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return o, nil
}

func (r *sqliteRepo) ListLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	const q = `
SELECT id, order_id, service_item_id, quantity, unit_price
FROM order_items
WHERE order_id = ?
ORDER BY id
`
	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		r.logger.Printf("order repo: lines order_id=%d error=%v", orderID, err)
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		var price string
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ServiceItemID, &l.Quantity, &price); err != nil {
			return nil, err
		}
		if l.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("order line %d price %q: %w", l.ID, price, err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *sqliteRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
INSERT INTO orders (client_id, order_date, status, delivery, notes, completion_date)
VALUES (?, ?, ?, ?, ?, ?)`,
		o.ClientID, domain.FormatISODate(o.Date), string(o.Status), o.Delivery, o.Notes, isoOrNull(o.CompletionDate))
	if err != nil {
		r.logger.Printf("order repo: create client_id=%d error=%v", o.ClientID, err)
		return nil, err
	}
	if o.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	if o.Lines, err = insertLinesLite(ctx, tx, o.ID, o.Lines); err != nil {
		r.logger.Printf("order repo: create lines order_id=%d error=%v", o.ID, err)
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		r.logger.Printf("order repo: commit create order_id=%d error=%v", o.ID, err)
		return nil, commitFailed("create order", o.ID, err)
	}
	return &o, nil
}

func (r *sqliteRepo) Replace(ctx context.Context, o domain.Order) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
UPDATE orders
SET client_id = ?, order_date = ?, status = ?, delivery = ?, notes = ?, completion_date = ?
WHERE id = ?`,
		o.ClientID, domain.FormatISODate(o.Date), string(o.Status), o.Delivery, o.Notes, isoOrNull(o.CompletionDate), o.ID)
	if err != nil {
		r.logger.Printf("order repo: update id=%d error=%v", o.ID, err)
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("order %d: %w", o.ID, domain.ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, o.ID); err != nil {
		r.logger.Printf("order repo: clear lines order_id=%d error=%v", o.ID, err)
		return nil, err
	}
	if o.Lines, err = insertLinesLite(ctx, tx, o.ID, o.Lines); err != nil {
		r.logger.Printf("order repo: replace lines order_id=%d error=%v", o.ID, err)
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		r.logger.Printf("order repo: commit replace order_id=%d error=%v", o.ID, err)
		return nil, commitFailed("replace order", o.ID, err)
	}
	return &o, nil
}

func (r *sqliteRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id); err != nil {
		r.logger.Printf("order repo: delete lines order_id=%d error=%v", id, err)
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		r.logger.Printf("order repo: delete id=%d error=%v", id, err)
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return commitFailed("delete order", id, err)
	}
	return nil
}

func insertLinesLite(ctx context.Context, tx *sql.Tx, orderID int64, lines []domain.OrderLine) ([]domain.OrderLine, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO order_items (order_id, service_item_id, quantity, unit_price) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	out := make([]domain.OrderLine, len(lines))
	copy(out, lines)
	for i := range out {
		res, err := stmt.ExecContext(ctx, orderID, out[i].ServiceItemID, out[i].Quantity, domain.FormatMoney(out[i].UnitPrice))
		if err != nil {
			return nil, err
		}
		if out[i].ID, err = res.LastInsertId(); err != nil {
			return nil, err
		}
		out[i].OrderID = orderID
	}
	return out, nil
}

func scanLiteHeader(row scanner) (*domain.Order, error) {
	var o domain.Order
	var date, status string
	var completion sql.NullString
	if err := row.Scan(&o.ID, &o.ClientID, &date, &status, &o.Delivery, &o.Notes, &completion); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var err error
	if o.Date, err = domain.ParseISODate(date); err != nil {
		return nil, fmt.Errorf("order %d date %q: %w", o.ID, date, err)
	}
	if completion.Valid && completion.String != "" {
		d, err := domain.ParseISODate(completion.String)
		if err != nil {
			return nil, fmt.Errorf("order %d completion date %q: %w", o.ID, completion.String, err)
		}
		o.CompletionDate = &d
	}
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

func isoOrNull(t *time.Time) any {
	if t == nil {
		return nil
	}
	return domain.FormatISODate(*t)
}
