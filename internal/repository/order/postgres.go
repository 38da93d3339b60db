package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

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

const pgHeaderColumns = `id, client_id, order_date, status, delivery, notes, completion_date`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+pgHeaderColumns+` FROM orders ORDER BY id`)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanHeader(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := scanHeader(r.pool.QueryRow(ctx, `SELECT `+pgHeaderColumns+` FROM orders WHERE id = $1`, id))
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

func (r *postgresRepo) ListLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	const q = `
SELECT id, order_id, service_item_id, quantity, unit_price::text
FROM order_items
WHERE order_id = $1
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q, orderID)
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

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO orders (client_id, order_date, status, delivery, notes, completion_date)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`
	if err := tx.QueryRow(ctx, q, o.ClientID, o.Date, string(o.Status), o.Delivery, o.Notes, o.CompletionDate).Scan(&o.ID); err != nil {
		r.logger.Printf("order repo: create client_id=%d error=%v", o.ClientID, err)
		return nil, err
	}
	if o.Lines, err = insertLinesPG(ctx, tx, o.ID, o.Lines); err != nil {
		r.logger.Printf("order repo: create lines order_id=%d error=%v", o.ID, err)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		r.logger.Printf("order repo: commit create order_id=%d error=%v", o.ID, err)
		return nil, commitFailed("create order", o.ID, err)
	}
	return &o, nil
}

func (r *postgresRepo) Replace(ctx context.Context, o domain.Order) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
UPDATE orders
SET client_id = $1, order_date = $2, status = $3, delivery = $4, notes = $5, completion_date = $6
WHERE id = $7
`
	cmd, err := tx.Exec(ctx, q, o.ClientID, o.Date, string(o.Status), o.Delivery, o.Notes, o.CompletionDate, o.ID)
	if err != nil {
		r.logger.Printf("order repo: update id=%d error=%v", o.ID, err)
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, fmt.Errorf("order %d: %w", o.ID, domain.ErrNotFound)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.ID); err != nil {
		r.logger.Printf("order repo: clear lines order_id=%d error=%v", o.ID, err)
		return nil, err
	}
	if o.Lines, err = insertLinesPG(ctx, tx, o.ID, o.Lines); err != nil {
		r.logger.Printf("order repo: replace lines order_id=%d error=%v", o.ID, err)
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		r.logger.Printf("order repo: commit replace order_id=%d error=%v", o.ID, err)
		return nil, commitFailed("replace order", o.ID, err)
	}
	return &o, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		r.logger.Printf("order repo: delete lines order_id=%d error=%v", id, err)
		return err
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("order repo: delete id=%d error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	if err := tx.Commit(ctx); err != nil {
		return commitFailed("delete order", id, err)
	}
	return nil
}

// insertLinesPG queues one insert per line in a batch and returns the lines
// with their new ids.
func insertLinesPG(ctx context.Context, tx pgx.Tx, orderID int64, lines []domain.OrderLine) ([]domain.OrderLine, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	const q = `
INSERT INTO order_items (order_id, service_item_id, quantity, unit_price)
VALUES ($1, $2, $3, $4::numeric)
RETURNING id
`
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(q, orderID, l.ServiceItemID, l.Quantity, l.UnitPrice.StringFixed(2))
	}
	br := tx.SendBatch(ctx, batch)

	out := make([]domain.OrderLine, len(lines))
	copy(out, lines)
	for i := range out {
		out[i].OrderID = orderID
		if err := br.QueryRow().Scan(&out[i].ID); err != nil {
			br.Close()
			return nil, err
		}
	}
	return out, br.Close()
}

func scanHeader(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var status string
	var completion *time.Time
	if err := row.Scan(&o.ID, &o.ClientID, &o.Date, &status, &o.Delivery, &o.Notes, &completion); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	o.Date = domain.DateOnly(o.Date)
	if completion != nil {
		d := domain.DateOnly(*completion)
		o.CompletionDate = &d
	}
	return &o, nil
}
