package order

import (
	"context"
	"fmt"

	"servicofacil/internal/domain"
)

// Repository persists orders together with their lines. Create, Replace and
// Delete each run in a single transaction: the order is either fully written
// or left untouched. A failure of the final commit is reported as an
// indeterminate *domain.PersistenceError.
type Repository interface {
	// List returns order headers, without lines, in insertion order.
	List(ctx context.Context) ([]domain.Order, error)
	// GetByID returns the header with its lines.
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListLines(ctx context.Context, orderID int64) ([]domain.OrderLine, error)
	// Create inserts the header, then every line under the new id.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	// Replace updates the header and swaps all existing lines for o.Lines.
	Replace(ctx context.Context, o domain.Order) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}

func commitFailed(op string, id int64, err error) error {
	return &domain.PersistenceError{
		Op:            op,
		Indeterminate: true,
		Err:           fmt.Errorf("order %d: %w", id, err),
	}
}
