package account

import (
	"context"

	"servicofacil/internal/domain"
)

// Repository persists and fetches payable accounts.
type Repository interface {
	// List returns every account ordered by due date, then id.
	List(ctx context.Context) ([]domain.Account, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	Create(ctx context.Context, a domain.Account) (*domain.Account, error)
	Update(ctx context.Context, a domain.Account) (*domain.Account, error)
	// SetPaid changes only the paid flag.
	SetPaid(ctx context.Context, id int64, paid bool) error
	Delete(ctx context.Context, id int64) error
}
