package serviceitem

import (
	"context"

	"servicofacil/internal/domain"
)

// Repository persists and fetches service items. List returns insertion order.
type Repository interface {
	List(ctx context.Context) ([]domain.ServiceItem, error)
	GetByID(ctx context.Context, id int64) (*domain.ServiceItem, error)
	FindByName(ctx context.Context, name string) (*domain.ServiceItem, error)
	Create(ctx context.Context, s domain.ServiceItem) (*domain.ServiceItem, error)
	Update(ctx context.Context, s domain.ServiceItem) (*domain.ServiceItem, error)
	Delete(ctx context.Context, id int64) error
}
