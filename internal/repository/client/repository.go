package client

import (
	"context"

	"servicofacil/internal/domain"
)

// Repository persists and fetches clients. List returns insertion order.
type Repository interface {
	List(ctx context.Context) ([]domain.Client, error)
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	FindByName(ctx context.Context, name string) (*domain.Client, error)
	Create(ctx context.Context, c domain.Client) (*domain.Client, error)
	Update(ctx context.Context, c domain.Client) (*domain.Client, error)
	Delete(ctx context.Context, id int64) error
}
