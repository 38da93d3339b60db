package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"servicofacil/internal/domain"
)

type ClientStore interface {
	FindByName(ctx context.Context, name string) (*domain.Client, error)
	Create(ctx context.Context, c domain.Client) (*domain.Client, error)
}

type ItemStore interface {
	FindByName(ctx context.Context, name string) (*domain.ServiceItem, error)
	Create(ctx context.Context, s domain.ServiceItem) (*domain.ServiceItem, error)
}

var demoClients = []domain.Client{
	{Name: "Ana Souza", Phone: "(11) 98888-0001", Address: "Rua das Flores, 10", Email: "ana@example.com"},
	{Name: "Bruno Lima", Phone: "(11) 97777-0002", Address: "Av. Central, 200"},
	{Name: "Carla Mendes", Email: "carla@example.com"},
}

var demoItems = []domain.ServiceItem{
	{Name: "Lavagem simples", Price: decimal.RequireFromString("12.50"), Notes: "por peça"},
	{Name: "Passadoria", Price: decimal.RequireFromString("8.00"), Notes: "por peça"},
	{Name: "Lavagem a seco", Price: decimal.RequireFromString("35.00")},
	{Name: "Ajuste de barra", Price: decimal.RequireFromString("20.00")},
}

// Apply inserts demo clients and service items for manual testing. Records
// are matched by name, so running it twice inserts nothing new.
func Apply(ctx context.Context, clients ClientStore, items ItemStore) (inserted int, err error) {
	for _, c := range demoClients {
		_, err := clients.FindByName(ctx, c.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return inserted, fmt.Errorf("find client %s: %w", c.Name, err)
		}
		if _, err := clients.Create(ctx, c); err != nil {
			return inserted, fmt.Errorf("create client %s: %w", c.Name, err)
		}
		inserted++
	}

	for _, it := range demoItems {
		_, err := items.FindByName(ctx, it.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return inserted, fmt.Errorf("find service item %s: %w", it.Name, err)
		}
		if _, err := items.Create(ctx, it); err != nil {
			return inserted, fmt.Errorf("create service item %s: %w", it.Name, err)
		}
		inserted++
	}
	return inserted, nil
}
