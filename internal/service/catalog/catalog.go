// Package catalog holds an explicit, read-only snapshot of clients and
// service items used to resolve ids to names and prices. A snapshot never
// refreshes itself: callers reload it after any catalog mutation.
package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"servicofacil/internal/domain"
)

type ClientLister interface {
	List(ctx context.Context) ([]domain.Client, error)
}

type ItemLister interface {
	List(ctx context.Context) ([]domain.ServiceItem, error)
}

type Snapshot struct {
	clients  []domain.Client
	items    []domain.ServiceItem
	clientIx map[int64]int
	itemIx   map[int64]int
}

// Load reads all clients and service items.
func Load(ctx context.Context, clients ClientLister, items ItemLister) (*Snapshot, error) {
	cs, err := clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load clients: %w", err)
	}
	is, err := items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load service items: %w", err)
	}
	return New(cs, is), nil
}

// New builds a snapshot from already fetched records.
func New(clients []domain.Client, items []domain.ServiceItem) *Snapshot {
	s := &Snapshot{
		clients:  append([]domain.Client(nil), clients...),
		items:    append([]domain.ServiceItem(nil), items...),
		clientIx: make(map[int64]int, len(clients)),
		itemIx:   make(map[int64]int, len(items)),
	}
	for i, c := range s.clients {
		s.clientIx[c.ID] = i
	}
	for i, it := range s.items {
		s.itemIx[it.ID] = i
	}
	return s
}

func (s *Snapshot) Client(id int64) (domain.Client, bool) {
	i, ok := s.clientIx[id]
	if !ok {
		return domain.Client{}, false
	}
	return s.clients[i], true
}

func (s *Snapshot) Item(id int64) (domain.ServiceItem, bool) {
	i, ok := s.itemIx[id]
	if !ok {
		return domain.ServiceItem{}, false
	}
	return s.items[i], true
}

// ClientName returns domain.UnknownName for ids not in the snapshot.
func (s *Snapshot) ClientName(id int64) string {
	if c, ok := s.Client(id); ok {
		return c.Name
	}
	return domain.UnknownName
}

// ItemName returns domain.UnknownName for ids not in the snapshot.
func (s *Snapshot) ItemName(id int64) string {
	if it, ok := s.Item(id); ok {
		return it.Name
	}
	return domain.UnknownName
}

// ItemPrice returns the current catalog price of a service item.
func (s *Snapshot) ItemPrice(id int64) (decimal.Decimal, error) {
	it, ok := s.Item(id)
	if !ok {
		return decimal.Zero, fmt.Errorf("service item %d: %w", id, domain.ErrNotFound)
	}
	return it.Price, nil
}

// Clients returns a copy of the clients in store order.
func (s *Snapshot) Clients() []domain.Client {
	return append([]domain.Client(nil), s.clients...)
}

// Items returns a copy of the service items in store order.
func (s *Snapshot) Items() []domain.ServiceItem {
	return append([]domain.ServiceItem(nil), s.items...)
}
