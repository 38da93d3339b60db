package httpserver

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"servicofacil/internal/metrics"
	"servicofacil/internal/service/catalog"
	ordersvc "servicofacil/internal/service/order"
)

// catalogState holds the snapshot shared by all requests. It is replaced
// wholesale after every client or item mutation.
type catalogState struct {
	mu      sync.RWMutex
	snap    *catalog.Snapshot
	clients catalog.ClientLister
	items   catalog.ItemLister
	metrics *metrics.Metrics
}

func newCatalogState(clients catalog.ClientLister, items catalog.ItemLister, m *metrics.Metrics) *catalogState {
	return &catalogState{clients: clients, items: items, metrics: m, snap: catalog.New(nil, nil)}
}

func (s *catalogState) current() *catalog.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *catalogState) reload(ctx context.Context) error {
	snap, err := catalog.Load(ctx, s.clients, s.items)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	s.metrics.CatalogReloaded()
	return nil
}

// draftRegistry keeps open editing sessions keyed by a random id. Each
// draft is only touched while the registry lock is held.
type draftRegistry struct {
	mu     sync.Mutex
	drafts map[string]*ordersvc.Draft
}

func newDraftRegistry() *draftRegistry {
	return &draftRegistry{drafts: make(map[string]*ordersvc.Draft)}
}

func (r *draftRegistry) open(d *ordersvc.Draft) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.drafts[id] = d
	r.mu.Unlock()
	return id
}

// with runs fn on the draft under the registry lock. ok is false when id is
// unknown.
func (r *draftRegistry) with(id string, fn func(d *ordersvc.Draft) error) (ok bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, found := r.drafts[id]
	if !found {
		return false, nil
	}
	return true, fn(d)
}

func (r *draftRegistry) close(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drafts[id]; !ok {
		return false
	}
	delete(r.drafts, id)
	return true
}
