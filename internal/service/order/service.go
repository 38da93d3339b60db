package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"servicofacil/internal/domain"
	orderrepo "servicofacil/internal/repository/order"
	"servicofacil/internal/service/catalog"
)

// Service manages order drafts and answers order queries.
type Service struct {
	repo     orderrepo.Repository
	delivery []string
	now      func() time.Time
}

// New returns a Service. deliveryMethods is the open set offered on the
// order form; the first entry is the default.
func New(repo orderrepo.Repository, deliveryMethods []string) *Service {
	if len(deliveryMethods) == 0 {
		deliveryMethods = []string{"Pickup"}
	}
	return &Service{repo: repo, delivery: deliveryMethods, now: time.Now}
}

func (s *Service) DeliveryMethods() []string {
	return append([]string(nil), s.delivery...)
}

func (s *Service) today() time.Time { return domain.DateOnly(s.now()) }

func (s *Service) defaultHeader() Header {
	return Header{
		Date:     domain.FormatUserDate(s.today()),
		Status:   string(domain.OrderStatuses[0]),
		Delivery: s.delivery[0],
	}
}

// StartNewDraft returns an empty draft with today's date and the first
// status and delivery method.
func (s *Service) StartNewDraft() *Draft {
	return &Draft{Header: s.defaultHeader()}
}

// Discard empties d and restores the new-order defaults.
func (s *Service) Discard(d *Draft) {
	*d = Draft{Header: s.defaultHeader()}
}

// LoadDraft rebuilds a draft from a stored order. Line prices are the stored
// snapshots, not current catalog prices.
func (s *Service) LoadDraft(ctx context.Context, orderID int64) (*Draft, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	d := &Draft{
		OrderID: o.ID,
		Header: Header{
			ClientID: o.ClientID,
			Date:     domain.FormatUserDate(o.Date),
			Status:   string(o.Status),
			Delivery: o.Delivery,
			Notes:    o.Notes,
		},
	}
	if o.CompletionDate != nil {
		d.Header.CompletionDate = domain.FormatUserDate(*o.CompletionDate)
	}
	for _, l := range o.Lines {
		d.items = append(d.items, DraftItem{ServiceItemID: l.ServiceItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return d, nil
}

// CommitNew validates h and d, then stores the header and every line in one
// transaction. On success d is reset.
func (s *Service) CommitNew(ctx context.Context, d *Draft, cat *catalog.Snapshot, h Header) (*domain.Order, error) {
	o, err := s.buildOrder(cat, h, d)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, *o)
	if err != nil {
		return nil, persistenceError("create order", err)
	}
	s.Discard(d)
	return created, nil
}

// CommitEdit validates h and d, updates the stored header and replaces all
// of the order's lines with the draft's. On success d is reset.
func (s *Service) CommitEdit(ctx context.Context, d *Draft, cat *catalog.Snapshot, orderID int64, h Header) (*domain.Order, error) {
	if orderID <= 0 {
		return nil, domain.Invalid("order", "order id is required")
	}
	o, err := s.buildOrder(cat, h, d)
	if err != nil {
		return nil, err
	}
	o.ID = orderID
	updated, err := s.repo.Replace(ctx, *o)
	if err != nil {
		return nil, persistenceError("update order", err)
	}
	s.Discard(d)
	return updated, nil
}

// buildOrder performs every check that needs no store call.
func (s *Service) buildOrder(cat *catalog.Snapshot, h Header, d *Draft) (*domain.Order, error) {
	if h.ClientID <= 0 {
		return nil, domain.Invalid("client", "select a client")
	}
	if _, ok := cat.Client(h.ClientID); !ok {
		return nil, fmt.Errorf("client %d: %w", h.ClientID, domain.ErrNotFound)
	}
	date, err := domain.ParseUserDate("date", h.Date)
	if err != nil {
		return nil, err
	}
	status, err := domain.ParseOrderStatus(h.Status)
	if err != nil {
		return nil, err
	}
	delivery := strings.TrimSpace(h.Delivery)
	if delivery == "" {
		delivery = s.delivery[0]
	}
	o := &domain.Order{
		ClientID: h.ClientID,
		Date:     date,
		Status:   status,
		Delivery: delivery,
		Notes:    strings.TrimSpace(h.Notes),
	}
	if strings.TrimSpace(h.CompletionDate) != "" {
		done, err := domain.ParseUserDate("completion_date", h.CompletionDate)
		if err != nil {
			return nil, err
		}
		o.CompletionDate = &done
	}
	if d.Len() == 0 {
		return nil, domain.Invalid("items", "add at least one item to the order")
	}
	o.Lines = d.lines()
	return o, nil
}

// Delete removes an order and its lines.
func (s *Service) Delete(ctx context.Context, orderID int64) error {
	if err := s.repo.Delete(ctx, orderID); err != nil {
		return persistenceError("delete order", err)
	}
	return nil
}

// persistenceError leaves not-found and already classified errors alone.
func persistenceError(op string, err error) error {
	var pe *domain.PersistenceError
	if errors.As(err, &pe) || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return &domain.PersistenceError{Op: op, Err: err}
}
