package order

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"servicofacil/internal/domain"
	"servicofacil/internal/service/catalog"
)

// Criteria selects orders. A nil ClientID and a Status of "" or "all" match
// everything. From and To are inclusive bounds in DD/MM/YYYY or YYYY-MM-DD;
// if either is empty or unparseable the date filter is skipped.
type Criteria struct {
	ClientID *int64
	Status   string
	From     string
	To       string
}

// DefaultCriteria covers the 30 days up to today.
func DefaultCriteria(today time.Time) Criteria {
	today = domain.DateOnly(today)
	return Criteria{
		From: domain.FormatUserDate(today.AddDate(0, 0, -30)),
		To:   domain.FormatUserDate(today),
	}
}

// FilterOrders keeps the orders matching c, preserving input order.
func FilterOrders(orders []domain.Order, c Criteria) []domain.Order {
	from, okFrom := domain.ParseDateBound(c.From)
	to, okTo := domain.ParseDateBound(c.To)
	byDate := okFrom && okTo
	status := strings.TrimSpace(c.Status)
	byStatus := status != "" && !strings.EqualFold(status, "all")

	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if c.ClientID != nil && o.ClientID != *c.ClientID {
			continue
		}
		if byStatus && string(o.Status) != status {
			continue
		}
		if byDate {
			d := domain.DateOnly(o.Date)
			if d.Before(from) || d.After(to) {
				continue
			}
		}
		out = append(out, o)
	}
	return out
}

// OrderView is an order header prepared for listing.
type OrderView struct {
	Order      domain.Order
	ClientName string
	Total      decimal.Decimal
}

// Filter lists stored orders matching c with resolved client names and
// totals. Totals are recomputed from the stored lines on every call.
func (s *Service) Filter(ctx context.Context, cat *catalog.Snapshot, c Criteria) ([]OrderView, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := FilterOrders(orders, c)
	views := make([]OrderView, 0, len(matched))
	for _, o := range matched {
		lines, err := s.repo.ListLines(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, OrderView{
			Order:      o,
			ClientName: cat.ClientName(o.ClientID),
			Total:      domain.LinesTotal(lines),
		})
	}
	return views, nil
}

// Report summarizes a filtered set of orders.
type Report struct {
	Count      int
	TotalValue decimal.Decimal
	ByStatus   map[domain.OrderStatus]int
}

func BuildReport(views []OrderView) Report {
	r := Report{TotalValue: decimal.Zero, ByStatus: make(map[domain.OrderStatus]int)}
	for _, v := range views {
		r.Count++
		r.TotalValue = r.TotalValue.Add(v.Total)
		r.ByStatus[v.Order.Status]++
	}
	r.TotalValue = domain.RoundMoney(r.TotalValue)
	return r
}

// LineView is a stored line with its resolved item name.
type LineView struct {
	domain.OrderLine
	ItemName string
	Subtotal decimal.Decimal
}

// Detail is one order with resolved names, subtotals and total.
type Detail struct {
	Order      domain.Order
	ClientName string
	Lines      []LineView
	Total      decimal.Decimal
}

func (s *Service) Detail(ctx context.Context, cat *catalog.Snapshot, orderID int64) (*Detail, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	d := &Detail{
		Order:      *o,
		ClientName: cat.ClientName(o.ClientID),
		Total:      domain.LinesTotal(o.Lines),
	}
	for _, l := range o.Lines {
		d.Lines = append(d.Lines, LineView{
			OrderLine: l,
			ItemName:  cat.ItemName(l.ServiceItemID),
			Subtotal:  domain.RoundMoney(l.Subtotal()),
		})
	}
	return d, nil
}
