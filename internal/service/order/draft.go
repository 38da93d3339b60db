package order

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"servicofacil/internal/domain"
	"servicofacil/internal/service/catalog"
)

// Header carries the order form fields as entered. Dates are DD/MM/YYYY.
type Header struct {
	ClientID       int64  `json:"client_id"`
	Date           string `json:"date"`
	Status         string `json:"status"`
	Delivery       string `json:"delivery"`
	Notes          string `json:"notes"`
	CompletionDate string `json:"completion_date,omitempty"`
}

// DraftItem is one pending line. UnitPrice is fixed when the item is added.
type DraftItem struct {
	ServiceItemID int64           `json:"service_item_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
}

func (i DraftItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Draft is one order being composed or edited. It belongs to a single
// editing session and is never persisted as such.
type Draft struct {
	// OrderID is the order being edited, zero for a new order.
	OrderID int64
	Header  Header
	items   []DraftItem
}

// Items returns a copy of the pending lines in insertion order.
func (d *Draft) Items() []DraftItem {
	return append([]DraftItem(nil), d.items...)
}

func (d *Draft) Len() int { return len(d.items) }

// AddItem appends a line priced at the item's current catalog price.
// Repeated items are kept as separate lines.
func (d *Draft) AddItem(cat *catalog.Snapshot, serviceItemID int64, quantity int) error {
	if quantity <= 0 {
		return domain.Invalid("quantity", "quantity must be a positive integer")
	}
	price, err := cat.ItemPrice(serviceItemID)
	if err != nil {
		return err
	}
	d.items = append(d.items, DraftItem{
		ServiceItemID: serviceItemID,
		Quantity:      quantity,
		UnitPrice:     price,
	})
	return nil
}

// RemoveItem drops the line at index.
func (d *Draft) RemoveItem(index int) error {
	if index < 0 || index >= len(d.items) {
		return &domain.IndexError{Index: index, Len: len(d.items)}
	}
	d.items = append(d.items[:index], d.items[index+1:]...)
	return nil
}

// Total is the sum of quantity x unit price rounded to cents.
func (d *Draft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range d.items {
		total = total.Add(it.Subtotal())
	}
	return domain.RoundMoney(total)
}

func (d *Draft) lines() []domain.OrderLine {
	lines := make([]domain.OrderLine, len(d.items))
	for i, it := range d.items {
		lines[i] = domain.OrderLine{
			ServiceItemID: it.ServiceItemID,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
		}
	}
	return lines
}

// ParseQuantity accepts only a string of digits denoting a positive integer.
func ParseQuantity(text string) (int, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, domain.Invalid("quantity", "quantity is required")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, domain.Invalid("quantity", "quantity must be a positive integer: "+text)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, domain.Invalid("quantity", "quantity must be a positive integer: "+text)
	}
	return n, nil
}
