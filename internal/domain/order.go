package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusInProgress OrderStatus = "In Progress"
	StatusCompleted  OrderStatus = "Completed"
	StatusCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists every status in display order; the first is the default.
var OrderStatuses = []OrderStatus{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseOrderStatus matches text against the known statuses, ignoring case
// and surrounding spaces.
func ParseOrderStatus(text string) (OrderStatus, error) {
	s := strings.TrimSpace(text)
	for _, v := range OrderStatuses {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", Invalid("status", "unknown order status: "+text)
}

// Order is the persisted order header.
type Order struct {
	ID             int64
	ClientID       int64
	Date           time.Time
	Status         OrderStatus
	Delivery       string
	Notes          string
	CompletionDate *time.Time
	Lines          []OrderLine
}

// OrderLine is one line of an order. UnitPrice is the catalog price copied
// when the line was added.
type OrderLine struct {
	ID            int64
	OrderID       int64
	ServiceItemID int64
	Quantity      int
	UnitPrice     decimal.Decimal
}

func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LinesTotal sums quantity x unit price and rounds to cents.
func LinesTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return RoundMoney(total)
}
