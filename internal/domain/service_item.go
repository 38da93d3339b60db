package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ServiceItem is a billable catalog entry.
type ServiceItem struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Notes string          `json:"notes"`
}

func (s *ServiceItem) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Notes = strings.TrimSpace(s.Notes)
	s.Price = RoundMoney(s.Price)
}

func (s ServiceItem) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return Invalid("name", "item name is required")
	}
	if s.Price.IsNegative() {
		return Invalid("price", "price must not be negative")
	}
	return nil
}
