package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountPending AccountStatus = "Pending"
	AccountPaid    AccountStatus = "Paid"
	AccountOverdue AccountStatus = "Overdue"
)

// Account is a payable bill.
type Account struct {
	ID          int64
	Description string
	Amount      decimal.Decimal
	DueDate     time.Time
	Recurring   bool
	Paid        bool
}

// Status derives the account state relative to today. A paid account is
// Paid whatever its due date.
func (a Account) Status(today time.Time) AccountStatus {
	if a.Paid {
		return AccountPaid
	}
	if DateOnly(a.DueDate).Before(DateOnly(today)) {
		return AccountOverdue
	}
	return AccountPending
}

func (a *Account) Normalize() {
	a.Description = strings.TrimSpace(a.Description)
	a.Amount = RoundMoney(a.Amount)
	a.DueDate = DateOnly(a.DueDate)
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Description) == "" {
		return Invalid("description", "description is required")
	}
	if a.Amount.IsNegative() {
		return Invalid("amount", "amount must not be negative")
	}
	if a.DueDate.IsZero() {
		return Invalid("due_date", "due date is required")
	}
	return nil
}
