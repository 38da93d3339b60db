package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseUserDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"10/01/2024", "2024-01-10", true},
		{"1/2/2024", "2024-02-01", true},
		{" 29/02/2024 ", "2024-02-29", true},
		{"31/02/2024", "", false},
		{"2024-01-10", "", false},
		{"10/01/24", "", false},
		{"", "", false},
		{"aa/bb/cccc", "", false},
	}
	for _, tc := range cases {
		got, err := ParseUserDate("date", tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("ParseUserDate(%q): %v", tc.in, err)
			}
			if FormatISODate(got) != tc.want {
				t.Fatalf("ParseUserDate(%q) = %s, want %s", tc.in, FormatISODate(got), tc.want)
			}
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != "date" {
			t.Fatalf("ParseUserDate(%q): expected validation error on date, got %v", tc.in, err)
		}
	}
}

func TestParseDateBound_AcceptsBothForms(t *testing.T) {
	for _, in := range []string{"10/01/2024", "2024-01-10"} {
		got, ok := ParseDateBound(in)
		if !ok || FormatISODate(got) != "2024-01-10" {
			t.Fatalf("ParseDateBound(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParseDateBound("soon"); ok {
		t.Fatalf("expected garbage bound to be rejected")
	}
	if _, ok := ParseDateBound(""); ok {
		t.Fatalf("expected empty bound to be rejected")
	}
}

func TestParseMoney(t *testing.T) {
	got, err := ParseMoney("price", "12,5")
	if err != nil {
		t.Fatalf("ParseMoney: %v", err)
	}
	if FormatMoney(got) != "12.50" {
		t.Fatalf("expected 12.50, got %s", FormatMoney(got))
	}
	if _, err := ParseMoney("price", "-1"); !IsValidation(err) {
		t.Fatalf("expected validation error for negative, got %v", err)
	}
	if _, err := ParseMoney("price", "abc"); !IsValidation(err) {
		t.Fatalf("expected validation error for text, got %v", err)
	}
}

func TestRoundMoney_HalfAwayFromZero(t *testing.T) {
	if got := RoundMoney(decimal.RequireFromString("2.345")); got.String() != "2.35" {
		t.Fatalf("expected 2.35, got %s", got)
	}
}

func TestLinesTotal(t *testing.T) {
	if !LinesTotal(nil).Equal(decimal.Zero) {
		t.Fatalf("expected zero total for no lines")
	}
	lines := []OrderLine{
		{Quantity: 3, UnitPrice: decimal.RequireFromString("0.10")},
		{Quantity: 2, UnitPrice: decimal.RequireFromString("19.99")},
	}
	if got := LinesTotal(lines); FormatMoney(got) != "40.28" {
		t.Fatalf("expected 40.28, got %s", got)
	}
}

func TestLinesTotal_HundredLinesStaysExact(t *testing.T) {
	lines := make([]OrderLine, 100)
	for i := range lines {
		lines[i] = OrderLine{Quantity: 1, UnitPrice: decimal.RequireFromString("0.10")}
	}
	if got := LinesTotal(lines); FormatMoney(got) != "10.00" {
		t.Fatalf("expected 10.00, got %s", got)
	}
}

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus("in progress")
	if err != nil || s != StatusInProgress {
		t.Fatalf("expected In Progress, got %q, %v", s, err)
	}
	if _, err := ParseOrderStatus("Shipped"); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAccountStatus(t *testing.T) {
	today := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	past := Account{DueDate: time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)}
	if got := past.Status(today); got != AccountOverdue {
		t.Fatalf("expected Overdue, got %s", got)
	}
	past.Paid = true
	if got := past.Status(today); got != AccountPaid {
		t.Fatalf("expected Paid, got %s", got)
	}
	dueToday := Account{DueDate: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)}
	if got := dueToday.Status(today); got != AccountPending {
		t.Fatalf("expected Pending for due today, got %s", got)
	}
}

func TestPersistenceError_Unwraps(t *testing.T) {
	base := errors.New("disk full")
	err := fmt.Errorf("commit: %w", &PersistenceError{Op: "create order", Indeterminate: true, Err: base})
	var pe *PersistenceError
	if !errors.As(err, &pe) || !pe.Indeterminate {
		t.Fatalf("expected indeterminate persistence error, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped store error to be reachable")
	}
}

func TestValidate(t *testing.T) {
	if err := (Client{Name: "  "}).Validate(); !IsValidation(err) {
		t.Fatalf("expected blank client name to fail")
	}
	if err := (ServiceItem{Name: "Wash", Price: decimal.NewFromInt(-1)}).Validate(); !IsValidation(err) {
		t.Fatalf("expected negative price to fail")
	}
	if err := (Account{Description: "Rent", Amount: decimal.NewFromInt(10)}).Validate(); !IsValidation(err) {
		t.Fatalf("expected missing due date to fail")
	}
}
