package account

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"servicofacil/internal/domain"
	accountrepo "servicofacil/internal/repository/account"
)

// Input carries the account form fields as entered.
type Input struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	DueDate     string `json:"due_date"`
	Recurring   bool   `json:"recurring"`
	Paid        bool   `json:"paid"`
}

type Service struct {
	repo accountrepo.Repository
	now  func() time.Time
}

func New(repo accountrepo.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Today() time.Time { return domain.DateOnly(s.now()) }

// DefaultDueDate is offered for new accounts: thirty days from today.
func (s *Service) DefaultDueDate() string {
	return domain.FormatUserDate(s.Today().AddDate(0, 0, 30))
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (*domain.Account, error) {
	a, err := parseInput(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*domain.Account, error) {
	a, err := parseInput(in)
	if err != nil {
		return nil, err
	}
	a.ID = id
	return s.repo.Update(ctx, a)
}

// MarkPaid sets the paid flag and leaves every other field alone.
func (s *Service) MarkPaid(ctx context.Context, id int64) error {
	return s.repo.SetPaid(ctx, id, true)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func parseInput(in Input) (domain.Account, error) {
	if strings.TrimSpace(in.Description) == "" {
		return domain.Account{}, domain.Invalid("description", "description is required")
	}
	amount, err := domain.ParseMoney("amount", in.Amount)
	if err != nil {
		return domain.Account{}, err
	}
	due, err := domain.ParseUserDate("due_date", in.DueDate)
	if err != nil {
		return domain.Account{}, err
	}
	a := domain.Account{
		Description: in.Description,
		Amount:      amount,
		DueDate:     due,
		Recurring:   in.Recurring,
		Paid:        in.Paid,
	}
	a.Normalize()
	return a, a.Validate()
}

// Criteria selects accounts. Status is all, pending, paid or overdue and is
// matched against the derived status. From and To bound the due date with
// the same fail-open rule as order filters.
type Criteria struct {
	Status string
	From   string
	To     string
}

// DefaultCriteria covers due dates from today to sixty days ahead.
func DefaultCriteria(today time.Time) Criteria {
	today = domain.DateOnly(today)
	return Criteria{
		Status: "all",
		From:   domain.FormatUserDate(today),
		To:     domain.FormatUserDate(today.AddDate(0, 0, 60)),
	}
}

// View is an account with its derived status.
type View struct {
	domain.Account
	Status domain.AccountStatus
}

// FilterAccounts keeps the accounts matching c relative to today.
func FilterAccounts(accounts []domain.Account, c Criteria, today time.Time) []View {
	from, okFrom := domain.ParseDateBound(c.From)
	to, okTo := domain.ParseDateBound(c.To)
	byDate := okFrom && okTo
	want := strings.ToLower(strings.TrimSpace(c.Status))

	out := make([]View, 0, len(accounts))
	for _, a := range accounts {
		status := a.Status(today)
		if want != "" && want != "all" && want != strings.ToLower(string(status)) {
			continue
		}
		if byDate {
			d := domain.DateOnly(a.DueDate)
			if d.Before(from) || d.After(to) {
				continue
			}
		}
		out = append(out, View{Account: a, Status: status})
	}
	return out
}

func (s *Service) Filter(ctx context.Context, c Criteria) ([]View, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterAccounts(accounts, c, s.Today()), nil
}

// Report summarizes a filtered set. PendingTotal covers every unpaid
// account, overdue ones included.
type Report struct {
	Count        int
	PendingTotal decimal.Decimal
	PaidTotal    decimal.Decimal
	OverdueCount int
	Total        decimal.Decimal
}

func BuildReport(views []View) Report {
	r := Report{PendingTotal: decimal.Zero, PaidTotal: decimal.Zero}
	for _, v := range views {
		r.Count++
		if v.Status == domain.AccountPaid {
			r.PaidTotal = r.PaidTotal.Add(v.Amount)
			continue
		}
		r.PendingTotal = r.PendingTotal.Add(v.Amount)
		if v.Status == domain.AccountOverdue {
			r.OverdueCount++
		}
	}
	r.PendingTotal = domain.RoundMoney(r.PendingTotal)
	r.PaidTotal = domain.RoundMoney(r.PaidTotal)
	r.Total = r.PendingTotal.Add(r.PaidTotal)
	return r
}
