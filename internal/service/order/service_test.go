package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"servicofacil/internal/domain"
	"servicofacil/internal/service/catalog"
)

type stubOrderRepo struct {
	orders    map[int64]domain.Order
	nextID    int64
	nextLine  int64
	calls     int
	createErr error
	replErr   error
}

func newStubRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: map[int64]domain.Order{}}
}

func (r *stubOrderRepo) List(context.Context) ([]domain.Order, error) {
	r.calls++
	ids := make([]int64, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		o := r.orders[id]
		o.Lines = nil
		out = append(out, o)
	}
	return out, nil
}

func (r *stubOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.calls++
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	o.Lines = append([]domain.OrderLine(nil), o.Lines...)
	return &o, nil
}

func (r *stubOrderRepo) ListLines(_ context.Context, id int64) ([]domain.OrderLine, error) {
	r.calls++
	return append([]domain.OrderLine(nil), r.orders[id].Lines...), nil
}

func (r *stubOrderRepo) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	r.calls++
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	o.ID = r.nextID
	r.stampLines(&o)
	r.orders[o.ID] = o
	return &o, nil
}

func (r *stubOrderRepo) Replace(_ context.Context, o domain.Order) (*domain.Order, error) {
	r.calls++
	if r.replErr != nil {
		return nil, r.replErr
	}
	if _, ok := r.orders[o.ID]; !ok {
		return nil, fmt.Errorf("order %d: %w", o.ID, domain.ErrNotFound)
	}
	r.stampLines(&o)
	r.orders[o.ID] = o
	return &o, nil
}

func (r *stubOrderRepo) Delete(_ context.Context, id int64) error {
	r.calls++
	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}
	delete(r.orders, id)
	return nil
}

func (r *stubOrderRepo) stampLines(o *domain.Order) {
	lines := make([]domain.OrderLine, len(o.Lines))
	for i, l := range o.Lines {
		r.nextLine++
		l.ID = r.nextLine
		l.OrderID = o.ID
		lines[i] = l
	}
	o.Lines = lines
}

func fixedNow() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) }

func newTestService(repo *stubOrderRepo) *Service {
	s := New(repo, []string{"Pickup", "Delivery"})
	s.now = fixedNow
	return s
}

func testCatalog() *catalog.Snapshot {
	return catalog.New(
		[]domain.Client{{ID: 5, Name: "Ana"}, {ID: 6, Name: "Bruno"}},
		[]domain.ServiceItem{
			{ID: 1, Name: "Lavagem", Price: decimal.RequireFromString("12.50")},
			{ID: 2, Name: "Passadoria", Price: decimal.RequireFromString("8.00")},
		},
	)
}

func validHeader() Header {
	return Header{ClientID: 5, Date: "10/01/2024", Status: "Pending", Delivery: "Delivery", Notes: "ring twice"}
}

func TestStartNewDraft_Defaults(t *testing.T) {
	s := newTestService(newStubRepo())
	d := s.StartNewDraft()
	if d.Header.Date != "15/03/2024" || d.Header.Status != "Pending" || d.Header.Delivery != "Pickup" {
		t.Fatalf("unexpected defaults %+v", d.Header)
	}
	if d.Len() != 0 || d.OrderID != 0 {
		t.Fatalf("expected empty new draft, got %+v", d)
	}
}

func TestDraftTotal(t *testing.T) {
	s := newTestService(newStubRepo())
	cat := testCatalog()
	d := s.StartNewDraft()
	if got := d.Total(); domain.FormatMoney(got) != "0.00" {
		t.Fatalf("expected 0.00 for empty draft, got %s", got)
	}
	if err := d.AddItem(cat, 1, 3); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := d.AddItem(cat, 2, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := d.Total(); domain.FormatMoney(got) != "53.50" {
		t.Fatalf("expected 53.50, got %s", got)
	}
}

func TestAddItem_InvalidQuantityDoesNotMutate(t *testing.T) {
	s := newTestService(newStubRepo())
	cat := testCatalog()
	d := s.StartNewDraft()
	if err := d.AddItem(cat, 1, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	for _, q := range []int{0, -3} {
		if err := d.AddItem(cat, 1, q); !domain.IsValidation(err) {
			t.Fatalf("quantity %d: expected validation error, got %v", q, err)
		}
	}
	for _, text := range []string{"", "0", "-2", "2.5", "abc", "3x"} {
		if _, err := ParseQuantity(text); !domain.IsValidation(err) {
			t.Fatalf("ParseQuantity(%q): expected validation error, got %v", text, err)
		}
	}
	if d.Len() != 1 {
		t.Fatalf("draft mutated by invalid adds: %+v", d.Items())
	}
	if n, err := ParseQuantity(" 12 "); err != nil || n != 12 {
		t.Fatalf("ParseQuantity(12) = %d, %v", n, err)
	}
}

func TestAddItem_UnknownItem(t *testing.T) {
	s := newTestService(newStubRepo())
	d := s.StartNewDraft()
	if err := d.AddItem(testCatalog(), 99, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if d.Len() != 0 {
		t.Fatalf("draft mutated")
	}
}

func TestAddItem_DuplicatesStaySeparate(t *testing.T) {
	s := newTestService(newStubRepo())
	cat := testCatalog()
	d := s.StartNewDraft()
	_ = d.AddItem(cat, 1, 1)
	_ = d.AddItem(cat, 1, 2)
	items := d.Items()
	if len(items) != 2 || items[0].Quantity != 1 || items[1].Quantity != 2 {
		t.Fatalf("expected two separate lines, got %+v", items)
	}
}

func TestRemoveItem(t *testing.T) {
	s := newTestService(newStubRepo())
	cat := testCatalog()
	d := s.StartNewDraft()
	_ = d.AddItem(cat, 1, 1)
	_ = d.AddItem(cat, 2, 1)

	var ie *domain.IndexError
	if err := d.RemoveItem(2); !errors.As(err, &ie) || ie.Len != 2 {
		t.Fatalf("expected index error, got %v", err)
	}
	if err := d.RemoveItem(-1); !errors.As(err, &ie) {
		t.Fatalf("expected index error for negative index, got %v", err)
	}
	if err := d.RemoveItem(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if items := d.Items(); len(items) != 1 || items[0].ServiceItemID != 2 {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestCommitNew_ThenLoadDraftRoundTrips(t *testing.T) {
	repo := newStubRepo()
	s := newTestService(repo)
	cat := testCatalog()
	d := s.StartNewDraft()
	_ = d.AddItem(cat, 1, 2)
	_ = d.AddItem(cat, 2, 1)
	_ = d.AddItem(cat, 1, 4)
	want := d.Items()

	h := validHeader()
	h.CompletionDate = "12/01/2024"
	created, err := s.CommitNew(context.Background(), d, cat, h)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if d.Len() != 0 || d.Header.Date != "15/03/2024" {
		t.Fatalf("expected draft reset after commit, got %+v", d)
	}

	loaded, err := s.LoadDraft(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.OrderID != created.ID || loaded.Header != h {
		t.Fatalf("header mismatch: got %+v want %+v", loaded.Header, h)
	}
	assertSameItems(t, loaded.Items(), want)
}

func TestCommitNew_EmptyDraftNeverCallsStore(t *testing.T) {
	repo := newStubRepo()
	s := newTestService(repo)
	_, err := s.CommitNew(context.Background(), s.StartNewDraft(), testCatalog(), validHeader())
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no store calls, got %d", repo.calls)
	}
}

func TestCommitNew_HeaderValidation(t *testing.T) {
	cases := map[string]func(h *Header){
		"no client":   func(h *Header) { h.ClientID = 0 },
		"no date":     func(h *Header) { h.Date = "" },
		"bad date":    func(h *Header) { h.Date = "31/02/2024" },
		"bad status":  func(h *Header) { h.Status = "Shipped" },
		"bad done at": func(h *Header) { h.CompletionDate = "tomorrow" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			repo := newStubRepo()
			s := newTestService(repo)
			d := s.StartNewDraft()
			_ = d.AddItem(testCatalog(), 1, 1)
			h := validHeader()
			mutate(&h)
			if _, err := s.CommitNew(context.Background(), d, testCatalog(), h); !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if repo.calls != 0 || d.Len() != 1 {
				t.Fatalf("expected no side effects, calls=%d items=%d", repo.calls, d.Len())
			}
		})
	}
}

func TestCommitNew_UnknownClient(t *testing.T) {
	repo := newStubRepo()
	s := newTestService(repo)
	d := s.StartNewDraft()
	_ = d.AddItem(testCatalog(), 1, 1)
	h := validHeader()
	h.ClientID = 42
	if _, err := s.CommitNew(context.Background(), d, testCatalog(), h); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no store calls")
	}
}

func TestCommitNew_EmptyDeliveryUsesDefault(t *testing.T) {
	s := newTestService(newStubRepo())
	d := s.StartNewDraft()
	_ = d.AddItem(testCatalog(), 1, 1)
	h := validHeader()
	h.Delivery = ""
	o, err := s.CommitNew(context.Background(), d, testCatalog(), h)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if o.Delivery != "Pickup" {
		t.Fatalf("expected default delivery, got %q", o.Delivery)
	}
}

func TestCommitNew_StoreFailures(t *testing.T) {
	boom := errors.New("disk I/O error")
	repo := newStubRepo()
	repo.createErr = boom
	s := newTestService(repo)
	d := s.StartNewDraft()
	_ = d.AddItem(testCatalog(), 1, 1)

	_, err := s.CommitNew(context.Background(), d, testCatalog(), validHeader())
	var pe *domain.PersistenceError
	if !errors.As(err, &pe) || pe.Indeterminate || !errors.Is(err, boom) {
		t.Fatalf("expected clean persistence error, got %v", err)
	}
	if d.Len() != 1 {
		t.Fatalf("draft must survive a failed commit")
	}

	repo.createErr = &domain.PersistenceError{Op: "create order", Indeterminate: true, Err: boom}
	_, err = s.CommitNew(context.Background(), d, testCatalog(), validHeader())
	if !errors.As(err, &pe) || !pe.Indeterminate {
		t.Fatalf("expected indeterminate persistence error, got %v", err)
	}
}

func TestCommitEdit_SupersedesLines(t *testing.T) {
	repo := newStubRepo()
	s := newTestService(repo)
	cat := testCatalog()
	ctx := context.Background()

	d := s.StartNewDraft()
	_ = d.AddItem(cat, 1, 1)
	_ = d.AddItem(cat, 2, 5)
	created, err := s.CommitNew(ctx, d, cat, validHeader())
	if err != nil {
		t.Fatalf("commit new: %v", err)
	}

	edit, err := s.LoadDraft(ctx, created.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := edit.RemoveItem(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	_ = edit.AddItem(cat, 1, 7)
	want := edit.Items()
	h := edit.Header
	h.Status = "Completed"
	if _, err := s.CommitEdit(ctx, edit, cat, created.ID, h); err != nil {
		t.Fatalf("commit edit: %v", err)
	}

	reloaded, err := s.LoadDraft(ctx, created.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Header.Status != "Completed" {
		t.Fatalf("expected status update, got %+v", reloaded.Header)
	}
	assertSameItems(t, reloaded.Items(), want)
}

func TestCommitEdit_MissingOrder(t *testing.T) {
	s := newTestService(newStubRepo())
	d := s.StartNewDraft()
	_ = d.AddItem(testCatalog(), 1, 1)
	if _, err := s.CommitEdit(context.Background(), d, testCatalog(), 77, validHeader()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPriceChangeDoesNotRepriceCommittedOrder(t *testing.T) {
	repo := newStubRepo()
	s := newTestService(repo)
	ctx := context.Background()
	cat := testCatalog()

	d := s.StartNewDraft()
	_ = d.AddItem(cat, 1, 2)
	created, err := s.CommitNew(ctx, d, cat, validHeader())
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	repriced := catalog.New(cat.Clients(), []domain.ServiceItem{{ID: 1, Name: "Lavagem", Price: decimal.RequireFromString("99.00")}})
	loaded, err := s.LoadDraft(ctx, created.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := loaded.Items()[0].UnitPrice; domain.FormatMoney(got) != "12.50" {
		t.Fatalf("expected snapshot price 12.50, got %s", got)
	}
	views, err := s.Filter(ctx, repriced, Criteria{})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(views) != 1 || domain.FormatMoney(views[0].Total) != "25.00" {
		t.Fatalf("expected total 25.00, got %+v", views)
	}
}

func TestDiscard(t *testing.T) {
	s := newTestService(newStubRepo())
	d := s.StartNewDraft()
	d.OrderID = 9
	d.Header.Notes = "x"
	_ = d.AddItem(testCatalog(), 1, 1)
	s.Discard(d)
	if d.Len() != 0 || d.OrderID != 0 || d.Header != s.StartNewDraft().Header {
		t.Fatalf("expected reset draft, got %+v", d)
	}
}

func TestDelete(t *testing.T) {
	repo := newStubRepo()
	s := newTestService(repo)
	d := s.StartNewDraft()
	_ = d.AddItem(testCatalog(), 1, 1)
	o, _ := s.CommitNew(context.Background(), d, testCatalog(), validHeader())
	if err := s.Delete(context.Background(), o.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(context.Background(), o.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func assertSameItems(t *testing.T, got, want []DraftItem) {
	t.Helper()
	key := func(it DraftItem) string {
		return fmt.Sprintf("%d/%d/%s", it.ServiceItemID, it.Quantity, it.UnitPrice.StringFixed(2))
	}
	count := map[string]int{}
	for _, it := range want {
		count[key(it)]++
	}
	for _, it := range got {
		count[key(it)]--
	}
	for k, n := range count {
		if n != 0 {
			t.Fatalf("item multiset mismatch at %s: got %+v want %+v", k, got, want)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
}
