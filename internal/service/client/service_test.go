package client

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"servicofacil/internal/domain"
)

type stubClientRepo struct {
	items   []domain.Client
	creates int
}

func (r *stubClientRepo) List(context.Context) ([]domain.Client, error) { return r.items, nil }

func (r *stubClientRepo) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	for _, c := range r.items {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
}

func (r *stubClientRepo) FindByName(context.Context, string) (*domain.Client, error) {
	return nil, domain.ErrNotFound
}

func (r *stubClientRepo) Create(_ context.Context, c domain.Client) (*domain.Client, error) {
	r.creates++
	c.ID = int64(len(r.items) + 1)
	r.items = append(r.items, c)
	return &c, nil
}

func (r *stubClientRepo) Update(_ context.Context, c domain.Client) (*domain.Client, error) {
	for i := range r.items {
		if r.items[i].ID == c.ID {
			r.items[i] = c
			return &c, nil
		}
	}
	return nil, fmt.Errorf("client %d: %w", c.ID, domain.ErrNotFound)
}

func (r *stubClientRepo) Delete(_ context.Context, id int64) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
}

func TestRegister(t *testing.T) {
	repo := &stubClientRepo{}
	svc := New(repo)

	c, err := svc.Register(context.Background(), domain.Client{Name: "  Ana  ", Email: " ana@example.com "})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if c.Name != "Ana" || c.Email != "ana@example.com" {
		t.Fatalf("expected trimmed fields, got %+v", c)
	}
	if _, err := svc.Register(context.Background(), domain.Client{Phone: "123"}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("invalid client reached the store")
	}
}

func TestEdit(t *testing.T) {
	repo := &stubClientRepo{items: []domain.Client{{ID: 1, Name: "Ana"}}}
	svc := New(repo)

	if _, err := svc.Edit(context.Background(), domain.Client{Name: "No id"}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for missing id, got %v", err)
	}
	if _, err := svc.Edit(context.Background(), domain.Client{ID: 1, Name: "Ana Maria"}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if _, err := svc.Edit(context.Background(), domain.Client{ID: 2, Name: "Ghost"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
