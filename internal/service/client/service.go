package client

import (
	"context"

	"servicofacil/internal/domain"
	clientrepo "servicofacil/internal/repository/client"
)

type Service struct {
	repo clientrepo.Repository
}

func New(repo clientrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Client, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Client, error) {
	return s.repo.GetByID(ctx, id)
}

// Register stores a new client. Only the name is required.
func (s *Service) Register(ctx context.Context, c domain.Client) (*domain.Client, error) {
	c.ID = 0
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Edit(ctx context.Context, c domain.Client) (*domain.Client, error) {
	if c.ID <= 0 {
		return nil, domain.Invalid("id", "select a client to edit")
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, c)
}

// Delete removes the client only. Orders that reference it are kept.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
