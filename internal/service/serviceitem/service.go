package serviceitem

import (
	"context"

	"servicofacil/internal/domain"
	itemrepo "servicofacil/internal/repository/serviceitem"
)

type Service struct {
	repo itemrepo.Repository
}

func New(repo itemrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Input carries the item form fields. Price accepts "," or "." as the
// decimal separator.
type Input struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Notes string `json:"notes"`
}

func (in Input) parse() (domain.ServiceItem, error) {
	price, err := domain.ParseMoney("price", in.Price)
	if err != nil {
		return domain.ServiceItem{}, err
	}
	s := domain.ServiceItem{Name: in.Name, Price: price, Notes: in.Notes}
	s.Normalize()
	return s, s.Validate()
}

func (s *Service) List(ctx context.Context) ([]domain.ServiceItem, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.ServiceItem, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Register(ctx context.Context, in Input) (*domain.ServiceItem, error) {
	item, err := in.parse()
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, item)
}

// Edit changes a catalog entry. Lines already on orders keep their price.
func (s *Service) Edit(ctx context.Context, id int64, in Input) (*domain.ServiceItem, error) {
	if id <= 0 {
		return nil, domain.Invalid("id", "select an item to edit")
	}
	item, err := in.parse()
	if err != nil {
		return nil, err
	}
	item.ID = id
	return s.repo.Update(ctx, item)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
