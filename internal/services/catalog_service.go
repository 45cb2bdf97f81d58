package services

import (
	"database/sql"
	"errors"
	"strings"

	"marketbay/internal/domain"
	"marketbay/internal/repos"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

// ProductInput carries a create request; every field except Brand and
// Stock is required.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Brand       string          `json:"brand"`
}

// ProductPatch carries a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"imageUrl"`
	Category    *string          `json:"category"`
	Stock       *int             `json:"stock"`
	Brand       *string          `json:"brand"`
}

func (in *ProductInput) validate() error {
	var missing []string
	req := func(field, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, field)
		}
	}
	req("name", in.Name)
	req("description", in.Description)
	req("imageUrl", in.ImageURL)
	req("category", in.Category)
	if in.Price.IsNegative() {
		missing = append(missing, "price")
	}
	if in.Stock < 0 {
		missing = append(missing, "stock")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

func (s *CatalogService) List(category string) ([]domain.Product, error) {
	return s.Prods.List(strings.TrimSpace(category))
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, &NotFoundError{Resource: "product", ID: id}
	}
	return p, err
}

func (s *CatalogService) Create(in ProductInput) (domain.Product, error) {
	if err := in.validate(); err != nil {
		return domain.Product{}, err
	}
	name := strings.TrimSpace(in.Name)
	exists, err := s.Prods.NameExists(name, "")
	if err != nil {
		return domain.Product{}, err
	}
	if exists {
		return domain.Product{}, &ConflictError{Resource: "product", Field: "name", Value: name}
	}

	p := domain.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		Category:    strings.TrimSpace(in.Category),
		Stock:       in.Stock,
		Brand:       strings.TrimSpace(in.Brand),
	}
	if err := s.Prods.Insert(&p); err != nil {
		return domain.Product{}, err
	}
	return s.Get(p.ID)
}

func (s *CatalogService) Update(id string, patch ProductPatch) (domain.Product, error) {
	p, err := s.Get(id)
	if err != nil {
		return domain.Product{}, err
	}

	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Category != nil {
		p.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Brand != nil {
		p.Brand = strings.TrimSpace(*patch.Brand)
	}

	in := ProductInput{
		Name: p.Name, Description: p.Description, Price: p.Price,
		ImageURL: p.ImageURL, Category: p.Category, Stock: p.Stock,
	}
	if err := in.validate(); err != nil {
		return domain.Product{}, err
	}
	exists, err := s.Prods.NameExists(p.Name, id)
	if err != nil {
		return domain.Product{}, err
	}
	if exists {
		return domain.Product{}, &ConflictError{Resource: "product", Field: "name", Value: p.Name}
	}

	if err := s.Prods.Update(&p); err != nil {
		return domain.Product{}, err
	}
	return s.Get(id)
}

func (s *CatalogService) Delete(id string) error {
	n, err := s.Prods.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return &NotFoundError{Resource: "product", ID: id}
	}
	return nil
}
