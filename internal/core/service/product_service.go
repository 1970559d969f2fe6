package service

import (
	"context"
	"mdstore/internal/core/aggregate"
	"mdstore/internal/core/model"
	"mdstore/internal/core/repository"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const minSearchLength = 2

type ProductRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

type ProductService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int) (*model.Product, error)
	Search(ctx context.Context, query string) ([]model.Product, error)
	Ratings(ctx context.Context) (map[int]aggregate.RatingDetails, error)
	ProductRating(ctx context.Context, id int) (aggregate.RatingDetails, error)
	AddProduct(ctx context.Context, req ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id int, req ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id int) (bool, error)
}

type productService struct {
	entities repository.EntityRepository
	logger   *zap.Logger

	mu        sync.Mutex
	highWater int // largest id handed out by this process
}

func NewProductService(entities repository.EntityRepository, logger *zap.Logger) ProductService {
	return &productService{
		entities: entities,
		logger:   logger,
	}
}

func (s *productService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.entities.LoadProducts(ctx)
}

func (s *productService) GetProduct(ctx context.Context, id int) (*model.Product, error) {
	products, err := s.entities.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}
	idx := model.FindProduct(products, id)
	if idx < 0 {
		return nil, nil
	}
	p := products[idx]
	return &p, nil
}

// Search matches query as a case-insensitive substring of the product name.
// Queries shorter than two characters match nothing.
func (s *productService) Search(ctx context.Context, query string) ([]model.Product, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < minSearchLength {
		return []model.Product{}, nil
	}

	products, err := s.entities.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}
	matches := []model.Product{}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (s *productService) Ratings(ctx context.Context) (map[int]aggregate.RatingDetails, error) {
	snapshot, err := s.entities.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.CatalogRatings(snapshot.Users, snapshot.Products), nil
}

func (s *productService) ProductRating(ctx context.Context, id int) (aggregate.RatingDetails, error) {
	users, err := s.entities.LoadUsers(ctx)
	if err != nil {
		return aggregate.RatingDetails{}, err
	}
	return aggregate.ProductRating(users, id), nil
}

// AddProduct assigns max(id)+1. Ids are never reused within the process,
// even when the highest product was deleted in between.
func (s *productService) AddProduct(ctx context.Context, req ProductRequest) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.entities.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}
	id := model.NextProductID(products)
	if id <= s.highWater {
		id = s.highWater + 1
	}

	p := model.Product{
		ID:          id,
		Name:        req.Name,
		Price:       req.Price,
		Category:    req.Category,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := s.entities.SaveProducts(ctx, append(products, p)); err != nil {
		return nil, err
	}
	s.highWater = id

	s.logger.Info("Product added", zap.Int("id", id), zap.String("name", p.Name))
	return &p, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id int, req ProductRequest) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.entities.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}
	idx := model.FindProduct(products, id)
	if idx < 0 {
		return nil, nil
	}

	p := &products[idx]
	p.Name = req.Name
	p.Price = req.Price
	p.Category = req.Category
	p.Description = req.Description
	p.Image = req.Image
	if err := s.entities.SaveProducts(ctx, products); err != nil {
		return nil, err
	}
	updated := *p
	return &updated, nil
}

// DeleteProduct reports whether a product was removed. Existing order items
// keep their copy of the product.
func (s *productService) DeleteProduct(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.entities.LoadProducts(ctx)
	if err != nil {
		return false, err
	}
	idx := model.FindProduct(products, id)
	if idx < 0 {
		return false, nil
	}
	if id > s.highWater {
		s.highWater = id
	}

	products = append(products[:idx], products[idx+1:]...)
	if err := s.entities.SaveProducts(ctx, products); err != nil {
		return false, err
	}
	s.logger.Info("Product deleted", zap.Int("id", id))
	return true, nil
}

func validateProduct(req ProductRequest) error {
	if blank(req.Name, req.Category) {
		return ErrMissingFields
	}
	if req.Price < 0 {
		return ErrInvalidProduct
	}
	return nil
}
