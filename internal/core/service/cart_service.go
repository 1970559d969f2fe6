package service

import (
	"context"
	"mdstore/internal/core/model"
	"mdstore/internal/core/repository"

	"go.uber.org/zap"
)

// CartService edits the storefront cart and wishlist. Both live in the
// session, so a shopper keeps them across sign-in and sign-out.
type CartService interface {
	Cart(ctx context.Context) ([]model.LineItem, error)
	AddToCart(ctx context.Context, productID, quantity int) ([]model.LineItem, error)
	SetQuantity(ctx context.Context, productID, quantity int) ([]model.LineItem, error)
	RemoveFromCart(ctx context.Context, productID int) ([]model.LineItem, error)
	ClearCart(ctx context.Context) error
	Subtotal(ctx context.Context) (float64, error)

	Wishlist(ctx context.Context) ([]model.Product, error)
	ToggleWishlist(ctx context.Context, productID int) (bool, error)
}

type cartService struct {
	entities repository.EntityRepository
	sessions repository.SessionRepository
	logger   *zap.Logger
}

func NewCartService(entities repository.EntityRepository, sessions repository.SessionRepository, logger *zap.Logger) CartService {
	return &cartService{
		entities: entities,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *cartService) Cart(ctx context.Context) ([]model.LineItem, error) {
	return s.sessions.Cart(ctx)
}

// AddToCart merges with an existing line for the same product. Unknown
// products return nil, nil.
func (s *cartService) AddToCart(ctx context.Context, productID, quantity int) ([]model.LineItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.product(ctx, productID)
	if err != nil || product == nil {
		return nil, err
	}

	cart, err := s.sessions.Cart(ctx)
	if err != nil {
		return nil, err
	}
	if i := lineIndex(cart, productID); i >= 0 {
		cart[i].Quantity += quantity
	} else {
		cart = append(cart, model.NewLineItem(*product, quantity))
	}
	return cart, s.sessions.SaveCart(ctx, cart)
}

// SetQuantity replaces the quantity of a line; a product not in the cart
// returns nil, nil.
func (s *cartService) SetQuantity(ctx context.Context, productID, quantity int) ([]model.LineItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	cart, err := s.sessions.Cart(ctx)
	if err != nil {
		return nil, err
	}
	i := lineIndex(cart, productID)
	if i < 0 {
		return nil, nil
	}
	cart[i].Quantity = quantity
	return cart, s.sessions.SaveCart(ctx, cart)
}

func (s *cartService) RemoveFromCart(ctx context.Context, productID int) ([]model.LineItem, error) {
	cart, err := s.sessions.Cart(ctx)
	if err != nil {
		return nil, err
	}
	i := lineIndex(cart, productID)
	if i < 0 {
		return nil, nil
	}
	cart = append(cart[:i], cart[i+1:]...)
	return cart, s.sessions.SaveCart(ctx, cart)
}

func (s *cartService) ClearCart(ctx context.Context) error {
	return s.sessions.SaveCart(ctx, []model.LineItem{})
}

func (s *cartService) Subtotal(ctx context.Context) (float64, error) {
	cart, err := s.sessions.Cart(ctx)
	if err != nil {
		return 0, err
	}
	return model.SumItems(cart), nil
}

func (s *cartService) Wishlist(ctx context.Context) ([]model.Product, error) {
	return s.sessions.Wishlist(ctx)
}

// ToggleWishlist adds the product when absent and removes it otherwise. It
// reports whether the product is on the wishlist afterwards.
func (s *cartService) ToggleWishlist(ctx context.Context, productID int) (bool, error) {
	wishlist, err := s.sessions.Wishlist(ctx)
	if err != nil {
		return false, err
	}
	if i := model.FindProduct(wishlist, productID); i >= 0 {
		wishlist = append(wishlist[:i], wishlist[i+1:]...)
		return false, s.sessions.SaveWishlist(ctx, wishlist)
	}

	product, err := s.product(ctx, productID)
	if err != nil || product == nil {
		return false, err
	}
	wishlist = append(wishlist, *product)
	return true, s.sessions.SaveWishlist(ctx, wishlist)
}

func (s *cartService) product(ctx context.Context, id int) (*model.Product, error) {
	products, err := s.entities.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}
	idx := model.FindProduct(products, id)
	if idx < 0 {
		return nil, nil
	}
	return &products[idx], nil
}

func lineIndex(items []model.LineItem, productID int) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
