package service

import (
	"context"
	"mdstore/internal/config"
	"mdstore/internal/core/aggregate"
	"mdstore/internal/core/model"
	"mdstore/internal/core/repository"
	"mdstore/internal/core/util"
	"time"

	"go.uber.org/zap"
)

const orderDateLayout = "2006-01-02T15:04:05.000Z07:00"

// GuestDetails is the contact form a signed-out shopper fills in at checkout.
type GuestDetails struct {
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
}

// CheckoutRequest pays for Items, or for the whole cart when FromCart is set.
type CheckoutRequest struct {
	Items    []model.LineItem `json:"items"`
	FromCart bool             `json:"fromCart"`
	Guest    *GuestDetails    `json:"guest,omitempty"`
}

type Invoice struct {
	OrderID       string  `json:"orderId"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	Total         float64 `json:"total"`
	PlacedAt      int64   `json:"placedAt"`
}

type OrderService interface {
	// Storefront, acting on the signed-in customer.
	Checkout(ctx context.Context, req CheckoutRequest) (*model.PendingCheckout, error)
	CurrentOrder(ctx context.Context) (*model.PendingCheckout, error)
	MyOrders(ctx context.Context) ([]model.Order, error)
	ConfirmReceipt(ctx context.Context, orderID string) (*model.Order, error)
	RequestRefund(ctx context.Context, orderID string) (*model.Order, error)
	RateOrder(ctx context.Context, orderID string, rating int, review string) (*model.Order, error)

	// Admin panel.
	ListOrders(ctx context.Context) ([]aggregate.FlatOrder, error)
	Invoices(ctx context.Context) ([]Invoice, error)
	GetOrder(ctx context.Context, ownerEmail, orderID string) (*aggregate.FlatOrder, error)
	UpdateOrderStatus(ctx context.Context, ownerEmail, orderID string, status model.OrderStatus) (*model.Order, error)
	UpdateRefundStatus(ctx context.Context, ownerEmail, orderID string, status model.RefundStatus) (*model.Order, error)
}

type orderService struct {
	entities      repository.EntityRepository
	sessions      repository.SessionRepository
	notifications repository.NotificationRepository
	opts          Options
	logger        *zap.Logger
}

func NewOrderService(
	entities repository.EntityRepository,
	sessions repository.SessionRepository,
	notifications repository.NotificationRepository,
	opts Options,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		entities:      entities,
		sessions:      sessions,
		notifications: notifications,
		opts:          opts.withDefaults(),
		logger:        logger,
	}
}

func (s *orderService) Checkout(ctx context.Context, req CheckoutRequest) (*model.PendingCheckout, error) {
	var items []model.LineItem
	if req.FromCart {
		cart, err := s.sessions.Cart(ctx)
		if err != nil {
			return nil, err
		}
		items = cart
	} else {
		priced, err := s.catalogItems(ctx, req.Items)
		if err != nil {
			return nil, err
		}
		items = priced
	}
	if len(items) == 0 {
		return nil, ErrEmptyCheckout
	}
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	current, err := s.signedIn(ctx)
	if err != nil {
		return nil, err
	}

	now := s.opts.Now()
	checkout := &model.PendingCheckout{
		Items:   append([]model.LineItem(nil), items...),
		Total:   model.SumItems(items),
		OrderID: util.GenerateOrderID(now),
	}

	if current != nil {
		checkout.Customer = model.Customer{
			Name:    current.FullName,
			Email:   current.Email,
			Address: current.Address,
		}
		if err := s.placeOrder(ctx, current.Email, checkout, now); err != nil {
			return nil, err
		}
	} else {
		g := req.Guest
		if g == nil || blank(g.Email, g.FirstName, g.LastName, g.Address, g.City, g.PostalCode, g.Phone) {
			return nil, ErrGuestDetails
		}
		checkout.Customer = model.Customer{
			Name:    g.FirstName + " " + g.LastName,
			Email:   g.Email,
			Address: g.Address + ", " + g.City + ", " + g.PostalCode,
		}
	}

	if req.FromCart {
		if err := s.sessions.SaveCart(ctx, []model.LineItem{}); err != nil {
			return nil, err
		}
	}
	if err := s.sessions.SavePendingCheckout(ctx, checkout); err != nil {
		return nil, err
	}

	s.logger.Info("Checkout completed",
		zap.String("orderId", checkout.OrderID),
		zap.String("email", checkout.Customer.Email),
		zap.Bool("guest", current == nil),
	)
	return checkout, nil
}

// catalogItems rebuilds requested lines from the product catalog so that
// only the product id and quantity are taken from the caller.
func (s *orderService) catalogItems(ctx context.Context, requested []model.LineItem) ([]model.LineItem, error) {
	if len(requested) == 0 {
		return nil, nil
	}
	products, err := s.entities.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]model.LineItem, 0, len(requested))
	for _, line := range requested {
		idx := model.FindProduct(products, line.ProductID)
		if idx < 0 {
			return nil, ErrUnknownProduct
		}
		items = append(items, model.NewLineItem(products[idx], line.Quantity))
	}
	return items, nil
}

// placeOrder records the order on the signed-in user. A user that vanished
// from the collection keeps the checkout but gets no order history entry.
func (s *orderService) placeOrder(ctx context.Context, email string, checkout *model.PendingCheckout, now time.Time) error {
	users, err := s.entities.LoadUsers(ctx)
	if err != nil {
		return err
	}
	idx := model.FindUser(users, email)
	if idx < 0 {
		s.logger.Warn("Signed-in customer not found, order not recorded", zap.String("email", email))
		return nil
	}

	createdAt := now.UnixMilli()
	user := &users[idx]
	user.Orders = append(user.Orders, model.Order{
		ID:        checkout.OrderID,
		Date:      now.UTC().Format(orderDateLayout),
		CreatedAt: &createdAt,
		Total:     checkout.Total,
		Status:    model.StatusToShip,
		Items:     append([]model.LineItem(nil), checkout.Items...),
	})

	if err := s.entities.SaveUsers(ctx, users); err != nil {
		return err
	}
	return s.sessions.SetCurrentUser(ctx, user)
}

func (s *orderService) CurrentOrder(ctx context.Context) (*model.PendingCheckout, error) {
	return s.sessions.PendingCheckout(ctx)
}

func (s *orderService) MyOrders(ctx context.Context) ([]model.Order, error) {
	current, err := s.signedIn(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotLoggedIn
	}
	users, err := s.entities.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	idx := model.FindUser(users, current.Email)
	if idx < 0 {
		return []model.Order{}, nil
	}
	if users[idx].Orders == nil {
		return []model.Order{}, nil
	}
	return users[idx].Orders, nil
}

func (s *orderService) ConfirmReceipt(ctx context.Context, orderID string) (*model.Order, error) {
	return s.updateOwnOrder(ctx, orderID, func(_ *model.User, order *model.Order) error {
		order.Status = model.StatusCompleted
		return nil
	})
}

func (s *orderService) RequestRefund(ctx context.Context, orderID string) (*model.Order, error) {
	var owner model.User
	order, err := s.updateOwnOrder(ctx, orderID, func(user *model.User, order *model.Order) error {
		if order.Status != model.StatusCompleted || order.RefundStatus != model.RefundNone {
			return ErrRefundNotAllowed
		}
		order.RefundStatus = model.RefundRequested
		owner = *user
		return nil
	})
	if err != nil || order == nil {
		return order, err
	}

	if err := s.notifications.Append(ctx, s.opts.builder().RefundRequested(&owner, orderID)); err != nil {
		s.logger.Warn("Failed to log refund request", zap.String("orderId", orderID), zap.Error(err))
	}
	return order, nil
}

func (s *orderService) RateOrder(ctx context.Context, orderID string, rating int, review string) (*model.Order, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrRatingRequired
	}
	return s.updateOwnOrder(ctx, orderID, func(_ *model.User, order *model.Order) error {
		order.Rated = true
		order.Rating = rating
		order.Review = review
		return nil
	})
}

// updateOwnOrder applies fn to one order of the signed-in customer and
// writes the users collection and the current-user key back. Unknown orders
// return nil, nil without writing.
func (s *orderService) updateOwnOrder(ctx context.Context, orderID string, fn func(*model.User, *model.Order) error) (*model.Order, error) {
	current, err := s.signedIn(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotLoggedIn
	}

	users, err := s.entities.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	idx := model.FindUser(users, current.Email)
	if idx < 0 {
		return nil, nil
	}
	user := &users[idx]
	oi := user.OrderIndex(orderID)
	if oi < 0 {
		return nil, nil
	}

	order := &user.Orders[oi]
	if err := fn(user, order); err != nil {
		return nil, err
	}
	if err := s.entities.SaveUsers(ctx, users); err != nil {
		return nil, err
	}
	if err := s.sessions.SetCurrentUser(ctx, user); err != nil {
		return nil, err
	}
	updated := order.Clone()
	return &updated, nil
}

// signedIn returns the storefront user when the login flag is set.
func (s *orderService) signedIn(ctx context.Context) (*model.User, error) {
	loggedIn, err := s.sessions.LoggedIn(ctx)
	if err != nil || !loggedIn {
		return nil, err
	}
	return s.sessions.CurrentUser(ctx)
}

func (s *orderService) ListOrders(ctx context.Context) ([]aggregate.FlatOrder, error) {
	users, err := s.entities.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	orders := aggregate.SortedOrders(users)
	if orders == nil {
		orders = []aggregate.FlatOrder{}
	}
	return orders, nil
}

func (s *orderService) Invoices(ctx context.Context) ([]Invoice, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	invoices := make([]Invoice, 0, len(orders))
	for _, o := range orders {
		invoices = append(invoices, Invoice{
			OrderID:       o.ID,
			CustomerName:  o.CustomerName,
			CustomerEmail: o.CustomerEmail,
			Total:         o.Total,
			PlacedAt:      o.EffectiveTime(),
		})
	}
	return invoices, nil
}

func (s *orderService) GetOrder(ctx context.Context, ownerEmail, orderID string) (*aggregate.FlatOrder, error) {
	users, err := s.entities.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	order, ok := aggregate.FindOrder(aggregate.FlattenOrders(users), ownerEmail, orderID)
	if !ok {
		return nil, nil
	}
	return &order, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, ownerEmail, orderID string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, _, err := s.updateUserOrder(ctx, ownerEmail, orderID, func(order *model.Order) (bool, error) {
		order.Status = status
		return true, nil
	})
	if err != nil || order == nil {
		return order, err
	}

	n := s.opts.builder().OrderStatusChanged(ownerEmail, orderID, status)
	if err := s.notifications.Append(ctx, n); err != nil {
		s.logger.Warn("Failed to notify customer", zap.String("orderId", orderID), zap.Error(err))
	}
	s.logger.Info("Order status updated",
		zap.String("orderId", orderID),
		zap.String("email", ownerEmail),
		zap.String("status", string(status)),
	)
	return order, nil
}

func (s *orderService) UpdateRefundStatus(ctx context.Context, ownerEmail, orderID string, status model.RefundStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidRefund
	}
	lenient := s.opts.RefundPolicy == config.RefundPolicyLenient

	order, changed, err := s.updateUserOrder(ctx, ownerEmail, orderID, func(order *model.Order) (bool, error) {
		if order.RefundStatus == status {
			return false, nil
		}
		if !lenient && status.Rank() < order.RefundStatus.Rank() {
			return false, ErrRefundRegression
		}
		order.RefundStatus = status
		return true, nil
	})
	if err != nil || order == nil || !changed {
		return order, err
	}

	if n, ok := s.opts.builder().RefundStatusChanged(ownerEmail, order, status); ok {
		if err := s.notifications.Append(ctx, n); err != nil {
			s.logger.Warn("Failed to notify customer", zap.String("orderId", orderID), zap.Error(err))
		}
	}
	s.logger.Info("Refund status updated",
		zap.String("orderId", orderID),
		zap.String("email", ownerEmail),
		zap.String("refundStatus", string(status)),
	)
	return order, nil
}

// updateUserOrder applies fn to the order of ownerEmail and persists it when
// fn reports a change. Unknown users or orders return nil, nil. An unchanged
// order is returned without a write.
func (s *orderService) updateUserOrder(ctx context.Context, ownerEmail, orderID string, fn func(*model.Order) (bool, error)) (*model.Order, bool, error) {
	users, err := s.entities.LoadUsers(ctx)
	if err != nil {
		return nil, false, err
	}
	idx := model.FindUser(users, ownerEmail)
	if idx < 0 {
		return nil, false, nil
	}
	user := &users[idx]
	oi := user.OrderIndex(orderID)
	if oi < 0 {
		return nil, false, nil
	}

	order := &user.Orders[oi]
	changed, err := fn(order)
	if err != nil {
		return nil, false, err
	}
	updated := order.Clone()
	if !changed {
		return &updated, false, nil
	}

	if err := s.entities.SaveUsers(ctx, users); err != nil {
		return nil, false, err
	}
	if err := syncCurrentUser(ctx, s.sessions, user); err != nil {
		return nil, false, err
	}
	return &updated, true, nil
}
