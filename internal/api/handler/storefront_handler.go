package handler

import (
	"mdstore/internal/api/util"
	"mdstore/internal/core/model"
	"mdstore/internal/core/service"
	"net/http"

	"go.uber.org/zap"
)

// StorefrontHandler serves the customer-facing pages.
type StorefrontHandler struct {
	customers     service.CustomerService
	orders        service.OrderService
	products      service.ProductService
	carts         service.CartService
	notifications service.NotificationService
	logger        *zap.Logger
}

func NewStorefrontHandler(
	customers service.CustomerService,
	orders service.OrderService,
	products service.ProductService,
	carts service.CartService,
	notifications service.NotificationService,
	logger *zap.Logger,
) *StorefrontHandler {
	return &StorefrontHandler{
		customers:     customers,
		orders:        orders,
		products:      products,
		carts:         carts,
		notifications: notifications,
		logger:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type cartRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type orderActionRequest struct {
	OrderID string `json:"orderId"`
	Rating  int    `json:"rating"`
	Review  string `json:"review"`
}

func (h *StorefrontHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if !util.DecodeJSON(w, r, &req) {
		return
	}
	user, err := h.customers.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, withoutPassword(user))
}

func (h *StorefrontHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !util.DecodeJSON(w, r, &req) {
		return
	}
	user, err := h.customers.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, withoutPassword(user))
}

func (h *StorefrontHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.customers.Logout(r.Context()); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StorefrontHandler) Account(w http.ResponseWriter, r *http.Request) {
	user, err := h.customers.CurrentCustomer(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if user == nil {
		writeServiceError(w, h.logger, service.ErrNotLoggedIn)
		return
	}
	util.WriteJSON(w, http.StatusOK, withoutPassword(user))
}

func (h *StorefrontHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	current, err := h.customers.CurrentCustomer(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if current == nil {
		writeServiceError(w, h.logger, service.ErrNotLoggedIn)
		return
	}

	var req service.SettingsRequest
	if !util.DecodeJSON(w, r, &req) {
		return
	}
	user, err := h.customers.UpdateSettings(r.Context(), current.Email, req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if user == nil {
		notFound(w, "Customer")
		return
	}
	util.WriteJSON(w, http.StatusOK, withoutPassword(user))
}

func (h *StorefrontHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, products)
}

func (h *StorefrontHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := queryInt(w, r, "id")
	if !ok {
		return
	}
	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if product == nil {
		notFound(w, "Product")
		return
	}
	rating, err := h.products.ProductRating(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"product": product,
		"rating":  rating,
	})
}

func (h *StorefrontHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, products)
}

func (h *StorefrontHandler) ProductRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.products.Ratings(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, ratings)
}

func (h *StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.Cart(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	subtotal, err := h.carts.Subtotal(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":    cart,
		"subtotal": subtotal,
	})
}

func (h *StorefrontHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if !util.DecodeJSON(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	cart, err := h.carts.AddToCart(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if cart == nil {
		notFound(w, "Product")
		return
	}
	util.WriteJSON(w, http.StatusOK, cart)
}

func (h *StorefrontHandler) SetCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if !util.DecodeJSON(w, r, &req) {
		return
	}
	cart, err := h.carts.SetQuantity(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if cart == nil {
		notFound(w, "Cart item")
		return
	}
	util.WriteJSON(w, http.StatusOK, cart)
}

// RemoveFromCart drops one line when productId is given and empties the
// cart otherwise.
func (h *StorefrontHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("productId") == "" {
		if err := h.carts.ClearCart(r.Context()); err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	id, ok := queryInt(w, r, "productId")
	if !ok {
		return
	}
	cart, err := h.carts.RemoveFromCart(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if cart == nil {
		notFound(w, "Cart item")
		return
	}
	util.WriteJSON(w, http.StatusOK, cart)
}

func (h *StorefrontHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	wishlist, err := h.carts.Wishlist(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, wishlist)
}

func (h *StorefrontHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if !util.DecodeJSON(w, r, &req) {
		return
	}
	on, err := h.carts.ToggleWishlist(r.Context(), req.ProductID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]bool{"inWishlist": on})
}

func (h *StorefrontHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutRequest
	if !util.DecodeJSON(w, r, &req) {
		return
	}
	checkout, err := h.orders.Checkout(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, checkout)
}

func (h *StorefrontHandler) CurrentOrder(w http.ResponseWriter, r *http.Request) {
	checkout, err := h.orders.CurrentOrder(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if checkout == nil {
		notFound(w, "Checkout")
		return
	}
	util.WriteJSON(w, http.StatusOK, checkout)
}

func (h *StorefrontHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.MyOrders(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, orders)
}

func (h *StorefrontHandler) ConfirmReceipt(w http.ResponseWriter, r *http.Request) {
	h.orderAction(w, r, func(req orderActionRequest) (*model.Order, error) {
		return h.orders.ConfirmReceipt(r.Context(), req.OrderID)
	})
}

func (h *StorefrontHandler) RequestRefund(w http.ResponseWriter, r *http.Request) {
	h.orderAction(w, r, func(req orderActionRequest) (*model.Order, error) {
		return h.orders.RequestRefund(r.Context(), req.OrderID)
	})
}

func (h *StorefrontHandler) RateOrder(w http.ResponseWriter, r *http.Request) {
	h.orderAction(w, r, func(req orderActionRequest) (*model.Order, error) {
		return h.orders.RateOrder(r.Context(), req.OrderID, req.Rating, req.Review)
	})
}

func (h *StorefrontHandler) orderAction(w http.ResponseWriter, r *http.Request, fn func(orderActionRequest) (*model.Order, error)) {
	var req orderActionRequest
	if !util.DecodeJSON(w, r, &req) {
		return
	}
	order, err := fn(req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if order == nil {
		notFound(w, "Order")
		return
	}
	util.WriteJSON(w, http.StatusOK, order)
}

// Notifications returns the feed of the signed-in customer, or the
// broadcasts for a signed-out visitor.
func (h *StorefrontHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	email, err := h.viewerEmail(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	feed, err := h.notifications.Feed(r.Context(), email)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, feed)
}

func (h *StorefrontHandler) MarkNotificationsSeen(w http.ResponseWriter, r *http.Request) {
	email, err := h.viewerEmail(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	marked, err := h.notifications.MarkAllSeen(r.Context(), email)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]int{"marked": marked})
}

func (h *StorefrontHandler) viewerEmail(r *http.Request) (string, error) {
	user, err := h.customers.CurrentCustomer(r.Context())
	if err != nil || user == nil {
		return "", err
	}
	return user.Email, nil
}

// withoutPassword blanks the stored password before a user leaves the API.
func withoutPassword(user *model.User) *model.User {
	out := *user
	out.Password = ""
	return &out
}
