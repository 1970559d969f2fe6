package router

import (
	"mdstore/internal/api/handler"
	"mdstore/internal/api/middleware"
	"mdstore/internal/api/util"
	"mdstore/internal/core/service"
	"net/http"

	"go.uber.org/zap"
)

// Services bundles what the HTTP surface is built from.
type Services struct {
	Customers     service.CustomerService
	Orders        service.OrderService
	Products      service.ProductService
	Carts         service.CartService
	Admins        service.AdminService
	Notifications service.NotificationService
}

// methods dispatches on the request method. OPTIONS is answered by the CORS
// middleware before it gets here.
type methods map[string]http.HandlerFunc

func (m methods) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := m[r.Method]; ok {
		h(w, r)
		return
	}
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

func NewRouter(services Services, tokens *util.TokenIssuer, logger *zap.Logger) http.Handler {
	// Initialize handlers
	storefront := handler.NewStorefrontHandler(
		services.Customers,
		services.Orders,
		services.Products,
		services.Carts,
		services.Notifications,
		logger,
	)
	auth := handler.NewAuthHandler(services.Admins, tokens, logger)
	admin := handler.NewAdminHandler(
		services.Admins,
		services.Orders,
		services.Products,
		services.Notifications,
		logger,
	)
	authMiddleware := middleware.NewAuthMiddleware(tokens, services.Admins, logger)
	logging := middleware.LoggingMiddleware(logger)

	mux := http.NewServeMux()

	public := func(h http.Handler) http.Handler {
		return middleware.CORSMiddleware(logging(h))
	}
	protected := func(h http.Handler) http.Handler {
		return middleware.CORSMiddleware(logging(authMiddleware.Authenticate(h)))
	}

	// Health check endpoint
	mux.Handle("/health", public(methods{
		http.MethodGet: func(w http.ResponseWriter, r *http.Request) {
			util.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		},
	}))

	// Storefront routes
	mux.Handle("/api/register", public(methods{http.MethodPost: storefront.Register}))
	mux.Handle("/api/login", public(methods{http.MethodPost: storefront.Login}))
	mux.Handle("/api/logout", public(methods{http.MethodPost: storefront.Logout}))
	mux.Handle("/api/account", public(methods{
		http.MethodGet: storefront.Account,
		http.MethodPut: storefront.UpdateSettings,
	}))

	mux.Handle("/api/products", public(methods{http.MethodGet: storefront.ListProducts}))
	mux.Handle("/api/products/get", public(methods{http.MethodGet: storefront.GetProduct}))
	mux.Handle("/api/products/search", public(methods{http.MethodGet: storefront.SearchProducts}))
	mux.Handle("/api/products/ratings", public(methods{http.MethodGet: storefront.ProductRatings}))

	mux.Handle("/api/cart", public(methods{
		http.MethodGet:    storefront.GetCart,
		http.MethodPost:   storefront.AddToCart,
		http.MethodPut:    storefront.SetCartQuantity,
		http.MethodDelete: storefront.RemoveFromCart,
	}))
	mux.Handle("/api/wishlist", public(methods{
		http.MethodGet:  storefront.GetWishlist,
		http.MethodPost: storefront.ToggleWishlist,
	}))

	mux.Handle("/api/checkout", public(methods{http.MethodPost: storefront.Checkout}))
	mux.Handle("/api/checkout/current", public(methods{http.MethodGet: storefront.CurrentOrder}))

	mux.Handle("/api/orders", public(methods{http.MethodGet: storefront.MyOrders}))
	mux.Handle("/api/orders/confirm", public(methods{http.MethodPost: storefront.ConfirmReceipt}))
	mux.Handle("/api/orders/refund", public(methods{http.MethodPost: storefront.RequestRefund}))
	mux.Handle("/api/orders/rate", public(methods{http.MethodPost: storefront.RateOrder}))

	mux.Handle("/api/notifications", public(methods{http.MethodGet: storefront.Notifications}))
	mux.Handle("/api/notifications/seen", public(methods{http.MethodPost: storefront.MarkNotificationsSeen}))

	// Admin routes
	mux.Handle("/api/admin/login", public(methods{http.MethodPost: auth.Login}))
	mux.Handle("/api/admin/logout", protected(methods{http.MethodPost: auth.Logout}))
	mux.Handle("/api/admin/session", protected(methods{http.MethodGet: auth.Session}))

	mux.Handle("/api/admin/dashboard", protected(methods{http.MethodGet: admin.Dashboard}))
	mux.Handle("/api/admin/orders", protected(methods{http.MethodGet: admin.ListOrders}))
	mux.Handle("/api/admin/orders/get", protected(methods{http.MethodGet: admin.GetOrder}))
	mux.Handle("/api/admin/orders/status", protected(methods{http.MethodPut: admin.UpdateOrderStatus}))
	mux.Handle("/api/admin/orders/refund", protected(methods{http.MethodPut: admin.UpdateRefundStatus}))
	mux.Handle("/api/admin/invoices", protected(methods{http.MethodGet: admin.Invoices}))
	mux.Handle("/api/admin/customers", protected(methods{http.MethodGet: admin.Customers}))

	mux.Handle("/api/admin/products", protected(methods{
		http.MethodGet:    admin.ListProducts,
		http.MethodPost:   admin.AddProduct,
		http.MethodPut:    admin.UpdateProduct,
		http.MethodDelete: admin.DeleteProduct,
	}))
	mux.Handle("/api/admin/admins", protected(methods{
		http.MethodGet:    admin.ListAdmins,
		http.MethodPost:   admin.AddAdmin,
		http.MethodDelete: admin.DeleteAdmin,
	}))
	mux.Handle("/api/admin/notifications", protected(methods{
		http.MethodGet:  admin.NotificationLog,
		http.MethodPost: admin.Broadcast,
	}))

	return mux
}
