package handler

import (
	"mdstore/internal/api/util"
	"mdstore/internal/core/model"
	"mdstore/internal/core/service"
	"net/http"

	"go.uber.org/zap"
)

// AdminHandler serves the admin panel pages. Every route is behind the
// admin token middleware.
type AdminHandler struct {
	admins        service.AdminService
	orders        service.OrderService
	products      service.ProductService
	notifications service.NotificationService
	logger        *zap.Logger
}

func NewAdminHandler(
	admins service.AdminService,
	orders service.OrderService,
	products service.ProductService,
	notifications service.NotificationService,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		admins:        admins,
		orders:        orders,
		products:      products,
		notifications: notifications,
		logger:        logger,
	}
}

type updateStatusRequest struct {
	Email        string             `json:"email"`
	OrderID      string             `json:"orderId"`
	Status       model.OrderStatus  `json:"status"`
	RefundStatus model.RefundStatus `json:"refundStatus"`
}

type broadcastRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admins.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, orders)
}

func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	order, err := h.orders.GetOrder(r.Context(), q.Get("email"), q.Get("id"))
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

func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !util.DecodeJSON(w, r, &req) {
		return
	}
	order, err := h.orders.UpdateOrderStatus(r.Context(), req.Email, req.OrderID, req.Status)
	h.writeOrder(w, order, err)
}

func (h *AdminHandler) UpdateRefundStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !util.DecodeJSON(w, r, &req) {
		return
	}
	order, err := h.orders.UpdateRefundStatus(r.Context(), req.Email, req.OrderID, req.RefundStatus)
	h.writeOrder(w, order, err)
}

func (h *AdminHandler) writeOrder(w http.ResponseWriter, order *model.Order, err error) {
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

func (h *AdminHandler) Invoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.orders.Invoices(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, invoices)
}

func (h *AdminHandler) Customers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.admins.Customers(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, customers)
}

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, products)
}

func (h *AdminHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req service.ProductRequest
	if !util.DecodeJSON(w, r, &req) {
		return
	}
	product, err := h.products.AddProduct(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := queryInt(w, r, "id")
	if !ok {
		return
	}
	var req service.ProductRequest
	if !util.DecodeJSON(w, r, &req) {
		return
	}
	product, err := h.products.UpdateProduct(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if product == nil {
		notFound(w, "Product")
		return
	}
	util.WriteJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := queryInt(w, r, "id")
	if !ok {
		return
	}
	deleted, err := h.products.DeleteProduct(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if !deleted {
		notFound(w, "Product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	emails, err := h.admins.ListAdmins(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, emails)
}

func (h *AdminHandler) AddAdmin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !util.DecodeJSON(w, r, &req) {
		return
	}
	if err := h.admins.AddAdmin(r.Context(), req.Email, req.Password); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, map[string]string{"email": req.Email})
}

func (h *AdminHandler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	acting, _ := util.AdminEmail(r.Context())
	removed, err := h.admins.DeleteAdmin(r.Context(), acting, r.URL.Query().Get("email"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if !removed {
		notFound(w, "Admin")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) NotificationLog(w http.ResponseWriter, r *http.Request) {
	log, err := h.notifications.AdminLog(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, log)
}

func (h *AdminHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if !util.DecodeJSON(w, r, &req) {
		return
	}
	n, err := h.notifications.Broadcast(r.Context(), req.Title, req.Message)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, n)
}
