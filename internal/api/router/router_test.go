package router

import (
	"bytes"
	"encoding/json"
	"mdstore/internal/api/util"
	"mdstore/internal/core/model"
	"mdstore/internal/core/repository"
	"mdstore/internal/core/service"
	"mdstore/internal/kv"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := kv.NewMemoryStore()
	logger := zap.NewNop()
	entities := repository.NewEntityRepository(store, model.AdminUser{Email: "admin@mdfine.com", Password: "admin123"}, logger)
	sessions := repository.NewSessionRepository(store, logger)
	notifications := repository.NewNotificationRepository(store, logger)
	opts := service.Options{Currency: "₱"}

	require.NoError(t, entities.SaveProducts(t.Context(), []model.Product{
		{ID: 1, Name: "Gold Ring", Price: 1200, Category: "Rings"},
	}))

	services := Services{
		Customers:     service.NewCustomerService(entities, sessions, notifications, opts, logger),
		Orders:        service.NewOrderService(entities, sessions, notifications, opts, logger),
		Products:      service.NewProductService(entities, logger),
		Carts:         service.NewCartService(entities, sessions, logger),
		Admins:        service.NewAdminService(entities, sessions, opts, logger),
		Notifications: service.NewNotificationService(notifications, opts, logger),
	}
	srv := httptest.NewServer(NewRouter(services, util.NewTokenIssuer("test-secret", time.Hour), logger))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	status := call(t, srv, http.MethodPost, "/api/register", "", service.RegisterRequest{
		FullName: "Ana Cruz", Email: "u@x.com", Address: "Manila", Phone: "0917", Password: "secret1",
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	status = call(t, srv, http.MethodPost, "/api/register", "", service.RegisterRequest{
		FullName: "Ana Cruz", Email: "u@x.com", Address: "Manila", Phone: "0917", Password: "secret1",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)

	status = call(t, srv, http.MethodPost, "/api/login", "", map[string]string{"email": "u@x.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, status)

	status = call(t, srv, http.MethodPost, "/api/cart", "", map[string]int{"productId": 1, "quantity": 2}, nil)
	require.Equal(t, http.StatusOK, status)

	var checkout model.PendingCheckout
	status = call(t, srv, http.MethodPost, "/api/checkout", "", map[string]bool{"fromCart": true}, &checkout)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 2400.0, checkout.Total)

	status = call(t, srv, http.MethodGet, "/api/admin/orders", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	var login struct {
		AccessToken string `json:"access_token"`
	}
	status = call(t, srv, http.MethodPost, "/api/admin/login", "", map[string]string{"email": "admin@mdfine.com", "password": "admin123"}, &login)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, login.AccessToken)

	var order model.Order
	status = call(t, srv, http.MethodPut, "/api/admin/orders/status", login.AccessToken, map[string]string{
		"email": "u@x.com", "orderId": checkout.OrderID, "status": "To Receive",
	}, &order)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, model.StatusToReceive, order.Status)

	status = call(t, srv, http.MethodPut, "/api/admin/orders/status", login.AccessToken, map[string]string{
		"email": "u@x.com", "orderId": "MD404", "status": "To Receive",
	}, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var feed service.Feed
	status = call(t, srv, http.MethodGet, "/api/notifications", "", nil, &feed)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, feed.Unseen)
	require.Len(t, feed.Notifications, 2)
	assert.Equal(t, "Your order "+checkout.OrderID+" status changed to To Receive", feed.Notifications[0].Message)

	var mine []model.Order
	status = call(t, srv, http.MethodGet, "/api/orders", "", nil, &mine)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, mine, 1)
	assert.Equal(t, model.StatusToReceive, mine[0].Status)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	status := call(t, srv, http.MethodDelete, "/api/products", "", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	srv := newTestServer(t)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/admin/login", "",
		map[string]string{"email": "admin@mdfine.com", "password": "admin123"}, &login))

	status := call(t, srv, http.MethodDelete, "/api/admin/admins?email=admin@mdfine.com", login.AccessToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRemovedAdminLosesAccess(t *testing.T) {
	srv := newTestServer(t)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/admin/login", "",
		map[string]string{"email": "admin@mdfine.com", "password": "admin123"}, &login))
	require.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/api/admin/admins", login.AccessToken,
		map[string]string{"email": "staff@mdfine.com", "password": "staff123"}, nil))

	var staff struct {
		AccessToken string `json:"access_token"`
	}
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodPost, "/api/admin/login", "",
		map[string]string{"email": "staff@mdfine.com", "password": "staff123"}, &staff))
	require.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/api/admin/orders", staff.AccessToken, nil, nil))

	require.Equal(t, http.StatusNoContent, call(t, srv, http.MethodDelete, "/api/admin/admins?email=staff@mdfine.com", login.AccessToken, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, call(t, srv, http.MethodGet, "/api/admin/orders", staff.AccessToken, nil, nil))
}
