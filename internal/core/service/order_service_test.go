package service

import (
	"context"
	"mdstore/internal/config"
	"mdstore/internal/core/model"
	"mdstore/internal/kv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutSignedInFromCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := model.NewUser("Ana Cruz", "ana@x.com", "Manila", "0917", "secret1")
	f.seedUsers(t, *user)
	f.signIn(t, user)
	require.NoError(t, f.sessions.SaveCart(ctx, []model.LineItem{
		model.NewLineItem(ring, 2),
		model.NewLineItem(necklace, 1),
	}))

	checkout, err := f.orders().Checkout(ctx, CheckoutRequest{FromCart: true})
	require.NoError(t, err)
	assert.Equal(t, "MD00123", checkout.OrderID)
	assert.Equal(t, 3250.5, checkout.Total)
	assert.Equal(t, model.Customer{Name: "Ana Cruz", Email: "ana@x.com", Address: "Manila"}, checkout.Customer)

	users, err := f.entities.LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users[0].Orders, 1)
	order := users[0].Orders[0]
	assert.Equal(t, model.StatusToShip, order.Status)
	assert.Equal(t, "2024-06-10T08:30:00.123Z", order.Date)
	require.NotNil(t, order.CreatedAt)
	assert.Equal(t, testNow.UnixMilli(), *order.CreatedAt)
	assert.False(t, order.Rated)

	cart, err := f.sessions.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart)

	pending, err := f.orders().CurrentOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, checkout, pending)

	current, err := f.sessions.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Len(t, current.Orders, 1)
}

func TestCheckoutGuest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProducts(t, ring, necklace)
	items := []model.LineItem{model.NewLineItem(ring, 1)}

	_, err := f.orders().Checkout(ctx, CheckoutRequest{Items: items, Guest: &GuestDetails{Email: "g@x.com"}})
	assert.ErrorIs(t, err, ErrGuestDetails)
	_, err = f.store.Get(ctx, kv.KeyPendingCheckout)
	assert.ErrorIs(t, err, kv.ErrNotFound)

	checkout, err := f.orders().Checkout(ctx, CheckoutRequest{Items: items, Guest: &GuestDetails{
		Email:      "g@x.com",
		FirstName:  "Gina",
		LastName:   "Reyes",
		Address:    "12 Rizal St",
		City:       "Makati",
		PostalCode: "1200",
		Phone:      "0917",
	}})
	require.NoError(t, err)
	assert.Equal(t, "Gina Reyes", checkout.Customer.Name)
	assert.Equal(t, "12 Rizal St, Makati, 1200", checkout.Customer.Address)
	assert.Equal(t, 1200.0, checkout.Total)
}

func TestCheckoutPricesItemsFromCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProducts(t, ring, necklace)
	user := model.NewUser("Ana Cruz", "ana@x.com", "Manila", "0917", "secret1")
	f.seedUsers(t, *user)
	f.signIn(t, user)

	checkout, err := f.orders().Checkout(ctx, CheckoutRequest{Items: []model.LineItem{
		{ProductID: ring.ID, Name: "Free ring", Price: 0.01, Quantity: 2},
	}})
	require.NoError(t, err)
	assert.Equal(t, 2400.0, checkout.Total)
	require.Len(t, checkout.Items, 1)
	assert.Equal(t, model.NewLineItem(ring, 2), checkout.Items[0])

	users, err := f.entities.LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users[0].Orders, 1)
	assert.Equal(t, 2400.0, users[0].Orders[0].Total)
}

func TestCheckoutRejectsUnknownProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProducts(t, ring)
	user := model.NewUser("Ana Cruz", "ana@x.com", "Manila", "0917", "secret1")
	f.seedUsers(t, *user)
	f.signIn(t, user)

	_, err := f.orders().Checkout(ctx, CheckoutRequest{Items: []model.LineItem{
		{ProductID: ring.ID, Price: 0.01, Quantity: 1},
		{ProductID: 999, Price: -100, Quantity: 1},
	}})
	assert.ErrorIs(t, err, ErrUnknownProduct)

	users, err := f.entities.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users[0].Orders)
	_, err = f.store.Get(ctx, kv.KeyPendingCheckout)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestCheckoutEmpty(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders().Checkout(context.Background(), CheckoutRequest{FromCart: true})
	assert.ErrorIs(t, err, ErrEmptyCheckout)
}

func TestConfirmReceiptRequiresSignIn(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders().ConfirmReceipt(context.Background(), "MD1")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestRequestRefundFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := customerWithOrder("ana@x.com", model.Order{ID: "MD1", Total: 100, Status: model.StatusToReceive})
	f.seedUsers(t, user)
	f.signIn(t, &user)
	svc := f.orders()

	_, err := svc.RequestRefund(ctx, "MD1")
	assert.ErrorIs(t, err, ErrRefundNotAllowed)

	order, err := svc.ConfirmReceipt(ctx, "MD1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, order.Status)

	order, err = svc.RequestRefund(ctx, "MD1")
	require.NoError(t, err)
	assert.Equal(t, model.RefundRequested, order.RefundStatus)

	_, err = svc.RequestRefund(ctx, "MD1")
	assert.ErrorIs(t, err, ErrRefundNotAllowed)

	log := f.log(t)
	require.Len(t, log, 1)
	assert.Equal(t, "Refund Request: Order MD1", log[0].Title)
	assert.Equal(t, "Ana Cruz (ana@x.com) requested a refund for order MD1", log[0].Message)
	assert.Equal(t, model.AudienceAdmin, log[0].Audience)

	missing, err := svc.RequestRefund(ctx, "MD404")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRateOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := customerWithOrder("ana@x.com", model.Order{ID: "MD1", Status: model.StatusCompleted})
	f.seedUsers(t, user)
	f.signIn(t, &user)

	_, err := f.orders().RateOrder(ctx, "MD1", 0, "")
	assert.ErrorIs(t, err, ErrRatingRequired)

	order, err := f.orders().RateOrder(ctx, "MD1", 4, "Lovely")
	require.NoError(t, err)
	assert.True(t, order.Rated)
	assert.Equal(t, 4, order.Rating)
	assert.Equal(t, "Lovely", order.Review)
}

func TestUpdateOrderStatusNotifiesAndSyncsCurrentUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := customerWithOrder("u@x.com", model.Order{ID: "MD123", Total: 50, Status: model.StatusToShip})
	f.seedUsers(t, user)
	f.signIn(t, &user)

	order, err := f.orders().UpdateOrderStatus(ctx, "u@x.com", "MD123", model.StatusToReceive)
	require.NoError(t, err)
	assert.Equal(t, model.StatusToReceive, order.Status)

	current, err := f.sessions.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StatusToReceive, current.Orders[0].Status)

	log := f.log(t)
	require.Len(t, log, 1)
	assert.Equal(t, "Order MD123 status updated", log[0].Title)
	assert.Equal(t, "Your order MD123 status changed to To Receive", log[0].Message)
	assert.Equal(t, "u@x.com", log[0].TargetEmail)
	assert.Equal(t, testNow.UnixMilli(), log[0].Timestamp.Millis())
}

func TestUpdateOrderStatusMisses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUsers(t, customerWithOrder("u@x.com", model.Order{ID: "MD123", Status: model.StatusToShip}))

	_, err := f.orders().UpdateOrderStatus(ctx, "u@x.com", "MD123", "Lost")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	order, err := f.orders().UpdateOrderStatus(ctx, "u@x.com", "MD999", model.StatusCompleted)
	assert.NoError(t, err)
	assert.Nil(t, order)

	order, err = f.orders().UpdateOrderStatus(ctx, "nobody@x.com", "MD123", model.StatusCompleted)
	assert.NoError(t, err)
	assert.Nil(t, order)
	assert.Empty(t, f.log(t))
}

func TestUpdateRefundStatusStrict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUsers(t, customerWithOrder("u@x.com", model.Order{
		ID: "MD7", Total: 1250.5, Status: model.StatusCompleted, RefundStatus: model.RefundRequested,
	}))
	svc := f.orders()

	order, err := svc.UpdateRefundStatus(ctx, "u@x.com", "MD7", model.RefundApproved)
	require.NoError(t, err)
	assert.Equal(t, model.RefundApproved, order.RefundStatus)

	_, err = svc.UpdateRefundStatus(ctx, "u@x.com", "MD7", model.RefundRequested)
	assert.ErrorIs(t, err, ErrRefundRegression)
	_, err = svc.UpdateRefundStatus(ctx, "u@x.com", "MD7", model.RefundNone)
	assert.ErrorIs(t, err, ErrRefundRegression)
	_, err = svc.UpdateRefundStatus(ctx, "u@x.com", "MD7", "lost")
	assert.ErrorIs(t, err, ErrInvalidRefund)

	order, err = svc.UpdateRefundStatus(ctx, "u@x.com", "MD7", model.RefundApproved)
	require.NoError(t, err)
	assert.Equal(t, model.RefundApproved, order.RefundStatus)

	log := f.log(t)
	require.Len(t, log, 1)
	assert.Equal(t, "Refund Status: Order MD7", log[0].Title)
	assert.Equal(t, "Your refund request for order MD7 has been approved. The amount ₱1250.50 will be processed soon.", log[0].Message)
}

func TestUpdateRefundStatusLenientAllowsClearing(t *testing.T) {
	f := newFixture(t)
	f.opts.RefundPolicy = config.RefundPolicyLenient
	ctx := context.Background()
	f.seedUsers(t, customerWithOrder("u@x.com", model.Order{
		ID: "MD7", Total: 10, Status: model.StatusCompleted, RefundStatus: model.RefundCompleted,
	}))

	order, err := f.orders().UpdateRefundStatus(ctx, "u@x.com", "MD7", model.RefundNone)
	require.NoError(t, err)
	assert.Equal(t, model.RefundNone, order.RefundStatus)
	assert.Empty(t, f.log(t))

	raw, err := f.store.Get(ctx, kv.KeyUsers)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "refund_status")
}

func TestListOrdersAndInvoices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	older, newer := int64(1000), int64(2000)
	a := customerWithOrder("a@x.com", model.Order{ID: "A", Total: 10, CreatedAt: &older})
	b := customerWithOrder("b@x.com", model.Order{ID: "B", Total: 20, CreatedAt: &newer})
	f.seedUsers(t, a, b)

	orders, err := f.orders().ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "B", orders[0].ID)
	assert.Equal(t, "b@x.com", orders[0].OwnerEmail)

	invoices, err := f.orders().Invoices(ctx)
	require.NoError(t, err)
	assert.Equal(t, Invoice{OrderID: "B", CustomerName: "Ana Cruz", CustomerEmail: "b@x.com", Total: 20, PlacedAt: 2000}, invoices[0])

	got, err := f.orders().GetOrder(ctx, "a@x.com", "A")
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Total)

	got, err = f.orders().GetOrder(ctx, "a@x.com", "B")
	require.NoError(t, err)
	assert.Nil(t, got)
}
