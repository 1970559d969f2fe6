package service

import (
	"context"
	"fmt"
	"mdstore/internal/core/model"
	"mdstore/internal/core/repository"
	"mdstore/internal/kv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, time.June, 10, 8, 30, 0, 123_000_000, time.UTC)

type fixture struct {
	store         kv.Store
	entities      repository.EntityRepository
	sessions      repository.SessionRepository
	notifications repository.NotificationRepository
	opts          Options
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := kv.NewMemoryStore()
	logger := zap.NewNop()
	ids := 0
	return &fixture{
		store:         store,
		entities:      repository.NewEntityRepository(store, model.AdminUser{Email: "admin@mdfine.com", Password: "admin123"}, logger),
		sessions:      repository.NewSessionRepository(store, logger),
		notifications: repository.NewNotificationRepository(store, logger),
		opts: Options{
			Currency: "₱",
			Now:      func() time.Time { return testNow },
			NewID: func() string {
				ids++
				return fmt.Sprintf("n-%d", ids)
			},
		},
	}
}

func (f *fixture) seedUsers(t *testing.T, users ...model.User) {
	t.Helper()
	require.NoError(t, f.entities.SaveUsers(context.Background(), users))
}

func (f *fixture) seedProducts(t *testing.T, products ...model.Product) {
	t.Helper()
	require.NoError(t, f.entities.SaveProducts(context.Background(), products))
}

func (f *fixture) signIn(t *testing.T, user *model.User) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.sessions.SetLoggedIn(ctx, true))
	require.NoError(t, f.sessions.SetCurrentUser(ctx, user))
}

func (f *fixture) log(t *testing.T) []model.Notification {
	t.Helper()
	log, err := f.notifications.Log(context.Background())
	require.NoError(t, err)
	return log
}

func (f *fixture) customers() CustomerService {
	return NewCustomerService(f.entities, f.sessions, f.notifications, f.opts, zap.NewNop())
}

func (f *fixture) orders() OrderService {
	return NewOrderService(f.entities, f.sessions, f.notifications, f.opts, zap.NewNop())
}

func customerWithOrder(email string, order model.Order) model.User {
	u := model.NewUser("Ana Cruz", email, "Manila", "0917", "secret1")
	u.Orders = append(u.Orders, order)
	return *u
}

var ring = model.Product{ID: 1, Name: "Gold Ring", Price: 1200, Category: "Rings", Description: "18k band"}
var necklace = model.Product{ID: 2, Name: "Pearl Necklace", Price: 850.5, Category: "Necklaces", Description: "Freshwater pearls"}
