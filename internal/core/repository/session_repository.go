package repository

import (
	"context"
	"errors"
	"mdstore/internal/core/model"
	"mdstore/internal/kv"

	"go.uber.org/zap"
)

// SessionRepository holds the per-profile keys the storefront and admin panel
// keep next to the shared collections: who is signed in, the cart, the
// wishlist and the checkout handed to the invoice page.
type SessionRepository interface {
	CurrentUser(ctx context.Context) (*model.User, error)
	SetCurrentUser(ctx context.Context, user *model.User) error
	LoggedIn(ctx context.Context) (bool, error)
	SetLoggedIn(ctx context.Context, loggedIn bool) error

	Cart(ctx context.Context) ([]model.LineItem, error)
	SaveCart(ctx context.Context, cart []model.LineItem) error
	Wishlist(ctx context.Context) ([]model.Product, error)
	SaveWishlist(ctx context.Context, wishlist []model.Product) error

	PendingCheckout(ctx context.Context) (*model.PendingCheckout, error)
	SavePendingCheckout(ctx context.Context, checkout *model.PendingCheckout) error

	AdminSession(ctx context.Context) (*model.AdminSession, error)
	SetAdminSession(ctx context.Context, session *model.AdminSession) error
	ClearAdminSession(ctx context.Context) error
}

type storeSessionRepository struct {
	store  kv.Store
	logger *zap.Logger
}

func NewSessionRepository(store kv.Store, logger *zap.Logger) SessionRepository {
	return &storeSessionRepository{store: store, logger: logger}
}

func (r *storeSessionRepository) CurrentUser(ctx context.Context) (*model.User, error) {
	return loadValue[model.User](ctx, r.store, kv.KeyCurrentUser, r.logger)
}

// SetCurrentUser writes null for a nil user, as the storefront does on logout.
func (r *storeSessionRepository) SetCurrentUser(ctx context.Context, user *model.User) error {
	return kv.SetJSON(ctx, r.store, kv.KeyCurrentUser, user)
}

func (r *storeSessionRepository) LoggedIn(ctx context.Context) (bool, error) {
	return r.loadFlag(ctx, kv.KeyLoggedIn)
}

func (r *storeSessionRepository) SetLoggedIn(ctx context.Context, loggedIn bool) error {
	return kv.SetJSON(ctx, r.store, kv.KeyLoggedIn, loggedIn)
}

func (r *storeSessionRepository) Cart(ctx context.Context) ([]model.LineItem, error) {
	return loadCollection[model.LineItem](ctx, r.store, kv.KeyCart, r.logger)
}

func (r *storeSessionRepository) SaveCart(ctx context.Context, cart []model.LineItem) error {
	return kv.SetJSON(ctx, r.store, kv.KeyCart, nonNil(cart))
}

func (r *storeSessionRepository) Wishlist(ctx context.Context) ([]model.Product, error) {
	return loadCollection[model.Product](ctx, r.store, kv.KeyWishlist, r.logger)
}

func (r *storeSessionRepository) SaveWishlist(ctx context.Context, wishlist []model.Product) error {
	return kv.SetJSON(ctx, r.store, kv.KeyWishlist, nonNil(wishlist))
}

func (r *storeSessionRepository) PendingCheckout(ctx context.Context) (*model.PendingCheckout, error) {
	return loadValue[model.PendingCheckout](ctx, r.store, kv.KeyPendingCheckout, r.logger)
}

func (r *storeSessionRepository) SavePendingCheckout(ctx context.Context, checkout *model.PendingCheckout) error {
	return kv.SetJSON(ctx, r.store, kv.KeyPendingCheckout, checkout)
}

// AdminSession returns nil unless both the logged-in flag and the session
// record are present.
func (r *storeSessionRepository) AdminSession(ctx context.Context) (*model.AdminSession, error) {
	loggedIn, err := r.loadFlag(ctx, kv.KeyAdminLoggedIn)
	if err != nil || !loggedIn {
		return nil, err
	}
	return loadValue[model.AdminSession](ctx, r.store, kv.KeyCurrentAdmin, r.logger)
}

func (r *storeSessionRepository) SetAdminSession(ctx context.Context, session *model.AdminSession) error {
	if err := kv.SetJSON(ctx, r.store, kv.KeyAdminLoggedIn, session != nil); err != nil {
		return err
	}
	return kv.SetJSON(ctx, r.store, kv.KeyCurrentAdmin, session)
}

// ClearAdminSession removes both admin keys, matching the panel's logout.
func (r *storeSessionRepository) ClearAdminSession(ctx context.Context) error {
	return errors.Join(
		r.store.Delete(ctx, kv.KeyAdminLoggedIn),
		r.store.Delete(ctx, kv.KeyCurrentAdmin),
	)
}

func (r *storeSessionRepository) loadFlag(ctx context.Context, key string) (bool, error) {
	flag, err := loadValue[bool](ctx, r.store, key, r.logger)
	if err != nil || flag == nil {
		return false, err
	}
	return *flag, nil
}
