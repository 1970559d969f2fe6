package repository

import (
	"context"
	"errors"
	"mdstore/internal/core/model"
	"mdstore/internal/kv"

	"go.uber.org/zap"
)

// Snapshot is one read of the shared collections.
type Snapshot struct {
	Users      []model.User
	Products   []model.Product
	AdminUsers []model.AdminUser
}

type EntityRepository interface {
	LoadAll(ctx context.Context) (*Snapshot, error)
	LoadUsers(ctx context.Context) ([]model.User, error)
	LoadProducts(ctx context.Context) ([]model.Product, error)
	LoadAdminUsers(ctx context.Context) ([]model.AdminUser, error)
	SaveUsers(ctx context.Context, users []model.User) error
	SaveProducts(ctx context.Context, products []model.Product) error
	SaveAdminUsers(ctx context.Context, admins []model.AdminUser) error
}

type storeEntityRepository struct {
	store     kv.Store
	seedAdmin model.AdminUser
	logger    *zap.Logger
}

// NewEntityRepository mirrors users, products and admin credentials from
// store. seedAdmin is returned as the only admin when none has been stored.
func NewEntityRepository(store kv.Store, seedAdmin model.AdminUser, logger *zap.Logger) EntityRepository {
	return &storeEntityRepository{
		store:     store,
		seedAdmin: seedAdmin,
		logger:    logger,
	}
}

func (r *storeEntityRepository) LoadAll(ctx context.Context) (*Snapshot, error) {
	users, err := r.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	products, err := r.LoadProducts(ctx)
	if err != nil {
		return nil, err
	}
	admins, err := r.LoadAdminUsers(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Users: users, Products: products, AdminUsers: admins}, nil
}

func (r *storeEntityRepository) LoadUsers(ctx context.Context) ([]model.User, error) {
	return loadCollection[model.User](ctx, r.store, kv.KeyUsers, r.logger)
}

func (r *storeEntityRepository) LoadProducts(ctx context.Context) ([]model.Product, error) {
	return loadCollection[model.Product](ctx, r.store, kv.KeyProducts, r.logger)
}

// LoadAdminUsers falls back to the seed admin when the key is missing, null
// or malformed. A stored empty list is kept as is.
func (r *storeEntityRepository) LoadAdminUsers(ctx context.Context) ([]model.AdminUser, error) {
	var admins []model.AdminUser
	_, err := kv.GetJSON(ctx, r.store, kv.KeyAdminUsers, &admins)
	var decodeErr *kv.DecodeError
	if errors.As(err, &decodeErr) {
		r.logger.Warn("Discarding malformed admin list", zap.Error(err))
		admins = nil
	} else if err != nil {
		return nil, err
	}
	if admins == nil {
		return []model.AdminUser{r.seedAdmin}, nil
	}
	return admins, nil
}

func (r *storeEntityRepository) SaveUsers(ctx context.Context, users []model.User) error {
	return kv.SetJSON(ctx, r.store, kv.KeyUsers, nonNil(users))
}

func (r *storeEntityRepository) SaveProducts(ctx context.Context, products []model.Product) error {
	return kv.SetJSON(ctx, r.store, kv.KeyProducts, nonNil(products))
}

func (r *storeEntityRepository) SaveAdminUsers(ctx context.Context, admins []model.AdminUser) error {
	return kv.SetJSON(ctx, r.store, kv.KeyAdminUsers, nonNil(admins))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
