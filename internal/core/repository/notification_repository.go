package repository

import (
	"context"
	"mdstore/internal/core/model"
	"mdstore/internal/kv"

	"go.uber.org/zap"
)

type NotificationRepository interface {
	Log(ctx context.Context) ([]model.Notification, error)
	Append(ctx context.Context, n model.Notification) error
	Seen(ctx context.Context) ([]model.Stamp, error)
	SaveSeen(ctx context.Context, seen []model.Stamp) error
}

type storeNotificationRepository struct {
	store  kv.Store
	logger *zap.Logger
}

func NewNotificationRepository(store kv.Store, logger *zap.Logger) NotificationRepository {
	return &storeNotificationRepository{store: store, logger: logger}
}

func (r *storeNotificationRepository) Log(ctx context.Context) ([]model.Notification, error) {
	return loadCollection[model.Notification](ctx, r.store, kv.KeyNotificationLog, r.logger)
}

// Append re-reads the log immediately before writing so entries appended by
// the other surface since this process last looked are kept.
func (r *storeNotificationRepository) Append(ctx context.Context, n model.Notification) error {
	log, err := r.Log(ctx)
	if err != nil {
		return err
	}
	log = append(log, n)
	return kv.SetJSON(ctx, r.store, kv.KeyNotificationLog, log)
}

func (r *storeNotificationRepository) Seen(ctx context.Context) ([]model.Stamp, error) {
	return loadCollection[model.Stamp](ctx, r.store, kv.KeySeenNotifications, r.logger)
}

func (r *storeNotificationRepository) SaveSeen(ctx context.Context, seen []model.Stamp) error {
	return kv.SetJSON(ctx, r.store, kv.KeySeenNotifications, nonNil(seen))
}
