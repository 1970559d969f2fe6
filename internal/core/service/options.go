package service

import (
	"context"
	"mdstore/internal/config"
	"mdstore/internal/core/model"
	"mdstore/internal/core/notify"
	"mdstore/internal/core/repository"
	"mdstore/internal/core/util"
	"time"
)

const defaultCurrency = "₱"

// Options carries the shop settings and the clock shared by the services.
type Options struct {
	Currency     string
	RefundPolicy string
	Now          func() time.Time
	NewID        func() string
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Currency:     cfg.Shop.Currency,
		RefundPolicy: cfg.Shop.RefundPolicy,
	}
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = util.GenerateID
	}
	if o.Currency == "" {
		o.Currency = defaultCurrency
	}
	if o.RefundPolicy == "" {
		o.RefundPolicy = config.RefundPolicyStrict
	}
	return o
}

func (o Options) builder() *notify.Builder {
	return &notify.Builder{
		Currency: o.Currency,
		Clock:    func() int64 { return o.Now().UnixMilli() },
		NewID:    o.NewID,
	}
}

// syncCurrentUser rewrites the signed-in storefront user when it is the one
// that just changed, so the storefront picks the change up on its next poll.
func syncCurrentUser(ctx context.Context, sessions repository.SessionRepository, user *model.User) error {
	current, err := sessions.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if current != nil && current.Email == user.Email {
		return sessions.SetCurrentUser(ctx, user)
	}
	return nil
}
