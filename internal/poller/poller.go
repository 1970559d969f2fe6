// Package poller keeps a storefront view in step with changes written by
// other surfaces. Each tick re-reads the shared collections, delivers
// notifications the viewer has not seen yet and records them as seen.
package poller

import (
	"context"
	"fmt"
	"mdstore/internal/core/model"
	"mdstore/internal/core/notify"
	"mdstore/internal/core/repository"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const DefaultInterval = 2 * time.Second

// Alerter shows one notification to the viewer.
type Alerter interface {
	Alert(ctx context.Context, n model.Notification) error
}

// AlerterFunc adapts a function to Alerter.
type AlerterFunc func(ctx context.Context, n model.Notification) error

func (f AlerterFunc) Alert(ctx context.Context, n model.Notification) error { return f(ctx, n) }

// Snapshot is the state published after a tick. It is never modified after
// it has been published.
type Snapshot struct {
	Viewer  *model.User
	Users   []model.User
	Log     []model.Notification
	Unseen  int // unseen entries found at the start of the tick
	TakenAt time.Time
}

// ViewerEmail returns the signed-in email, or "" for a signed-out visitor.
func (s *Snapshot) ViewerEmail() string {
	if s == nil || s.Viewer == nil {
		return ""
	}
	return s.Viewer.Email
}

type Poller struct {
	entities      repository.EntityRepository
	sessions      repository.SessionRepository
	notifications repository.NotificationRepository
	alerter       Alerter
	interval      time.Duration
	logger        *zap.Logger

	current atomic.Pointer[Snapshot]
}

func New(
	entities repository.EntityRepository,
	sessions repository.SessionRepository,
	notifications repository.NotificationRepository,
	alerter Alerter,
	interval time.Duration,
	logger *zap.Logger,
) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		entities:      entities,
		sessions:      sessions,
		notifications: notifications,
		alerter:       alerter,
		interval:      interval,
		logger:        logger,
	}
}

// Snapshot returns the last published state, or nil before the first tick.
func (p *Poller) Snapshot() *Snapshot {
	return p.current.Load()
}

// Run ticks once immediately and then every interval until ctx is done. A
// failed tick is logged and the loop carries on.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("Poller started", zap.Duration("interval", p.interval))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if _, err := p.Tick(ctx); err != nil && ctx.Err() == nil {
			p.logger.Error("Poll failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			p.logger.Info("Poller stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Tick performs one poll and publishes the resulting snapshot.
func (p *Poller) Tick(ctx context.Context) (*Snapshot, error) {
	log, err := p.notifications.Log(ctx)
	if err != nil {
		return nil, fmt.Errorf("load notification log: %w", err)
	}
	users, err := p.entities.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	viewer, err := p.viewer(ctx)
	if err != nil {
		return nil, fmt.Errorf("load current user: %w", err)
	}
	seen, err := p.notifications.Seen(ctx)
	if err != nil {
		return nil, fmt.Errorf("load seen set: %w", err)
	}

	snapshot := &Snapshot{
		Viewer:  viewer,
		Users:   users,
		Log:     log,
		TakenAt: time.Now(),
	}
	email := snapshot.ViewerEmail()
	unseen := notify.Unseen(log, email, seen)
	snapshot.Unseen = len(unseen)

	delivered := 0
	for _, n := range unseen {
		if err := p.alerter.Alert(ctx, n); err != nil {
			p.logger.Warn("Alert failed", zap.String("title", n.Title), zap.Error(err))
			break
		}
		seen = notify.MarkSeen(seen, n)
		delivered++
	}
	if delivered > 0 {
		if err := p.notifications.SaveSeen(ctx, seen); err != nil {
			return nil, fmt.Errorf("save seen set: %w", err)
		}
		p.logger.Debug("Delivered notifications", zap.String("viewer", email), zap.Int("count", delivered))
	}

	p.current.Store(snapshot)
	return snapshot, nil
}

// viewer returns the signed-in storefront user. When the flag is set but
// the user record is unreadable the previous viewer is kept.
func (p *Poller) viewer(ctx context.Context) (*model.User, error) {
	loggedIn, err := p.sessions.LoggedIn(ctx)
	if err != nil || !loggedIn {
		return nil, err
	}
	user, err := p.sessions.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if prev := p.current.Load(); prev != nil {
			return prev.Viewer, nil
		}
	}
	return user, nil
}
