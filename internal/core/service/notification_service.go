package service

import (
	"context"
	"mdstore/internal/core/model"
	"mdstore/internal/core/notify"
	"mdstore/internal/core/repository"

	"go.uber.org/zap"
)

// Feed is what one viewer sees: the visible log entries, newest first, and
// how many of them have not been seen yet.
type Feed struct {
	Notifications []model.Notification `json:"notifications"`
	Unseen        int                  `json:"unseen"`
}

type NotificationService interface {
	Broadcast(ctx context.Context, title, message string) (*model.Notification, error)
	Feed(ctx context.Context, viewerEmail string) (*Feed, error)
	MarkAllSeen(ctx context.Context, viewerEmail string) (int, error)
	AdminLog(ctx context.Context) ([]model.Notification, error)
}

type notificationService struct {
	notifications repository.NotificationRepository
	opts          Options
	logger        *zap.Logger
}

func NewNotificationService(notifications repository.NotificationRepository, opts Options, logger *zap.Logger) NotificationService {
	return &notificationService{
		notifications: notifications,
		opts:          opts.withDefaults(),
		logger:        logger,
	}
}

func (s *notificationService) Broadcast(ctx context.Context, title, message string) (*model.Notification, error) {
	if blank(title, message) {
		return nil, ErrMissingFields
	}
	n := s.opts.builder().Broadcast(title, message)
	if err := s.notifications.Append(ctx, n); err != nil {
		return nil, err
	}
	s.logger.Info("Broadcast sent", zap.String("id", n.ID), zap.String("title", title))
	return &n, nil
}

func (s *notificationService) Feed(ctx context.Context, viewerEmail string) (*Feed, error) {
	log, err := s.notifications.Log(ctx)
	if err != nil {
		return nil, err
	}
	seen, err := s.notifications.Seen(ctx)
	if err != nil {
		return nil, err
	}

	visible := notify.VisibleTo(log, viewerEmail)
	reversed := make([]model.Notification, 0, len(visible))
	for i := len(visible) - 1; i >= 0; i-- {
		reversed = append(reversed, visible[i])
	}
	return &Feed{
		Notifications: reversed,
		Unseen:        notify.UnseenFor(log, viewerEmail, seen),
	}, nil
}

// MarkAllSeen commits every visible entry to the seen set and returns how
// many were newly marked.
func (s *notificationService) MarkAllSeen(ctx context.Context, viewerEmail string) (int, error) {
	log, err := s.notifications.Log(ctx)
	if err != nil {
		return 0, err
	}
	seen, err := s.notifications.Seen(ctx)
	if err != nil {
		return 0, err
	}

	unseen := notify.Unseen(log, viewerEmail, seen)
	if len(unseen) == 0 {
		return 0, nil
	}
	for _, n := range unseen {
		seen = notify.MarkSeen(seen, n)
	}
	return len(unseen), s.notifications.SaveSeen(ctx, seen)
}

func (s *notificationService) AdminLog(ctx context.Context) ([]model.Notification, error) {
	log, err := s.notifications.Log(ctx)
	if err != nil {
		return nil, err
	}
	return notify.AdminFeed(log), nil
}
