package service

import (
	"context"
	"mdstore/internal/core/aggregate"
	"mdstore/internal/core/model"
	"mdstore/internal/core/repository"

	"go.uber.org/zap"
)

// lastLoginLayout matches the en-US locale string the admin panel has always
// stored for lastLogin.
const lastLoginLayout = "1/2/2006, 3:04:05 PM"

type AdminService interface {
	Login(ctx context.Context, email, password string) (*model.AdminSession, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*model.AdminSession, error)
	Dashboard(ctx context.Context) (*aggregate.DashboardStats, error)
	Customers(ctx context.Context) ([]aggregate.CustomerSummary, error)
	ListAdmins(ctx context.Context) ([]string, error)
	AddAdmin(ctx context.Context, email, password string) error
	DeleteAdmin(ctx context.Context, actingEmail, email string) (bool, error)
}

type adminService struct {
	entities repository.EntityRepository
	sessions repository.SessionRepository
	opts     Options
	logger   *zap.Logger
}

func NewAdminService(
	entities repository.EntityRepository,
	sessions repository.SessionRepository,
	opts Options,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		entities: entities,
		sessions: sessions,
		opts:     opts.withDefaults(),
		logger:   logger,
	}
}

func (s *adminService) Login(ctx context.Context, email, password string) (*model.AdminSession, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	admins, err := s.entities.LoadAdminUsers(ctx)
	if err != nil {
		return nil, err
	}
	idx := model.FindAdmin(admins, email)
	if idx < 0 || admins[idx].Password != password {
		s.logger.Warn("Admin login rejected", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	session := &model.AdminSession{
		Email:     admins[idx].Email,
		LastLogin: s.opts.Now().Format(lastLoginLayout),
	}
	if err := s.sessions.SetAdminSession(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Info("Admin logged in", zap.String("email", session.Email))
	return session, nil
}

func (s *adminService) Logout(ctx context.Context) error {
	return s.sessions.ClearAdminSession(ctx)
}

func (s *adminService) Session(ctx context.Context) (*model.AdminSession, error) {
	return s.sessions.AdminSession(ctx)
}

func (s *adminService) Dashboard(ctx context.Context) (*aggregate.DashboardStats, error) {
	snapshot, err := s.entities.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := aggregate.Dashboard(snapshot.Users, snapshot.Products)
	return &stats, nil
}

func (s *adminService) Customers(ctx context.Context) ([]aggregate.CustomerSummary, error) {
	users, err := s.entities.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.Customers(users), nil
}

// ListAdmins returns admin emails only; passwords never leave the store.
func (s *adminService) ListAdmins(ctx context.Context) ([]string, error) {
	admins, err := s.entities.LoadAdminUsers(ctx)
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(admins))
	for _, a := range admins {
		emails = append(emails, a.Email)
	}
	return emails, nil
}

func (s *adminService) AddAdmin(ctx context.Context, email, password string) error {
	if blank(email, password) {
		return ErrMissingFields
	}
	admins, err := s.entities.LoadAdminUsers(ctx)
	if err != nil {
		return err
	}
	if model.FindAdmin(admins, email) >= 0 {
		return ErrAdminExists
	}

	admins = append(admins, model.AdminUser{Email: email, Password: password})
	if err := s.entities.SaveAdminUsers(ctx, admins); err != nil {
		return err
	}
	s.logger.Info("Admin added", zap.String("email", email))
	return nil
}

// DeleteAdmin removes email from the admin list on behalf of actingEmail and
// reports whether anything was removed.
func (s *adminService) DeleteAdmin(ctx context.Context, actingEmail, email string) (bool, error) {
	if email == actingEmail {
		return false, ErrSelfDelete
	}
	admins, err := s.entities.LoadAdminUsers(ctx)
	if err != nil {
		return false, err
	}
	idx := model.FindAdmin(admins, email)
	if idx < 0 {
		return false, nil
	}

	admins = append(admins[:idx], admins[idx+1:]...)
	if err := s.entities.SaveAdminUsers(ctx, admins); err != nil {
		return false, err
	}
	s.logger.Info("Admin removed", zap.String("email", email), zap.String("by", actingEmail))
	return true, nil
}
