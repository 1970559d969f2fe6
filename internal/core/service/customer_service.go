package service

import (
	"context"
	"mdstore/internal/core/model"
	"mdstore/internal/core/repository"
	"strings"

	"go.uber.org/zap"
)

const minPasswordLength = 6

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type SettingsRequest struct {
	FullName        string `json:"fullName"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type CustomerService interface {
	Register(ctx context.Context, req RegisterRequest) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	Logout(ctx context.Context) error
	UpdateSettings(ctx context.Context, email string, req SettingsRequest) (*model.User, error)
	GetCustomer(ctx context.Context, email string) (*model.User, error)
	CurrentCustomer(ctx context.Context) (*model.User, error)
}

type customerService struct {
	entities      repository.EntityRepository
	sessions      repository.SessionRepository
	notifications repository.NotificationRepository
	opts          Options
	logger        *zap.Logger
}

func NewCustomerService(
	entities repository.EntityRepository,
	sessions repository.SessionRepository,
	notifications repository.NotificationRepository,
	opts Options,
	logger *zap.Logger,
) CustomerService {
	return &customerService{
		entities:      entities,
		sessions:      sessions,
		notifications: notifications,
		opts:          opts.withDefaults(),
		logger:        logger,
	}
}

func (s *customerService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	if blank(req.FullName, req.Email, req.Address, req.Phone, req.Password) {
		return nil, ErrMissingFields
	}

	users, err := s.entities.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	if model.FindUser(users, req.Email) >= 0 {
		return nil, ErrEmailTaken
	}

	user := model.NewUser(req.FullName, req.Email, req.Address, req.Phone, req.Password)
	users = append(users, *user)
	if err := s.entities.SaveUsers(ctx, users); err != nil {
		return nil, err
	}

	// The account exists at this point; a failed greeting is not worth
	// failing the registration over.
	if err := s.notifications.Append(ctx, s.opts.builder().Welcome(user)); err != nil {
		s.logger.Warn("Failed to create welcome notification", zap.String("email", user.Email), zap.Error(err))
	}

	s.logger.Info("Customer registered", zap.String("email", user.Email))
	return user, nil
}

func (s *customerService) Login(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	users, err := s.entities.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	idx := model.FindUser(users, email)
	if idx < 0 || users[idx].Password != password {
		return nil, ErrInvalidCredentials
	}

	user := users[idx]
	if err := s.sessions.SetLoggedIn(ctx, true); err != nil {
		return nil, err
	}
	if err := s.sessions.SetCurrentUser(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *customerService) Logout(ctx context.Context) error {
	if err := s.sessions.SetLoggedIn(ctx, false); err != nil {
		return err
	}
	return s.sessions.SetCurrentUser(ctx, nil)
}

// UpdateSettings changes profile fields and, when NewPassword is set, the
// password. An unknown email changes nothing and returns nil, nil.
func (s *customerService) UpdateSettings(ctx context.Context, email string, req SettingsRequest) (*model.User, error) {
	if blank(req.FullName, req.Address, req.Phone) {
		return nil, ErrMissingFields
	}
	if req.NewPassword != "" {
		if req.NewPassword != req.ConfirmPassword {
			return nil, ErrPasswordMismatch
		}
		if len(req.NewPassword) < minPasswordLength {
			return nil, ErrPasswordTooShort
		}
	}

	users, err := s.entities.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	idx := model.FindUser(users, email)
	if idx < 0 {
		return nil, nil
	}

	user := &users[idx]
	user.SetFullName(req.FullName)
	user.Address = req.Address
	user.Phone = req.Phone
	if req.NewPassword != "" {
		user.Password = req.NewPassword
	}

	if err := s.entities.SaveUsers(ctx, users); err != nil {
		return nil, err
	}
	if err := syncCurrentUser(ctx, s.sessions, user); err != nil {
		return nil, err
	}
	updated := *user
	return &updated, nil
}

func (s *customerService) GetCustomer(ctx context.Context, email string) (*model.User, error) {
	users, err := s.entities.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	idx := model.FindUser(users, email)
	if idx < 0 {
		return nil, nil
	}
	user := users[idx]
	return &user, nil
}

// CurrentCustomer returns the signed-in storefront user, or nil.
func (s *customerService) CurrentCustomer(ctx context.Context) (*model.User, error) {
	loggedIn, err := s.sessions.LoggedIn(ctx)
	if err != nil || !loggedIn {
		return nil, err
	}
	return s.sessions.CurrentUser(ctx)
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
