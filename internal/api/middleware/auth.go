package middleware

import (
	"context"
	"mdstore/internal/api/util"
	"net/http"

	"go.uber.org/zap"
)

// AdminDirectory lists the emails of the current admin accounts.
type AdminDirectory interface {
	ListAdmins(ctx context.Context) ([]string, error)
}

// AuthMiddleware admits requests that carry a valid admin bearer token whose
// admin account still exists.
type AuthMiddleware struct {
	tokens *util.TokenIssuer
	admins AdminDirectory
	logger *zap.Logger
}

func NewAuthMiddleware(tokens *util.TokenIssuer, admins AdminDirectory, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		admins: admins,
		logger: logger,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := util.BearerToken(r)
		if token == "" {
			util.WriteError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		claims, err := m.tokens.Parse(token)
		if err != nil {
			m.logger.Debug("Rejected admin token", zap.Error(err))
			util.WriteError(w, http.StatusUnauthorized, "Invalid authorization token")
			return
		}

		emails, err := m.admins.ListAdmins(r.Context())
		if err != nil {
			m.logger.Error("Failed to load admin accounts", zap.Error(err))
			util.WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !contains(emails, claims.Email) {
			m.logger.Info("Rejected token of removed admin", zap.String("email", claims.Email))
			util.WriteError(w, http.StatusUnauthorized, "Admin account no longer exists")
			return
		}

		ctx := util.WithAdminEmail(r.Context(), claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
