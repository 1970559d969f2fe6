package handler

import (
	"mdstore/internal/api/util"
	"mdstore/internal/core/service"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// AuthHandler signs admins in and out of the admin panel.
type AuthHandler struct {
	admins service.AdminService
	tokens *util.TokenIssuer
	logger *zap.Logger
}

func NewAuthHandler(admins service.AdminService, tokens *util.TokenIssuer, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		admins: admins,
		tokens: tokens,
		logger: logger,
	}
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Email       string    `json:"email"`
	LastLogin   string    `json:"lastLogin"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !util.DecodeJSON(w, r, &req) {
		return
	}

	session, err := h.admins.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	accessToken, expires, err := h.tokens.Issue(session.Email)
	if err != nil {
		h.logger.Error("Error generating token", zap.Error(err))
		util.WriteError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	util.WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken: accessToken,
		ExpiresAt:   expires,
		Email:       session.Email,
		LastLogin:   session.LastLogin,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.admins.Logout(r.Context()); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, err := h.admins.Session(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if session == nil {
		notFound(w, "Admin session")
		return
	}
	util.WriteJSON(w, http.StatusOK, session)
}
