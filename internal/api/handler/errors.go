package handler

import (
	"errors"
	"mdstore/internal/api/util"
	"mdstore/internal/core/service"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// writeServiceError maps a service error to a response. Validation failures
// carry their message to the client; anything else is logged and hidden.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrNotLoggedIn):
		util.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrSelfDelete):
		util.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrAdminExists):
		util.WriteError(w, http.StatusConflict, err.Error())
	case service.IsValidation(err):
		util.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("Request failed", zap.Error(err))
		util.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func notFound(w http.ResponseWriter, what string) {
	util.WriteError(w, http.StatusNotFound, what+" not found")
}

// queryInt reads a required integer query parameter and answers 400 itself
// when it is missing or malformed.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		util.WriteError(w, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return v, true
}
