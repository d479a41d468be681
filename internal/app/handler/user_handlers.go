package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/vh7/internal/app/service"
	"github.com/atinyakov/vh7/internal/middleware"
	"github.com/atinyakov/vh7/internal/models"
)

const userTimeout = 5 * time.Second

type UserHandler struct {
	users  service.UserServiceIface
	logger *zap.Logger
}

func NewUser(s service.UserServiceIface, l *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  s,
		logger: l,
	}
}

// Register handles POST /users.
func (h *UserHandler) Register(res http.ResponseWriter, req *http.Request) {
	var request models.RegisterRequest
	if !decode(res, req, &request, h.logger) {
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), userTimeout)
	defer cancel()

	user, err := h.users.Register(ctx, service.RegisterInput{
		Email:    request.Email,
		Password: request.Password,
		Name:     request.Name,
	})
	if err != nil {
		writeError(res, err, h.logger)
		return
	}

	writeJSON(res, http.StatusCreated, models.NewUser(user))
}

// Login handles POST /users/login.
func (h *UserHandler) Login(res http.ResponseWriter, req *http.Request) {
	var request models.LoginRequest
	if !decode(res, req, &request, h.logger) {
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), userTimeout)
	defer cancel()

	token, err := h.users.Login(ctx, request.Email, request.Password)
	if err != nil {
		writeError(res, err, h.logger)
		return
	}

	http.SetCookie(res, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Expires:  time.Now().Add(service.TokenExp),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})

	writeJSON(res, http.StatusOK, models.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Confirm handles POST /users/confirm.
func (h *UserHandler) Confirm(res http.ResponseWriter, req *http.Request) {
	var request models.TokenRequest
	if !decode(res, req, &request, h.logger) {
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), userTimeout)
	defer cancel()

	user, err := h.users.Confirm(ctx, request.Token)
	if err != nil {
		writeError(res, err, h.logger)
		return
	}

	writeJSON(res, http.StatusOK, models.NewUser(user))
}

// ForgotPassword handles POST /users/password/forgot. It answers 202 whether
// or not the address is registered.
func (h *UserHandler) ForgotPassword(res http.ResponseWriter, req *http.Request) {
	var request models.ForgotPasswordRequest
	if !decode(res, req, &request, h.logger) {
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), userTimeout)
	defer cancel()

	h.users.ForgotPassword(ctx, request.Email)

	res.WriteHeader(http.StatusAccepted)
}

// ResetPassword handles POST /users/password/reset.
func (h *UserHandler) ResetPassword(res http.ResponseWriter, req *http.Request) {
	var request models.ResetPasswordRequest
	if !decode(res, req, &request, h.logger) {
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), userTimeout)
	defer cancel()

	if err := h.users.ResetPassword(ctx, request.Token, request.Password); err != nil {
		writeError(res, err, h.logger)
		return
	}

	res.WriteHeader(http.StatusNoContent)
}

// Me handles GET /users/me.
func (h *UserHandler) Me(res http.ResponseWriter, req *http.Request) {
	writeJSON(res, http.StatusOK, models.NewUser(middleware.UserFrom(req.Context())))
}

// UpdateMe handles PATCH /users/me.
func (h *UserHandler) UpdateMe(res http.ResponseWriter, req *http.Request) {
	var request models.UserUpdateRequest
	if !decode(res, req, &request, h.logger) {
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), userTimeout)
	defer cancel()

	user, err := h.users.Update(ctx, middleware.UserFrom(req.Context()), service.UpdateInput{
		Name:  request.Name,
		Email: request.Email,
	})
	if err != nil {
		writeError(res, err, h.logger)
		return
	}

	writeJSON(res, http.StatusOK, models.NewUser(user))
}

// GenerateAPIKey handles POST /users/me/api-key.
func (h *UserHandler) GenerateAPIKey(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), userTimeout)
	defer cancel()

	key, err := h.users.GenerateAPIKey(ctx, middleware.UserFrom(req.Context()))
	if err != nil {
		writeError(res, err, h.logger)
		return
	}

	writeJSON(res, http.StatusCreated, models.APIKeyResponse{APIKey: key})
}
