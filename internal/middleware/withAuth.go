// Package middleware provides HTTP middleware for authentication, request
// logging, compression and trusted subnet checks.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/vh7/internal/app/service"
	"github.com/atinyakov/vh7/internal/storage"
)

// ContextKey is a custom type used for keys in the context.
// It helps prevent collisions in context keys.
type ContextKey string

// UserKey is the key used to store and retrieve the authenticated user from
// the context.
const UserKey ContextKey = "user"

// TokenCookie is the cookie the web app keeps the access token in.
const TokenCookie = "token"

// Authenticator resolves a credential to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (*storage.User, error)
}

// InjectUser adds the user to the request context, making it accessible for
// downstream handlers.
func InjectUser(req *http.Request, user *storage.User) *http.Request {
	return req.WithContext(ContextWithUser(req.Context(), user))
}

// ContextWithUser returns a copy of ctx carrying user.
func ContextWithUser(ctx context.Context, user *storage.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// UserFrom returns the authenticated user of ctx, or nil for anonymous
// requests.
func UserFrom(ctx context.Context) *storage.User {
	user, _ := ctx.Value(UserKey).(*storage.User)
	return user
}

// Credential extracts the bearer token or API key of a request. An empty
// result means the request is anonymous.
func Credential(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, token, found := strings.Cut(auth, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if key := r.Header.Get("X-API-Key"); key != "" {
		return strings.TrimSpace(key)
	}

	if cookie, err := r.Cookie(TokenCookie); err == nil {
		return cookie.Value
	}

	return ""
}

// WithAuth is an HTTP middleware that authenticates the request credential
// and injects the user into the request context. Requests without a
// credential pass through anonymously, an invalid one is rejected.
func WithAuth(auth Authenticator, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := Credential(r)
			if credential == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.Authenticate(r.Context(), credential)
			if err != nil {
				if errors.Is(err, service.ErrUnauthorized) {
					unauthorized(w, service.Messages(err)...)
					return
				}

				logger.Error("failed to authenticate request", zap.Error(err))
				writeErrors(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
				return
			}

			next.ServeHTTP(w, InjectUser(r, user))
		})
	}
}

// RequireUser rejects anonymous requests.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFrom(r.Context()) == nil {
			unauthorized(w, "Authentication is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, messages ...string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeErrors(w, http.StatusUnauthorized, messages...)
}

func writeErrors(w http.ResponseWriter, status int, messages ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct {
		Errors []string `json:"errors"`
	}{Errors: messages})
}
