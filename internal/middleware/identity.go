// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"radic/internal/identity"
	"radic/internal/models"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// UserKey is the context key for the verified user.
const UserKey contextKey = "user"

// Verifier resolves a bearer token to a user. *identity.Verifier and
// identity.Static implement it.
type Verifier interface {
	Verify(ctx context.Context, token string) (*models.User, error)
}

// LoadIdentity verifies the bearer token, if any, and stores the user in
// the request context. It never rejects a request: a missing or invalid
// token leaves the request anonymous.
func LoadIdentity(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := identity.BearerToken(r)
			if token == "" || v == nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := v.Verify(r.Context(), token)
			if err != nil {
				if !errors.Is(err, identity.ErrInvalidToken) {
					slog.Warn("identity verification failed", "error", err, "path", r.URL.Path)
				}
				next.ServeHTTP(w, r)
				return
			}

			AddLogAttrs(r.Context(), "user", user.ID)
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireIdentity answers 401 unless LoadIdentity found a user.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromCtx(r.Context()) == nil {
			WriteError(w, r, http.StatusUnauthorized, CodeAuth, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser returns a copy of ctx carrying the user.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, UserKey, u)
}

// UserFromCtx returns the verified user, or nil for anonymous requests.
func UserFromCtx(ctx context.Context) *models.User {
	u, _ := ctx.Value(UserKey).(*models.User)
	return u
}
