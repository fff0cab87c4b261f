// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/mentoreu-go/internal/session"
	"github.com/olegiv/mentoreu-go/internal/store"
)

// ContextKeyUser holds the authenticated store.User.
const ContextKeyUser ContextKey = "user"

// UserLoader is the part of store.Queries used by RequireAdmin.
type UserLoader interface {
	GetUserByID(ctx context.Context, id int64) (store.User, error)
}

// RequireAdmin rejects requests without a valid admin session with a JSON
// 401 and loads the user into the context otherwise. A session pointing at
// a deleted user is destroyed.
func RequireAdmin(sm *scs.SessionManager, users UserLoader, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := session.UserID(r.Context(), sm)
			if userID == 0 {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}

			user, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				if !errors.Is(err, sql.ErrNoRows) {
					logger.Error("failed to load session user", "user_id", userID, "error", err)
					WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
					return
				}
				_ = sm.Destroy(r.Context())
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}
