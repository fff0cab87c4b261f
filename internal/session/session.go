// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session manages admin sessions stored in SQLite.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Admin session cookie names. The __Host- prefix requires Secure and Path=/,
// so it is only used outside development.
const (
	CookieName       = "mentoreu_session"
	SecureCookieName = "__Host-mentoreu_session"
)

// KeyUserID holds the logged-in admin's id.
const KeyUserID = "user_id"

// New creates a session manager backed by the sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.IdleTimeout = 2 * time.Hour
	sm.Cookie.Name = CookieName
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = SecureCookieName
	}

	return sm
}

// Login renews the session token and stores userID.
func Login(ctx context.Context, sm *scs.SessionManager, userID int64) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, KeyUserID, userID)
	return nil
}

// Logout destroys the session.
func Logout(ctx context.Context, sm *scs.SessionManager) error {
	return sm.Destroy(ctx)
}

// UserID returns the logged-in admin's id, or 0.
func UserID(ctx context.Context, sm *scs.SessionManager) int64 {
	return sm.GetInt64(ctx, KeyUserID)
}
