// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/mentoreu-go/internal/auth"
	"github.com/olegiv/mentoreu-go/internal/logging"
	"github.com/olegiv/mentoreu-go/internal/middleware"
	"github.com/olegiv/mentoreu-go/internal/service"
	"github.com/olegiv/mentoreu-go/internal/session"
	"github.com/olegiv/mentoreu-go/internal/store"
	"github.com/olegiv/mentoreu-go/internal/util"
)

const msgInvalidCredentials = "Invalid email or password"

// AuthHandler handles admin login, logout and password changes.
type AuthHandler struct {
	queries         *store.Queries
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	events          *service.EventService
	logger          *slog.Logger
}

// NewAuthHandler creates an AuthHandler. lp may be nil.
func NewAuthHandler(db *sql.DB, sm *scs.SessionManager, lp *middleware.LoginProtection, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		sessionManager:  sm,
		loginProtection: lp,
		events:          service.NewEventService(db),
		logger:          logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /admin/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	clientIP := util.ClientIP(r)
	meta := map[string]any{"email": email, "ip": clientIP}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			h.events.LogEvent(r.Context(), logging.LevelWarning, logging.CategoryAuth, "Login attempt on locked account", meta)
			writeLocked(w, remaining)
			return
		}
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.events.LogEvent(r.Context(), logging.LevelWarning, logging.CategoryAuth, "Login failed: user not found", meta)
		} else {
			h.logger.Error("database error during login", "error", err)
		}
		h.loginFailed(w, email)
		return
	}

	valid, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil {
		h.logger.Error("password check error", "user_id", user.ID, "error", err)
	}
	if !valid {
		h.events.LogEvent(r.Context(), logging.LevelWarning, logging.CategoryAuth, "Login failed: wrong password", meta)
		h.loginFailed(w, email)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	if err := session.Login(r.Context(), h.sessionManager, user.ID); err != nil {
		logAndInternalError(w, h.logger, "failed to start session", "error", err)
		return
	}

	now := time.Now().UTC()
	if err := h.queries.UpdateUserLastLogin(r.Context(), user.ID, now); err != nil {
		h.logger.Warn("failed to update last login", "user_id", user.ID, "error", err)
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if hash, err := auth.HashPassword(req.Password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
				ID:           user.ID,
				PasswordHash: hash,
				UpdatedAt:    now,
			}); err != nil {
				h.logger.Warn("failed to upgrade password hash", "user_id", user.ID, "error", err)
			}
		}
	}

	h.events.LogAuthEvent(r.Context(), "Admin logged in", map[string]any{"user_id": user.ID, "ip": clientIP})
	writeJSONSuccess(w, map[string]any{"user": user})
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, email string) {
	if h.loginProtection == nil {
		writeJSONError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
		writeLocked(w, lockDuration)
		return
	}

	writeJSON(w, http.StatusUnauthorized, map[string]any{
		"success":            false,
		"error":              msgInvalidCredentials,
		"remaining_attempts": h.loginProtection.RemainingAttempts(email),
	})
}

func writeLocked(w http.ResponseWriter, d time.Duration) {
	seconds := int(d.Round(time.Second).Seconds())
	w.Header().Set("Retry-After", fmt.Sprint(seconds))
	writeJSON(w, http.StatusTooManyRequests, map[string]any{
		"success":     false,
		"error":       "Account temporarily locked",
		"retry_after": seconds,
	})
}

// Logout handles POST /admin/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := session.UserID(r.Context(), h.sessionManager)
	if err := session.Logout(r.Context(), h.sessionManager); err != nil {
		logAndInternalError(w, h.logger, "failed to destroy session", "error", err)
		return
	}
	if userID > 0 {
		h.events.LogAuthEvent(r.Context(), "Admin logged out", map[string]any{"user_id": userID})
	}
	writeJSONSuccess(w, nil)
}

// Me handles GET /admin/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		writeJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	writeJSONSuccess(w, map[string]any{"user": user})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles PUT /admin/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		writeJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if ok, _ := auth.CheckPassword(req.CurrentPassword, user.PasswordHash); !ok {
		writeJSONFieldErrors(w, "Current password is incorrect", map[string]string{"current_password": "incorrect"})
		return
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		writeJSONFieldErrors(w, err.Error(), map[string]string{"new_password": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		logAndInternalError(w, h.logger, "failed to hash password", "error", err)
		return
	}
	if err := h.queries.UpdateUserPassword(r.Context(), store.UpdateUserPasswordParams{
		ID:           user.ID,
		PasswordHash: hash,
		UpdatedAt:    time.Now().UTC(),
	}); err != nil {
		logAndInternalError(w, h.logger, "failed to update password", "error", err)
		return
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		h.logger.Warn("failed to renew session token", "error", err)
	}
	h.events.LogAuthEvent(r.Context(), "Admin password changed", map[string]any{"user_id": user.ID})
	writeJSONSuccess(w, nil)
}
