// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"filippo.io/csrf/gorilla"
)

// CSRFConfig holds configuration for CSRF protection.
// filippo.io/csrf/gorilla checks Fetch metadata headers, so no token cookie
// is involved.
type CSRFConfig struct {
	// AuthKey is a 32-byte key; the session secret is used.
	AuthKey []byte

	// ErrorHandler is called when CSRF validation fails.
	ErrorHandler http.Handler

	// TrustedOrigins are host[:port] values allowed to post cross-origin.
	TrustedOrigins []string

	// SkipPrefixes are path prefixes served to other origins (the CORS
	// JSON API) that are exempt from the check.
	SkipPrefixes []string

	Logger *slog.Logger
}

// DefaultCSRFConfig trusts localhost in development and nothing otherwise.
func DefaultCSRFConfig(authKey []byte, isDev bool, logger *slog.Logger) CSRFConfig {
	cfg := CSRFConfig{
		AuthKey:      authKey,
		SkipPrefixes: []string{"/api/"},
		Logger:       logger,
	}
	if isDev {
		cfg.TrustedOrigins = []string{
			"localhost:8080",
			"127.0.0.1:8080",
		}
	}
	return cfg
}

// CSRF returns a middleware that provides CSRF protection.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errorHandler := cfg.ErrorHandler
	if errorHandler == nil {
		errorHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reasonStr := "unknown"
			if reason := csrf.FailureReason(r); reason != nil {
				reasonStr = reason.Error()
			}
			logger.Warn("CSRF validation failed",
				"reason", reasonStr,
				"method", r.Method,
				"path", r.URL.Path,
				"origin", r.Header.Get("Origin"),
				"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
			)
			WriteAPIError(w, http.StatusForbidden, "csrf_failed", "Forbidden - CSRF validation failed")
		})
	}

	opts := []csrf.Option{csrf.ErrorHandler(errorHandler)}
	if len(cfg.TrustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(cfg.TrustedOrigins))
	}
	protect := csrf.Protect(cfg.AuthKey, opts...)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range cfg.SkipPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					r = csrf.UnsafeSkipCheck(r)
					break
				}
			}
			protected.ServeHTTP(w, r)
		})
	}
}
