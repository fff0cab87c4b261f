// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// SecurityHeadersConfig holds configuration for security headers.
type SecurityHeadersConfig struct {
	// IsDevelopment disables HSTS.
	IsDevelopment bool

	ContentSecurityPolicy string

	// HSTSMaxAge in seconds; 0 disables HSTS.
	HSTSMaxAge            int
	HSTSIncludeSubDomains bool

	// FrameOptions is "DENY", "SAMEORIGIN" or empty to omit the header.
	FrameOptions      string
	ReferrerPolicy    string
	PermissionsPolicy string

	// ExcludePaths are path prefixes that skip the headers.
	ExcludePaths []string
}

// cspDirectives lists the landing page needs in a fixed order. Images may be
// hosted anywhere over HTTPS because admins paste external image URLs.
var cspDirectives = [][2]string{
	{"default-src", "'self'"},
	{"script-src", "'self' 'unsafe-inline'"},
	{"style-src", "'self' 'unsafe-inline'"},
	{"img-src", "'self' data: https:"},
	{"font-src", "'self' data:"},
	{"connect-src", "'self'"},
	{"frame-src", "'none'"},
	{"object-src", "'none'"},
	{"base-uri", "'self'"},
	{"form-action", "'self'"},
	{"frame-ancestors", "'self'"},
}

// DefaultSecurityHeadersConfig returns the headers used by the site.
func DefaultSecurityHeadersConfig(isDev bool) SecurityHeadersConfig {
	parts := make([]string, 0, len(cspDirectives))
	for _, d := range cspDirectives {
		parts = append(parts, d[0]+" "+d[1])
	}

	return SecurityHeadersConfig{
		IsDevelopment:         isDev,
		ContentSecurityPolicy: strings.Join(parts, "; "),
		HSTSMaxAge:            31536000, // 1 year
		HSTSIncludeSubDomains: !isDev,
		FrameOptions:          "SAMEORIGIN",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "camera=(), microphone=(), geolocation=(), payment=(), usb=(), browsing-topics=()",
		ExcludePaths:          []string{"/metrics"},
	}
}

// SecurityHeaders returns a middleware that adds security headers to responses.
func SecurityHeaders(cfg SecurityHeadersConfig) func(http.Handler) http.Handler {
	hsts := ""
	if !cfg.IsDevelopment && cfg.HSTSMaxAge > 0 {
		hsts = "max-age=" + strconv.Itoa(cfg.HSTSMaxAge)
		if cfg.HSTSIncludeSubDomains {
			hsts += "; includeSubDomains"
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range cfg.ExcludePaths {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			h := w.Header()
			if cfg.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}
			if hsts != "" {
				h.Set("Strict-Transport-Security", hsts)
			}
			if cfg.FrameOptions != "" {
				h.Set("X-Frame-Options", cfg.FrameOptions)
			}
			h.Set("X-Content-Type-Options", "nosniff")
			if cfg.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", cfg.ReferrerPolicy)
			}
			if cfg.PermissionsPolicy != "" {
				h.Set("Permissions-Policy", cfg.PermissionsPolicy)
			}

			next.ServeHTTP(w, r)
		})
	}
}
