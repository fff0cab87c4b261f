// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for language selection,
// authentication, rate limiting and request hardening.
package middleware

import (
	"context"
	"net/http"

	"github.com/olegiv/mentoreu-go/internal/locale"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyLanguage holds the active locale.Lang.
const ContextKeyLanguage ContextKey = "language"

// LanguageCookieName is the cookie name for language preference.
const LanguageCookieName = "mentoreu_lang"

// LanguageCookieMaxAge keeps an explicit choice for a year.
const LanguageCookieMaxAge = 365 * 24 * 60 * 60

// Language detects the active language in this order:
//  1. ?lang= query parameter (also stored in the cookie)
//  2. the language cookie
//  3. the Accept-Language header
//  4. Turkish
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := DetectLanguage(r)
		if q := r.URL.Query().Get("lang"); q != "" {
			if l, ok := locale.ParseLang(q); ok {
				SetLanguageCookie(w, r, l)
			}
		}
		next.ServeHTTP(w, r.WithContext(WithLanguage(r.Context(), lang)))
	})
}

// DetectLanguage applies the detection order without touching the response.
func DetectLanguage(r *http.Request) locale.Lang {
	if l, ok := locale.ParseLang(r.URL.Query().Get("lang")); ok {
		return l
	}
	if c, err := r.Cookie(LanguageCookieName); err == nil {
		if l, ok := locale.ParseLang(c.Value); ok {
			return l
		}
	}
	return locale.Match(r.Header.Get("Accept-Language"))
}

// WithLanguage stores lang in ctx.
func WithLanguage(ctx context.Context, lang locale.Lang) context.Context {
	return context.WithValue(ctx, ContextKeyLanguage, lang)
}

// GetLanguage returns the request language, or Turkish when none was set.
func GetLanguage(r *http.Request) locale.Lang {
	if lang, ok := r.Context().Value(ContextKeyLanguage).(locale.Lang); ok {
		return lang
	}
	return locale.Base
}

// SetLanguageCookie sets the language preference cookie.
func SetLanguageCookie(w http.ResponseWriter, r *http.Request, lang locale.Lang) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    string(lang),
		Path:     "/",
		MaxAge:   LanguageCookieMaxAge,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
