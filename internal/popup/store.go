// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package popup

import (
	"net/http"
	"sync"
	"time"
)

// CookieMaxAge keeps dismissal cookies for roughly ten years.
const CookieMaxAge = 10 * 365 * 24 * time.Hour

// CookieStore keeps dismissal flags in browser cookies. It is bound to a
// single request/response pair; values set during the request are visible
// to later reads of the same request.
type CookieStore struct {
	w   http.ResponseWriter
	r   *http.Request
	mu  sync.Mutex
	set map[string]string
}

// NewCookieStore creates a CookieStore for one request.
func NewCookieStore(w http.ResponseWriter, r *http.Request) *CookieStore {
	return &CookieStore{w: w, r: r, set: make(map[string]string)}
}

// Get returns the cookie value for key.
func (c *CookieStore) Get(key string) (string, bool) {
	c.mu.Lock()
	v, ok := c.set[key]
	c.mu.Unlock()
	if ok {
		return v, true
	}

	cookie, err := c.r.Cookie(key)
	if err != nil {
		return "", false
	}
	return cookie.Value, true
}

// Set writes a long-lived cookie.
func (c *CookieStore) Set(key, value string) {
	c.mu.Lock()
	c.set[key] = value
	c.mu.Unlock()

	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(CookieMaxAge / time.Second),
		Expires:  time.Now().Add(CookieMaxAge),
		HttpOnly: true,
		Secure:   c.r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// MemoryStore is an in-process DismissalStore.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}
