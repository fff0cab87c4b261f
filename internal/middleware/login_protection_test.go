// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/olegiv/mentoreu-go/internal/testutil"
)

func newTestLoginProtection(t *testing.T) (*LoginProtection, *time.Time) {
	t.Helper()
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	lp := NewLoginProtection(LoginProtectionConfig{
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     10 * time.Minute,
	}, testutil.TestLogger())
	lp.now = func() time.Time { return now }
	t.Cleanup(lp.Stop)
	return lp, &now
}

func TestLoginProtection_Lockout(t *testing.T) {
	lp, now := newTestLoginProtection(t)
	email := "admin@mentoreu.com"

	if got := lp.RemainingAttempts(email); got != 3 {
		t.Errorf("RemainingAttempts = %d, want 3", got)
	}

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(" ADMIN@mentoreu.com ")
	if got := lp.RemainingAttempts(email); got != 1 {
		t.Errorf("RemainingAttempts = %d, want 1", got)
	}

	locked, d := lp.RecordFailedAttempt(email)
	if !locked || d != time.Minute {
		t.Fatalf("RecordFailedAttempt = %v, %v; want locked for 1m", locked, d)
	}
	if locked, _ := lp.IsAccountLocked(email); !locked {
		t.Error("account should be locked")
	}

	*now = now.Add(2 * time.Minute)
	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("lock should have expired")
	}

	// The second lockout doubles.
	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	_, d = lp.RecordFailedAttempt(email)
	if d != 2*time.Minute {
		t.Errorf("second lockout = %v, want 2m", d)
	}
}

func TestLoginProtection_WindowResets(t *testing.T) {
	lp, now := newTestLoginProtection(t)
	email := "admin@mentoreu.com"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	*now = now.Add(11 * time.Minute)

	if locked, _ := lp.RecordFailedAttempt(email); locked {
		t.Error("attempts outside the window should not count")
	}
	if got := lp.RemainingAttempts(email); got != 2 {
		t.Errorf("RemainingAttempts = %d, want 2", got)
	}
}

func TestLoginProtection_SuccessClears(t *testing.T) {
	lp, _ := newTestLoginProtection(t)
	email := "admin@mentoreu.com"

	lp.RecordFailedAttempt(email)
	lp.RecordSuccessfulLogin(email)
	if got := lp.RemainingAttempts(email); got != 3 {
		t.Errorf("RemainingAttempts = %d, want 3", got)
	}
}

func TestLoginProtection_CleanupStaleEntries(t *testing.T) {
	lp, now := newTestLoginProtection(t)
	lp.RecordFailedAttempt("a@example.com")
	*now = now.Add(time.Hour)
	lp.cleanupStaleEntries()

	lp.attemptsMu.RLock()
	n := len(lp.failedAttempts)
	lp.attemptsMu.RUnlock()
	if n != 0 {
		t.Errorf("%d stale entries left", n)
	}
}

func TestLoginProtection_Middleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 1}, testutil.TestLogger())
	defer lp.Stop()
	h := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for _, method := range []string{http.MethodPost, http.MethodPost, http.MethodGet} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(method, "/admin/api/login", nil))
		codes = append(codes, rr.Code)
	}

	want := []int{http.StatusOK, http.StatusTooManyRequests, http.StatusOK}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d status = %d, want %d", i, codes[i], want[i])
		}
	}
}
