// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/mentoreu-go/internal/session"
	"github.com/olegiv/mentoreu-go/internal/version"
)

// Health check states.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db         *sql.DB
	sm         *scs.SessionManager
	uploadsDir string
	version    *version.Info
	startTime  time.Time
}

// NewHealthHandler creates a new health handler. sm may be nil.
func NewHealthHandler(db *sql.DB, sm *scs.SessionManager, uploadsDir string, info *version.Info) *HealthHandler {
	return &HealthHandler{
		db:         db,
		sm:         sm,
		uploadsDir: uploadsDir,
		version:    info,
		startTime:  time.Now(),
	}
}

// HealthStatusPublic is the minimal health response for anonymous callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the detailed health response for logged-in admins.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /health. Anonymous callers only get the overall status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())
	diskCheck := h.checkDiskSpace()

	overall := statusHealthy
	if dbCheck.Status != statusHealthy {
		overall = statusUnhealthy
	} else if diskCheck.Status != statusHealthy {
		overall = statusDegraded
	}

	code := http.StatusOK
	if overall == statusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	if !h.isAdmin(r) {
		writeJSON(w, code, HealthStatusPublic{Status: overall})
		return
	}

	status := HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.String(),
		Checks: map[string]Check{
			"database": dbCheck,
			"disk":     diskCheck,
		},
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = systemInfo()
	}
	writeJSON(w, code, status)
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if check := h.checkDatabase(r.Context()); check.Status != statusHealthy {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// isAdmin reports whether the request carries an admin session. SCS panics
// when session data was not loaded into the context, which is treated as
// anonymous.
func (h *HealthHandler) isAdmin(r *http.Request) (ok bool) {
	if h.sm == nil {
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
		}
	}()
	return session.UserID(r.Context(), h.sm) > 0
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: statusUnhealthy, Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: statusHealthy, Message: "Connected", Latency: latency.String()}
}

// checkDiskSpace checks available disk space in the uploads directory.
func (h *HealthHandler) checkDiskSpace() Check {
	if _, err := os.Stat(h.uploadsDir); os.IsNotExist(err) {
		return Check{Status: statusHealthy, Message: "Uploads directory does not exist yet"}
	}

	var stat syscall.Statfs_t
	if err := syscall.Statfs(h.uploadsDir, &stat); err != nil {
		return Check{Status: statusDegraded, Message: "Failed to check disk space: " + err.Error()}
	}

	availableBytes := stat.Bavail * uint64(stat.Bsize) //nolint:gosec // block size is positive
	available := formatBytes(availableBytes)

	const minSpace = 100 * 1024 * 1024 // 100MB
	if availableBytes < minSpace {
		return Check{Status: statusDegraded, Message: "Low disk space: " + available + " available"}
	}
	return Check{Status: statusHealthy, Message: available + " available"}
}

func systemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes converts bytes to a human-readable string.
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
