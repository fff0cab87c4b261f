// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/mentoreu-go/internal/cache"
	"github.com/olegiv/mentoreu-go/internal/scheduler"
	"github.com/olegiv/mentoreu-go/internal/service"
)

// SystemHandler exposes the event log, scheduled jobs and the cache to
// admins.
type SystemHandler struct {
	events       *service.EventService
	scheduler    *scheduler.Scheduler
	content      *service.ContentService
	cache        cache.Cacher
	cacheBackend string
	logger       *slog.Logger
}

// SystemConfig holds the dependencies of SystemHandler.
type SystemConfig struct {
	Events       *service.EventService
	Scheduler    *scheduler.Scheduler
	Content      *service.ContentService
	Cache        cache.Cacher
	CacheBackend string
	Logger       *slog.Logger
}

// NewSystemHandler creates a SystemHandler.
func NewSystemHandler(cfg SystemConfig) *SystemHandler {
	return &SystemHandler{
		events:       cfg.Events,
		scheduler:    cfg.Scheduler,
		content:      cfg.Content,
		cache:        cfg.Cache,
		cacheBackend: cfg.CacheBackend,
		logger:       cfg.Logger,
	}
}

// Events handles GET /admin/events?level=&limit=&offset=.
func (h *SystemHandler) Events(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50, 1, 200)
	offset := queryInt(r, "offset", 0, 0, 1<<31)

	events, err := h.events.List(r.Context(), r.URL.Query().Get("level"), limit, offset)
	if err != nil {
		logAndInternalError(w, h.logger, "failed to list events", "error", err)
		return
	}
	writeJSONSuccess(w, map[string]any{"events": nonNil(events), "limit": limit, "offset": offset})
}

// Jobs handles GET /admin/jobs.
func (h *SystemHandler) Jobs(w http.ResponseWriter, _ *http.Request) {
	writeJSONSuccess(w, map[string]any{"jobs": nonNil(h.scheduler.List())})
}

// RunJob handles POST /admin/jobs/{name}/run.
func (h *SystemHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, paramName)
	err := h.scheduler.TriggerNow(r.Context(), name)
	if errors.Is(err, scheduler.ErrJobNotFound) {
		writeJSONError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		h.logger.Warn("manual job run failed", "name", name, "error", err)
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	h.events.LogSystemEvent(r.Context(), "Job triggered manually", map[string]any{"job": name})
	writeJSONSuccess(w, nil)
}

// CacheStats handles GET /admin/cache.
func (h *SystemHandler) CacheStats(w http.ResponseWriter, _ *http.Request) {
	data := map[string]any{"backend": h.cacheBackend}
	if sp, ok := h.cache.(cache.StatsProvider); ok {
		data["stats"] = sp.Stats()
	}
	writeJSONSuccess(w, data)
}

// ClearCache handles DELETE /admin/cache.
func (h *SystemHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if err := h.cache.Clear(r.Context()); err != nil {
			logAndInternalError(w, h.logger, "failed to clear cache", "error", err)
			return
		}
	}
	h.content.Invalidate(r.Context())
	h.events.LogSystemEvent(r.Context(), "Cache cleared", map[string]any{"backend": h.cacheBackend})
	writeJSONSuccess(w, nil)
}
