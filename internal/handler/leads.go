// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/mentoreu-go/internal/lead"
	"github.com/olegiv/mentoreu-go/internal/service"
	"github.com/olegiv/mentoreu-go/internal/store"
)

// StatsWindow is the "recent leads" period of the dashboard.
const StatsWindow = 7 * 24 * time.Hour

// LeadsHandler serves the admin lead inbox.
type LeadsHandler struct {
	queries  *store.Queries
	events   *service.EventService
	location *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

// NewLeadsHandler creates a LeadsHandler. loc is the time zone of the CSV
// export dates.
func NewLeadsHandler(db *sql.DB, loc *time.Location, logger *slog.Logger) *LeadsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &LeadsHandler{
		queries:  store.New(db),
		events:   service.NewEventService(db),
		location: loc,
		logger:   logger,
		now:      time.Now,
	}
}

// List handles GET /admin/leads?q=&contacted=&limit=&offset=.
func (h *LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	leads, ok := h.filtered(w, r)
	if !ok {
		return
	}

	total := len(leads)
	limit := int(queryInt(r, "limit", 50, 1, 500))
	offset := int(queryInt(r, "offset", 0, 0, int64(total)))
	end := min(offset+limit, total)

	writeJSONSuccess(w, map[string]any{
		"leads":  leads[offset:end],
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// Get handles GET /admin/leads/{id}.
func (h *LeadsHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, ok := requireEntity(w, r, h.logger, "lead", h.queries.GetLead)
	if !ok {
		return
	}
	writeJSONSuccess(w, map[string]any{"lead": l})
}

type contactedRequest struct {
	Contacted bool `json:"contacted"`
}

// SetContacted handles PUT /admin/leads/{id}/contacted.
func (h *LeadsHandler) SetContacted(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, paramID)

	var req contactedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.queries.SetLeadContacted(r.Context(), id, req.Contacted); err != nil {
		writeStoreError(w, h.logger, "lead", err)
		return
	}

	h.events.LogLeadEvent(r.Context(), "Lead contact status changed", map[string]any{"lead_id": id, "contacted": req.Contacted})
	writeJSONSuccess(w, map[string]any{"id": id, "contacted": req.Contacted})
}

// Delete handles DELETE /admin/leads/{id}.
func (h *LeadsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, paramID)
	if err := h.queries.DeleteLead(r.Context(), id); err != nil {
		writeStoreError(w, h.logger, "lead", err)
		return
	}

	h.events.LogLeadEvent(r.Context(), "Lead deleted", map[string]any{"lead_id": id})
	writeJSONSuccess(w, nil)
}

// Export handles GET /admin/leads/export, honouring the same filters as List.
func (h *LeadsHandler) Export(w http.ResponseWriter, r *http.Request) {
	leads, ok := h.filtered(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+lead.ExportFilename(h.now().In(h.location))+`"`)
	if err := lead.WriteCSV(w, leads, h.location); err != nil {
		h.logger.Error("failed to write lead export", "error", err)
		return
	}
	h.events.LogLeadEvent(r.Context(), "Leads exported", map[string]any{"count": len(leads)})
}

// Stats handles GET /admin/stats.
func (h *LeadsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.queries.GetLeadStats(r.Context(), h.now().UTC().Add(-StatsWindow))
	if err != nil {
		logAndInternalError(w, h.logger, "failed to load lead stats", "error", err)
		return
	}
	posts, err := h.queries.CountPublishedPosts(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to count posts", "error", err)
		return
	}

	writeJSONSuccess(w, map[string]any{
		"total_leads":       stats.Total,
		"uncontacted_leads": stats.Uncontacted,
		"recent_leads":      stats.Recent,
		"published_posts":   posts,
	})
}

// filtered loads leads newest first and applies the q and contacted
// query parameters.
func (h *LeadsHandler) filtered(w http.ResponseWriter, r *http.Request) ([]store.Lead, bool) {
	leads, err := h.queries.ListLeads(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to list leads", "error", err)
		return nil, false
	}

	leads = lead.Filter(leads, r.URL.Query().Get("q"))

	switch r.URL.Query().Get("contacted") {
	case "":
	case "true", "1":
		leads = filterContacted(leads, true)
	case "false", "0":
		leads = filterContacted(leads, false)
	default:
		writeJSONError(w, http.StatusBadRequest, "contacted must be true or false")
		return nil, false
	}

	if leads == nil {
		leads = []store.Lead{}
	}
	return leads, true
}

func filterContacted(leads []store.Lead, contacted bool) []store.Lead {
	out := make([]store.Lead, 0, len(leads))
	for _, l := range leads {
		if l.Contacted == contacted {
			out = append(out, l)
		}
	}
	return out
}
