// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/mentoreu-go/internal/i18n"
	"github.com/olegiv/mentoreu-go/internal/lead"
	"github.com/olegiv/mentoreu-go/internal/metrics"
	"github.com/olegiv/mentoreu-go/internal/middleware"
	"github.com/olegiv/mentoreu-go/internal/popup"
	"github.com/olegiv/mentoreu-go/internal/service"
	"github.com/olegiv/mentoreu-go/internal/store"
	"github.com/olegiv/mentoreu-go/internal/util"
	"github.com/olegiv/mentoreu-go/internal/whatsapp"
)

// leadRequest is the JSON body of a lead submission.
type leadRequest struct {
	lead.FormState
	Website string `json:"_website"`
}

// LandingJSON handles GET /api/v1/landing.
func (h *FrontendHandler) LandingJSON(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	c, err := h.content.Load(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to load landing content", "error", err)
		return
	}

	writeJSONSuccess(w, map[string]any{
		"landing": service.ResolveLanding(c, lang),
		"popup":   service.ResolvePopup(r.Context(), c, popup.NewCookieStore(w, r), lang),
	})
}

// FormJSON handles GET /api/v1/form.
func (h *FrontendHandler) FormJSON(w http.ResponseWriter, r *http.Request) {
	c, err := h.content.Load(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to load form settings", "error", err)
		return
	}
	writeJSONSuccess(w, map[string]any{"form": service.ResolveForm(c, middleware.GetLanguage(r))})
}

// PopupJSON handles GET /api/v1/popup. The popup is null when there is
// nothing to show.
func (h *FrontendHandler) PopupJSON(w http.ResponseWriter, r *http.Request) {
	c, err := h.content.Load(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to load popups", "error", err)
		return
	}
	view := service.ResolvePopup(r.Context(), c, popup.NewCookieStore(w, r), middleware.GetLanguage(r))
	writeJSONSuccess(w, map[string]any{"popup": view})
}

// DismissPopupJSON handles POST /api/v1/popups/{id}/dismiss.
func (h *FrontendHandler) DismissPopupJSON(w http.ResponseWriter, r *http.Request) {
	c, err := h.content.Load(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to load popups", "error", err)
		return
	}

	p, ok := findPopup(c.Popups, chi.URLParam(r, paramID))
	if !ok {
		writeJSONError(w, http.StatusNotFound, "popup not found")
		return
	}

	popup.NewTracker(popup.NewCookieStore(w, r)).MarkDismissed(r.Context(), p.ID)
	metrics.RecordPopupDismissal()
	writeJSONSuccess(w, nil)
}

// SubmitLeadJSON handles POST /api/v1/leads.
func (h *FrontendHandler) SubmitLeadJSON(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)

	var req leadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Website) != "" {
		h.logger.Info("lead honeypot triggered", "ip", util.ClientIP(r))
		writeJSONStatus(w, http.StatusCreated, nil)
		return
	}

	c, err := h.content.Load(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to load lead catalog", "error", err)
		return
	}

	flow := lead.NewFlow(h.submitter, h.successWindow)
	flow.Form = req.FormState
	if flow.Form.TargetCountries == nil {
		flow.Form.TargetCountries = []string{}
	}
	submitted := c.Catalog.Canonical(flow.Form.Normalized())

	if err := flow.Submit(r.Context(), c.Catalog, h.meta(r, lang)); err != nil {
		if verr := flow.Invalid(); verr != nil {
			fields := make(map[string]string, len(verr.Fields))
			for _, f := range verr.Fields {
				fields[f] = "required"
			}
			writeJSONFieldErrors(w, i18n.T(lang, "form.error.required"), fields)
			return
		}
		h.logger.Error("lead submission failed", "error", err)
		status, msg := submissionFailure(lang, err)
		writeJSONError(w, status, msg)
		return
	}

	data := map[string]any{"id": flow.LeadID}
	link := whatsapp.FollowUpLink(c.WhatsApp, store.Lead{
		Name:          submitted.FullName,
		Email:         submitted.Email,
		TargetCountry: submitted.TargetCountries,
	})
	if link != "" {
		data["whatsapp_link"] = link
	}
	writeJSONStatus(w, http.StatusCreated, data)
}
