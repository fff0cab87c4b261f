// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/olegiv/mentoreu-go/internal/locale"
	"github.com/olegiv/mentoreu-go/internal/logging"
	"github.com/olegiv/mentoreu-go/internal/service"
	"github.com/olegiv/mentoreu-go/internal/store"
)

// maxPopupDelay caps the configurable popup delay in seconds.
const maxPopupDelay = 3600

var sectionTypes = []string{
	store.SectionHero,
	store.SectionFeature,
	store.SectionHowItWorks,
	store.SectionFAQ,
	store.SectionFooter,
}

// ContentHandler manages the admin-editable landing content. Every write
// invalidates the cached landing content.
type ContentHandler struct {
	queries *store.Queries
	content *service.ContentService
	events  *service.EventService
	logger  *slog.Logger
	now     func() time.Time
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(db *sql.DB, content *service.ContentService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		queries: store.New(db),
		content: content,
		events:  service.NewEventService(db),
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// =============================================================================
// GENERIC WRITE HELPERS
// =============================================================================

// saveEntity decodes a Req body, validates it and stores it with save.
// validate returns field errors keyed by JSON field name.
func saveEntity[Req any, T any](
	h *ContentHandler,
	w http.ResponseWriter,
	r *http.Request,
	entityName string,
	status int,
	validate func(*Req) map[string]string,
	save func(ctx context.Context, req Req) (T, error),
) {
	var req Req
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := validate(&req); len(fields) > 0 {
		writeJSONFieldErrors(w, "Invalid "+entityName, fields)
		return
	}

	entity, err := save(r.Context(), req)
	if err != nil {
		writeStoreError(w, h.logger, entityName, err)
		return
	}

	h.changed(r.Context(), entityName+" saved")
	writeJSONStatus(w, status, map[string]any{entityName: entity})
}

// deleteEntity removes the entity named by the {id} URL parameter.
func deleteEntity(h *ContentHandler, w http.ResponseWriter, r *http.Request, entityName string, del func(ctx context.Context, id string) error) {
	id := chi.URLParam(r, paramID)
	if err := del(r.Context(), id); err != nil {
		writeStoreError(w, h.logger, entityName, err)
		return
	}
	h.changed(r.Context(), entityName+" deleted")
	writeJSONSuccess(w, nil)
}

func (h *ContentHandler) changed(ctx context.Context, message string) {
	h.content.Invalidate(ctx)
	h.events.LogEvent(ctx, logging.LevelInfo, logging.CategorySystem, "Content changed: "+message, nil)
}

func activeOrDefault(v *bool) bool {
	return v == nil || *v
}

func requireText(fields map[string]string, name string, t locale.Text) {
	if strings.TrimSpace(t.TR) == "" {
		fields[name] = "Turkish text is required"
	}
}

func validLink(fields map[string]string, name, link string) {
	if link != "" && !safeRedirect(link) {
		fields[name] = "must be a relative path or an http(s) URL"
	}
}

// =============================================================================
// LANDING SECTIONS
// =============================================================================

type sectionRequest struct {
	SectionKey  string      `json:"section_key"`
	SectionType string      `json:"section_type"`
	Title       locale.Text `json:"title"`
	Subtitle    locale.Text `json:"subtitle"`
	Content     locale.Text `json:"content"`
	ButtonText  locale.Text `json:"button_text"`
	ImageURL    string      `json:"image_url"`
	ButtonLink  string      `json:"button_link"`
	Icon        string      `json:"icon"`
	OrderNumber int64       `json:"order_number"`
	IsActive    *bool       `json:"is_active"`
}

func validateSection(req *sectionRequest) map[string]string {
	fields := make(map[string]string)
	req.SectionKey = strings.TrimSpace(req.SectionKey)
	if req.SectionKey == "" {
		fields["section_key"] = "required"
	}
	if !slices.Contains(sectionTypes, req.SectionType) {
		fields["section_type"] = "must be one of " + strings.Join(sectionTypes, ", ")
	}
	requireText(fields, "title", req.Title)
	validLink(fields, "button_link", req.ButtonLink)
	return fields
}

func (h *ContentHandler) sectionParams(id string, req sectionRequest) store.UpsertLandingSectionParams {
	return store.UpsertLandingSectionParams{
		ID:          id,
		SectionKey:  req.SectionKey,
		SectionType: req.SectionType,
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Content:     req.Content,
		ButtonText:  req.ButtonText,
		ImageURL:    strings.TrimSpace(req.ImageURL),
		ButtonLink:  strings.TrimSpace(req.ButtonLink),
		Icon:        strings.TrimSpace(req.Icon),
		OrderNumber: req.OrderNumber,
		IsActive:    activeOrDefault(req.IsActive),
		Now:         h.now(),
	}
}

// ListSections handles GET /admin/sections.
func (h *ContentHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.queries.ListLandingSections(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to list sections", "error", err)
		return
	}
	writeJSONSuccess(w, map[string]any{"sections": nonNil(sections)})
}

// GetSection handles GET /admin/sections/{id}.
func (h *ContentHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	s, ok := requireEntity(w, r, h.logger, "section", h.queries.GetLandingSection)
	if !ok {
		return
	}
	writeJSONSuccess(w, map[string]any{"section": s})
}

// CreateSection handles POST /admin/sections.
func (h *ContentHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	saveEntity(h, w, r, "section", http.StatusCreated, validateSection,
		func(ctx context.Context, req sectionRequest) (store.LandingSection, error) {
			return h.queries.CreateLandingSection(ctx, h.sectionParams(uuid.New().String(), req))
		})
}

// UpdateSection handles PUT /admin/sections/{id}.
func (h *ContentHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, paramID)
	saveEntity(h, w, r, "section", http.StatusOK, validateSection,
		func(ctx context.Context, req sectionRequest) (store.LandingSection, error) {
			return h.queries.UpdateLandingSection(ctx, h.sectionParams(id, req))
		})
}

// DeleteSection handles DELETE /admin/sections/{id}.
func (h *ContentHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h, w, r, "section", h.queries.DeleteLandingSection)
}

// =============================================================================
// EDUCATION COUNTRIES
// =============================================================================

type countryRequest struct {
	Name        locale.Text `json:"name"`
	FlagEmoji   string      `json:"flag_emoji"`
	LinkURL     string      `json:"link_url"`
	OrderNumber int64       `json:"order_number"`
	IsActive    *bool       `json:"is_active"`
}

func validateCountry(req *countryRequest) map[string]string {
	fields := make(map[string]string)
	requireText(fields, "name", req.Name)
	validLink(fields, "link_url", req.LinkURL)
	return fields
}

func (h *ContentHandler) countryParams(id string, req countryRequest) store.UpsertEducationCountryParams {
	return store.UpsertEducationCountryParams{
		ID:          id,
		Name:        req.Name,
		FlagEmoji:   strings.TrimSpace(req.FlagEmoji),
		LinkURL:     strings.TrimSpace(req.LinkURL),
		OrderNumber: req.OrderNumber,
		IsActive:    activeOrDefault(req.IsActive),
		Now:         h.now(),
	}
}

// ListCountries handles GET /admin/countries.
func (h *ContentHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.queries.ListEducationCountries(r.Context(), false)
	if err != nil {
		logAndInternalError(w, h.logger, "failed to list countries", "error", err)
		return
	}
	writeJSONSuccess(w, map[string]any{"countries": nonNil(countries)})
}

// CreateCountry handles POST /admin/countries.
func (h *ContentHandler) CreateCountry(w http.ResponseWriter, r *http.Request) {
	saveEntity(h, w, r, "country", http.StatusCreated, validateCountry,
		func(ctx context.Context, req countryRequest) (store.EducationCountry, error) {
			return h.queries.CreateEducationCountry(ctx, h.countryParams(uuid.New().String(), req))
		})
}

// UpdateCountry handles PUT /admin/countries/{id}.
func (h *ContentHandler) UpdateCountry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, paramID)
	saveEntity(h, w, r, "country", http.StatusOK, validateCountry,
		func(ctx context.Context, req countryRequest) (store.EducationCountry, error) {
			return h.queries.UpdateEducationCountry(ctx, h.countryParams(id, req))
		})
}

// DeleteCountry handles DELETE /admin/countries/{id}.
func (h *ContentHandler) DeleteCountry(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h, w, r, "country", h.queries.DeleteEducationCountry)
}

// =============================================================================
// POPUPS
// =============================================================================

type popupRequest struct {
	Title      locale.Text `json:"title"`
	Content    locale.Text `json:"content"`
	ButtonText locale.Text `json:"button_text"`
	ButtonLink string      `json:"button_link"`
	ShowDelay  int64       `json:"show_delay"`
	IsActive   *bool       `json:"is_active"`
}

func validatePopup(req *popupRequest) map[string]string {
	fields := make(map[string]string)
	requireText(fields, "title", req.Title)
	validLink(fields, "button_link", req.ButtonLink)
	if req.ShowDelay < 0 || req.ShowDelay > maxPopupDelay {
		fields["show_delay"] = "must be between 0 and 3600 seconds"
	}
	return fields
}

func (h *ContentHandler) popupParams(id string, req popupRequest) store.UpsertPopupParams {
	return store.UpsertPopupParams{
		ID:         id,
		Title:      req.Title,
		Content:    req.Content,
		ButtonText: req.ButtonText,
		ButtonLink: strings.TrimSpace(req.ButtonLink),
		ShowDelay:  req.ShowDelay,
		IsActive:   activeOrDefault(req.IsActive),
		Now:        h.now(),
	}
}

// ListPopups handles GET /admin/popups.
func (h *ContentHandler) ListPopups(w http.ResponseWriter, r *http.Request) {
	popups, err := h.queries.ListPopups(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to list popups", "error", err)
		return
	}
	writeJSONSuccess(w, map[string]any{"popups": nonNil(popups)})
}

// GetPopup handles GET /admin/popups/{id}.
func (h *ContentHandler) GetPopup(w http.ResponseWriter, r *http.Request) {
	p, ok := requireEntity(w, r, h.logger, "popup", h.queries.GetPopup)
	if !ok {
		return
	}
	writeJSONSuccess(w, map[string]any{"popup": p})
}

// CreatePopup handles POST /admin/popups.
func (h *ContentHandler) CreatePopup(w http.ResponseWriter, r *http.Request) {
	saveEntity(h, w, r, "popup", http.StatusCreated, validatePopup,
		func(ctx context.Context, req popupRequest) (store.Popup, error) {
			return h.queries.CreatePopup(ctx, h.popupParams(uuid.New().String(), req))
		})
}

// UpdatePopup handles PUT /admin/popups/{id}.
func (h *ContentHandler) UpdatePopup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, paramID)
	saveEntity(h, w, r, "popup", http.StatusOK, validatePopup,
		func(ctx context.Context, req popupRequest) (store.Popup, error) {
			return h.queries.UpdatePopup(ctx, h.popupParams(id, req))
		})
}

// DeletePopup handles DELETE /admin/popups/{id}.
func (h *ContentHandler) DeletePopup(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h, w, r, "popup", h.queries.DeletePopup)
}

// =============================================================================
// FORM OPTIONS
// =============================================================================

type educationOptionRequest struct {
	OptionText  locale.Text `json:"option_text"`
	OrderNumber int64       `json:"order_number"`
	IsActive    *bool       `json:"is_active"`
}

func validateEducationOption(req *educationOptionRequest) map[string]string {
	fields := make(map[string]string)
	requireText(fields, "option_text", req.OptionText)
	return fields
}

func (h *ContentHandler) educationOptionParams(id string, req educationOptionRequest) store.UpsertEducationOptionParams {
	return store.UpsertEducationOptionParams{
		ID:          id,
		OptionText:  req.OptionText,
		OrderNumber: req.OrderNumber,
		IsActive:    activeOrDefault(req.IsActive),
		Now:         h.now(),
	}
}

// ListEducationOptions handles GET /admin/form/education-options.
func (h *ContentHandler) ListEducationOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.queries.ListEducationOptions(r.Context(), false)
	if err != nil {
		logAndInternalError(w, h.logger, "failed to list education options", "error", err)
		return
	}
	writeJSONSuccess(w, map[string]any{"options": nonNil(opts)})
}

// CreateEducationOption handles POST /admin/form/education-options.
func (h *ContentHandler) CreateEducationOption(w http.ResponseWriter, r *http.Request) {
	saveEntity(h, w, r, "option", http.StatusCreated, validateEducationOption,
		func(ctx context.Context, req educationOptionRequest) (store.EducationOption, error) {
			return h.queries.CreateEducationOption(ctx, h.educationOptionParams(uuid.New().String(), req))
		})
}

// UpdateEducationOption handles PUT /admin/form/education-options/{id}.
func (h *ContentHandler) UpdateEducationOption(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, paramID)
	saveEntity(h, w, r, "option", http.StatusOK, validateEducationOption,
		func(ctx context.Context, req educationOptionRequest) (store.EducationOption, error) {
			return h.queries.UpdateEducationOption(ctx, h.educationOptionParams(id, req))
		})
}

// DeleteEducationOption handles DELETE /admin/form/education-options/{id}.
func (h *ContentHandler) DeleteEducationOption(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h, w, r, "option", h.queries.DeleteEducationOption)
}

type countryOptionRequest struct {
	Name        locale.Text `json:"name"`
	FlagEmoji   string      `json:"flag_emoji"`
	OrderNumber int64       `json:"order_number"`
	IsActive    *bool       `json:"is_active"`
}

func validateCountryOption(req *countryOptionRequest) map[string]string {
	fields := make(map[string]string)
	requireText(fields, "name", req.Name)
	return fields
}

func (h *ContentHandler) countryOptionParams(id string, req countryOptionRequest) store.UpsertCountryOptionParams {
	return store.UpsertCountryOptionParams{
		ID:          id,
		Name:        req.Name,
		FlagEmoji:   strings.TrimSpace(req.FlagEmoji),
		OrderNumber: req.OrderNumber,
		IsActive:    activeOrDefault(req.IsActive),
		Now:         h.now(),
	}
}

// ListCountryOptions handles GET /admin/form/country-options.
func (h *ContentHandler) ListCountryOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.queries.ListCountryOptions(r.Context(), false)
	if err != nil {
		logAndInternalError(w, h.logger, "failed to list country options", "error", err)
		return
	}
	writeJSONSuccess(w, map[string]any{"options": nonNil(opts)})
}

// CreateCountryOption handles POST /admin/form/country-options.
func (h *ContentHandler) CreateCountryOption(w http.ResponseWriter, r *http.Request) {
	saveEntity(h, w, r, "option", http.StatusCreated, validateCountryOption,
		func(ctx context.Context, req countryOptionRequest) (store.CountryOption, error) {
			return h.queries.CreateCountryOption(ctx, h.countryOptionParams(uuid.New().String(), req))
		})
}

// UpdateCountryOption handles PUT /admin/form/country-options/{id}.
func (h *ContentHandler) UpdateCountryOption(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, paramID)
	saveEntity(h, w, r, "option", http.StatusOK, validateCountryOption,
		func(ctx context.Context, req countryOptionRequest) (store.CountryOption, error) {
			return h.queries.UpdateCountryOption(ctx, h.countryOptionParams(id, req))
		})
}

// DeleteCountryOption handles DELETE /admin/form/country-options/{id}.
func (h *ContentHandler) DeleteCountryOption(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h, w, r, "option", h.queries.DeleteCountryOption)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
