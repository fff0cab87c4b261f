// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/mentoreu-go/internal/geoip"
	"github.com/olegiv/mentoreu-go/internal/i18n"
	"github.com/olegiv/mentoreu-go/internal/lead"
	"github.com/olegiv/mentoreu-go/internal/locale"
	"github.com/olegiv/mentoreu-go/internal/metrics"
	"github.com/olegiv/mentoreu-go/internal/middleware"
	"github.com/olegiv/mentoreu-go/internal/popup"
	"github.com/olegiv/mentoreu-go/internal/render"
	"github.com/olegiv/mentoreu-go/internal/service"
	"github.com/olegiv/mentoreu-go/internal/store"
	"github.com/olegiv/mentoreu-go/internal/util"
	"github.com/olegiv/mentoreu-go/internal/whatsapp"
)

// honeypotField is a hidden input that people never fill in.
const honeypotField = "_website"

const blogPageSize = 50

// FrontendHandler serves the public site.
type FrontendHandler struct {
	content       *service.ContentService
	posts         *service.PostService
	submitter     *lead.Submitter
	renderer      *render.Renderer
	geo           *geoip.Lookup
	successWindow time.Duration
	logger        *slog.Logger
}

// FrontendConfig holds the dependencies of FrontendHandler. GeoIP may be nil.
type FrontendConfig struct {
	Content       *service.ContentService
	Posts         *service.PostService
	Submitter     *lead.Submitter
	Renderer      *render.Renderer
	GeoIP         *geoip.Lookup
	SuccessWindow time.Duration
	Logger        *slog.Logger
}

// NewFrontendHandler creates a FrontendHandler.
func NewFrontendHandler(cfg FrontendConfig) *FrontendHandler {
	window := cfg.SuccessWindow
	if window <= 0 {
		window = lead.DefaultSuccessWindow
	}
	return &FrontendHandler{
		content:       cfg.Content,
		posts:         cfg.Posts,
		submitter:     cfg.Submitter,
		renderer:      cfg.Renderer,
		geo:           cfg.GeoIP,
		successWindow: window,
		logger:        cfg.Logger,
	}
}

// LandingPage is the data of the landing template.
type LandingPage struct {
	service.Landing
	Popup          *service.PopupView
	Values         lead.FormState
	Invalid        map[string]bool
	ErrorMessage   string
	Success        bool
	SuccessSeconds int
	FollowUpLink   string
}

// Landing renders the home page.
func (h *FrontendHandler) Landing(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	c, err := h.content.Load(r.Context())
	if err != nil {
		h.logger.Error("failed to load landing content", "error", err)
		h.renderError(w, r, http.StatusInternalServerError)
		return
	}

	page := h.landingPage(r.Context(), w, r, c, lang)
	h.renderLanding(w, r, http.StatusOK, page)
}

// SubmitLead handles the lead form post and re-renders the landing page
// with either the success banner or the entered values and an error.
func (h *FrontendHandler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest)
		return
	}

	c, err := h.content.Load(r.Context())
	if err != nil {
		h.logger.Error("failed to load landing content", "error", err)
		h.renderError(w, r, http.StatusInternalServerError)
		return
	}
	page := h.landingPage(r.Context(), w, r, c, lang)

	if strings.TrimSpace(r.PostFormValue(honeypotField)) != "" {
		h.logger.Info("lead honeypot triggered", "ip", util.ClientIP(r))
		page.Success = true
		page.SuccessSeconds = int(h.successWindow.Seconds())
		h.renderLanding(w, r, http.StatusOK, page)
		return
	}

	flow := lead.NewFlow(h.submitter, h.successWindow)
	flow.Form = formFromRequest(r)
	submitted := c.Catalog.Canonical(flow.Form.Normalized())

	err = flow.Submit(r.Context(), c.Catalog, h.meta(r, lang))
	page.Values = flow.Form

	if err == nil {
		page.Success = true
		page.SuccessSeconds = int(flow.SuccessWindow().Seconds())
		page.FollowUpLink = whatsapp.FollowUpLink(c.WhatsApp, store.Lead{
			Name:          submitted.FullName,
			Email:         submitted.Email,
			TargetCountry: submitted.TargetCountries,
		})
		h.renderLanding(w, r, http.StatusOK, page)
		return
	}

	if verr := flow.Invalid(); verr != nil {
		page.ErrorMessage = i18n.T(lang, "form.error.required")
		for _, f := range verr.Fields {
			page.Invalid[f] = true
		}
		h.renderLanding(w, r, http.StatusUnprocessableEntity, page)
		return
	}

	h.logger.Error("lead submission failed", "error", err)
	status, msg := submissionFailure(lang, err)
	page.ErrorMessage = msg
	h.renderLanding(w, r, status, page)
}

// submissionFailure maps a failed lead save to a status code and a
// localized message for its category. The datastore error is only logged.
func submissionFailure(lang locale.Lang, err error) (int, string) {
	var perr *lead.PersistenceError
	if !errors.As(err, &perr) {
		return http.StatusInternalServerError, i18n.T(lang, "form.error.generic")
	}
	switch reason := perr.Reason(); reason {
	case lead.ReasonTimeout, lead.ReasonBusy:
		return http.StatusServiceUnavailable, i18n.T(lang, "form.error."+reason)
	case lead.ReasonRejected:
		return http.StatusInternalServerError, i18n.T(lang, "form.error."+reason)
	default:
		return http.StatusInternalServerError, i18n.T(lang, "form.error.generic")
	}
}

// RateLimited re-renders the landing page when a visitor posts the lead
// form too often.
func (h *FrontendHandler) RateLimited(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	c, err := h.content.Load(r.Context())
	if err != nil {
		h.logger.Error("failed to load landing content", "error", err)
		h.renderError(w, r, http.StatusTooManyRequests)
		return
	}

	page := h.landingPage(r.Context(), w, r, c, lang)
	if err := r.ParseForm(); err == nil {
		page.Values = formFromRequest(r)
	}
	page.ErrorMessage = i18n.T(lang, "form.error.rate_limited")
	h.renderLanding(w, r, http.StatusTooManyRequests, page)
}

// DismissPopup records that the visitor closed a popup. A post with cta=1
// follows the popup's button link afterwards.
func (h *FrontendHandler) DismissPopup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, paramID)
	c, err := h.content.Load(r.Context())
	if err != nil {
		h.logger.Error("failed to load popups", "error", err)
		h.renderError(w, r, http.StatusInternalServerError)
		return
	}

	p, ok := findPopup(c.Popups, id)
	if !ok {
		h.renderError(w, r, http.StatusNotFound)
		return
	}

	popup.NewTracker(popup.NewCookieStore(w, r)).MarkDismissed(r.Context(), p.ID)
	metrics.RecordPopupDismissal()

	target := RouteRoot
	if r.PostFormValue("cta") == "1" && safeRedirect(p.ButtonLink) {
		target = p.ButtonLink
		if strings.HasPrefix(target, "#") {
			target = RouteRoot + target
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// BlogListPage is the data of the blog index template.
type BlogListPage struct {
	Posts []service.PostView
}

// Blog lists published posts.
func (h *FrontendHandler) Blog(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	posts, err := h.posts.Published(r.Context(), lang, blogPageSize)
	if err != nil {
		h.logger.Error("failed to list posts", "error", err)
		h.renderError(w, r, http.StatusInternalServerError)
		return
	}

	h.render(w, r, http.StatusOK, "blog_list", render.TemplateData{
		Title: i18n.T(lang, "blog.title"),
		Lang:  lang,
		Data:  BlogListPage{Posts: posts},
	})
}

// BlogPost renders one published post.
func (h *FrontendHandler) BlogPost(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetLanguage(r)
	post, err := h.posts.BySlug(r.Context(), lang, chi.URLParam(r, paramSlug))
	if errors.Is(err, service.ErrPostNotFound) {
		h.renderError(w, r, http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to load post", "error", err)
		h.renderError(w, r, http.StatusInternalServerError)
		return
	}

	title := post.MetaTitle
	if title == "" {
		title = post.Title
	}
	h.render(w, r, http.StatusOK, "blog_post", render.TemplateData{
		Title:       title,
		Description: post.MetaDescription,
		Lang:        lang,
		Data:        post,
	})
}

// NotFound renders the 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound)
}

func (h *FrontendHandler) landingPage(ctx context.Context, w http.ResponseWriter, r *http.Request, c service.Content, lang locale.Lang) LandingPage {
	return LandingPage{
		Landing: service.ResolveLanding(c, lang),
		Popup:   service.ResolvePopup(ctx, c, popup.NewCookieStore(w, r), lang),
		Values:  lead.FormState{TargetCountries: []string{}},
		Invalid: make(map[string]bool),
	}
}

func (h *FrontendHandler) renderLanding(w http.ResponseWriter, r *http.Request, status int, page LandingPage) {
	data := render.TemplateData{
		Title: "MentorEU",
		Lang:  page.Lang,
		Data:  page,
	}
	if page.Hero != nil {
		data.Title = page.Hero.Title
		data.Description = page.Hero.Subtitle
	}
	h.render(w, r, status, "landing", data)
}

func (h *FrontendHandler) renderError(w http.ResponseWriter, r *http.Request, status int) {
	lang := middleware.GetLanguage(r)
	key := "error.server"
	if status == http.StatusNotFound {
		key = "error.not_found"
	}
	msg := i18n.T(lang, key)
	h.render(w, r, status, "error", render.TemplateData{
		Title: http.StatusText(status),
		Lang:  lang,
		Data:  msg,
	})
}

func (h *FrontendHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data render.TemplateData) {
	if err := h.renderer.Render(w, r, status, name, data); err != nil {
		h.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *FrontendHandler) meta(r *http.Request, lang locale.Lang) lead.Meta {
	ip := util.ClientIP(r)
	m := lead.Meta{
		Language:  string(lang),
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
	if h.geo != nil {
		m.CountryCode = h.geo.Country(ip)
	}
	return m
}

func formFromRequest(r *http.Request) lead.FormState {
	countries := r.PostForm[lead.FieldTargetCountry]
	if countries == nil {
		countries = []string{}
	}
	return lead.FormState{
		FullName:        r.PostFormValue(lead.FieldFullName),
		Email:           r.PostFormValue(lead.FieldEmail),
		Phone:           r.PostFormValue(lead.FieldPhone),
		EducationStatus: r.PostFormValue(lead.FieldEducationStatus),
		TargetCountries: countries,
		Message:         r.PostFormValue("message"),
	}
}

func findPopup(popups []store.Popup, id string) (store.Popup, bool) {
	for _, p := range popups {
		if p.ID == id {
			return p, true
		}
	}
	return store.Popup{}, false
}

// safeRedirect accepts site-relative paths, fragments and absolute http(s)
// links.
func safeRedirect(link string) bool {
	if link == "" {
		return false
	}
	if strings.HasPrefix(link, "#") {
		return true
	}
	if strings.HasPrefix(link, "/") {
		return !strings.HasPrefix(link, "//") && !strings.HasPrefix(link, "/\\")
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
