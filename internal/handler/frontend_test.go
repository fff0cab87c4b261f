// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/mentoreu-go/internal/locale"
	"github.com/olegiv/mentoreu-go/internal/middleware"
	"github.com/olegiv/mentoreu-go/internal/service"
	"github.com/olegiv/mentoreu-go/internal/store"
)

type failingLeadStore struct{}

func (failingLeadStore) CreateLead(context.Context, store.CreateLeadParams) (store.Lead, error) {
	return store.Lead{}, errors.New("disk I/O error")
}

func leadForm(overrides map[string][]string) url.Values {
	v := url.Values{
		"full_name":        {"Ayse Yilmaz"},
		"email":            {"ayse@example.com"},
		"phone":            {"+90 555 123 4567"},
		"education_status": {"Lise"},
		"target_country":   {"Almanya", "İtalya"},
		"message":          {"Merhaba"},
	}
	for k, val := range overrides {
		v[k] = val
	}
	return v
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLanding(t *testing.T) {
	env := newTestEnv(t)
	h := env.frontend(nil)

	tests := []struct {
		lang locale.Lang
		want string
	}{
		{locale.TR, "Ücretsiz Ön Değerlendirme İçin Başvurun"},
		{locale.EN, "Apply for a Free Assessment"},
		{locale.DE, "Jetzt kostenlose Erstberatung anfragen"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(middleware.WithLanguage(req.Context(), tt.lang))
			rr := httptest.NewRecorder()

			h.Landing(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			body := rr.Body.String()
			assert.Contains(t, body, `<html lang="`+string(tt.lang)+`"`)
			assert.Contains(t, body, tt.want)
			assert.Contains(t, body, `name="target_country"`)
			assert.NotContains(t, body, "banner-success")
		})
	}
}

func TestSubmitLead_Success(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.queries.SaveWhatsAppSettings(ctx, store.WhatsAppSettings{
		PhoneNumber: "+90 555 000 1122",
		IsEnabled:   true,
	}))
	h := env.frontend(nil)

	rr := httptest.NewRecorder()
	h.SubmitLead(rr, postForm("/leads", leadForm(nil)))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "banner-success")
	assert.Contains(t, body, `data-hide-after="30"`)
	assert.Contains(t, body, "https://wa.me/905550001122?text=")
	assert.NotContains(t, body, `value="Ayse Yilmaz"`, "form is reset after success")

	leads, err := env.queries.ListLeads(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Ayse Yilmaz", leads[0].Name)
	assert.Equal(t, []string{"Almanya", "İtalya"}, leads[0].TargetCountry)
	assert.Equal(t, "tr", leads[0].Language)
}

func TestSubmitLead_EnglishLabelsStoredInTurkish(t *testing.T) {
	env := newTestEnv(t)
	h := env.frontend(nil)

	form := leadForm(map[string][]string{
		"education_status": {"High School"},
		"target_country":   {"Germany"},
	})
	req := postForm("/leads", form)
	req = req.WithContext(middleware.WithLanguage(req.Context(), locale.EN))
	rr := httptest.NewRecorder()
	h.SubmitLead(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	leads, err := env.queries.ListLeads(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Lise", leads[0].EducationStatus)
	assert.Equal(t, []string{"Almanya"}, leads[0].TargetCountry)
	assert.Equal(t, "en", leads[0].Language)
}

func TestSubmitLead_Invalid(t *testing.T) {
	env := newTestEnv(t)
	h := env.frontend(nil)

	rr := httptest.NewRecorder()
	h.SubmitLead(rr, postForm("/leads", leadForm(map[string][]string{
		"phone":          {"   "},
		"target_country": nil,
	})))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "banner-error")
	assert.Contains(t, body, `value="Ayse Yilmaz"`, "entered values are kept")
	assert.Contains(t, body, `field invalid`)

	leads, err := env.queries.ListLeads(context.Background())
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestSubmitLead_PersistenceFailure(t *testing.T) {
	env := newTestEnv(t)
	h := env.frontend(failingLeadStore{})

	req := postForm("/leads", leadForm(nil))
	req = req.WithContext(middleware.WithLanguage(req.Context(), locale.EN))
	rr := httptest.NewRecorder()
	h.SubmitLead(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Something went wrong. Please try again later.")
	assert.Contains(t, body, `value="ayse@example.com"`)
	assert.NotContains(t, body, "disk I/O error")
}

func TestSubmitLead_Honeypot(t *testing.T) {
	env := newTestEnv(t)
	h := env.frontend(nil)

	rr := httptest.NewRecorder()
	h.SubmitLead(rr, postForm("/leads", leadForm(map[string][]string{honeypotField: {"http://spam.example"}})))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "banner-success")

	leads, err := env.queries.ListLeads(context.Background())
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestRateLimited(t *testing.T) {
	env := newTestEnv(t)
	h := env.frontend(nil)

	req := postForm("/leads", leadForm(nil))
	req = req.WithContext(middleware.WithLanguage(req.Context(), locale.EN))
	rr := httptest.NewRecorder()
	h.RateLimited(rr, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), "Too many attempts. Please wait a moment.")
	assert.Contains(t, rr.Body.String(), `value="Ayse Yilmaz"`)
}

func createPopup(t *testing.T, env *testEnv, link string) store.Popup {
	t.Helper()
	p, err := env.queries.CreatePopup(context.Background(), store.UpsertPopupParams{
		ID:         "popup-1",
		Title:      locale.Text{TR: "Burs Fırsatı", EN: "Scholarship offer"},
		Content:    locale.Text{TR: "Son başvuru tarihi yaklaşıyor."},
		ButtonText: locale.Text{TR: "Başvur"},
		ButtonLink: link,
		ShowDelay:  3,
		IsActive:   true,
		Now:        time.Now().UTC(),
	})
	require.NoError(t, err)
	return p
}

func TestDismissPopup(t *testing.T) {
	env := newTestEnv(t)
	p := createPopup(t, env, "#contact")
	h := env.frontend(nil)

	rr := httptest.NewRecorder()
	h.Landing(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `data-delay-ms="3000"`)

	req := withParams(postForm("/popups/"+p.ID+"/dismiss", url.Values{"cta": {"1"}}), paramID, p.ID)
	rr = httptest.NewRecorder()
	h.DismissPopup(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/#contact", rr.Header().Get("Location"))
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	h.Landing(rr, req)
	assert.NotContains(t, rr.Body.String(), `data-delay-ms=`)
}

func TestDismissPopup_Close(t *testing.T) {
	env := newTestEnv(t)
	p := createPopup(t, env, "https://example.com/offer")
	h := env.frontend(nil)

	rr := httptest.NewRecorder()
	h.DismissPopup(rr, withParams(postForm("/popups/"+p.ID+"/dismiss", url.Values{}), paramID, p.ID))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	rr = httptest.NewRecorder()
	h.DismissPopup(rr, withParams(postForm("/popups/missing/dismiss", url.Values{}), paramID, "missing"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBlog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.posts.Create(ctx, service.PostInput{
		Title:   locale.Text{TR: "Almanya Vize Rehberi", EN: "German Visa Guide"},
		Content: locale.Text{TR: "Vize için **randevu** alın.", EN: "Book an **appointment**."},
		Status:  service.PostPublished,
	})
	require.NoError(t, err)
	h := env.frontend(nil)

	rr := httptest.NewRecorder()
	h.Blog(rr, httptest.NewRequest(http.MethodGet, "/blog", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `href="/blog/almanya-vize-rehberi"`)

	req := withParams(httptest.NewRequest(http.MethodGet, "/blog/german-visa-guide", nil), paramSlug, "german-visa-guide")
	req = req.WithContext(middleware.WithLanguage(req.Context(), locale.EN))
	rr = httptest.NewRecorder()
	h.BlogPost(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<strong>appointment</strong>")

	req = withParams(httptest.NewRequest(http.MethodGet, "/blog/nope", nil), paramSlug, "nope")
	req = req.WithContext(middleware.WithLanguage(req.Context(), locale.EN))
	rr = httptest.NewRecorder()
	h.BlogPost(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Page not found.")
}

func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		link string
		want bool
	}{
		{"", false},
		{"/", true},
		{"#contact", true},
		{"/blog/almanya", true},
		{"//evil.example", false},
		{"/\\evil.example", false},
		{"https://example.com/x", true},
		{"javascript:alert(1)", false},
		{"mailto:info@example.com", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, safeRedirect(tt.link), tt.link)
	}
}
