// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/mentoreu-go/internal/locale"
	"github.com/olegiv/mentoreu-go/internal/service"
	"github.com/olegiv/mentoreu-go/internal/testutil"
)

func newTestContentHandler(env *testEnv) *ContentHandler {
	return NewContentHandler(env.db, env.content, testutil.TestLogger())
}

const heroSection = `{"section_key":"hero","section_type":"hero","title":{"tr":"Avrupa'da Eğitim","en":"Study in Europe"},"button_link":"#contact"}`

func TestCreateSection_InvalidatesContent(t *testing.T) {
	env := newTestEnv(t)
	h := newTestContentHandler(env)
	ctx := context.Background()

	// Prime the cache.
	c, err := env.content.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, service.ResolveLanding(c, locale.EN).Hero)

	rr := httptest.NewRecorder()
	h.CreateSection(rr, httptest.NewRequest(http.MethodPost, "/admin/sections", jsonBody(heroSection)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	section := decodeResponse(t, rr)["section"].(map[string]any)
	assert.NotEmpty(t, section["id"])
	assert.Equal(t, true, section["is_active"])

	c, err = env.content.Load(ctx)
	require.NoError(t, err)
	hero := service.ResolveLanding(c, locale.EN).Hero
	require.NotNil(t, hero)
	assert.Equal(t, "Study in Europe", hero.Title)
	assert.Equal(t, "Avrupa'da Eğitim", service.ResolveLanding(c, locale.DE).Hero.Title)
}

func TestCreateSection_Errors(t *testing.T) {
	env := newTestEnv(t)
	h := newTestContentHandler(env)

	rr := httptest.NewRecorder()
	h.CreateSection(rr, httptest.NewRequest(http.MethodPost, "/admin/sections", jsonBody(heroSection)))
	require.Equal(t, http.StatusCreated, rr.Code)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
	}{
		{"duplicate key", heroSection, http.StatusConflict, ""},
		{"missing key", `{"section_type":"faq","title":{"tr":"SSS"}}`, http.StatusUnprocessableEntity, "section_key"},
		{"bad type", `{"section_key":"x","section_type":"banner","title":{"tr":"X"}}`, http.StatusUnprocessableEntity, "section_type"},
		{"missing turkish title", `{"section_key":"x","section_type":"faq","title":{"en":"FAQ"}}`, http.StatusUnprocessableEntity, "title"},
		{"unsafe link", `{"section_key":"x","section_type":"faq","title":{"tr":"X"},"button_link":"javascript:alert(1)"}`, http.StatusUnprocessableEntity, "button_link"},
		{"bad json", `{"section_key":`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.CreateSection(rr, httptest.NewRequest(http.MethodPost, "/admin/sections", jsonBody(tt.body)))
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			if tt.wantField != "" {
				assert.Contains(t, decodeResponse(t, rr)["fields"], tt.wantField)
			}
		})
	}
}

func TestUpdateAndDeleteSection(t *testing.T) {
	env := newTestEnv(t)
	h := newTestContentHandler(env)

	rr := httptest.NewRecorder()
	h.CreateSection(rr, httptest.NewRequest(http.MethodPost, "/admin/sections", jsonBody(heroSection)))
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decodeResponse(t, rr)["section"].(map[string]any)["id"].(string)

	rr = httptest.NewRecorder()
	h.UpdateSection(rr, withParams(httptest.NewRequest(http.MethodPut, "/admin/sections/"+id,
		jsonBody(`{"section_key":"hero","section_type":"hero","title":{"tr":"Yeni Başlık"},"is_active":false}`)), paramID, id))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	section := decodeResponse(t, rr)["section"].(map[string]any)
	assert.Equal(t, false, section["is_active"])

	rr = httptest.NewRecorder()
	h.UpdateSection(rr, withParams(httptest.NewRequest(http.MethodPut, "/admin/sections/missing",
		jsonBody(heroSection)), paramID, "missing"))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.DeleteSection(rr, withParams(httptest.NewRequest(http.MethodDelete, "/admin/sections/"+id, nil), paramID, id))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.GetSection(rr, withParams(httptest.NewRequest(http.MethodGet, "/admin/sections/"+id, nil), paramID, id))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPopupCRUD(t *testing.T) {
	env := newTestEnv(t)
	h := newTestContentHandler(env)

	rr := httptest.NewRecorder()
	h.CreatePopup(rr, httptest.NewRequest(http.MethodPost, "/admin/popups",
		jsonBody(`{"title":{"tr":"Burs"},"show_delay":7200}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = httptest.NewRecorder()
	h.CreatePopup(rr, httptest.NewRequest(http.MethodPost, "/admin/popups",
		jsonBody(`{"title":{"tr":"Burs"},"button_link":"/blog","show_delay":5}`)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = httptest.NewRecorder()
	h.ListPopups(rr, httptest.NewRequest(http.MethodGet, "/admin/popups", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeResponse(t, rr)["popups"], 1)

	c, err := env.content.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, c.Popups, 1)
	assert.EqualValues(t, 5, c.Popups[0].ShowDelay)
}

func TestCountryOptions(t *testing.T) {
	env := newTestEnv(t)
	h := newTestContentHandler(env)

	rr := httptest.NewRecorder()
	h.CreateCountryOption(rr, httptest.NewRequest(http.MethodPost, "/admin/options/countries",
		jsonBody(`{"name":{"tr":"İsveç","en":"Sweden","de":"Schweden"},"flag_emoji":"🇸🇪","order_number":9}`)))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	c, err := env.content.Load(context.Background())
	require.NoError(t, err)
	form := service.ResolveForm(c, locale.DE)
	last := form.Countries[len(form.Countries)-1]
	assert.Equal(t, "İsveç", last.Value)
	assert.Equal(t, "Schweden", last.Label)

	rr = httptest.NewRecorder()
	h.DeleteEducationOption(rr, withParams(httptest.NewRequest(http.MethodDelete, "/admin/options/education/nope", nil), paramID, "nope"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSettings(t *testing.T) {
	env := newTestEnv(t)
	h := newTestContentHandler(env)

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		body       string
		wantStatus int
	}{
		{"whatsapp enabled", h.SaveWhatsAppSettings, `{"phone_number":"+90 555 000 1122","is_enabled":true}`, http.StatusOK},
		{"whatsapp enabled without number", h.SaveWhatsAppSettings, `{"phone_number":"12","is_enabled":true}`, http.StatusUnprocessableEntity},
		{"whatsapp disabled without number", h.SaveWhatsAppSettings, `{"phone_number":"","is_enabled":false}`, http.StatusOK},
		{"contact", h.SaveContactInfo, `{"email":"info@mentoreu.com","instagram_url":"https://instagram.com/mentoreu"}`, http.StatusOK},
		{"contact bad email", h.SaveContactInfo, `{"email":"not-an-email"}`, http.StatusUnprocessableEntity},
		{"contact bad link", h.SaveContactInfo, `{"linkedin_url":"ftp://example.com"}`, http.StatusUnprocessableEntity},
		{"email notifications need admins", h.SaveEmailSettings, `{"admin_notification_enabled":true,"admin_emails":[" "]}`, http.StatusUnprocessableEntity},
		{"email", h.SaveEmailSettings, `{"admin_notification_enabled":true,"admin_emails":["ops@mentoreu.com"]}`, http.StatusOK},
		{"form needs titles", h.SaveFormSettings, `{"section_title":{"en":"Apply"}}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.handler(rr, httptest.NewRequest(http.MethodPut, "/admin/settings", jsonBody(tt.body)))
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}

	rr := httptest.NewRecorder()
	h.GetEmailSettings(rr, httptest.NewRequest(http.MethodGet, "/admin/settings/email", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	email := decodeResponse(t, rr)["email"].(map[string]any)
	assert.Equal(t, []any{"ops@mentoreu.com"}, email["admin_emails"])
}
