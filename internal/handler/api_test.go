// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/mentoreu-go/internal/i18n"
	"github.com/olegiv/mentoreu-go/internal/lead"
	"github.com/olegiv/mentoreu-go/internal/locale"
	"github.com/olegiv/mentoreu-go/internal/middleware"
	"github.com/olegiv/mentoreu-go/internal/store"
)

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body
}

func TestSubmitLeadJSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantLeads  int
		wantFields []string
	}{
		{
			name:       "valid",
			body:       `{"full_name":"Ali Veli","email":"ali@example.com","phone":"05551234567","education_status":"Lise","target_country":["Hollanda"]}`,
			wantStatus: http.StatusCreated,
			wantLeads:  1,
		},
		{
			name:       "missing fields",
			body:       `{"full_name":"Ali Veli","email":"","phone":"","education_status":"Lise","target_country":[]}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: []string{"email", "phone", "target_country"},
		},
		{
			name:       "unknown field",
			body:       `{"full_name":"Ali Veli","admin":true}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "honeypot",
			body:       `{"full_name":"Bot","email":"b@example.com","phone":"1","education_status":"Lise","target_country":["Hollanda"],"_website":"x"}`,
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			h := env.frontend(nil)

			rr := httptest.NewRecorder()
			h.SubmitLeadJSON(rr, httptest.NewRequest(http.MethodPost, "/api/v1/leads", jsonBody(tt.body)))

			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			body := decodeResponse(t, rr)

			if tt.wantStatus == http.StatusCreated && tt.wantLeads > 0 {
				assert.Equal(t, true, body["success"])
				assert.NotEmpty(t, body["id"])
			}
			if len(tt.wantFields) > 0 {
				fields, ok := body["fields"].(map[string]any)
				require.True(t, ok)
				for _, f := range tt.wantFields {
					assert.Contains(t, fields, f)
				}
				assert.Len(t, fields, len(tt.wantFields))
			}

			leads, err := env.queries.ListLeads(context.Background())
			require.NoError(t, err)
			assert.Len(t, leads, tt.wantLeads)
		})
	}
}

func TestSubmitLeadJSON_PersistenceFailure(t *testing.T) {
	env := newTestEnv(t)
	h := env.frontend(failingLeadStore{})

	rr := httptest.NewRecorder()
	h.SubmitLeadJSON(rr, httptest.NewRequest(http.MethodPost, "/api/v1/leads",
		jsonBody(`{"full_name":"Ali","email":"a@example.com","phone":"1","education_status":"Lise","target_country":["Hollanda"]}`)))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := decodeResponse(t, rr)
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body["error"], "disk I/O")
}

// erroringLeadStore fails every insert with err.
type erroringLeadStore struct{ err error }

func (s erroringLeadStore) CreateLead(context.Context, store.CreateLeadParams) (store.Lead, error) {
	return store.Lead{}, s.err
}

func TestSubmissionFailure(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKey    string
	}{
		{"timeout", &lead.PersistenceError{Err: context.DeadlineExceeded}, http.StatusServiceUnavailable, "form.error.timeout"},
		{"unknown", &lead.PersistenceError{Err: errors.New("disk I/O error")}, http.StatusInternalServerError, "form.error.generic"},
		{"not a persistence error", errors.New("boom"), http.StatusInternalServerError, "form.error.generic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := submissionFailure(locale.EN, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, i18n.T(locale.EN, tt.wantKey), msg)
			assert.NotEqual(t, tt.wantKey, msg, "message is translated")
		})
	}
}

func TestSubmitLeadJSON_Timeout(t *testing.T) {
	env := newTestEnv(t)
	h := env.frontend(erroringLeadStore{err: context.DeadlineExceeded})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads",
		jsonBody(`{"full_name":"Ali","email":"a@example.com","phone":"1","education_status":"Lise","target_country":["Hollanda"]}`))
	req = req.WithContext(middleware.WithLanguage(req.Context(), locale.DE))
	rr := httptest.NewRecorder()
	h.SubmitLeadJSON(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	body := decodeResponse(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, i18n.T(locale.DE, "form.error.timeout"), body["error"])
	assert.NotContains(t, body["error"], "deadline")
}

func TestFormJSON(t *testing.T) {
	env := newTestEnv(t)
	h := env.frontend(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/form", nil)
	req = req.WithContext(middleware.WithLanguage(req.Context(), locale.DE))
	rr := httptest.NewRecorder()
	h.FormJSON(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeResponse(t, rr)
	form := body["form"].(map[string]any)
	assert.Equal(t, "Anfrage senden", form["submit_text"])

	countries := form["country_options"].([]any)
	require.Len(t, countries, 8)
	first := countries[0].(map[string]any)
	assert.Equal(t, "Almanya", first["value"])
	assert.Equal(t, "Deutschland", first["label"])
}

func TestLandingJSON(t *testing.T) {
	env := newTestEnv(t)
	h := env.frontend(nil)

	rr := httptest.NewRecorder()
	h.LandingJSON(rr, httptest.NewRequest(http.MethodGet, "/api/v1/landing", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeResponse(t, rr)
	landing := body["landing"].(map[string]any)
	assert.Equal(t, "tr", landing["lang"])
	assert.Nil(t, body["popup"])
}

func TestPopupJSON(t *testing.T) {
	env := newTestEnv(t)
	p := createPopup(t, env, "/blog")
	h := env.frontend(nil)

	rr := httptest.NewRecorder()
	h.PopupJSON(rr, httptest.NewRequest(http.MethodGet, "/api/v1/popup", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	popupBody := decodeResponse(t, rr)["popup"].(map[string]any)
	assert.Equal(t, p.ID, popupBody["id"])
	assert.EqualValues(t, 3000, popupBody["delay_ms"])

	rr = httptest.NewRecorder()
	h.DismissPopupJSON(rr, withParams(httptest.NewRequest(http.MethodPost, "/api/v1/popups/"+p.ID+"/dismiss", nil), paramID, p.ID))
	require.Equal(t, http.StatusOK, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/popup", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	h.PopupJSON(rr, req)
	assert.Nil(t, decodeResponse(t, rr)["popup"])

	rr = httptest.NewRecorder()
	h.DismissPopupJSON(rr, withParams(httptest.NewRequest(http.MethodPost, "/api/v1/popups/nope/dismiss", nil), paramID, "nope"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
