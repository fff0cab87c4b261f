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

func TestRobots(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name        string
		siteURL     string
		disallowAll bool
		want        []string
		notWant     []string
	}{
		{"configured site url", "https://mentoreu.com/", false, []string{"Disallow: /admin", "Sitemap: https://mentoreu.com/sitemap.xml"}, nil},
		{"derived from host", "", false, []string{"Sitemap: http://example.com/sitemap.xml"}, nil},
		{"staging", "https://staging.mentoreu.com", true, []string{"Disallow: /\n"}, []string{"Sitemap:"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSEOHandler(env.posts, nil, tt.siteURL, tt.disallowAll, testutil.TestLogger())
			rr := httptest.NewRecorder()
			h.Robots(rr, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
			for _, s := range tt.want {
				assert.Contains(t, rr.Body.String(), s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, rr.Body.String(), s)
			}
		})
	}
}

func TestSitemap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.posts.Create(ctx, service.PostInput{
		Title:   locale.Text{TR: "Hollanda'da Okumak", EN: "Studying in the Netherlands"},
		Slug:    locale.Text{TR: "hollandada-okumak", EN: "studying-in-the-netherlands"},
		Content: locale.Text{TR: "İçerik"},
		Status:  service.PostPublished,
	})
	require.NoError(t, err)
	_, err = env.posts.Create(ctx, service.PostInput{
		Title:  locale.Text{TR: "Taslak"},
		Slug:   locale.Text{TR: "taslak"},
		Status: service.PostDraft,
	})
	require.NoError(t, err)

	h := NewSEOHandler(env.posts, env.cache, "https://mentoreu.com", false, testutil.TestLogger())

	rr := httptest.NewRecorder()
	h.Sitemap(rr, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/xml")

	body := rr.Body.String()
	assert.Contains(t, body, "<loc>https://mentoreu.com/?lang=tr</loc>")
	assert.Contains(t, body, "<loc>https://mentoreu.com/blog?lang=de</loc>")
	assert.Contains(t, body, "<loc>https://mentoreu.com/blog/hollandada-okumak?lang=tr</loc>")
	assert.Contains(t, body, "<loc>https://mentoreu.com/blog/studying-in-the-netherlands?lang=en</loc>")
	assert.Contains(t, body, "<loc>https://mentoreu.com/blog/hollandada-okumak?lang=de</loc>")
	assert.NotContains(t, body, "taslak")

	cached, err := env.cache.Get(ctx, sitemapCacheKey)
	require.NoError(t, err)
	assert.Equal(t, body, string(cached))
}
