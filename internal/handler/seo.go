// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/olegiv/mentoreu-go/internal/cache"
	"github.com/olegiv/mentoreu-go/internal/seo"
	"github.com/olegiv/mentoreu-go/internal/service"
)

const (
	sitemapCacheKey = "seo:sitemap"
	sitemapCacheTTL = time.Hour
)

// SEOHandler serves robots.txt and sitemap.xml.
type SEOHandler struct {
	posts       *service.PostService
	cache       cache.Cacher
	siteURL     string
	disallowAll bool
	logger      *slog.Logger
}

// NewSEOHandler creates an SEOHandler. An empty siteURL is derived from each
// request; disallowAll blocks every crawler (non-production environments).
func NewSEOHandler(posts *service.PostService, c cache.Cacher, siteURL string, disallowAll bool, logger *slog.Logger) *SEOHandler {
	return &SEOHandler{
		posts:       posts,
		cache:       c,
		siteURL:     strings.TrimSuffix(siteURL, "/"),
		disallowAll: disallowAll,
		logger:      logger,
	}
}

// Robots serves robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	content := seo.NewRobotsBuilder(seo.RobotsConfig{
		SiteURL:     h.baseURL(r),
		DisallowAll: h.disallowAll,
	}).Build()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(content))
}

// Sitemap serves sitemap.xml with the landing page, the blog index and every
// published post in each supported language.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		data, err := h.cache.Get(ctx, sitemapCacheKey)
		if err == nil {
			writeSitemap(w, data)
			return
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			h.logger.Warn("sitemap cache read failed", "error", err)
		}
	}

	entries, err := h.posts.SitemapEntries(ctx)
	if err != nil {
		h.logger.Error("failed to list posts for sitemap", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	b := seo.NewSitemapBuilder(h.baseURL(r))
	b.AddHomepage()
	b.AddBlogIndex()
	for _, e := range entries {
		b.AddPost(e)
	}
	data, err := b.Build()
	if err != nil {
		h.logger.Error("failed to build sitemap", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, sitemapCacheKey, data, sitemapCacheTTL); err != nil {
			h.logger.Warn("sitemap cache write failed", "error", err)
		}
	}
	writeSitemap(w, data)
}

func writeSitemap(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}

func (h *SEOHandler) baseURL(r *http.Request) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
