// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/mentoreu-go/internal/cache"
	"github.com/olegiv/mentoreu-go/internal/lead"
	"github.com/olegiv/mentoreu-go/internal/store"
)

const (
	contentPrefix = "content:"
	contentKey    = contentPrefix + "landing"
)

// Content is every admin-managed record the landing page is built from, in
// all languages.
type Content struct {
	Sections  []store.LandingSection   `json:"sections"`
	Countries []store.EducationCountry `json:"countries"`
	Contact   store.ContactInfo        `json:"contact"`
	Form      store.FormSettings       `json:"form"`
	Catalog   lead.Catalog             `json:"catalog"`
	WhatsApp  store.WhatsAppSettings   `json:"whatsapp"`
	Popups    []store.Popup            `json:"popups"`
}

// ContentService loads landing content and keeps it in the cache until an
// admin write invalidates it.
type ContentService struct {
	queries *store.Queries
	cache   cache.Cacher
	typed   *cache.TypedCache[Content]
	logger  *slog.Logger
}

// NewContentService creates a ContentService. c may be nil to disable caching.
func NewContentService(queries *store.Queries, c cache.Cacher, ttl time.Duration, logger *slog.Logger) *ContentService {
	s := &ContentService{queries: queries, cache: c, logger: logger}
	if c != nil {
		s.typed = cache.NewTypedCache[Content](c, ttl)
	}
	return s
}

// Load returns the current landing content.
func (s *ContentService) Load(ctx context.Context) (Content, error) {
	if s.typed == nil {
		return s.load(ctx)
	}
	return s.typed.GetOrSet(ctx, contentKey, s.load)
}

// Catalog returns the active form options.
func (s *ContentService) Catalog(ctx context.Context) (lead.Catalog, error) {
	c, err := s.Load(ctx)
	if err != nil {
		return lead.Catalog{}, err
	}
	return c.Catalog, nil
}

// Invalidate drops cached content. Called after every admin write.
func (s *ContentService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPrefix(ctx, contentPrefix); err != nil {
		s.logger.Warn("cache invalidation failed", "error", err)
	}
}

func (s *ContentService) load(ctx context.Context) (Content, error) {
	var c Content
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sections, err := s.queries.ListLandingSections(gctx)
		if err != nil {
			return fmt.Errorf("loading sections: %w", err)
		}
		for _, sec := range sections {
			if sec.IsActive {
				c.Sections = append(c.Sections, sec)
			}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if c.Countries, err = s.queries.ListEducationCountries(gctx, true); err != nil {
			return fmt.Errorf("loading countries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if c.Contact, err = s.queries.GetContactInfo(gctx); err != nil {
			return fmt.Errorf("loading contact info: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if c.Form, err = s.queries.GetFormSettings(gctx); err != nil {
			return fmt.Errorf("loading form settings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		c.Catalog, err = lead.LoadCatalog(gctx, s.queries)
		return err
	})
	g.Go(func() error {
		var err error
		if c.WhatsApp, err = s.queries.GetWhatsAppSettings(gctx); err != nil {
			return fmt.Errorf("loading whatsapp settings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if c.Popups, err = s.queries.ListActivePopups(gctx); err != nil {
			return fmt.Errorf("loading popups: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Content{}, err
	}
	return c, nil
}
