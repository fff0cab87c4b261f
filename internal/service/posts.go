// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/olegiv/mentoreu-go/internal/locale"
	"github.com/olegiv/mentoreu-go/internal/seo"
	"github.com/olegiv/mentoreu-go/internal/store"
	"github.com/olegiv/mentoreu-go/internal/util"
)

// Post statuses.
const (
	PostDraft     = "draft"
	PostPublished = "published"
)

const (
	wordsPerMinute  = 200
	excerptLength   = 150
	maxSitemapPosts = 5000
)

// ErrPostNotFound is returned when a post id or slug does not exist.
var ErrPostNotFound = errors.New("post not found")

// PostError reports an invalid post field.
type PostError struct {
	Field   string
	Message string
}

func (e *PostError) Error() string {
	return e.Field + ": " + e.Message
}

// PostInput is what the admin editor submits.
type PostInput struct {
	Title           locale.Text `json:"title"`
	Slug            locale.Text `json:"slug"`
	Excerpt         locale.Text `json:"excerpt"`
	Content         locale.Text `json:"content"`
	FeaturedImage   string      `json:"featured_image"`
	Author          string      `json:"author"`
	Category        string      `json:"category"`
	Tags            []string    `json:"tags"`
	Status          string      `json:"status"`
	MetaTitle       string      `json:"meta_title"`
	MetaDescription string      `json:"meta_description"`
	ScheduledAt     *time.Time  `json:"scheduled_at"`
}

// PostView is a post resolved to one language with its body rendered.
type PostView struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Slug            string        `json:"slug"`
	Excerpt         string        `json:"excerpt"`
	HTML            template.HTML `json:"html,omitempty"`
	FeaturedImage   string        `json:"featured_image"`
	Author          string        `json:"author"`
	Category        string        `json:"category"`
	Tags            []string      `json:"tags"`
	ReadTime        string        `json:"read_time"`
	MetaTitle       string        `json:"meta_title"`
	MetaDescription string        `json:"meta_description"`
	PublishedAt     *time.Time    `json:"published_at,omitempty"`
}

// PostService manages blog posts.
type PostService struct {
	queries  *store.Queries
	logger   *slog.Logger
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
	now      func() time.Time
}

// NewPostService creates a PostService.
func NewPostService(queries *store.Queries, logger *slog.Logger) *PostService {
	return &PostService{
		queries:  queries,
		logger:   logger,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   bluemonday.UGCPolicy(),
		now:      time.Now,
	}
}

// Create validates and stores a new post.
func (s *PostService) Create(ctx context.Context, in PostInput) (store.BlogPost, error) {
	params, err := s.params(in, sql.NullTime{})
	if err != nil {
		return store.BlogPost{}, err
	}
	params.ID = uuid.New().String()
	return s.queries.CreatePost(ctx, params)
}

// Update replaces a post. The original publication time is kept while the
// post stays published.
func (s *PostService) Update(ctx context.Context, id string, in PostInput) (store.BlogPost, error) {
	existing, err := s.queries.GetPost(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.BlogPost{}, ErrPostNotFound
	}
	if err != nil {
		return store.BlogPost{}, err
	}

	params, err := s.params(in, existing.PublishedAt)
	if err != nil {
		return store.BlogPost{}, err
	}
	params.ID = id
	return s.queries.UpdatePost(ctx, params)
}

// Delete removes a post.
func (s *PostService) Delete(ctx context.Context, id string) error {
	err := s.queries.DeletePost(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPostNotFound
	}
	return err
}

// SitemapEntries returns the slugs of every published post for the sitemap.
func (s *PostService) SitemapEntries(ctx context.Context) ([]seo.SitemapPost, error) {
	posts, err := s.queries.ListPublishedPosts(ctx, maxSitemapPosts)
	if err != nil {
		return nil, err
	}
	entries := make([]seo.SitemapPost, 0, len(posts))
	for _, p := range posts {
		entries = append(entries, seo.SitemapPost{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}
	return entries, nil
}

// Published returns up to limit published posts resolved to lang.
func (s *PostService) Published(ctx context.Context, lang locale.Lang, limit int64) ([]PostView, error) {
	posts, err := s.queries.ListPublishedPosts(ctx, limit)
	if err != nil {
		return nil, err
	}
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, s.resolve(p, lang))
	}
	return views, nil
}

// BySlug returns a published post with its rendered body.
func (s *PostService) BySlug(ctx context.Context, lang locale.Lang, slug string) (PostView, error) {
	p, err := s.queries.GetPublishedPostBySlug(ctx, lang, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return PostView{}, ErrPostNotFound
	}
	if err != nil {
		return PostView{}, err
	}
	v := s.resolve(p, lang)
	v.HTML = s.RenderMarkdown(p.Content.Resolve(lang))
	return v, nil
}

// PublishDue publishes drafts whose scheduled time has passed and returns
// how many were published. A failure on one post does not stop the rest.
func (s *PostService) PublishDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.queries.ListDueScheduledPosts(ctx, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("listing scheduled posts: %w", err)
	}

	published := 0
	for _, p := range due {
		if err := s.queries.PublishPost(ctx, p.ID, now.UTC()); err != nil {
			s.logger.Error("failed to publish scheduled post", "post_id", p.ID, "error", err)
			continue
		}
		published++
		s.logger.Info("scheduled post published", "post_id", p.ID, "slug", p.Slug.TR)
	}
	return published, nil
}

// RenderMarkdown converts markdown to sanitized HTML.
func (s *PostService) RenderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(s.policy.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized by bluemonday
}

// resolve picks lang's variants; the body is left unrendered.
func (s *PostService) resolve(p store.BlogPost, lang locale.Lang) PostView {
	v := PostView{
		ID:              p.ID,
		Title:           p.Title.Resolve(lang),
		Slug:            p.Slug.Resolve(lang),
		Excerpt:         p.Excerpt.Resolve(lang),
		FeaturedImage:   p.FeaturedImage,
		Author:          p.Author,
		Category:        p.Category,
		Tags:            p.Tags,
		ReadTime:        p.ReadTime,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		PublishedAt:     util.TimePtr(p.PublishedAt),
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	return v
}

// params validates in and fills the derived fields. publishedAt is the
// stored publication time of an existing post.
func (s *PostService) params(in PostInput, publishedAt sql.NullTime) (store.UpsertPostParams, error) {
	now := s.now().UTC()

	in.Title = trimText(in.Title)
	if in.Title.TR == "" {
		return store.UpsertPostParams{}, &PostError{Field: "title", Message: "Turkish title is required"}
	}

	status := in.Status
	if status == "" {
		status = PostDraft
	}
	if status != PostDraft && status != PostPublished {
		return store.UpsertPostParams{}, &PostError{Field: "status", Message: "must be draft or published"}
	}

	slug := trimText(in.Slug)
	for _, lang := range locale.All() {
		if slug.In(lang) == "" && in.Title.In(lang) != "" {
			slug.Set(lang, util.Slugify(in.Title.In(lang)))
		}
		if v := slug.In(lang); v != "" && !util.IsValidSlug(v) {
			return store.UpsertPostParams{}, &PostError{Field: "slug_" + string(lang), Message: "invalid slug"}
		}
	}
	if slug.TR == "" {
		return store.UpsertPostParams{}, &PostError{Field: "slug_tr", Message: "title does not produce a slug"}
	}

	excerpt := trimText(in.Excerpt)
	if excerpt.TR == "" {
		excerpt.TR = truncateRunes(strings.TrimSpace(in.Content.TR), excerptLength)
	}

	metaTitle := strings.TrimSpace(in.MetaTitle)
	if metaTitle == "" {
		metaTitle = in.Title.TR
	}
	metaDescription := strings.TrimSpace(in.MetaDescription)
	if metaDescription == "" {
		metaDescription = excerpt.TR
	}

	var scheduledAt sql.NullTime
	switch status {
	case PostPublished:
		if !publishedAt.Valid {
			publishedAt = sql.NullTime{Time: now, Valid: true}
		}
	case PostDraft:
		publishedAt = sql.NullTime{}
		scheduledAt = util.NullTimeFromPtr(in.ScheduledAt)
	}

	return store.UpsertPostParams{
		Title:           in.Title,
		Slug:            slug,
		Excerpt:         excerpt,
		Content:         in.Content,
		FeaturedImage:   strings.TrimSpace(in.FeaturedImage),
		Author:          strings.TrimSpace(in.Author),
		Category:        strings.TrimSpace(in.Category),
		Tags:            cleanTags(in.Tags),
		Status:          status,
		ReadTime:        ReadTime(in.Content.TR),
		MetaTitle:       metaTitle,
		MetaDescription: metaDescription,
		ScheduledAt:     scheduledAt,
		PublishedAt:     publishedAt,
		Now:             now,
	}, nil
}

// ReadTime estimates reading time at 200 words per minute, e.g. "3 dk".
func ReadTime(content string) string {
	minutes := (len(strings.Fields(content)) + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d dk", minutes)
}

func trimText(t locale.Text) locale.Text {
	return locale.Text{TR: strings.TrimSpace(t.TR), EN: strings.TrimSpace(t.EN), DE: strings.TrimSpace(t.DE)}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
