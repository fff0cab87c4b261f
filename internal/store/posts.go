// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/olegiv/mentoreu-go/internal/locale"
)

const postColumns = `id,
	title_tr, title_en, title_de,
	slug_tr, slug_en, slug_de,
	excerpt_tr, excerpt_en, excerpt_de,
	content_tr, content_en, content_de,
	featured_image, author, category, tags, status, read_time, meta_title, meta_description,
	scheduled_at, published_at, created_at, updated_at`

func scanPost(row rowScanner) (BlogPost, error) {
	var (
		p    BlogPost
		tags string
	)
	err := row.Scan(&p.ID,
		&p.Title.TR, &p.Title.EN, &p.Title.DE,
		&p.Slug.TR, &p.Slug.EN, &p.Slug.DE,
		&p.Excerpt.TR, &p.Excerpt.EN, &p.Excerpt.DE,
		&p.Content.TR, &p.Content.EN, &p.Content.DE,
		&p.FeaturedImage, &p.Author, &p.Category, &tags, &p.Status, &p.ReadTime, &p.MetaTitle, &p.MetaDescription,
		&p.ScheduledAt, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	p.Tags = decodeStrings(tags)
	return p, err
}

func (q *Queries) queryPosts(ctx context.Context, query string, args ...any) ([]BlogPost, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []BlogPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// ListPosts returns all posts for the admin, newest first.
func (q *Queries) ListPosts(ctx context.Context) ([]BlogPost, error) {
	return q.queryPosts(ctx, `SELECT `+postColumns+` FROM blog_posts ORDER BY created_at DESC`)
}

// ListPublishedPosts returns published posts, most recently published first.
func (q *Queries) ListPublishedPosts(ctx context.Context, limit int64) ([]BlogPost, error) {
	return q.queryPosts(ctx,
		`SELECT `+postColumns+` FROM blog_posts
		WHERE status = 'published'
		ORDER BY published_at DESC, created_at DESC
		LIMIT ?`,
		limit,
	)
}

func (q *Queries) GetPost(ctx context.Context, id string) (BlogPost, error) {
	return scanPost(q.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM blog_posts WHERE id = ?`, id))
}

// GetPublishedPostBySlug looks the slug up in the active language first and
// then in any language, so a shared link keeps working after a language switch.
func (q *Queries) GetPublishedPostBySlug(ctx context.Context, lang locale.Lang, slug string) (BlogPost, error) {
	p, err := scanPost(q.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM blog_posts
		WHERE status = 'published'
			AND (CASE ? WHEN 'en' THEN slug_en WHEN 'de' THEN slug_de ELSE slug_tr END) = ?
		LIMIT 1`,
		string(lang), slug,
	))
	if !errors.Is(err, sql.ErrNoRows) {
		return p, err
	}

	return scanPost(q.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM blog_posts
		WHERE status = 'published' AND (slug_tr = ? OR slug_en = ? OR slug_de = ?)
		LIMIT 1`,
		slug, slug, slug,
	))
}

type UpsertPostParams struct {
	ID              string
	Title           locale.Text
	Slug            locale.Text
	Excerpt         locale.Text
	Content         locale.Text
	FeaturedImage   string
	Author          string
	Category        string
	Tags            []string
	Status          string
	ReadTime        string
	MetaTitle       string
	MetaDescription string
	ScheduledAt     sql.NullTime
	PublishedAt     sql.NullTime
	Now             time.Time
}

func (q *Queries) CreatePost(ctx context.Context, arg UpsertPostParams) (BlogPost, error) {
	return scanPost(q.db.QueryRowContext(ctx,
		`INSERT INTO blog_posts (id,
			title_tr, title_en, title_de,
			slug_tr, slug_en, slug_de,
			excerpt_tr, excerpt_en, excerpt_de,
			content_tr, content_en, content_de,
			featured_image, author, category, tags, status, read_time, meta_title, meta_description,
			scheduled_at, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+postColumns,
		arg.ID,
		arg.Title.TR, arg.Title.EN, arg.Title.DE,
		arg.Slug.TR, arg.Slug.EN, arg.Slug.DE,
		arg.Excerpt.TR, arg.Excerpt.EN, arg.Excerpt.DE,
		arg.Content.TR, arg.Content.EN, arg.Content.DE,
		arg.FeaturedImage, arg.Author, arg.Category, encodeStrings(arg.Tags), arg.Status, arg.ReadTime, arg.MetaTitle, arg.MetaDescription,
		arg.ScheduledAt, arg.PublishedAt, arg.Now, arg.Now,
	))
}

func (q *Queries) UpdatePost(ctx context.Context, arg UpsertPostParams) (BlogPost, error) {
	return scanPost(q.db.QueryRowContext(ctx,
		`UPDATE blog_posts SET
			title_tr = ?, title_en = ?, title_de = ?,
			slug_tr = ?, slug_en = ?, slug_de = ?,
			excerpt_tr = ?, excerpt_en = ?, excerpt_de = ?,
			content_tr = ?, content_en = ?, content_de = ?,
			featured_image = ?, author = ?, category = ?, tags = ?, status = ?, read_time = ?,
			meta_title = ?, meta_description = ?, scheduled_at = ?, published_at = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+postColumns,
		arg.Title.TR, arg.Title.EN, arg.Title.DE,
		arg.Slug.TR, arg.Slug.EN, arg.Slug.DE,
		arg.Excerpt.TR, arg.Excerpt.EN, arg.Excerpt.DE,
		arg.Content.TR, arg.Content.EN, arg.Content.DE,
		arg.FeaturedImage, arg.Author, arg.Category, encodeStrings(arg.Tags), arg.Status, arg.ReadTime,
		arg.MetaTitle, arg.MetaDescription, arg.ScheduledAt, arg.PublishedAt, arg.Now,
		arg.ID,
	))
}

func (q *Queries) DeletePost(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

// ListDueScheduledPosts returns drafts whose scheduled time has passed.
func (q *Queries) ListDueScheduledPosts(ctx context.Context, now time.Time) ([]BlogPost, error) {
	return q.queryPosts(ctx,
		`SELECT `+postColumns+` FROM blog_posts
		WHERE status = 'draft' AND scheduled_at IS NOT NULL AND scheduled_at <= ?
		ORDER BY scheduled_at`,
		now,
	)
}

// PublishPost marks a post published and clears its schedule.
func (q *Queries) PublishPost(ctx context.Context, id string, now time.Time) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE blog_posts SET status = 'published', published_at = ?, scheduled_at = NULL, updated_at = ?
		WHERE id = ?`,
		now, now, id,
	)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

func (q *Queries) CountPublishedPosts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_posts WHERE status = 'published'`).Scan(&n)
	return n, err
}
