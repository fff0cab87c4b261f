// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/mentoreu-go/internal/locale"
	"github.com/olegiv/mentoreu-go/internal/store"
	"github.com/olegiv/mentoreu-go/internal/testutil"
)

func newTestPostService(t *testing.T) (*PostService, *store.Queries) {
	t.Helper()
	q := store.New(testutil.TestDB(t))
	return NewPostService(q, testutil.TestLogger()), q
}

func TestPostService_CreateDerivesFields(t *testing.T) {
	svc, _ := newTestPostService(t)
	ctx := context.Background()

	post, err := svc.Create(ctx, PostInput{
		Title:   locale.Text{TR: "  Almanya'da Üniversite Başvurusu ", DE: "Studium in Deutschland"},
		Content: locale.Text{TR: "Başvuru **adımları** burada."},
		Tags:    []string{"almanya", " almanya ", "", "vize"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "Almanya'da Üniversite Başvurusu", post.Title.TR)
	assert.Equal(t, "almanyada-universite-basvurusu", post.Slug.TR)
	assert.Equal(t, "studium-in-deutschland", post.Slug.DE)
	assert.Empty(t, post.Slug.EN)
	assert.Equal(t, PostDraft, post.Status)
	assert.Equal(t, "Başvuru **adımları** burada.", post.Excerpt.TR)
	assert.Equal(t, post.Title.TR, post.MetaTitle)
	assert.Equal(t, post.Excerpt.TR, post.MetaDescription)
	assert.Equal(t, "1 dk", post.ReadTime)
	assert.Equal(t, []string{"almanya", "vize"}, post.Tags)
	assert.False(t, post.PublishedAt.Valid)
}

func TestPostService_CreateValidation(t *testing.T) {
	svc, _ := newTestPostService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    PostInput
		field string
	}{
		{"missing title", PostInput{Title: locale.Text{EN: "Only English"}}, "title"},
		{"bad status", PostInput{Title: locale.Text{TR: "Başlık"}, Status: "archived"}, "status"},
		{"bad slug", PostInput{Title: locale.Text{TR: "Başlık"}, Slug: locale.Text{TR: "Not A Slug"}}, "slug_tr"},
		{"title without slug characters", PostInput{Title: locale.Text{TR: "!!!"}}, "slug_tr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			var pe *PostError
			require.True(t, errors.As(err, &pe), "error = %v", err)
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestPostService_PublishKeepsOriginalDate(t *testing.T) {
	svc, _ := newTestPostService(t)
	ctx := context.Background()

	first := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	post, err := svc.Create(ctx, PostInput{Title: locale.Text{TR: "Vize Rehberi"}, Status: PostPublished})
	require.NoError(t, err)
	require.True(t, post.PublishedAt.Valid)
	assert.True(t, post.PublishedAt.Time.Equal(first))

	svc.now = func() time.Time { return first.Add(48 * time.Hour) }
	updated, err := svc.Update(ctx, post.ID, PostInput{Title: locale.Text{TR: "Vize Rehberi 2026"}, Status: PostPublished, Slug: post.Slug})
	require.NoError(t, err)
	assert.True(t, updated.PublishedAt.Time.Equal(first))
	assert.Equal(t, "Vize Rehberi 2026", updated.Title.TR)

	unpublished, err := svc.Update(ctx, post.ID, PostInput{Title: locale.Text{TR: "Vize Rehberi"}, Slug: post.Slug})
	require.NoError(t, err)
	assert.Equal(t, PostDraft, unpublished.Status)
	assert.False(t, unpublished.PublishedAt.Valid)
}

func TestPostService_UpdateDeleteMissing(t *testing.T) {
	svc, _ := newTestPostService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, "missing", PostInput{Title: locale.Text{TR: "X"}})
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrPostNotFound)
}

func TestPostService_PublishDue(t *testing.T) {
	svc, q := newTestPostService(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now.Add(-2 * time.Hour) }

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	due, err := svc.Create(ctx, PostInput{Title: locale.Text{TR: "Due Post"}, ScheduledAt: &past})
	require.NoError(t, err)
	later, err := svc.Create(ctx, PostInput{Title: locale.Text{TR: "Later Post"}, ScheduledAt: &future})
	require.NoError(t, err)
	_, err = svc.Create(ctx, PostInput{Title: locale.Text{TR: "Plain Draft"}})
	require.NoError(t, err)

	n, err := svc.PublishDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := q.GetPost(ctx, due.ID)
	require.NoError(t, err)
	assert.Equal(t, PostPublished, got.Status)
	assert.False(t, got.ScheduledAt.Valid)

	got, err = q.GetPost(ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, PostDraft, got.Status)

	n, err = svc.PublishDue(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPostService_BySlugAndPublished(t *testing.T) {
	svc, _ := newTestPostService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, PostInput{
		Title:   locale.Text{TR: "İtalya Bursları", EN: "Scholarships in Italy"},
		Content: locale.Text{TR: "# Burslar\n\n<script>alert(1)</script>", EN: "Read *this*."},
		Status:  PostPublished,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, PostInput{Title: locale.Text{TR: "Taslak"}})
	require.NoError(t, err)

	list, err := svc.Published(ctx, locale.EN, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Scholarships in Italy", list[0].Title)
	assert.Empty(t, list[0].HTML)

	view, err := svc.BySlug(ctx, locale.TR, "italya-burslari")
	require.NoError(t, err)
	assert.Equal(t, "İtalya Bursları", view.Title)
	assert.Contains(t, string(view.HTML), "<h1")
	assert.NotContains(t, string(view.HTML), "<script>")

	// An English slug still works for a Turkish visitor.
	view, err = svc.BySlug(ctx, locale.TR, "scholarships-in-italy")
	require.NoError(t, err)
	assert.Equal(t, "İtalya Bursları", view.Title)

	_, err = svc.BySlug(ctx, locale.TR, "taslak")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, "1 dk", ReadTime(""))
	assert.Equal(t, "1 dk", ReadTime(strings.Repeat("kelime ", 200)))
	assert.Equal(t, "2 dk", ReadTime(strings.Repeat("kelime ", 201)))
}
