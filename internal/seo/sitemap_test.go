// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/mentoreu-go/internal/locale"
)

type parsedURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
	Links   []struct {
		HrefLang string `xml:"hreflang,attr"`
		Href     string `xml:"href,attr"`
	} `xml:"link"`
}

func parseSitemap(t *testing.T, data []byte) []parsedURL {
	t.Helper()
	var doc struct {
		URLs []parsedURL `xml:"url"`
	}
	require.NoError(t, xml.Unmarshal(data, &doc))
	return doc.URLs
}

func TestSitemapBuilder_Homepage(t *testing.T) {
	b := NewSitemapBuilder("https://mentoreu.com/")
	b.AddHomepage()

	data, err := b.Build()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), xml.Header))
	assert.Contains(t, string(data), `xmlns="`+XMLNamespace+`"`)
	assert.Contains(t, string(data), `xmlns:xhtml="`+XHTMLNamespace+`"`)

	urls := parseSitemap(t, data)
	require.Len(t, urls, 3)
	assert.Equal(t, "https://mentoreu.com/?lang=tr", urls[0].Loc)
	assert.Equal(t, "https://mentoreu.com/?lang=de", urls[2].Loc)

	require.Len(t, urls[0].Links, 4)
	last := urls[0].Links[3]
	assert.Equal(t, "x-default", last.HrefLang)
	assert.Equal(t, "https://mentoreu.com/", last.Href)
}

func TestSitemapBuilder_Posts(t *testing.T) {
	updated := time.Date(2026, 2, 1, 9, 30, 0, 0, time.FixedZone("TRT", 3*60*60))

	tests := []struct {
		name     string
		post     SitemapPost
		wantLocs []string
	}{
		{
			name: "every language has a slug",
			post: SitemapPost{Slug: locale.Text{TR: "hollanda-vizesi", EN: "dutch-visa", DE: "niederlande-visum"}, UpdatedAt: updated},
			wantLocs: []string{
				"https://mentoreu.com/blog/hollanda-vizesi?lang=tr",
				"https://mentoreu.com/blog/dutch-visa?lang=en",
				"https://mentoreu.com/blog/niederlande-visum?lang=de",
			},
		},
		{
			name: "missing translations fall back to turkish",
			post: SitemapPost{Slug: locale.Text{TR: "burslar"}},
			wantLocs: []string{
				"https://mentoreu.com/blog/burslar?lang=tr",
				"https://mentoreu.com/blog/burslar?lang=en",
				"https://mentoreu.com/blog/burslar?lang=de",
			},
		},
		{
			name:     "no slug is skipped",
			post:     SitemapPost{},
			wantLocs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewSitemapBuilder("https://mentoreu.com")
			b.AddPost(tt.post)
			assert.Equal(t, len(tt.wantLocs), b.Len())

			data, err := b.Build()
			require.NoError(t, err)

			var locs []string
			for _, u := range parseSitemap(t, data) {
				locs = append(locs, u.Loc)
				if !tt.post.UpdatedAt.IsZero() {
					assert.Equal(t, "2026-02-01T06:30:00Z", u.LastMod)
				}
			}
			assert.Equal(t, tt.wantLocs, locs)
		})
	}
}

func TestSitemapBuilder_EscapesSlugs(t *testing.T) {
	b := NewSitemapBuilder("https://mentoreu.com")
	b.AddPost(SitemapPost{Slug: locale.Text{TR: "a b&c"}})

	data, err := b.Build()
	require.NoError(t, err)
	urls := parseSitemap(t, data)
	require.NotEmpty(t, urls)
	assert.Equal(t, "https://mentoreu.com/blog/a%20b&c?lang=tr", urls[0].Loc)
}
