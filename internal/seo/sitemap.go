// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds robots.txt and the multilingual sitemap of the public site.
package seo

import (
	"encoding/xml"
	"net/url"
	"strings"
	"time"

	"github.com/olegiv/mentoreu-go/internal/locale"
)

// Sitemap XML namespaces.
const (
	XMLNamespace   = "http://www.sitemaps.org/schemas/sitemap/0.9"
	XHTMLNamespace = "http://www.w3.org/1999/xhtml"
)

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Change frequency values used by the site.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// Alternate links a URL to its translation.
type Alternate struct {
	Rel      string `xml:"rel,attr"`
	HrefLang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string      `xml:"loc"`
	LastMod    string      `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq  `xml:"changefreq,omitempty"`
	Priority   string      `xml:"priority,omitempty"`
	Alternates []Alternate `xml:"xhtml:link"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTML   string       `xml:"xmlns:xhtml,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapPost contains the data needed to add a blog post to the sitemap.
type SitemapPost struct {
	Slug      locale.Text
	UpdatedAt time.Time
}

// SitemapBuilder builds sitemap XML. Every page is listed once per language
// with hreflang alternates pointing at the other translations.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the landing page in every language.
func (b *SitemapBuilder) AddHomepage() {
	paths := make(map[locale.Lang]string, len(locale.All()))
	for _, lang := range locale.All() {
		paths[lang] = "/"
	}
	b.addLocalized(paths, time.Time{}, ChangeFreqDaily, "1.0")
}

// AddBlogIndex adds the blog listing in every language.
func (b *SitemapBuilder) AddBlogIndex() {
	paths := make(map[locale.Lang]string, len(locale.All()))
	for _, lang := range locale.All() {
		paths[lang] = "/blog"
	}
	b.addLocalized(paths, time.Time{}, ChangeFreqDaily, "0.8")
}

// AddPost adds a published post under each language that has a slug.
// Languages without their own slug fall back to the Turkish one.
func (b *SitemapBuilder) AddPost(post SitemapPost) {
	paths := make(map[locale.Lang]string, len(locale.All()))
	for _, lang := range locale.All() {
		slug := post.Slug.Resolve(lang)
		if slug == "" {
			continue
		}
		paths[lang] = "/blog/" + url.PathEscape(slug)
	}
	if len(paths) == 0 {
		return
	}
	b.addLocalized(paths, post.UpdatedAt, ChangeFreqWeekly, "0.6")
}

func (b *SitemapBuilder) addLocalized(paths map[locale.Lang]string, updatedAt time.Time, freq ChangeFreq, priority string) {
	alternates := make([]Alternate, 0, len(paths)+1)
	for _, lang := range locale.All() {
		if p, ok := paths[lang]; ok {
			alternates = append(alternates, Alternate{Rel: "alternate", HrefLang: lang.String(), Href: b.localizedURL(p, lang)})
		}
	}
	if p, ok := paths[locale.Base]; ok {
		alternates = append(alternates, Alternate{Rel: "alternate", HrefLang: "x-default", Href: b.siteURL + p})
	}

	for _, lang := range locale.All() {
		p, ok := paths[lang]
		if !ok {
			continue
		}
		u := SitemapURL{
			Loc:        b.localizedURL(p, lang),
			ChangeFreq: freq,
			Priority:   priority,
			Alternates: alternates,
		}
		if !updatedAt.IsZero() {
			u.LastMod = updatedAt.UTC().Format(time.RFC3339)
		}
		b.urls = append(b.urls, u)
	}
}

func (b *SitemapBuilder) localizedURL(path string, lang locale.Lang) string {
	return b.siteURL + path + "?lang=" + lang.String()
}

// Len returns the number of URL entries added so far.
func (b *SitemapBuilder) Len() int {
	return len(b.urls)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		XHTML: XHTMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}
