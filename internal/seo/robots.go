// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
)

// RobotsConfig holds configuration for robots.txt generation.
type RobotsConfig struct {
	SiteURL       string   // Base URL for the sitemap reference
	DisallowAll   bool     // Block all crawlers (development and staging)
	DisallowPaths []string // Extra paths to disallow
}

// defaultDisallow keeps crawlers out of the admin panel and the JSON API.
var defaultDisallow = []string{
	"/admin",
	"/api/",
	"/leads",
	"/popups/",
}

// RobotsBuilder builds robots.txt content.
type RobotsBuilder struct {
	config RobotsConfig
}

// NewRobotsBuilder creates a new robots.txt builder.
func NewRobotsBuilder(config RobotsConfig) *RobotsBuilder {
	return &RobotsBuilder{config: config}
}

// Build generates the robots.txt content.
func (b *RobotsBuilder) Build() string {
	var sb strings.Builder
	sb.WriteString("User-agent: *\n")

	if b.config.DisallowAll {
		sb.WriteString("Disallow: /\n")
		return sb.String()
	}

	paths := append(append([]string{}, defaultDisallow...), b.config.DisallowPaths...)
	for _, path := range paths {
		sb.WriteString("Disallow: ")
		sb.WriteString(path)
		sb.WriteString("\n")
	}
	sb.WriteString("Allow: /\n")

	if b.config.SiteURL != "" {
		sb.WriteString("\nSitemap: ")
		sb.WriteString(strings.TrimSuffix(b.config.SiteURL, "/"))
		sb.WriteString("/sitemap.xml\n")
	}

	return sb.String()
}
