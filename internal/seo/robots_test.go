// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRobotsBuilder_Build(t *testing.T) {
	tests := []struct {
		name        string
		config      RobotsConfig
		contains    []string
		notContains []string
	}{
		{
			name:     "default",
			config:   RobotsConfig{SiteURL: "https://mentoreu.com/"},
			contains: []string{"User-agent: *", "Disallow: /admin", "Disallow: /api/", "Allow: /", "Sitemap: https://mentoreu.com/sitemap.xml"},
		},
		{
			name:     "extra paths",
			config:   RobotsConfig{DisallowPaths: []string{"/uploads/private"}},
			contains: []string{"Disallow: /uploads/private"},
			notContains: []string{"Sitemap:"},
		},
		{
			name:        "disallow all",
			config:      RobotsConfig{SiteURL: "https://staging.mentoreu.com", DisallowAll: true},
			contains:    []string{"User-agent: *\nDisallow: /\n"},
			notContains: []string{"Allow: /", "Sitemap:", "/admin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := NewRobotsBuilder(tt.config).Build()
			for _, s := range tt.contains {
				assert.Contains(t, content, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, content, s)
			}
		})
	}
}

func TestRobotsBuilder_DoesNotMutateDefaults(t *testing.T) {
	_ = NewRobotsBuilder(RobotsConfig{DisallowPaths: []string{"/a"}}).Build()
	content := NewRobotsBuilder(RobotsConfig{}).Build()
	assert.NotContains(t, content, "Disallow: /a\n")
}
