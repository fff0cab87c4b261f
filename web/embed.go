// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web holds the public site templates and the built CSS and JS
// bundle, both embedded into the binary.
package web

import "embed"

// Templates holds layouts/, partials/ and pages/ for the render package.
//
//go:embed all:templates
var Templates embed.FS

// Static holds static/dist, served under /static/dist/.
//
//go:embed all:static/dist
var Static embed.FS
