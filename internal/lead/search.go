// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package lead

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/olegiv/mentoreu-go/internal/store"
)

// Filter returns the leads whose name or email contains query ignoring
// case, or whose phone contains it verbatim. An empty query matches all.
func Filter(leads []store.Lead, query string) []store.Lead {
	query = strings.TrimSpace(query)
	if query == "" {
		return leads
	}

	folder := cases.Fold()
	needle := folder.String(query)

	out := make([]store.Lead, 0, len(leads))
	for _, l := range leads {
		if strings.Contains(folder.String(l.Name), needle) ||
			strings.Contains(folder.String(l.Email), needle) ||
			strings.Contains(l.Phone, query) {
			out = append(out, l)
		}
	}
	return out
}
