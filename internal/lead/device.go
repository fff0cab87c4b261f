// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package lead

import (
	"strings"

	"github.com/mileusna/useragent"
)

// DescribeDevice summarises a User-Agent header, e.g. "Chrome on Android (mobile)".
func DescribeDevice(ua string) string {
	if strings.TrimSpace(ua) == "" {
		return ""
	}

	parsed := useragent.Parse(ua)
	if parsed.Bot {
		return "bot"
	}

	var b strings.Builder
	b.WriteString(orUnknown(parsed.Name))
	if parsed.OS != "" {
		b.WriteString(" on ")
		b.WriteString(parsed.OS)
	}

	switch {
	case parsed.Mobile:
		b.WriteString(" (mobile)")
	case parsed.Tablet:
		b.WriteString(" (tablet)")
	case parsed.Desktop:
		b.WriteString(" (desktop)")
	}

	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
