// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package locale resolves per-language content for the public site.
//
// Every translatable field is stored as a Text value with one variant per
// supported language. Turkish is the base language: it is mandatory for
// active content and is the fallback for every other language.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Lang is a supported UI language.
type Lang string

// Supported languages.
const (
	TR Lang = "tr"
	EN Lang = "en"
	DE Lang = "de"
)

// Base is the mandatory fallback language.
const Base = TR

// All returns the supported languages in display order.
func All() []Lang {
	return []Lang{TR, EN, DE}
}

// String returns the language code.
func (l Lang) String() string {
	return string(l)
}

// Valid reports whether l is one of the supported languages.
func (l Lang) Valid() bool {
	switch l {
	case TR, EN, DE:
		return true
	}
	return false
}

// ParseLang parses a language code such as "en" or "DE".
func ParseLang(s string) (Lang, bool) {
	l := Lang(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", false
	}
	return l, true
}

// Default parses s and falls back to Base for unsupported codes.
func Default(s string) Lang {
	if l, ok := ParseLang(s); ok {
		return l
	}
	return Base
}

// Text holds one logical field in every supported language.
type Text struct {
	TR string `json:"tr"`
	EN string `json:"en"`
	DE string `json:"de"`
}

// In returns the raw variant for lang without any fallback.
func (t Text) In(lang Lang) string {
	switch lang {
	case EN:
		return t.EN
	case DE:
		return t.DE
	default:
		return t.TR
	}
}

// Set replaces the variant for lang.
func (t *Text) Set(lang Lang, value string) {
	switch lang {
	case EN:
		t.EN = value
	case DE:
		t.DE = value
	default:
		t.TR = value
	}
}

// IsZero reports whether every variant is empty.
func (t Text) IsZero() bool {
	return t.TR == "" && t.EN == "" && t.DE == ""
}

// Resolve picks the display value of t for the active language.
// The active variant wins when non-empty, the base variant is used otherwise,
// and an empty string is returned when neither is set.
func Resolve(t Text, active Lang) string {
	if v := t.In(active); v != "" {
		return v
	}
	return t.TR
}

// Resolve is shorthand for locale.Resolve(t, active).
func (t Text) Resolve(active Lang) string {
	return Resolve(t, active)
}

var matcher = language.NewMatcher([]language.Tag{
	language.Turkish,
	language.English,
	language.German,
})

// Match picks the best supported language for an Accept-Language header.
// It returns Base when the header is empty, malformed or matches nothing.
func Match(acceptLanguage string) Lang {
	if acceptLanguage == "" {
		return Base
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Base
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Base
	}
	return All()[idx]
}

// Tag returns the BCP 47 tag for lang.
func (l Lang) Tag() language.Tag {
	switch l {
	case EN:
		return language.English
	case DE:
		return language.German
	default:
		return language.Turkish
	}
}
