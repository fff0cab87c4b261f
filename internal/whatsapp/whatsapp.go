// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package whatsapp builds click-to-chat links for the floating WhatsApp
// button and the post-submission follow-up.
package whatsapp

import (
	"net/url"
	"strings"

	"github.com/olegiv/mentoreu-go/internal/locale"
	"github.com/olegiv/mentoreu-go/internal/store"
)

const baseURL = "https://wa.me/"

// placeholder stands in for a value the visitor did not provide.
const placeholder = "[Form temizlendi]"

// Link returns a wa.me link for phone prefilled with text. Everything but
// digits is stripped from phone. An empty result means no usable number.
func Link(phone, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return ""
	}

	link := baseURL + digits
	if text != "" {
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	}
	return link
}

// ButtonLink returns the floating button link in lang, or "" when the
// button is disabled.
func ButtonLink(s store.WhatsAppSettings, lang locale.Lang) string {
	if !s.IsEnabled {
		return ""
	}
	return Link(s.PhoneNumber, s.DefaultMessage.Resolve(lang))
}

// FollowUpMessage is the text a visitor sends after submitting lead l.
func FollowUpMessage(l store.Lead) string {
	or := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return placeholder
		}
		return v
	}

	var b strings.Builder
	b.WriteString("Merhaba, az önce başvuru formunu gönderdim.\n\n")
	b.WriteString("İsim: " + or(l.Name) + "\n")
	b.WriteString("Email: " + or(l.Email) + "\n")
	b.WriteString("Hedef Ülke: " + or(strings.Join(l.TargetCountry, ", ")) + "\n\n")
	b.WriteString("Detaylı görüşmek isterim.")
	return b.String()
}

// FollowUpLink returns the follow-up chat link for l, or "" when WhatsApp
// is disabled.
func FollowUpLink(s store.WhatsAppSettings, l store.Lead) string {
	if !s.IsEnabled {
		return ""
	}
	return Link(s.PhoneNumber, FollowUpMessage(l))
}
