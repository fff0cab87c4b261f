// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package whatsapp

import (
	"strings"
	"testing"

	"github.com/olegiv/mentoreu-go/internal/locale"
	"github.com/olegiv/mentoreu-go/internal/store"
)

func TestLink(t *testing.T) {
	tests := []struct {
		phone string
		text  string
		want  string
	}{
		{"+90 555 123 45 67", "", "https://wa.me/905551234567"},
		{"905551234567", "Merhaba dünya", "https://wa.me/905551234567?text=Merhaba%20d%C3%BCnya"},
		{"90555", "a&b=c", "https://wa.me/90555?text=a%26b%3Dc"},
		{"n/a", "hi", ""},
	}
	for _, tt := range tests {
		if got := Link(tt.phone, tt.text); got != tt.want {
			t.Errorf("Link(%q, %q) = %q, want %q", tt.phone, tt.text, got, tt.want)
		}
	}
}

func TestButtonLink(t *testing.T) {
	s := store.WhatsAppSettings{
		PhoneNumber:    "905551234567",
		DefaultMessage: locale.Text{TR: "Merhaba", EN: "Hello"},
		IsEnabled:      true,
	}

	if got, want := ButtonLink(s, locale.EN), "https://wa.me/905551234567?text=Hello"; got != want {
		t.Errorf("ButtonLink(en) = %q, want %q", got, want)
	}
	if got, want := ButtonLink(s, locale.DE), "https://wa.me/905551234567?text=Merhaba"; got != want {
		t.Errorf("ButtonLink(de) = %q, want %q", got, want)
	}

	s.IsEnabled = false
	if got := ButtonLink(s, locale.TR); got != "" {
		t.Errorf("ButtonLink(disabled) = %q, want empty", got)
	}
}

func TestFollowUpMessage(t *testing.T) {
	msg := FollowUpMessage(store.Lead{Name: "Ali", TargetCountry: []string{"Almanya", "İtalya"}})

	for _, want := range []string{"İsim: Ali", "Email: [Form temizlendi]", "Hedef Ülke: Almanya, İtalya"} {
		if !strings.Contains(msg, want) {
			t.Errorf("FollowUpMessage missing %q in %q", want, msg)
		}
	}
}
