// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package locale

import "testing"

func TestResolve(t *testing.T) {
	full := Text{TR: "Merhaba", EN: "Hello", DE: "Hallo"}
	baseOnly := Text{TR: "Merhaba"}

	tests := []struct {
		name   string
		text   Text
		active Lang
		want   string
	}{
		{"turkish active", full, TR, "Merhaba"},
		{"english active", full, EN, "Hello"},
		{"german active", full, DE, "Hallo"},
		{"english missing falls back", baseOnly, EN, "Merhaba"},
		{"german missing falls back", baseOnly, DE, "Merhaba"},
		{"only english set, turkish active", Text{EN: "Hello"}, TR, ""},
		{"only english set, german active", Text{EN: "Hello"}, DE, ""},
		{"empty record", Text{}, EN, ""},
		{"unknown language uses base", full, Lang("fr"), "Merhaba"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.text, tt.active); got != tt.want {
				t.Errorf("Resolve(%+v, %q) = %q, want %q", tt.text, tt.active, got, tt.want)
			}
		})
	}
}

func TestResolveFallbackProperty(t *testing.T) {
	records := []Text{
		{},
		{TR: "a"},
		{TR: "a", EN: "b"},
		{TR: "a", DE: "c"},
		{EN: "b", DE: "c"},
		{TR: "a", EN: "b", DE: "c"},
	}

	for _, rec := range records {
		for _, lang := range All() {
			got := rec.Resolve(lang)
			if rec.In(lang) == "" && got != rec.TR {
				t.Errorf("Resolve(%+v, %q) = %q, want base %q", rec, lang, got, rec.TR)
			}
			if rec.In(lang) != "" && got != rec.In(lang) {
				t.Errorf("Resolve(%+v, %q) = %q, want %q", rec, lang, got, rec.In(lang))
			}
		}
	}
}

func TestParseLang(t *testing.T) {
	tests := []struct {
		in     string
		want   Lang
		wantOK bool
	}{
		{"tr", TR, true},
		{"EN", EN, true},
		{" de ", DE, true},
		{"fr", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseLang(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseLang(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDefault(t *testing.T) {
	for in, want := range map[string]Lang{"en": EN, " DE ": DE, "fr": TR, "": TR} {
		if got := Default(in); got != want {
			t.Errorf("Default(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		header string
		want   Lang
	}{
		{"", TR},
		{"en-US,en;q=0.9", EN},
		{"de-DE,de;q=0.9,en;q=0.8", DE},
		{"tr-TR", TR},
		{"ja-JP", TR},
		{"not a header;;", TR},
	}

	for _, tt := range tests {
		if got := Match(tt.header); got != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestTextSet(t *testing.T) {
	var txt Text
	txt.Set(EN, "Hello")
	txt.Set(TR, "Merhaba")
	txt.Set(DE, "Hallo")

	if txt.EN != "Hello" || txt.TR != "Merhaba" || txt.DE != "Hallo" {
		t.Errorf("Set produced %+v", txt)
	}
	if txt.IsZero() {
		t.Error("IsZero() = true, want false")
	}
}
