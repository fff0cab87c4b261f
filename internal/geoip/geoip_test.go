// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package geoip

import (
	"path/filepath"
	"testing"
)

func TestDisabledLookup(t *testing.T) {
	g, err := Open("")
	if err != nil {
		t.Fatalf("Open(\"\") error = %v", err)
	}
	defer func() { _ = g.Close() }()

	if g.Enabled() {
		t.Error("Enabled() = true, want false")
	}

	tests := []struct {
		ip   string
		want string
	}{
		{"85.105.1.1", ""},
		{"192.168.1.5", Local},
		{"127.0.0.1", Local},
		{"::1", Local},
		{"not-an-ip", ""},
	}
	for _, tt := range tests {
		if got := g.Country(tt.ip); got != tt.want {
			t.Errorf("Country(%q) = %q, want %q", tt.ip, got, tt.want)
		}
	}

	if err := g.Reload(); err != nil {
		t.Errorf("Reload() error = %v", err)
	}
}

func TestOpenMissingDatabase(t *testing.T) {
	g, err := Open(filepath.Join(t.TempDir(), "missing.mmdb"))
	if err == nil {
		t.Fatal("Open() should fail for a missing file")
	}
	if g == nil || g.Enabled() {
		t.Error("a failed Open should still return a disabled Lookup")
	}
}

func TestCountryName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"DE", "Almanya"},
		{"TR", "Türkiye"},
		{Local, "Yerel Ağ"},
		{"", ""},
		{"??", "??"},
	}
	for _, tt := range tests {
		if got := CountryName(tt.code); got != tt.want {
			t.Errorf("CountryName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
