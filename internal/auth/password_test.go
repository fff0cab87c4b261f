// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"errors"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("mentor-secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	tests := []struct {
		password string
		want     bool
	}{
		{"mentor-secret", true},
		{"mentor-secreT", false},
		{"", false},
	}

	for _, tt := range tests {
		got, err := CheckPassword(tt.password, hash)
		if err != nil {
			t.Fatalf("CheckPassword(%q): %v", tt.password, err)
		}
		if got != tt.want {
			t.Errorf("CheckPassword(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	a, _ := HashPassword("same")
	b, _ := HashPassword("same")
	if a == b {
		t.Error("two hashes of the same password are identical")
	}
}

func TestCheckPasswordLegacyParameters(t *testing.T) {
	// m=65536,t=1,p=4 hash of "changeme"
	legacy := "$argon2id$v=19$m=65536,t=1,p=4$mucMvOaS6lZ2LWNS1OEFKw$UYEWv8cvCOO6l2zGeqv3JPVe1nyy0x9GXBfYEuDM544"

	if !NeedsRehash(legacy) {
		t.Error("NeedsRehash(legacy) = false, want true")
	}

	fresh, _ := HashPassword("changeme")
	if NeedsRehash(fresh) {
		t.Error("NeedsRehash(fresh) = true, want false")
	}
}

func TestCheckPasswordInvalidHash(t *testing.T) {
	for _, h := range []string{"", "plain", "$bcrypt$v=19$m=1,t=1,p=1$a$b", "$argon2id$v=19$m=x$a$b"} {
		if _, err := CheckPassword("x", h); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("CheckPassword(%q) error = %v, want ErrInvalidHash", h, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("12345"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("ValidatePassword(5 chars) = %v, want ErrPasswordTooShort", err)
	}
	if err := ValidatePassword("şifre1"); err != nil {
		t.Errorf("ValidatePassword(6 runes) = %v, want nil", err)
	}
}
