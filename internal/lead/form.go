// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package lead implements the public lead form: field state, validation,
// persistence and the hand-off to notification dispatch.
package lead

import (
	"slices"
	"strings"
)

// FormState is the visitor-editable content of the lead form.
type FormState struct {
	FullName        string   `json:"full_name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	EducationStatus string   `json:"education_status"`
	TargetCountries []string `json:"target_country"`
	Message         string   `json:"message"`
}

// ToggleCountry adds name to the selected countries, or removes it when it
// is already selected. Toggling twice restores the original selection.
func (f *FormState) ToggleCountry(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if i := slices.Index(f.TargetCountries, name); i >= 0 {
		f.TargetCountries = slices.Delete(f.TargetCountries, i, i+1)
		return
	}
	f.TargetCountries = append(f.TargetCountries, name)
}

// HasCountry reports whether name is selected.
func (f FormState) HasCountry(name string) bool {
	return slices.Contains(f.TargetCountries, name)
}

// Reset clears every field.
func (f *FormState) Reset() {
	*f = FormState{TargetCountries: []string{}}
}

// IsEmpty reports whether every field is at its default.
func (f FormState) IsEmpty() bool {
	return f.FullName == "" && f.Email == "" && f.Phone == "" &&
		f.EducationStatus == "" && len(f.TargetCountries) == 0 && f.Message == ""
}

// Normalized returns a copy with surrounding whitespace trimmed and
// duplicate or blank countries removed, preserving selection order.
func (f FormState) Normalized() FormState {
	out := FormState{
		FullName:        strings.TrimSpace(f.FullName),
		Email:           strings.TrimSpace(f.Email),
		Phone:           strings.TrimSpace(f.Phone),
		EducationStatus: strings.TrimSpace(f.EducationStatus),
		Message:         strings.TrimSpace(f.Message),
		TargetCountries: make([]string, 0, len(f.TargetCountries)),
	}
	for _, c := range f.TargetCountries {
		c = strings.TrimSpace(c)
		if c != "" && !slices.Contains(out.TargetCountries, c) {
			out.TargetCountries = append(out.TargetCountries, c)
		}
	}
	return out
}
