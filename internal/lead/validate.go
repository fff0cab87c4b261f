// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package lead

import "strings"

// Validate checks the required fields: full name, email, phone, education
// status and at least one target country. The email is only checked for
// presence.
func Validate(f FormState) error {
	var missing []string

	if strings.TrimSpace(f.FullName) == "" {
		missing = append(missing, FieldFullName)
	}
	if strings.TrimSpace(f.Email) == "" {
		missing = append(missing, FieldEmail)
	}
	if strings.TrimSpace(f.Phone) == "" {
		missing = append(missing, FieldPhone)
	}
	if strings.TrimSpace(f.EducationStatus) == "" {
		missing = append(missing, FieldEducationStatus)
	}

	hasCountry := false
	for _, c := range f.TargetCountries {
		if strings.TrimSpace(c) != "" {
			hasCountry = true
			break
		}
	}
	if !hasCountry {
		missing = append(missing, FieldTargetCountry)
	}

	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
