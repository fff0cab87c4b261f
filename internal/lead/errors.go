// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package lead

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/olegiv/mentoreu-go/internal/store"
)

// Form field names used in validation errors.
const (
	FieldFullName        = "full_name"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldEducationStatus = "education_status"
	FieldTargetCountry   = "target_country"
)

// ValidationError reports required fields that were left empty.
// It is returned before any datastore call is made.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// Persistence failure categories, used to pick the message shown to the
// visitor without exposing the datastore error itself.
const (
	ReasonTimeout  = "timeout"
	ReasonBusy     = "busy"
	ReasonRejected = "rejected"
	ReasonUnknown  = "unknown"
)

// PersistenceError wraps a failed lead insert.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("saving lead: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Reason classifies the underlying datastore error.
func (e *PersistenceError) Reason() string {
	switch {
	case errors.Is(e.Err, context.DeadlineExceeded), errors.Is(e.Err, context.Canceled):
		return ReasonTimeout
	case store.IsBusy(e.Err):
		return ReasonBusy
	case store.IsConstraintViolation(e.Err):
		return ReasonRejected
	default:
		return ReasonUnknown
	}
}

// NotificationError describes a failed notification send. It is logged by
// the dispatcher and never returned from Submit.
type NotificationError struct {
	Kind string
	Err  error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("%s notification: %v", e.Kind, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
