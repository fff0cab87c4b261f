// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package lead

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/mentoreu-go/internal/metrics"
	"github.com/olegiv/mentoreu-go/internal/store"
)

// Store persists leads. *store.Queries implements it.
type Store interface {
	CreateLead(ctx context.Context, arg store.CreateLeadParams) (store.Lead, error)
}

// Notifier is told about every persisted lead. Implementations must return
// promptly and must not report failures back to the caller.
type Notifier interface {
	LeadCreated(l store.Lead)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(l store.Lead)

func (f NotifierFunc) LeadCreated(l store.Lead) { f(l) }

// Meta is request context recorded alongside a lead.
type Meta struct {
	Language    string
	IPAddress   string
	UserAgent   string
	CountryCode string // ISO code of the visitor's IP, when known
}

// Submitter validates and stores leads, then hands them to the notifiers.
type Submitter struct {
	store     Store
	notifiers []Notifier
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewSubmitter creates a Submitter. Notifiers are invoked in order after
// each successful insert.
func NewSubmitter(s Store, logger *slog.Logger, notifiers ...Notifier) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{
		store:     s,
		notifiers: notifiers,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// Submit validates form, inserts one lead and dispatches notifications.
//
// A *ValidationError is returned without touching the store. A failed insert
// yields a *PersistenceError and no notifications. Once the insert succeeds
// the lead is returned regardless of what happens to the notifications.
// Identical submissions create distinct leads.
func (s *Submitter) Submit(ctx context.Context, form FormState, catalog Catalog, meta Meta) (store.Lead, error) {
	form = form.Normalized()

	if err := Validate(form); err != nil {
		metrics.RecordLeadSubmission(metrics.OutcomeInvalid)
		return store.Lead{}, err
	}

	form = catalog.Canonical(form)

	l, err := s.store.CreateLead(ctx, store.CreateLeadParams{
		ID:              s.newID(),
		Name:            form.FullName,
		Email:           form.Email,
		Phone:           form.Phone,
		EducationStatus: form.EducationStatus,
		TargetCountry:   form.TargetCountries,
		Message:         form.Message,
		Language:        meta.Language,
		IPAddress:       meta.IPAddress,
		UserAgent:       meta.UserAgent,
		Device:          DescribeDevice(meta.UserAgent),
		CountryCode:     meta.CountryCode,
		CreatedAt:       s.now(),
	})
	if err != nil {
		metrics.RecordLeadSubmission(metrics.OutcomeFailed)
		s.logger.Error("lead insert failed", "error", err, "email", form.Email)
		return store.Lead{}, &PersistenceError{Err: err}
	}

	metrics.RecordLeadSubmission(metrics.OutcomeSucceeded)
	s.logger.Info("lead submitted", "lead_id", l.ID, "language", l.Language)

	for _, n := range s.notifiers {
		s.notify(n, l)
	}

	return l, nil
}

// notify shields the submission from a misbehaving notifier.
func (s *Submitter) notify(n Notifier, l store.Lead) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("lead notifier panicked", "lead_id", l.ID, "panic", r)
		}
	}()
	n.LeadCreated(l)
}
