// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package lead

import (
	"context"
	"errors"
	"time"

	"github.com/olegiv/mentoreu-go/internal/metrics"
)

// State is a step of the lead form lifecycle.
type State int

const (
	Editing State = iota
	Validating
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// DefaultSuccessWindow is how long the success banner stays visible.
const DefaultSuccessWindow = 30 * time.Second

// Flow drives one form instance through Editing, Validating, Submitting and
// finally Succeeded or Failed.
type Flow struct {
	Form   FormState
	State  State
	LeadID string
	Err    error

	submitter    *Submitter
	window       time.Duration
	successUntil time.Time
}

// NewFlow returns a Flow in the Editing state.
func NewFlow(s *Submitter, successWindow time.Duration) *Flow {
	if successWindow <= 0 {
		successWindow = DefaultSuccessWindow
	}
	return &Flow{
		Form:      FormState{TargetCountries: []string{}},
		State:     Editing,
		submitter: s,
		window:    successWindow,
	}
}

// ToggleCountry edits the selection and returns the flow to Editing.
func (f *Flow) ToggleCountry(name string) {
	f.Form.ToggleCountry(name)
	f.State = Editing
}

// Submit runs validation and persistence. On success the form is reset and
// the success banner is shown until the window elapses. On failure the
// entered values are kept for correction.
func (f *Flow) Submit(ctx context.Context, catalog Catalog, meta Meta) error {
	f.Err = nil
	f.LeadID = ""

	f.State = Validating
	if err := Validate(f.Form); err != nil {
		metrics.RecordLeadSubmission(metrics.OutcomeInvalid)
		f.fail(err)
		return err
	}

	f.State = Submitting
	l, err := f.submitter.Submit(ctx, f.Form, catalog, meta)
	if err != nil {
		f.fail(err)
		return err
	}

	f.State = Succeeded
	f.LeadID = l.ID
	f.Form.Reset()
	f.successUntil = f.submitter.now().Add(f.window)
	return nil
}

func (f *Flow) fail(err error) {
	f.State = Failed
	f.Err = err
}

// SuccessVisible reports whether the success banner should still be shown.
func (f *Flow) SuccessVisible(now time.Time) bool {
	return f.State == Succeeded && now.Before(f.successUntil)
}

// SuccessWindow returns the configured banner duration.
func (f *Flow) SuccessWindow() time.Duration {
	return f.window
}

// Invalid returns the validation error, if that is why the flow failed.
func (f *Flow) Invalid() *ValidationError {
	var verr *ValidationError
	if errors.As(f.Err, &verr) {
		return verr
	}
	return nil
}
