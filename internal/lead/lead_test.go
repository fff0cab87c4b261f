// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package lead

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/olegiv/mentoreu-go/internal/locale"
	"github.com/olegiv/mentoreu-go/internal/store"
	"github.com/olegiv/mentoreu-go/internal/testutil"
)

// fakeStore records inserts and can be told to fail.
type fakeStore struct {
	mu    sync.Mutex
	leads []store.Lead
	err   error
	calls int
}

func (s *fakeStore) CreateLead(_ context.Context, arg store.CreateLeadParams) (store.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.err != nil {
		return store.Lead{}, s.err
	}
	l := store.Lead{
		ID:              arg.ID,
		Name:            arg.Name,
		Email:           arg.Email,
		Phone:           arg.Phone,
		EducationStatus: arg.EducationStatus,
		TargetCountry:   arg.TargetCountry,
		Message:         arg.Message,
		Language:        arg.Language,
		CreatedAt:       arg.CreatedAt,
	}
	s.leads = append(s.leads, l)
	return l, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	leads []store.Lead
}

func (n *recordingNotifier) LeadCreated(l store.Lead) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.leads = append(n.leads, l)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.leads)
}

func validForm() FormState {
	return FormState{
		FullName:        "Ayşe Yılmaz",
		Email:           "a@b.com",
		Phone:           "555",
		EducationStatus: "Lise",
		TargetCountries: []string{"Almanya"},
	}
}

func newTestSubmitter(s Store, n Notifier) *Submitter {
	sub := NewSubmitter(s, testutil.TestLogger(), n)
	seq := 0
	sub.newID = func() string {
		seq++
		return fmt.Sprintf("lead-%d", seq)
	}
	return sub
}

func TestToggleCountry(t *testing.T) {
	var f FormState

	f.ToggleCountry("Almanya")
	f.ToggleCountry("İtalya")
	if !reflect.DeepEqual(f.TargetCountries, []string{"Almanya", "İtalya"}) {
		t.Fatalf("TargetCountries = %v", f.TargetCountries)
	}

	f.ToggleCountry("Almanya")
	if !reflect.DeepEqual(f.TargetCountries, []string{"İtalya"}) {
		t.Errorf("after removing Almanya = %v, want [İtalya]", f.TargetCountries)
	}

	f.ToggleCountry("İtalya")
	if len(f.TargetCountries) != 0 {
		t.Errorf("after removing all = %v, want empty", f.TargetCountries)
	}

	f.ToggleCountry("   ")
	if len(f.TargetCountries) != 0 {
		t.Errorf("blank toggle added %v", f.TargetCountries)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*FormState)
		missing string
	}{
		{"empty name", func(f *FormState) { f.FullName = "" }, FieldFullName},
		{"blank name", func(f *FormState) { f.FullName = "   " }, FieldFullName},
		{"empty email", func(f *FormState) { f.Email = "" }, FieldEmail},
		{"empty phone", func(f *FormState) { f.Phone = "" }, FieldPhone},
		{"empty education", func(f *FormState) { f.EducationStatus = "" }, FieldEducationStatus},
		{"no countries", func(f *FormState) { f.TargetCountries = nil }, FieldTargetCountry},
		{"blank country only", func(f *FormState) { f.TargetCountries = []string{" "} }, FieldTargetCountry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)

			err := Validate(f)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if !verr.Has(tt.missing) {
				t.Errorf("Fields = %v, want to contain %q", verr.Fields, tt.missing)
			}
		})
	}

	if err := Validate(validForm()); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}

	f := validForm()
	f.Email = "not-an-email"
	if err := Validate(f); err != nil {
		t.Errorf("email format should not be checked, got %v", err)
	}
}

func TestSubmitValidationSkipsStore(t *testing.T) {
	st := &fakeStore{}
	n := &recordingNotifier{}
	sub := newTestSubmitter(st, n)

	f := validForm()
	f.FullName = ""

	_, err := sub.Submit(context.Background(), f, Catalog{}, Meta{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Submit() = %v, want *ValidationError", err)
	}
	if st.calls != 0 {
		t.Errorf("store calls = %d, want 0", st.calls)
	}
	if n.count() != 0 {
		t.Errorf("notifications = %d, want 0", n.count())
	}
}

func TestSubmitPersistenceFailureSendsNothing(t *testing.T) {
	st := &fakeStore{err: errors.New("permission denied for table leads")}
	n := &recordingNotifier{}
	sub := newTestSubmitter(st, n)

	_, err := sub.Submit(context.Background(), validForm(), Catalog{}, Meta{})

	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("Submit() = %v, want *PersistenceError", err)
	}
	if perr.Err.Error() != "permission denied for table leads" {
		t.Errorf("PersistenceError message = %q", perr.Err.Error())
	}
	if st.calls != 1 {
		t.Errorf("store calls = %d, want exactly 1 (no retry)", st.calls)
	}
	if n.count() != 0 {
		t.Errorf("notifications = %d, want 0", n.count())
	}
}

func TestSubmitDoesNotDeduplicate(t *testing.T) {
	st := &fakeStore{}
	n := &recordingNotifier{}
	sub := newTestSubmitter(st, n)
	ctx := context.Background()

	first, err := sub.Submit(ctx, validForm(), Catalog{}, Meta{})
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	second, err := sub.Submit(ctx, validForm(), Catalog{}, Meta{})
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}

	if first.ID == second.ID {
		t.Errorf("both submissions got id %q", first.ID)
	}
	if len(st.leads) != 2 {
		t.Errorf("stored leads = %d, want 2", len(st.leads))
	}
	if n.count() != 2 {
		t.Errorf("notifications = %d, want 2", n.count())
	}
}

func TestSubmitSurvivesPanickingNotifier(t *testing.T) {
	st := &fakeStore{}
	after := &recordingNotifier{}
	sub := NewSubmitter(st, testutil.TestLogger(),
		NotifierFunc(func(store.Lead) { panic("boom") }),
		after,
	)

	if _, err := sub.Submit(context.Background(), validForm(), Catalog{}, Meta{}); err != nil {
		t.Fatalf("Submit() = %v, want nil", err)
	}
	if after.count() != 1 {
		t.Errorf("later notifier calls = %d, want 1", after.count())
	}
}

func TestSubmitCanonicalizesCatalogValues(t *testing.T) {
	st := &fakeStore{}
	sub := newTestSubmitter(st, &recordingNotifier{})

	catalog := Catalog{
		Education: []store.EducationOption{{OptionText: locale.Text{TR: "Lise", EN: "High School"}}},
		Countries: []store.CountryOption{
			{Name: locale.Text{TR: "Almanya", EN: "Germany", DE: "Deutschland"}},
		},
	}

	f := validForm()
	f.EducationStatus = "high school"
	f.TargetCountries = []string{"Germany", "Almanya", "Mars"}

	l, err := sub.Submit(context.Background(), f, catalog, Meta{Language: "en"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if l.EducationStatus != "Lise" {
		t.Errorf("EducationStatus = %q, want %q", l.EducationStatus, "Lise")
	}
	if !reflect.DeepEqual(l.TargetCountry, []string{"Almanya", "Mars"}) {
		t.Errorf("TargetCountry = %v, want [Almanya Mars]", l.TargetCountry)
	}
}

func TestFlowSuccessResetsForm(t *testing.T) {
	st := &fakeStore{}
	sub := newTestSubmitter(st, &recordingNotifier{})
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	sub.now = func() time.Time { return now }

	flow := NewFlow(sub, 30*time.Second)
	flow.Form = validForm()
	flow.Form.Message = "Merhaba"

	if err := flow.Submit(context.Background(), Catalog{}, Meta{}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if flow.State != Succeeded {
		t.Errorf("State = %v, want %v", flow.State, Succeeded)
	}
	if !flow.Form.IsEmpty() {
		t.Errorf("Form after success = %+v, want empty", flow.Form)
	}
	if flow.LeadID == "" {
		t.Error("LeadID is empty")
	}
	if !flow.SuccessVisible(now.Add(29 * time.Second)) {
		t.Error("success banner hidden before window elapsed")
	}
	if flow.SuccessVisible(now.Add(30 * time.Second)) {
		t.Error("success banner still visible after window")
	}
}

func TestFlowFailurePreservesForm(t *testing.T) {
	tests := []struct {
		name  string
		store *fakeStore
		form  func() FormState
	}{
		{
			name:  "validation",
			store: &fakeStore{},
			form: func() FormState {
				f := validForm()
				f.Phone = ""
				return f
			},
		},
		{
			name:  "persistence",
			store: &fakeStore{err: errors.New("network down")},
			form:  validForm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := NewFlow(newTestSubmitter(tt.store, &recordingNotifier{}), 0)
			flow.Form = tt.form()
			before := tt.form()

			if err := flow.Submit(context.Background(), Catalog{}, Meta{}); err == nil {
				t.Fatal("Submit() = nil, want error")
			}
			if flow.State != Failed {
				t.Errorf("State = %v, want %v", flow.State, Failed)
			}
			if !reflect.DeepEqual(flow.Form, before) {
				t.Errorf("Form = %+v, want %+v", flow.Form, before)
			}
			if flow.SuccessVisible(time.Now()) {
				t.Error("success banner visible after failure")
			}
		})
	}
}

func TestFlowInvalid(t *testing.T) {
	flow := NewFlow(newTestSubmitter(&fakeStore{}, &recordingNotifier{}), 0)
	_ = flow.Submit(context.Background(), Catalog{}, Meta{})

	verr := flow.Invalid()
	if verr == nil {
		t.Fatal("Invalid() = nil for an empty form")
	}
	if len(verr.Fields) != 5 {
		t.Errorf("Fields = %v, want 5 entries", verr.Fields)
	}
	if flow.SuccessWindow() != DefaultSuccessWindow {
		t.Errorf("SuccessWindow() = %v, want %v", flow.SuccessWindow(), DefaultSuccessWindow)
	}
}

// submissionCount reads mentoreu_lead_submissions_total{outcome} from the
// default registry.
func submissionCount(t *testing.T, outcome string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "mentoreu_lead_submissions_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestFlowCountsOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		store   *fakeStore
		form    func() FormState
		outcome string
	}{
		{
			name:    "invalid",
			store:   &fakeStore{},
			form:    func() FormState { f := validForm(); f.Email = ""; return f },
			outcome: "invalid",
		},
		{
			name:    "failed",
			store:   &fakeStore{err: errors.New("network down")},
			form:    validForm,
			outcome: "failed",
		},
		{
			name:    "succeeded",
			store:   &fakeStore{},
			form:    validForm,
			outcome: "succeeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := submissionCount(t, tt.outcome)

			flow := NewFlow(newTestSubmitter(tt.store, &recordingNotifier{}), 0)
			flow.Form = tt.form()
			_ = flow.Submit(context.Background(), Catalog{}, Meta{})

			if got := submissionCount(t, tt.outcome) - before; got != 1 {
				t.Errorf("%s submissions counted %v times, want 1", tt.outcome, got)
			}
		})
	}
}

func TestPersistenceErrorReason(t *testing.T) {
	db := testutil.TestDB(t)
	queries := store.New(db)
	params := store.CreateLeadParams{
		ID: "dup", Name: "A", Email: "a@b.com", Phone: "1",
		EducationStatus: "Lise", TargetCountry: []string{"Almanya"}, CreatedAt: time.Now(),
	}
	if _, err := queries.CreateLead(context.Background(), params); err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}
	_, dupErr := queries.CreateLead(context.Background(), params)
	if dupErr == nil {
		t.Fatal("duplicate CreateLead() = nil, want constraint error")
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"deadline", fmt.Errorf("insert: %w", context.DeadlineExceeded), ReasonTimeout},
		{"canceled", context.Canceled, ReasonTimeout},
		{"constraint", dupErr, ReasonRejected},
		{"other", errors.New("disk I/O error"), ReasonUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := &PersistenceError{Err: tt.err}
			if got := perr.Reason(); got != tt.want {
				t.Errorf("Reason() = %q, want %q", got, tt.want)
			}
		})
	}
}
