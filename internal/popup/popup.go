// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package popup decides whether the promotional popup is shown to a visitor
// and remembers when the visitor has dismissed it.
package popup

import (
	"context"
	"time"

	"github.com/olegiv/mentoreu-go/internal/store"
)

// KeyPrefix prefixes the per-popup dismissal key.
const KeyPrefix = "popup_dismissed_"

// MaxDelay is the longest a popup waits before appearing.
const MaxDelay = 60 * time.Second

const dismissedValue = "true"

// DismissalStore is a durable string key/value store scoped to one visitor.
type DismissalStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Key returns the dismissal key for popupID.
func Key(popupID string) string {
	return KeyPrefix + popupID
}

// Tracker records popup dismissals. Flags never expire and are never cleared.
type Tracker struct {
	Store DismissalStore
}

// NewTracker creates a Tracker over s.
func NewTracker(s DismissalStore) *Tracker {
	return &Tracker{Store: s}
}

// ShouldShow reports whether popupID has not been dismissed yet.
func (t *Tracker) ShouldShow(_ context.Context, popupID string) bool {
	v, ok := t.Store.Get(Key(popupID))
	return !ok || v != dismissedValue
}

// MarkDismissed records that the visitor closed popupID or followed its
// button.
func (t *Tracker) MarkDismissed(_ context.Context, popupID string) {
	t.Store.Set(Key(popupID), dismissedValue)
}

// ClampDelay converts a configured delay in seconds to a duration within
// [0, MaxDelay].
func ClampDelay(seconds int64) time.Duration {
	switch {
	case seconds <= 0:
		return 0
	case seconds >= int64(MaxDelay/time.Second):
		return MaxDelay
	}
	return time.Duration(seconds) * time.Second
}

// Candidate picks the popup to show from the active popups, newest first.
// Only the first active popup is considered; if the visitor dismissed it,
// nothing is shown.
func Candidate(ctx context.Context, active []store.Popup, s DismissalStore) (store.Popup, time.Duration, bool) {
	if len(active) == 0 {
		return store.Popup{}, 0, false
	}

	p := active[0]
	if !p.IsActive || !NewTracker(s).ShouldShow(ctx, p.ID) {
		return store.Popup{}, 0, false
	}
	return p, ClampDelay(p.ShowDelay), true
}
