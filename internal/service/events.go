// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the application services shared by the public site,
// the JSON API and the admin API.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/olegiv/mentoreu-go/internal/logging"
	"github.com/olegiv/mentoreu-go/internal/store"
)

// EventRetention is how long event-log entries are kept.
const EventRetention = 90 * 24 * time.Hour

// EventService writes audit entries to the event log.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{queries: store.New(db)}
}

// LogEvent creates an event log entry. Failures are logged, not returned to
// the caller's flow.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, metadata map[string]any) {
	metadataJSON := "{}"
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		Metadata:  metadataJSON,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		slog.Debug("failed to write event", "message", message, "error", err)
	}
}

// LogAuthEvent logs an info-level authentication event.
func (s *EventService) LogAuthEvent(ctx context.Context, message string, metadata map[string]any) {
	s.LogEvent(ctx, logging.LevelInfo, logging.CategoryAuth, message, metadata)
}

// LogLeadEvent logs an info-level lead administration event.
func (s *EventService) LogLeadEvent(ctx context.Context, message string, metadata map[string]any) {
	s.LogEvent(ctx, logging.LevelInfo, logging.CategoryLead, message, metadata)
}

// LogSystemEvent logs an info-level system event.
func (s *EventService) LogSystemEvent(ctx context.Context, message string, metadata map[string]any) {
	s.LogEvent(ctx, logging.LevelInfo, logging.CategorySystem, message, metadata)
}

// List returns recent events, newest first. An empty level matches all.
func (s *EventService) List(ctx context.Context, level string, limit, offset int64) ([]store.Event, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.queries.ListEvents(ctx, store.ListEventsParams{Level: level, Limit: limit, Offset: offset})
}

// DeleteOldEvents removes events older than olderThan and returns how many
// were removed.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.queries.DeleteEventsBefore(ctx, time.Now().UTC().Add(-olderThan))
}
