// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	if arg.Metadata == "" {
		arg.Metadata = "{}"
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO events (level, category, message, metadata, created_at) VALUES (?, ?, ?, ?, ?)`,
		arg.Level, arg.Category, arg.Message, arg.Metadata, arg.CreatedAt,
	)
	return err
}

type ListEventsParams struct {
	Level  string
	Limit  int64
	Offset int64
}

// ListEvents returns the newest events first. An empty Level matches all.
func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, level, category, message, metadata, created_at
		FROM events
		WHERE (? = '' OR level = ?)
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		arg.Level, arg.Level, arg.Limit, arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// DeleteEventsBefore prunes the event log.
func (q *Queries) DeleteEventsBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
