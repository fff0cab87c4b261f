// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/mentoreu-go/internal/locale"
)

const popupColumns = `id,
	title_tr, title_en, title_de,
	content_tr, content_en, content_de,
	button_text_tr, button_text_en, button_text_de,
	button_link, show_delay, is_active, created_at, updated_at`

func scanPopup(row rowScanner) (Popup, error) {
	var p Popup
	err := row.Scan(&p.ID,
		&p.Title.TR, &p.Title.EN, &p.Title.DE,
		&p.Content.TR, &p.Content.EN, &p.Content.DE,
		&p.ButtonText.TR, &p.ButtonText.EN, &p.ButtonText.DE,
		&p.ButtonLink, &p.ShowDelay, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (q *Queries) queryPopups(ctx context.Context, query string, args ...any) ([]Popup, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []Popup{}
	for rows.Next() {
		p, err := scanPopup(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (q *Queries) ListPopups(ctx context.Context) ([]Popup, error) {
	return q.queryPopups(ctx, `SELECT `+popupColumns+` FROM popups ORDER BY created_at DESC`)
}

// ListActivePopups returns active popups, most recently updated first.
func (q *Queries) ListActivePopups(ctx context.Context) ([]Popup, error) {
	return q.queryPopups(ctx, `SELECT `+popupColumns+` FROM popups WHERE is_active = 1 ORDER BY updated_at DESC`)
}

func (q *Queries) GetPopup(ctx context.Context, id string) (Popup, error) {
	return scanPopup(q.db.QueryRowContext(ctx, `SELECT `+popupColumns+` FROM popups WHERE id = ?`, id))
}

type UpsertPopupParams struct {
	ID         string
	Title      locale.Text
	Content    locale.Text
	ButtonText locale.Text
	ButtonLink string
	ShowDelay  int64
	IsActive   bool
	Now        time.Time
}

func (q *Queries) CreatePopup(ctx context.Context, arg UpsertPopupParams) (Popup, error) {
	return scanPopup(q.db.QueryRowContext(ctx,
		`INSERT INTO popups (id,
			title_tr, title_en, title_de,
			content_tr, content_en, content_de,
			button_text_tr, button_text_en, button_text_de,
			button_link, show_delay, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+popupColumns,
		arg.ID,
		arg.Title.TR, arg.Title.EN, arg.Title.DE,
		arg.Content.TR, arg.Content.EN, arg.Content.DE,
		arg.ButtonText.TR, arg.ButtonText.EN, arg.ButtonText.DE,
		arg.ButtonLink, arg.ShowDelay, arg.IsActive, arg.Now, arg.Now,
	))
}

func (q *Queries) UpdatePopup(ctx context.Context, arg UpsertPopupParams) (Popup, error) {
	return scanPopup(q.db.QueryRowContext(ctx,
		`UPDATE popups SET
			title_tr = ?, title_en = ?, title_de = ?,
			content_tr = ?, content_en = ?, content_de = ?,
			button_text_tr = ?, button_text_en = ?, button_text_de = ?,
			button_link = ?, show_delay = ?, is_active = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+popupColumns,
		arg.Title.TR, arg.Title.EN, arg.Title.DE,
		arg.Content.TR, arg.Content.EN, arg.Content.DE,
		arg.ButtonText.TR, arg.ButtonText.EN, arg.ButtonText.DE,
		arg.ButtonLink, arg.ShowDelay, arg.IsActive, arg.Now,
		arg.ID,
	))
}

func (q *Queries) DeletePopup(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM popups WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}
