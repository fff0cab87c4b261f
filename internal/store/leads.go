// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const leadColumns = `id, name, email, phone, education_status, target_country, message,
	language, ip_address, user_agent, device, country_code, contacted, created_at`

func scanLead(row rowScanner) (Lead, error) {
	var (
		l         Lead
		countries string
	)
	err := row.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.EducationStatus, &countries, &l.Message,
		&l.Language, &l.IPAddress, &l.UserAgent, &l.Device, &l.CountryCode, &l.Contacted, &l.CreatedAt)
	l.TargetCountry = decodeStrings(countries)
	return l, err
}

type CreateLeadParams struct {
	ID              string
	Name            string
	Email           string
	Phone           string
	EducationStatus string
	TargetCountry   []string
	Message         string
	Language        string
	IPAddress       string
	UserAgent       string
	Device          string
	CountryCode     string
	CreatedAt       time.Time
}

func (q *Queries) CreateLead(ctx context.Context, arg CreateLeadParams) (Lead, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO leads (id, name, email, phone, education_status, target_country, message,
			language, ip_address, user_agent, device, country_code, contacted, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
		RETURNING `+leadColumns,
		arg.ID, arg.Name, arg.Email, arg.Phone, arg.EducationStatus, encodeStrings(arg.TargetCountry), arg.Message,
		arg.Language, arg.IPAddress, arg.UserAgent, arg.Device, arg.CountryCode, arg.CreatedAt,
	)
	return scanLead(row)
}

func (q *Queries) GetLead(ctx context.Context, id string) (Lead, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	return scanLead(row)
}

// ListLeads returns leads newest first.
func (q *Queries) ListLeads(ctx context.Context) ([]Lead, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

func (q *Queries) DeleteLead(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

func (q *Queries) SetLeadContacted(ctx context.Context, id string, contacted bool) error {
	res, err := q.db.ExecContext(ctx, `UPDATE leads SET contacted = ? WHERE id = ?`, contacted, id)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

// LeadStats summarises the leads table for the dashboard.
type LeadStats struct {
	Total       int64 `json:"total"`
	Uncontacted int64 `json:"uncontacted"`
	Recent      int64 `json:"recent"`
}

// GetLeadStats counts all leads, uncontacted leads and leads created at or after since.
func (q *Queries) GetLeadStats(ctx context.Context, since time.Time) (LeadStats, error) {
	var s LeadStats
	err := q.db.QueryRowContext(ctx,
		`SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN contacted = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0)
		FROM leads`,
		since,
	).Scan(&s.Total, &s.Uncontacted, &s.Recent)
	return s, err
}
