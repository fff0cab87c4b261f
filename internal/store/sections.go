// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/mentoreu-go/internal/locale"
)

const sectionColumns = `id, section_key, section_type,
	title_tr, title_en, title_de,
	subtitle_tr, subtitle_en, subtitle_de,
	content_tr, content_en, content_de,
	button_text_tr, button_text_en, button_text_de,
	image_url, button_link, icon, order_number, is_active, created_at, updated_at`

func scanSection(row rowScanner) (LandingSection, error) {
	var s LandingSection
	err := row.Scan(&s.ID, &s.SectionKey, &s.SectionType,
		&s.Title.TR, &s.Title.EN, &s.Title.DE,
		&s.Subtitle.TR, &s.Subtitle.EN, &s.Subtitle.DE,
		&s.Content.TR, &s.Content.EN, &s.Content.DE,
		&s.ButtonText.TR, &s.ButtonText.EN, &s.ButtonText.DE,
		&s.ImageURL, &s.ButtonLink, &s.Icon, &s.OrderNumber, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (q *Queries) querySections(ctx context.Context, query string, args ...any) ([]LandingSection, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []LandingSection{}
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// ListLandingSections returns every section ordered by type and position.
func (q *Queries) ListLandingSections(ctx context.Context) ([]LandingSection, error) {
	return q.querySections(ctx, `SELECT `+sectionColumns+` FROM landing_sections ORDER BY section_type, order_number, section_key`)
}

// ListActiveSectionsByType returns active sections of one type in display order.
func (q *Queries) ListActiveSectionsByType(ctx context.Context, sectionType string) ([]LandingSection, error) {
	return q.querySections(ctx,
		`SELECT `+sectionColumns+` FROM landing_sections
		WHERE section_type = ? AND is_active = 1
		ORDER BY order_number, section_key`,
		sectionType,
	)
}

func (q *Queries) GetLandingSection(ctx context.Context, id string) (LandingSection, error) {
	return scanSection(q.db.QueryRowContext(ctx, `SELECT `+sectionColumns+` FROM landing_sections WHERE id = ?`, id))
}

// UpsertLandingSectionParams carries every writable column of a section.
type UpsertLandingSectionParams struct {
	ID          string
	SectionKey  string
	SectionType string
	Title       locale.Text
	Subtitle    locale.Text
	Content     locale.Text
	ButtonText  locale.Text
	ImageURL    string
	ButtonLink  string
	Icon        string
	OrderNumber int64
	IsActive    bool
	Now         time.Time
}

func (q *Queries) CreateLandingSection(ctx context.Context, arg UpsertLandingSectionParams) (LandingSection, error) {
	return scanSection(q.db.QueryRowContext(ctx,
		`INSERT INTO landing_sections (id, section_key, section_type,
			title_tr, title_en, title_de,
			subtitle_tr, subtitle_en, subtitle_de,
			content_tr, content_en, content_de,
			button_text_tr, button_text_en, button_text_de,
			image_url, button_link, icon, order_number, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+sectionColumns,
		arg.ID, arg.SectionKey, arg.SectionType,
		arg.Title.TR, arg.Title.EN, arg.Title.DE,
		arg.Subtitle.TR, arg.Subtitle.EN, arg.Subtitle.DE,
		arg.Content.TR, arg.Content.EN, arg.Content.DE,
		arg.ButtonText.TR, arg.ButtonText.EN, arg.ButtonText.DE,
		arg.ImageURL, arg.ButtonLink, arg.Icon, arg.OrderNumber, arg.IsActive, arg.Now, arg.Now,
	))
}

func (q *Queries) UpdateLandingSection(ctx context.Context, arg UpsertLandingSectionParams) (LandingSection, error) {
	return scanSection(q.db.QueryRowContext(ctx,
		`UPDATE landing_sections SET section_key = ?, section_type = ?,
			title_tr = ?, title_en = ?, title_de = ?,
			subtitle_tr = ?, subtitle_en = ?, subtitle_de = ?,
			content_tr = ?, content_en = ?, content_de = ?,
			button_text_tr = ?, button_text_en = ?, button_text_de = ?,
			image_url = ?, button_link = ?, icon = ?, order_number = ?, is_active = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+sectionColumns,
		arg.SectionKey, arg.SectionType,
		arg.Title.TR, arg.Title.EN, arg.Title.DE,
		arg.Subtitle.TR, arg.Subtitle.EN, arg.Subtitle.DE,
		arg.Content.TR, arg.Content.EN, arg.Content.DE,
		arg.ButtonText.TR, arg.ButtonText.EN, arg.ButtonText.DE,
		arg.ImageURL, arg.ButtonLink, arg.Icon, arg.OrderNumber, arg.IsActive, arg.Now,
		arg.ID,
	))
}

func (q *Queries) DeleteLandingSection(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM landing_sections WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

const countryColumns = `id, name_tr, name_en, name_de, flag_emoji, link_url, order_number, is_active, created_at, updated_at`

func scanEducationCountry(row rowScanner) (EducationCountry, error) {
	var c EducationCountry
	err := row.Scan(&c.ID, &c.Name.TR, &c.Name.EN, &c.Name.DE, &c.FlagEmoji, &c.LinkURL,
		&c.OrderNumber, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListEducationCountries returns destination countries in display order.
// When activeOnly is set, hidden countries are skipped.
func (q *Queries) ListEducationCountries(ctx context.Context, activeOnly bool) ([]EducationCountry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+countryColumns+` FROM education_countries
		WHERE (? = 0 OR is_active = 1)
		ORDER BY order_number, name_tr`,
		activeOnly,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []EducationCountry{}
	for rows.Next() {
		c, err := scanEducationCountry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

type UpsertEducationCountryParams struct {
	ID          string
	Name        locale.Text
	FlagEmoji   string
	LinkURL     string
	OrderNumber int64
	IsActive    bool
	Now         time.Time
}

func (q *Queries) CreateEducationCountry(ctx context.Context, arg UpsertEducationCountryParams) (EducationCountry, error) {
	return scanEducationCountry(q.db.QueryRowContext(ctx,
		`INSERT INTO education_countries (id, name_tr, name_en, name_de, flag_emoji, link_url, order_number, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+countryColumns,
		arg.ID, arg.Name.TR, arg.Name.EN, arg.Name.DE, arg.FlagEmoji, arg.LinkURL, arg.OrderNumber, arg.IsActive, arg.Now, arg.Now,
	))
}

func (q *Queries) UpdateEducationCountry(ctx context.Context, arg UpsertEducationCountryParams) (EducationCountry, error) {
	return scanEducationCountry(q.db.QueryRowContext(ctx,
		`UPDATE education_countries SET name_tr = ?, name_en = ?, name_de = ?, flag_emoji = ?, link_url = ?,
			order_number = ?, is_active = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+countryColumns,
		arg.Name.TR, arg.Name.EN, arg.Name.DE, arg.FlagEmoji, arg.LinkURL, arg.OrderNumber, arg.IsActive, arg.Now,
		arg.ID,
	))
}

func (q *Queries) DeleteEducationCountry(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM education_countries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

// GetContactInfo returns the footer contact record, or a zero value when unset.
func (q *Queries) GetContactInfo(ctx context.Context) (ContactInfo, error) {
	var c ContactInfo
	err := q.db.QueryRowContext(ctx,
		`SELECT company_description_tr, company_description_en, company_description_de,
			email, phone, address, instagram_url, linkedin_url, twitter_url, facebook_url,
			copyright_text_tr, copyright_text_en, copyright_text_de,
			privacy_policy_url, terms_url, updated_at
		FROM contact_info WHERE id = 1`,
	).Scan(&c.CompanyDescription.TR, &c.CompanyDescription.EN, &c.CompanyDescription.DE,
		&c.Email, &c.Phone, &c.Address, &c.InstagramURL, &c.LinkedinURL, &c.TwitterURL, &c.FacebookURL,
		&c.CopyrightText.TR, &c.CopyrightText.EN, &c.CopyrightText.DE,
		&c.PrivacyPolicyURL, &c.TermsURL, &c.UpdatedAt)
	return c, ignoreNoRows(err)
}

func (q *Queries) SaveContactInfo(ctx context.Context, c ContactInfo) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO contact_info (id,
			company_description_tr, company_description_en, company_description_de,
			email, phone, address, instagram_url, linkedin_url, twitter_url, facebook_url,
			copyright_text_tr, copyright_text_en, copyright_text_de,
			privacy_policy_url, terms_url, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			company_description_tr = excluded.company_description_tr,
			company_description_en = excluded.company_description_en,
			company_description_de = excluded.company_description_de,
			email = excluded.email,
			phone = excluded.phone,
			address = excluded.address,
			instagram_url = excluded.instagram_url,
			linkedin_url = excluded.linkedin_url,
			twitter_url = excluded.twitter_url,
			facebook_url = excluded.facebook_url,
			copyright_text_tr = excluded.copyright_text_tr,
			copyright_text_en = excluded.copyright_text_en,
			copyright_text_de = excluded.copyright_text_de,
			privacy_policy_url = excluded.privacy_policy_url,
			terms_url = excluded.terms_url,
			updated_at = excluded.updated_at`,
		c.CompanyDescription.TR, c.CompanyDescription.EN, c.CompanyDescription.DE,
		c.Email, c.Phone, c.Address, c.InstagramURL, c.LinkedinURL, c.TwitterURL, c.FacebookURL,
		c.CopyrightText.TR, c.CopyrightText.EN, c.CopyrightText.DE,
		c.PrivacyPolicyURL, c.TermsURL, c.UpdatedAt,
	)
	return err
}
