// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/olegiv/mentoreu-go/internal/locale"
)

// GetFormSettings returns the lead form configuration, or a zero value when unset.
func (q *Queries) GetFormSettings(ctx context.Context) (FormSettings, error) {
	var (
		s      FormSettings
		fields string
	)
	err := q.db.QueryRowContext(ctx,
		`SELECT section_title_tr, section_title_en, section_title_de,
			section_description_tr, section_description_en, section_description_de,
			field_config,
			submit_button_text_tr, submit_button_text_en, submit_button_text_de,
			success_message_tr, success_message_en, success_message_de,
			privacy_notice_tr, privacy_notice_en, privacy_notice_de,
			updated_at
		FROM form_settings WHERE id = 1`,
	).Scan(&s.SectionTitle.TR, &s.SectionTitle.EN, &s.SectionTitle.DE,
		&s.SectionDescription.TR, &s.SectionDescription.EN, &s.SectionDescription.DE,
		&fields,
		&s.SubmitButtonText.TR, &s.SubmitButtonText.EN, &s.SubmitButtonText.DE,
		&s.SuccessMessage.TR, &s.SuccessMessage.EN, &s.SuccessMessage.DE,
		&s.PrivacyNotice.TR, &s.PrivacyNotice.EN, &s.PrivacyNotice.DE,
		&s.UpdatedAt)
	if err != nil {
		return s, ignoreNoRows(err)
	}
	if fields != "" {
		if err := json.Unmarshal([]byte(fields), &s.Fields); err != nil {
			return s, fmt.Errorf("decoding field config: %w", err)
		}
	}
	return s, nil
}

func (q *Queries) SaveFormSettings(ctx context.Context, s FormSettings) error {
	fields, err := json.Marshal(s.Fields)
	if err != nil {
		return fmt.Errorf("encoding field config: %w", err)
	}
	_, err = q.db.ExecContext(ctx,
		`INSERT INTO form_settings (id,
			section_title_tr, section_title_en, section_title_de,
			section_description_tr, section_description_en, section_description_de,
			field_config,
			submit_button_text_tr, submit_button_text_en, submit_button_text_de,
			success_message_tr, success_message_en, success_message_de,
			privacy_notice_tr, privacy_notice_en, privacy_notice_de,
			updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			section_title_tr = excluded.section_title_tr,
			section_title_en = excluded.section_title_en,
			section_title_de = excluded.section_title_de,
			section_description_tr = excluded.section_description_tr,
			section_description_en = excluded.section_description_en,
			section_description_de = excluded.section_description_de,
			field_config = excluded.field_config,
			submit_button_text_tr = excluded.submit_button_text_tr,
			submit_button_text_en = excluded.submit_button_text_en,
			submit_button_text_de = excluded.submit_button_text_de,
			success_message_tr = excluded.success_message_tr,
			success_message_en = excluded.success_message_en,
			success_message_de = excluded.success_message_de,
			privacy_notice_tr = excluded.privacy_notice_tr,
			privacy_notice_en = excluded.privacy_notice_en,
			privacy_notice_de = excluded.privacy_notice_de,
			updated_at = excluded.updated_at`,
		s.SectionTitle.TR, s.SectionTitle.EN, s.SectionTitle.DE,
		s.SectionDescription.TR, s.SectionDescription.EN, s.SectionDescription.DE,
		string(fields),
		s.SubmitButtonText.TR, s.SubmitButtonText.EN, s.SubmitButtonText.DE,
		s.SuccessMessage.TR, s.SuccessMessage.EN, s.SuccessMessage.DE,
		s.PrivacyNotice.TR, s.PrivacyNotice.EN, s.PrivacyNotice.DE,
		s.UpdatedAt,
	)
	return err
}

const educationOptionColumns = `id, option_text_tr, option_text_en, option_text_de, order_number, is_active, created_at, updated_at`

func scanEducationOption(row rowScanner) (EducationOption, error) {
	var o EducationOption
	err := row.Scan(&o.ID, &o.OptionText.TR, &o.OptionText.EN, &o.OptionText.DE,
		&o.OrderNumber, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// ListEducationOptions returns education status options in display order.
func (q *Queries) ListEducationOptions(ctx context.Context, activeOnly bool) ([]EducationOption, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+educationOptionColumns+` FROM form_education_options
		WHERE (? = 0 OR is_active = 1)
		ORDER BY order_number, option_text_tr`,
		activeOnly,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []EducationOption{}
	for rows.Next() {
		o, err := scanEducationOption(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

type UpsertEducationOptionParams struct {
	ID          string
	OptionText  locale.Text
	OrderNumber int64
	IsActive    bool
	Now         time.Time
}

func (q *Queries) CreateEducationOption(ctx context.Context, arg UpsertEducationOptionParams) (EducationOption, error) {
	return scanEducationOption(q.db.QueryRowContext(ctx,
		`INSERT INTO form_education_options (id, option_text_tr, option_text_en, option_text_de, order_number, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+educationOptionColumns,
		arg.ID, arg.OptionText.TR, arg.OptionText.EN, arg.OptionText.DE, arg.OrderNumber, arg.IsActive, arg.Now, arg.Now,
	))
}

func (q *Queries) UpdateEducationOption(ctx context.Context, arg UpsertEducationOptionParams) (EducationOption, error) {
	return scanEducationOption(q.db.QueryRowContext(ctx,
		`UPDATE form_education_options SET option_text_tr = ?, option_text_en = ?, option_text_de = ?,
			order_number = ?, is_active = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+educationOptionColumns,
		arg.OptionText.TR, arg.OptionText.EN, arg.OptionText.DE, arg.OrderNumber, arg.IsActive, arg.Now,
		arg.ID,
	))
}

func (q *Queries) DeleteEducationOption(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM form_education_options WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

const countryOptionColumns = `id, name_tr, name_en, name_de, flag_emoji, order_number, is_active, created_at, updated_at`

func scanCountryOption(row rowScanner) (CountryOption, error) {
	var o CountryOption
	err := row.Scan(&o.ID, &o.Name.TR, &o.Name.EN, &o.Name.DE, &o.FlagEmoji,
		&o.OrderNumber, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// ListCountryOptions returns target country options in display order.
func (q *Queries) ListCountryOptions(ctx context.Context, activeOnly bool) ([]CountryOption, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+countryOptionColumns+` FROM form_country_options
		WHERE (? = 0 OR is_active = 1)
		ORDER BY order_number, name_tr`,
		activeOnly,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []CountryOption{}
	for rows.Next() {
		o, err := scanCountryOption(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

type UpsertCountryOptionParams struct {
	ID          string
	Name        locale.Text
	FlagEmoji   string
	OrderNumber int64
	IsActive    bool
	Now         time.Time
}

func (q *Queries) CreateCountryOption(ctx context.Context, arg UpsertCountryOptionParams) (CountryOption, error) {
	return scanCountryOption(q.db.QueryRowContext(ctx,
		`INSERT INTO form_country_options (id, name_tr, name_en, name_de, flag_emoji, order_number, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+countryOptionColumns,
		arg.ID, arg.Name.TR, arg.Name.EN, arg.Name.DE, arg.FlagEmoji, arg.OrderNumber, arg.IsActive, arg.Now, arg.Now,
	))
}

func (q *Queries) UpdateCountryOption(ctx context.Context, arg UpsertCountryOptionParams) (CountryOption, error) {
	return scanCountryOption(q.db.QueryRowContext(ctx,
		`UPDATE form_country_options SET name_tr = ?, name_en = ?, name_de = ?, flag_emoji = ?,
			order_number = ?, is_active = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+countryOptionColumns,
		arg.Name.TR, arg.Name.EN, arg.Name.DE, arg.FlagEmoji, arg.OrderNumber, arg.IsActive, arg.Now,
		arg.ID,
	))
}

func (q *Queries) DeleteCountryOption(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM form_country_options WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}
