// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "context"

// GetEmailSettings returns the notification settings, or a zero value when unset.
func (q *Queries) GetEmailSettings(ctx context.Context) (EmailSettings, error) {
	var (
		s      EmailSettings
		admins string
	)
	err := q.db.QueryRowContext(ctx,
		`SELECT service_id, public_key, admin_notification_enabled, admin_template_id, admin_emails,
			student_autoresponse_enabled, student_template_id, student_subject, reply_to_email, updated_at
		FROM email_settings WHERE id = 1`,
	).Scan(&s.ServiceID, &s.PublicKey, &s.AdminNotificationEnabled, &s.AdminTemplateID, &admins,
		&s.StudentAutoresponseEnabled, &s.StudentTemplateID, &s.StudentSubject, &s.ReplyToEmail, &s.UpdatedAt)
	s.AdminEmails = decodeStrings(admins)
	return s, ignoreNoRows(err)
}

func (q *Queries) SaveEmailSettings(ctx context.Context, s EmailSettings) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO email_settings (id, service_id, public_key, admin_notification_enabled, admin_template_id,
			admin_emails, student_autoresponse_enabled, student_template_id, student_subject, reply_to_email, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			service_id = excluded.service_id,
			public_key = excluded.public_key,
			admin_notification_enabled = excluded.admin_notification_enabled,
			admin_template_id = excluded.admin_template_id,
			admin_emails = excluded.admin_emails,
			student_autoresponse_enabled = excluded.student_autoresponse_enabled,
			student_template_id = excluded.student_template_id,
			student_subject = excluded.student_subject,
			reply_to_email = excluded.reply_to_email,
			updated_at = excluded.updated_at`,
		s.ServiceID, s.PublicKey, s.AdminNotificationEnabled, s.AdminTemplateID, encodeStrings(s.AdminEmails),
		s.StudentAutoresponseEnabled, s.StudentTemplateID, s.StudentSubject, s.ReplyToEmail, s.UpdatedAt,
	)
	return err
}

// GetWhatsAppSettings returns the floating button settings, or a zero value when unset.
func (q *Queries) GetWhatsAppSettings(ctx context.Context) (WhatsAppSettings, error) {
	var s WhatsAppSettings
	err := q.db.QueryRowContext(ctx,
		`SELECT phone_number, default_message_tr, default_message_en, default_message_de,
			button_text_tr, button_text_en, button_text_de, is_enabled, updated_at
		FROM whatsapp_settings WHERE id = 1`,
	).Scan(&s.PhoneNumber, &s.DefaultMessage.TR, &s.DefaultMessage.EN, &s.DefaultMessage.DE,
		&s.ButtonText.TR, &s.ButtonText.EN, &s.ButtonText.DE, &s.IsEnabled, &s.UpdatedAt)
	return s, ignoreNoRows(err)
}

func (q *Queries) SaveWhatsAppSettings(ctx context.Context, s WhatsAppSettings) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO whatsapp_settings (id, phone_number, default_message_tr, default_message_en, default_message_de,
			button_text_tr, button_text_en, button_text_de, is_enabled, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			phone_number = excluded.phone_number,
			default_message_tr = excluded.default_message_tr,
			default_message_en = excluded.default_message_en,
			default_message_de = excluded.default_message_de,
			button_text_tr = excluded.button_text_tr,
			button_text_en = excluded.button_text_en,
			button_text_de = excluded.button_text_de,
			is_enabled = excluded.is_enabled,
			updated_at = excluded.updated_at`,
		s.PhoneNumber, s.DefaultMessage.TR, s.DefaultMessage.EN, s.DefaultMessage.DE,
		s.ButtonText.TR, s.ButtonText.EN, s.ButtonText.DE, s.IsEnabled, s.UpdatedAt,
	)
	return err
}
