// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"unicode"

	"github.com/olegiv/mentoreu-go/internal/store"
)

// minPhoneDigits is the shortest WhatsApp number accepted.
const minPhoneDigits = 7

// getSetting writes the singleton returned by get.
func getSetting[T any](h *ContentHandler, w http.ResponseWriter, r *http.Request, name string, get func(context.Context) (T, error)) {
	s, err := get(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to load "+name, "error", err)
		return
	}
	writeJSONSuccess(w, map[string]any{name: s})
}

// putSetting decodes, validates and saves a singleton, then returns the
// stored value.
func putSetting[T any](
	h *ContentHandler,
	w http.ResponseWriter,
	r *http.Request,
	name string,
	validate func(*T) map[string]string,
	save func(context.Context, T) error,
	get func(context.Context) (T, error),
) {
	var s T
	if err := decodeJSON(w, r, &s); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if fields := validate(&s); len(fields) > 0 {
		writeJSONFieldErrors(w, "Invalid "+name, fields)
		return
	}
	if err := save(r.Context(), s); err != nil {
		logAndInternalError(w, h.logger, "failed to save "+name, "error", err)
		return
	}
	h.changed(r.Context(), name+" saved")
	getSetting(h, w, r, name, get)
}

// GetContactInfo handles GET /admin/settings/contact.
func (h *ContentHandler) GetContactInfo(w http.ResponseWriter, r *http.Request) {
	getSetting(h, w, r, "contact", h.queries.GetContactInfo)
}

// SaveContactInfo handles PUT /admin/settings/contact.
func (h *ContentHandler) SaveContactInfo(w http.ResponseWriter, r *http.Request) {
	putSetting(h, w, r, "contact",
		func(c *store.ContactInfo) map[string]string {
			fields := make(map[string]string)
			c.Email = strings.TrimSpace(c.Email)
			if c.Email != "" {
				if _, err := mail.ParseAddress(c.Email); err != nil {
					fields["email"] = "invalid email address"
				}
			}
			for name, link := range map[string]string{
				"instagram_url":      c.InstagramURL,
				"linkedin_url":       c.LinkedinURL,
				"twitter_url":        c.TwitterURL,
				"facebook_url":       c.FacebookURL,
				"privacy_policy_url": c.PrivacyPolicyURL,
				"terms_url":          c.TermsURL,
			} {
				validLink(fields, name, strings.TrimSpace(link))
			}
			c.UpdatedAt = h.now()
			return fields
		},
		h.queries.SaveContactInfo, h.queries.GetContactInfo)
}

// GetFormSettings handles GET /admin/settings/form.
func (h *ContentHandler) GetFormSettings(w http.ResponseWriter, r *http.Request) {
	getSetting(h, w, r, "form", h.queries.GetFormSettings)
}

// SaveFormSettings handles PUT /admin/settings/form.
func (h *ContentHandler) SaveFormSettings(w http.ResponseWriter, r *http.Request) {
	putSetting(h, w, r, "form",
		func(s *store.FormSettings) map[string]string {
			fields := make(map[string]string)
			requireText(fields, "section_title", s.SectionTitle)
			requireText(fields, "submit_button_text", s.SubmitButtonText)
			s.UpdatedAt = h.now()
			return fields
		},
		h.queries.SaveFormSettings, h.queries.GetFormSettings)
}

// GetEmailSettings handles GET /admin/settings/email.
func (h *ContentHandler) GetEmailSettings(w http.ResponseWriter, r *http.Request) {
	getSetting(h, w, r, "email", h.queries.GetEmailSettings)
}

// SaveEmailSettings handles PUT /admin/settings/email.
func (h *ContentHandler) SaveEmailSettings(w http.ResponseWriter, r *http.Request) {
	putSetting(h, w, r, "email",
		func(s *store.EmailSettings) map[string]string {
			fields := make(map[string]string)
			admins := make([]string, 0, len(s.AdminEmails))
			for _, a := range s.AdminEmails {
				a = strings.TrimSpace(a)
				if a == "" {
					continue
				}
				if _, err := mail.ParseAddress(a); err != nil {
					fields["admin_emails"] = "invalid email address: " + a
				}
				admins = append(admins, a)
			}
			s.AdminEmails = admins
			s.ReplyToEmail = strings.TrimSpace(s.ReplyToEmail)
			if s.ReplyToEmail != "" {
				if _, err := mail.ParseAddress(s.ReplyToEmail); err != nil {
					fields["reply_to_email"] = "invalid email address"
				}
			}
			if s.AdminNotificationEnabled && len(admins) == 0 {
				fields["admin_emails"] = "at least one address is required"
			}
			s.UpdatedAt = h.now()
			return fields
		},
		h.queries.SaveEmailSettings, h.queries.GetEmailSettings)
}

// GetWhatsAppSettings handles GET /admin/settings/whatsapp.
func (h *ContentHandler) GetWhatsAppSettings(w http.ResponseWriter, r *http.Request) {
	getSetting(h, w, r, "whatsapp", h.queries.GetWhatsAppSettings)
}

// SaveWhatsAppSettings handles PUT /admin/settings/whatsapp.
func (h *ContentHandler) SaveWhatsAppSettings(w http.ResponseWriter, r *http.Request) {
	putSetting(h, w, r, "whatsapp",
		func(s *store.WhatsAppSettings) map[string]string {
			fields := make(map[string]string)
			s.PhoneNumber = strings.TrimSpace(s.PhoneNumber)
			if s.IsEnabled && countDigits(s.PhoneNumber) < minPhoneDigits {
				fields["phone_number"] = "a phone number is required when enabled"
			}
			s.UpdatedAt = h.now()
			return fields
		},
		h.queries.SaveWhatsAppSettings, h.queries.GetWhatsAppSettings)
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
