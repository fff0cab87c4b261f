// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package notify sends the e-mails that follow a lead submission: an alert
// to the business and an autoresponse to the visitor.
package notify

import (
	"context"
	"strings"
	"time"

	"github.com/olegiv/mentoreu-go/internal/store"
)

// Notification kinds.
const (
	KindAdmin   = "admin"
	KindStudent = "student"
)

// Defaults applied when the settings leave a value empty.
const (
	DefaultReplyTo        = "info@mentoreu.com"
	DefaultFromName       = "MentorEU"
	DefaultStudentSubject = "Başvurunuz Alındı - MentorEU"
	DefaultMessage        = "Mesaj yok"
)

// Message is one templated e-mail handed to a Sender.
type Message struct {
	Kind       string
	ServiceID  string
	TemplateID string
	PublicKey  string
	Params     map[string]string
}

// Sender delivers a Message. Implementations do not retry.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) error

func (f SenderFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

// SettingsSource reads the notification settings. *store.Queries implements it.
type SettingsSource interface {
	GetEmailSettings(ctx context.Context) (store.EmailSettings, error)
}

// Configured reports whether s holds the credentials needed to send at all.
func Configured(s store.EmailSettings) bool {
	return strings.TrimSpace(s.ServiceID) != "" && strings.TrimSpace(s.PublicKey) != ""
}

// istanbul is Turkey's fixed UTC+3 offset.
var istanbul = time.FixedZone("TRT", 3*60*60)

// AdminMessage builds the alert sent to the business for lead l.
func AdminMessage(l store.Lead, s store.EmailSettings, at time.Time) Message {
	message := l.Message
	if message == "" {
		message = DefaultMessage
	}

	return Message{
		Kind:       KindAdmin,
		ServiceID:  s.ServiceID,
		TemplateID: s.AdminTemplateID,
		PublicKey:  s.PublicKey,
		Params: map[string]string{
			"from_name":        l.Name,
			"from_email":       l.Email,
			"reply_to":         l.Email,
			"phone":            l.Phone,
			"education_status": l.EducationStatus,
			"target_country":   strings.Join(l.TargetCountry, ", "),
			"message":          message,
			"submission_date":  at.In(istanbul).Format("02.01.2006 15:04:05"),
			"to_email":         strings.Join(s.AdminEmails, ", "),
		},
	}
}

// StudentMessage builds the autoresponse sent to the visitor who submitted l.
func StudentMessage(l store.Lead, s store.EmailSettings) Message {
	replyTo := s.ReplyToEmail
	if replyTo == "" {
		replyTo = DefaultReplyTo
	}
	subject := s.StudentSubject
	if subject == "" {
		subject = DefaultStudentSubject
	}

	return Message{
		Kind:       KindStudent,
		ServiceID:  s.ServiceID,
		TemplateID: s.StudentTemplateID,
		PublicKey:  s.PublicKey,
		Params: map[string]string{
			"to_name":          l.Name,
			"to_email":         l.Email,
			"reply_to":         replyTo,
			"from_name":        DefaultFromName,
			"target_country":   strings.Join(l.TargetCountry, ", "),
			"education_status": l.EducationStatus,
			"subject":          subject,
		},
	}
}
