// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/gomail.v2"
)

var (
	adminBody = template.Must(template.New("admin").Parse(`Yeni bir başvuru alındı.

Ad Soyad: {{.from_name}}
E-posta: {{.reply_to}}
Telefon: {{.phone}}
Eğitim Durumu: {{.education_status}}
Hedef Ülkeler: {{.target_country}}
Mesaj: {{.message}}
Tarih: {{.submission_date}}
`))

	studentBody = template.Must(template.New("student").Parse(`Merhaba {{.to_name}},

Başvurunuz bize ulaştı. Hedef ülkeleriniz ({{.target_country}}) ve eğitim
durumunuz ({{.education_status}}) için en kısa sürede sizinle iletişime
geçeceğiz.

Sorularınız için {{.reply_to}} adresine yazabilirsiniz.

{{.from_name}}
`))
)

// SMTPConfig holds outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTP delivers messages through an SMTP relay. Template ids are ignored;
// the body is rendered from the message params.
type SMTP struct {
	from   string
	dialer *gomail.Dialer
}

// NewSMTP creates an SMTP sender.
func NewSMTP(cfg SMTPConfig) *SMTP {
	return &SMTP{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send renders msg and delivers it to params["to_email"].
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := s.compose(msg)
	if err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("sending smtp mail: %w", err)
	}
	return nil
}

func (s *SMTP) compose(msg Message) (*gomail.Message, error) {
	var recipients []string
	for _, addr := range strings.Split(msg.Params["to_email"], ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			recipients = append(recipients, addr)
		}
	}
	if len(recipients) == 0 {
		return nil, errors.New("no recipients")
	}

	tmpl, subject := adminBody, "Yeni Başvuru: "+msg.Params["from_name"]
	if msg.Kind == KindStudent {
		tmpl, subject = studentBody, msg.Params["subject"]
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, msg.Params); err != nil {
		return nil, fmt.Errorf("rendering %s mail: %w", msg.Kind, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", recipients...)
	if replyTo := msg.Params["reply_to"]; replyTo != "" {
		m.SetHeader("Reply-To", replyTo)
	}
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body.String())
	return m, nil
}
