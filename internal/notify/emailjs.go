// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// DefaultEmailJSURL is the EmailJS REST send endpoint.
const DefaultEmailJSURL = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJS sends templated mail through the EmailJS REST API.
type EmailJS struct {
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

type emailJSRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// NewEmailJS creates a client posting to endpoint. After five consecutive
// failures the client stops calling EmailJS for a minute.
func NewEmailJS(endpoint string, timeout time.Duration) *EmailJS {
	if endpoint == "" {
		endpoint = DefaultEmailJSURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &EmailJS{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "emailjs",
			Timeout: time.Minute,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
		}),
	}
}

// Send posts msg to EmailJS. Any non-2xx response is an error.
func (e *EmailJS) Send(ctx context.Context, msg Message) error {
	_, err := e.breaker.Execute(func() (interface{}, error) {
		return nil, e.post(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("emailjs unavailable: %w", err)
	}
	return err
}

func (e *EmailJS) post(ctx context.Context, msg Message) error {
	body, err := json.Marshal(emailJSRequest{
		ServiceID:      msg.ServiceID,
		TemplateID:     msg.TemplateID,
		UserID:         msg.PublicKey,
		TemplateParams: msg.Params,
	})
	if err != nil {
		return fmt.Errorf("encoding emailjs request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating emailjs request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("emailjs returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
