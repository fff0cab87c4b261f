// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/olegiv/mentoreu-go/internal/store"
)

// RoutingKeyLeadCreated is the routing key of lead events.
const RoutingKeyLeadCreated = "lead.created"

// LeadEvent is the body of a lead.created message.
type LeadEvent struct {
	Event           string    `json:"event"`
	LeadID          string    `json:"lead_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	EducationStatus string    `json:"education_status"`
	TargetCountry   []string  `json:"target_country"`
	Language        string    `json:"language"`
	CreatedAt       time.Time `json:"created_at"`
}

// Channel is the subset of *amqp.Channel used for publishing.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher announces new leads on an AMQP topic exchange so that CRM
// integrations can consume them.
type Publisher struct {
	ch       Channel
	exchange string
	logger   *slog.Logger
	wg       sync.WaitGroup
}

// NewPublisher creates a Publisher on an open channel.
func NewPublisher(ch Channel, exchange string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{ch: ch, exchange: exchange, logger: logger}
}

// DialPublisher connects to url, declares the exchange and returns a
// Publisher together with a function that closes the connection.
func DialPublisher(url, exchange string, logger *slog.Logger) (*Publisher, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("opening amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declaring exchange %s: %w", exchange, err)
	}

	p := NewPublisher(ch, exchange, logger)
	closeFn := func() error {
		p.Wait()
		_ = ch.Close()
		return conn.Close()
	}
	return p, closeFn, nil
}

// LeadCreated implements lead.Notifier. Publishing happens in the background.
func (p *Publisher) LeadCreated(l store.Lead) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := p.Publish(ctx, l); err != nil {
			p.logger.Warn("lead event publish failed", "lead_id", l.ID, "error", err)
		}
	}()
}

// Publish sends a persistent lead.created message.
func (p *Publisher) Publish(ctx context.Context, l store.Lead) error {
	body, err := json.Marshal(LeadEvent{
		Event:           RoutingKeyLeadCreated,
		LeadID:          l.ID,
		Name:            l.Name,
		Email:           l.Email,
		Phone:           l.Phone,
		EducationStatus: l.EducationStatus,
		TargetCountry:   l.TargetCountry,
		Language:        l.Language,
		CreatedAt:       l.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encoding lead event: %w", err)
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKeyLeadCreated, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    l.ID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publishing lead event: %w", err)
	}
	return nil
}

// Wait blocks until background publishes have finished.
func (p *Publisher) Wait() {
	p.wg.Wait()
}
