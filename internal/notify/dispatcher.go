// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/mentoreu-go/internal/lead"
	"github.com/olegiv/mentoreu-go/internal/metrics"
	"github.com/olegiv/mentoreu-go/internal/store"
)

// Dispatcher sends the admin alert and the visitor autoresponse for new
// leads. Every send runs in its own goroutine and only logs failures, so
// neither the submission nor the other send is affected.
type Dispatcher struct {
	sender   Sender
	settings SettingsSource
	logger   *slog.Logger
	timeout  time.Duration
	now      func() time.Time

	wg sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. timeout bounds each send.
func NewDispatcher(sender Sender, settings SettingsSource, logger *slog.Logger, timeout time.Duration) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Dispatcher{
		sender:   sender,
		settings: settings,
		logger:   logger,
		timeout:  timeout,
		now:      time.Now,
	}
}

// LeadCreated implements lead.Notifier. It returns immediately.
func (d *Dispatcher) LeadCreated(l store.Lead) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.dispatch(l)
	}()
}

// Wait blocks until every in-flight send has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(l store.Lead) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	s, err := d.settings.GetEmailSettings(ctx)
	if err != nil {
		d.logger.Warn("notification settings unavailable", "lead_id", l.ID, "error", err)
		return
	}

	if !Configured(s) {
		d.logger.Debug("notifications not configured, skipping", "lead_id", l.ID)
		metrics.RecordNotification("all", metrics.OutcomeSkipped)
		return
	}

	if s.AdminNotificationEnabled {
		d.send(l, AdminMessage(l, s, d.now()))
	}
	if s.StudentAutoresponseEnabled {
		d.send(l, StudentMessage(l, s))
	}
}

func (d *Dispatcher) send(l store.Lead, msg Message) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("notification sender panicked", "lead_id", l.ID, "kind", msg.Kind, "panic", r)
				metrics.RecordNotification(msg.Kind, metrics.OutcomeFailed)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.sender.Send(ctx, msg); err != nil {
			nerr := &lead.NotificationError{Kind: msg.Kind, Err: err}
			d.logger.Warn("lead notification failed", "lead_id", l.ID, "kind", msg.Kind, "error", nerr)
			metrics.RecordNotification(msg.Kind, metrics.OutcomeFailed)
			return
		}

		d.logger.Info("lead notification sent", "lead_id", l.ID, "kind", msg.Kind)
		metrics.RecordNotification(msg.Kind, metrics.OutcomeSucceeded)
	}()
}
