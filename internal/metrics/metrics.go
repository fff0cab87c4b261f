// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentoreu_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mentoreu_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	leadSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentoreu_lead_submissions_total",
			Help: "Lead submissions by outcome",
		},
		[]string{"outcome"},
	)

	notificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentoreu_notifications_total",
			Help: "Lead notification sends by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	popupDismissals = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mentoreu_popup_dismissals_total",
			Help: "Popups dismissed by visitors",
		},
	)
)

// Lead submission outcomes.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeInvalid   = "invalid"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Middleware records request counts and latency labelled by chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordLeadSubmission(outcome string) {
	leadSubmissions.WithLabelValues(outcome).Inc()
}

func RecordNotification(kind, outcome string) {
	notificationsSent.WithLabelValues(kind, outcome).Inc()
}

func RecordPopupDismissal() {
	popupDismissals.Inc()
}
