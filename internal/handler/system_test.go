// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/mentoreu-go/internal/scheduler"
	"github.com/olegiv/mentoreu-go/internal/service"
	"github.com/olegiv/mentoreu-go/internal/testutil"
)

func newTestSystemHandler(t *testing.T, env *testEnv) (*SystemHandler, *int) {
	t.Helper()
	runs := 0
	s := scheduler.New(testutil.TestLogger())
	require.NoError(t, s.Add("publish_posts", "Publish scheduled posts", scheduler.EveryMinute, func(context.Context) error {
		runs++
		return nil
	}))
	require.NoError(t, s.Add("reload_geoip", "Reload the GeoIP database", scheduler.Weekly, func(context.Context) error {
		return errors.New("database file missing")
	}))

	return NewSystemHandler(SystemConfig{
		Events:       service.NewEventService(env.db),
		Scheduler:    s,
		Content:      env.content,
		Cache:        env.cache,
		CacheBackend: "memory",
		Logger:       testutil.TestLogger(),
	}), &runs
}

func TestJobs(t *testing.T) {
	env := newTestEnv(t)
	h, runs := newTestSystemHandler(t, env)

	rr := httptest.NewRecorder()
	h.Jobs(rr, httptest.NewRequest(http.MethodGet, "/admin/jobs", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	jobs := decodeResponse(t, rr)["jobs"].([]any)
	require.Len(t, jobs, 2)
	assert.Equal(t, "publish_posts", jobs[0].(map[string]any)["name"])

	tests := []struct {
		name        string
		wantStatus  int
		wantSuccess bool
	}{
		{"publish_posts", http.StatusOK, true},
		{"reload_geoip", http.StatusOK, false},
		{"nope", http.StatusNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.RunJob(rr, withParams(httptest.NewRequest(http.MethodPost, "/admin/jobs/"+tt.name+"/run", nil), paramName, tt.name))
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantSuccess, decodeResponse(t, rr)["success"])
		})
	}
	assert.Equal(t, 1, *runs)
}

func TestCache(t *testing.T) {
	env := newTestEnv(t)
	h, _ := newTestSystemHandler(t, env)
	ctx := context.Background()

	_, err := env.content.Load(ctx)
	require.NoError(t, err)
	_, err = env.content.Load(ctx)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	h.CacheStats(rr, httptest.NewRequest(http.MethodGet, "/admin/cache", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeResponse(t, rr)
	assert.Equal(t, "memory", body["backend"])
	stats := body["stats"].(map[string]any)
	assert.EqualValues(t, 1, stats["items"])

	rr = httptest.NewRecorder()
	h.ClearCache(rr, httptest.NewRequest(http.MethodDelete, "/admin/cache", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, env.cache.Stats().Items)

	rr = httptest.NewRecorder()
	h.Events(rr, httptest.NewRequest(http.MethodGet, "/admin/events?level=info", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	events := decodeResponse(t, rr)["events"].([]any)
	require.NotEmpty(t, events)
	assert.Equal(t, "Cache cleared", events[0].(map[string]any)["message"])
}
