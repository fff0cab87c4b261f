// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/mentoreu-go/internal/store"
)

// logAndInternalError logs an error and writes a JSON 500 response.
func logAndInternalError(w http.ResponseWriter, logger *slog.Logger, logMsg string, args ...any) {
	logger.Error(logMsg, args...)
	writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
}

// writeStoreError maps sql.ErrNoRows to 404, unique violations to 409 and
// anything else to 500.
func writeStoreError(w http.ResponseWriter, logger *slog.Logger, entityName string, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, http.StatusNotFound, entityName+" not found")
		return
	}
	if store.IsUniqueViolation(err) {
		writeJSONError(w, http.StatusConflict, entityName+" already exists")
		return
	}
	logAndInternalError(w, logger, "failed to access "+entityName, "error", err)
}

// =============================================================================
// GENERIC ENTITY FETCHING HELPERS
// =============================================================================

// requireEntity fetches the entity named by the {id} URL parameter.
// On error, it writes a JSON error response. Returns the entity and true if
// successful, or zero value and false if an error occurred (response already
// written).
//
// Example usage:
//
//	popup, ok := requireEntity(w, r, h.logger, "popup", h.queries.GetPopup)
func requireEntity[T any](
	w http.ResponseWriter,
	r *http.Request,
	logger *slog.Logger,
	entityName string,
	fetch func(ctx context.Context, id string) (T, error),
) (T, bool) {
	var zero T
	id := chi.URLParam(r, paramID)
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "Invalid "+entityName+" ID")
		return zero, false
	}

	entity, err := fetch(r.Context(), id)
	if err != nil {
		writeStoreError(w, logger, entityName, err)
		return zero, false
	}
	return entity, true
}

// queryInt parses an integer query parameter, falling back to def when the
// value is missing or invalid and clamping it to [min, max].
func queryInt(r *http.Request, name string, def, minVal, maxVal int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get(name)), 10, 64)
	if err != nil {
		return def
	}
	return max(minVal, min(v, maxVal))
}
