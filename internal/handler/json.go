// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// maxJSONBody caps admin and API request bodies.
const maxJSONBody = 1 << 20

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{
		"success": false,
		"error":   message,
	})
}

// writeJSONFieldErrors writes a 422 response listing invalid fields.
func writeJSONFieldErrors(w http.ResponseWriter, message string, fields map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"success": false,
		"error":   message,
		"fields":  fields,
	})
}

// writeJSONSuccess writes a JSON success response.
func writeJSONSuccess(w http.ResponseWriter, data map[string]any) {
	writeJSONStatus(w, http.StatusOK, data)
}

// writeJSONStatus writes a JSON success response with a custom status code.
func writeJSONStatus(w http.ResponseWriter, statusCode int, data map[string]any) {
	if data == nil {
		data = make(map[string]any)
	}
	data["success"] = true
	writeJSON(w, statusCode, data)
}

// decodeJSON decodes the request body into v, rejecting unknown fields and
// trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}
