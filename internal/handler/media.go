// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/olegiv/mentoreu-go/internal/service"
)

// multipartMemory is how much of an upload is buffered in memory.
const multipartMemory = 10 << 20

// MediaHandler handles image uploads for sections, posts and popups.
type MediaHandler struct {
	media  *service.MediaService
	logger *slog.Logger
}

// NewMediaHandler creates a MediaHandler.
func NewMediaHandler(media *service.MediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{media: media, logger: logger}
}

// Upload handles POST /admin/media with a multipart "file" field.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadSize+multipartMemory)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "A file is required")
		return
	}
	defer func() { _ = file.Close() }()

	res, err := h.media.Upload(r.Context(), file, header)
	switch {
	case errors.Is(err, service.ErrUploadTooLarge):
		writeJSONError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	case errors.Is(err, service.ErrUploadBadType):
		writeJSONError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	case err != nil:
		logAndInternalError(w, h.logger, "failed to process upload", "filename", header.Filename, "error", err)
		return
	}

	h.logger.Info("media uploaded", "name", res.Name, "width", res.Width, "height", res.Height)
	writeJSONStatus(w, http.StatusCreated, map[string]any{"media": res})
}

// Delete handles DELETE /admin/media/{id}.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, paramID)
	if uuid.Validate(name) != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid media ID")
		return
	}
	if err := h.media.Delete(name); err != nil {
		logAndInternalError(w, h.logger, "failed to delete media", "name", name, "error", err)
		return
	}
	writeJSONSuccess(w, nil)
}
