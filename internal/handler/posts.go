// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/mentoreu-go/internal/service"
	"github.com/olegiv/mentoreu-go/internal/store"
	"github.com/olegiv/mentoreu-go/internal/util"
)

// PostsHandler is the admin blog editor.
type PostsHandler struct {
	queries *store.Queries
	posts   *service.PostService
	logger  *slog.Logger
}

// NewPostsHandler creates a PostsHandler.
func NewPostsHandler(queries *store.Queries, posts *service.PostService, logger *slog.Logger) *PostsHandler {
	return &PostsHandler{queries: queries, posts: posts, logger: logger}
}

// postResponse adds the nullable dates that BlogPost keeps out of JSON.
type postResponse struct {
	store.BlogPost
	ScheduledAt any `json:"scheduled_at"`
	PublishedAt any `json:"published_at"`
}

func toPostResponse(p store.BlogPost) postResponse {
	resp := postResponse{BlogPost: p}
	if t := util.TimePtr(p.ScheduledAt); t != nil {
		resp.ScheduledAt = t
	}
	if t := util.TimePtr(p.PublishedAt); t != nil {
		resp.PublishedAt = t
	}
	return resp
}

// List handles GET /admin/posts.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.queries.ListPosts(r.Context())
	if err != nil {
		logAndInternalError(w, h.logger, "failed to list posts", "error", err)
		return
	}
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	writeJSONSuccess(w, map[string]any{"posts": out})
}

// Get handles GET /admin/posts/{id}.
func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := requireEntity(w, r, h.logger, "post", h.queries.GetPost)
	if !ok {
		return
	}
	writeJSONSuccess(w, map[string]any{"post": toPostResponse(p)})
}

// Create handles POST /admin/posts.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.posts.Create(r.Context(), in)
	if err != nil {
		h.writePostError(w, err)
		return
	}
	h.logger.Info("post created", "post_id", p.ID, "slug", p.Slug.TR)
	writeJSONStatus(w, http.StatusCreated, map[string]any{"post": toPostResponse(p)})
}

// Update handles PUT /admin/posts/{id}.
func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.PostInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.posts.Update(r.Context(), chi.URLParam(r, paramID), in)
	if err != nil {
		h.writePostError(w, err)
		return
	}
	writeJSONSuccess(w, map[string]any{"post": toPostResponse(p)})
}

// Delete handles DELETE /admin/posts/{id}.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.Delete(r.Context(), chi.URLParam(r, paramID)); err != nil {
		h.writePostError(w, err)
		return
	}
	writeJSONSuccess(w, nil)
}

// Preview handles POST /admin/posts/preview and returns the sanitized HTML
// of a markdown body.
func (h *PostsHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	writeJSONSuccess(w, map[string]any{
		"html":      h.posts.RenderMarkdown(req.Content),
		"read_time": service.ReadTime(req.Content),
	})
}

func (h *PostsHandler) writePostError(w http.ResponseWriter, err error) {
	var pe *service.PostError
	switch {
	case errors.As(err, &pe):
		writeJSONFieldErrors(w, "Invalid post", map[string]string{pe.Field: pe.Message})
	case errors.Is(err, service.ErrPostNotFound):
		writeJSONError(w, http.StatusNotFound, "post not found")
	case store.IsUniqueViolation(err):
		writeJSONFieldErrors(w, "Invalid post", map[string]string{"slug": "already in use"})
	default:
		logAndInternalError(w, h.logger, "failed to save post", "error", err)
	}
}
