// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/olegiv/mentoreu-go/internal/imaging"
)

// Upload limits
const (
	MaxUploadSize    = 10 * 1024 * 1024 // 10MB
	DefaultUploadDir = "./uploads"
	UploadURLPrefix  = "/uploads/"
)

// Upload errors. Handlers map both to 400.
var (
	ErrUploadTooLarge = fmt.Errorf("file size exceeds maximum allowed (%d bytes)", MaxUploadSize)
	ErrUploadBadType  = errors.New("only JPEG, PNG, GIF and WebP images are allowed")
)

// AllowedMimeTypes defines the MIME types that can be uploaded.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadResult describes a stored image by its public URLs.
type UploadResult struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	ThumbURL string `json:"thumb_url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// MediaService stores images used by sections, posts and popups.
type MediaService struct {
	processor *imaging.Processor
	uploadDir string
}

// NewMediaService creates a new media service.
func NewMediaService(uploadDir string) *MediaService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &MediaService{
		processor: imaging.NewProcessor(uploadDir),
		uploadDir: uploadDir,
	}
}

// Upload validates and processes an uploaded image.
func (s *MediaService) Upload(ctx context.Context, file io.Reader, header *multipart.FileHeader) (UploadResult, error) {
	if header.Size > MaxUploadSize {
		return UploadResult{}, ErrUploadTooLarge
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimeTypeFromExtension(header.Filename)
	}
	if !AllowedMimeTypes[mimeType] {
		return UploadResult{}, ErrUploadBadType
	}

	if err := ctx.Err(); err != nil {
		return UploadResult{}, err
	}

	// The extra byte detects bodies that lie about their size.
	limited := io.LimitReader(file, MaxUploadSize+1)
	name := uuid.New().String()
	res, err := s.processor.Process(&countingReader{r: limited}, name)
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to process image: %w", err)
	}

	return UploadResult{
		Name:     name,
		URL:      s.URL(res.Path),
		ThumbURL: s.URL(res.ThumbPath),
		Width:    res.Width,
		Height:   res.Height,
	}, nil
}

// Delete removes an uploaded image by the name returned from Upload.
func (s *MediaService) Delete(name string) error {
	return s.processor.Delete(name)
}

// URL returns the public URL of a path relative to the upload root.
func (s *MediaService) URL(rel string) string {
	return UploadURLPrefix + path.Clean(strings.TrimPrefix(filepath.ToSlash(rel), "/"))
}

// Dir returns the upload root served under UploadURLPrefix.
func (s *MediaService) Dir() string {
	return s.uploadDir
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.n > MaxUploadSize {
		return n, ErrUploadTooLarge
	}
	return n, err
}

func mimeTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
