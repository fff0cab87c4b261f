// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalises uploaded images: it applies EXIF orientation,
// bounds the size and writes a JPEG plus a thumbnail.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Size limits in pixels.
const (
	MaxDimension   = 1600
	ThumbDimension = 400
	jpegQuality    = 85
)

// Sub-directories of the upload root.
const (
	ImagesDir = "images"
	ThumbsDir = "images/thumbs"
)

// Result describes the files written for one upload. Paths are relative to
// the upload root and use forward slashes.
type Result struct {
	Path      string `json:"path"`
	ThumbPath string `json:"thumb_path"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Processor writes processed images under an upload root.
type Processor struct {
	uploadDir string
}

// NewProcessor creates a Processor writing below uploadDir.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{uploadDir: uploadDir}
}

// Process decodes data, stores a resized JPEG and its thumbnail as <name>.jpg
// and returns where they were written.
func (p *Processor) Process(r io.Reader, name string) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("reading image: %w", err)
	}

	if DetectFormat(data) == "" {
		return Result{}, fmt.Errorf("unsupported image format")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	full := fit(img, MaxDimension)
	thumb := fit(img, ThumbDimension)

	filename := name + ".jpg"
	if err := p.save(ImagesDir, filename, full); err != nil {
		return Result{}, err
	}
	if err := p.save(ThumbsDir, filename, thumb); err != nil {
		return Result{}, err
	}

	b := full.Bounds()
	return Result{
		Path:      ImagesDir + "/" + filename,
		ThumbPath: ThumbsDir + "/" + filename,
		Width:     b.Dx(),
		Height:    b.Dy(),
	}, nil
}

// Delete removes the image and thumbnail written for name.
func (p *Processor) Delete(name string) error {
	filename := filepath.Base(name) + ".jpg"
	for _, dir := range []string{ImagesDir, ThumbsDir} {
		err := os.Remove(filepath.Join(p.uploadDir, filepath.FromSlash(dir), filename))
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// DetectFormat returns "jpeg", "png", "gif" or "webp", or "" for anything
// else. TIFF is rejected outright.
func DetectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	switch {
	case strings.Contains(contentType, "tiff"):
		return ""
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	}
	return ""
}

// fit scales img down to fit in a max×max box; smaller images are kept.
func fit(img image.Image, max int) image.Image {
	b := img.Bounds()
	if b.Dx() <= max && b.Dy() <= max {
		return img
	}
	return imaging.Fit(img, max, max, imaging.Lanczos)
}

// readExifOrientation returns the EXIF orientation, or 1 when absent.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation undoes the camera rotation recorded in EXIF.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}

func (p *Processor) save(subDir, filename string, img image.Image) error {
	dir := filepath.Join(p.uploadDir, filepath.FromSlash(subDir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", subDir, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return fmt.Errorf("encoding jpeg: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, filepath.Base(filename)), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return nil
}
