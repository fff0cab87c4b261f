// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestProcess_LargeImage(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	res, err := p.Process(bytes.NewReader(pngBytes(t, 3200, 1600)), "hero")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if res.Width != 1600 || res.Height != 800 {
		t.Errorf("size = %dx%d, want 1600x800", res.Width, res.Height)
	}
	if res.Path != "images/hero.jpg" || res.ThumbPath != "images/thumbs/hero.jpg" {
		t.Errorf("paths = %q, %q", res.Path, res.ThumbPath)
	}

	thumb, err := imaging.Open(filepath.Join(dir, "images", "thumbs", "hero.jpg"))
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	if b := thumb.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("thumbnail = %dx%d, want 400x200", b.Dx(), b.Dy())
	}
}

func TestProcess_SmallImageKeepsSize(t *testing.T) {
	p := NewProcessor(t.TempDir())

	res, err := p.Process(bytes.NewReader(pngBytes(t, 120, 80)), "flag")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if res.Width != 120 || res.Height != 80 {
		t.Errorf("size = %dx%d, want 120x80", res.Width, res.Height)
	}
}

func TestProcess_RejectsNonImages(t *testing.T) {
	p := NewProcessor(t.TempDir())

	if _, err := p.Process(bytes.NewReader([]byte("%PDF-1.4 not an image")), "doc"); err == nil {
		t.Error("Process() should reject non-image data")
	}
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	if _, err := p.Process(bytes.NewReader(pngBytes(t, 10, 10)), "tmp"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if err := p.Delete("tmp"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "images", "tmp.jpg")); !os.IsNotExist(err) {
		t.Errorf("image still exists: %v", err)
	}
	if err := p.Delete("missing"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestDetectFormat(t *testing.T) {
	if got := DetectFormat(pngBytes(t, 2, 2)); got != "png" {
		t.Errorf("DetectFormat(png) = %q, want png", got)
	}
	if got := DetectFormat([]byte("II*\x00")); got != "" {
		t.Errorf("DetectFormat(tiff) = %q, want empty", got)
	}
}
