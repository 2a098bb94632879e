// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package codec provides the CPU-side decoders the resource loader runs on
// its worker goroutines: images, PCM audio, fonts, particle definitions, and
// shader effects. Nothing in this package touches a GPU or audio device.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"

	// Registered decoders for image.Decode auto-detection.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode errors.
var (
	// ErrEmptyData is returned when the input byte slice is empty.
	ErrEmptyData = errors.New("codec: empty data")

	// ErrContainerFormat is returned by DecodeImage when the bytes are a
	// compressed-texture container that the graphics device must ingest
	// itself rather than a decodable image.
	ErrContainerFormat = errors.New("codec: compressed-texture container")
)

// ddsMagic is the four-byte signature of a DDS compressed-texture container.
var ddsMagic = []byte{0x44, 0x44, 0x53, 0x20} // "DDS "

// IsDDS reports whether data starts with the DDS container signature.
func IsDDS(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], ddsMagic)
}

// DecodeImage decodes image bytes into an RGBA surface, auto-detecting the
// format (PNG, JPEG, GIF, BMP, TIFF, WebP).
//
// If the bytes are a DDS container, DecodeImage returns ErrContainerFormat:
// the caller should pass the raw bytes through to the graphics device
// unchanged instead of decoding on the CPU.
func DecodeImage(data []byte) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	if IsDDS(data) {
		return nil, ErrContainerFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("codec: decode image: %w", err)
	}

	return toRGBA(img), nil
}

// toRGBA converts any decoded image to RGBA without copying when the source
// already is one.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
