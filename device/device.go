// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package device declares the contracts the resource loader requires of its
// graphics and audio collaborators. Every operation in this package is
// main-thread-only: the loader's worker goroutines never touch a Graphics or
// Audio implementation, only the per-frame completion pump does.
package device

import (
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Handle provides GPU device access from the host application.
//
// The host (e.g. a gogpu.App) implements Handle and passes it to the
// concrete Graphics adapter. The loader itself never creates a device; it
// receives one from the host, so GPU resources are shared with the renderer.
//
// Handle is an alias for gpucontext.DeviceProvider, keeping the loader
// compatible with the gpucontext ecosystem.
type Handle = gpucontext.DeviceProvider

// TextureDescriptor describes parameters for creating a texture.
type TextureDescriptor struct {
	// Label is an optional debug label for the texture.
	Label string

	// Width is the texture width in pixels.
	Width uint32

	// Height is the texture height in pixels.
	Height uint32

	// MipLevelCount is the number of mipmap levels. Use 1 for no mipmaps.
	MipLevelCount uint32

	// Format is the texture pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used.
	Usage gputypes.TextureUsage
}

// Texture represents a GPU texture resource created by a Graphics device.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int

	// Release destroys the GPU resources associated with this texture.
	Release()
}

// Graphics is the graphics device consumed by the completion pump.
//
// Implementations are not required to be safe for concurrent use. The
// loader guarantees single-goroutine access from whichever goroutine calls
// Loader.Update.
type Graphics interface {
	// CreateTextureFromImage uploads a decoded image as a new texture,
	// optionally generating mipmaps.
	CreateTextureFromImage(img *image.RGBA, mipmaps bool) (Texture, error)

	// CreateTextureFromContainerFile ingests a compressed-texture container
	// (e.g. DDS) that the device parses itself. Both the origin path and the
	// already-read bytes are provided; implementations should prefer data
	// and fall back to re-reading path.
	CreateTextureFromContainerFile(path string, data []byte, mipmaps bool) (Texture, error)

	// CreateTexture creates a blank texture of the given size.
	CreateTexture(width, height int) (Texture, error)
}

// RectF is an axis-aligned rectangle given by two corners.
type RectF struct {
	X0, Y0 float64
	X1, Y1 float64
}

// Sprite pairs a texture with a sub-rectangle, a draw center, and collision
// metadata. Sprites are plain CPU-side values; only the referenced Texture
// holds GPU state.
type Sprite struct {
	Texture Texture

	// Rect is the texture sub-rectangle covered by this sprite.
	Rect RectF

	// CenterX, CenterY locate the draw anchor within the sub-rectangle.
	CenterX, CenterY float64

	// A and B are the collision half-extents; IsRect selects rectangle
	// versus ellipse collision.
	A, B   float64
	IsRect bool
}
