// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu provides a wgpu-backed implementation of the loader's
// graphics-device contract. Like the rest of the gogpu ecosystem, the
// package receives a device from the host application rather than creating
// its own.
package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/wgpu"

	"github.com/gogpu/resload/codec"
	"github.com/gogpu/resload/device"
)

// Device errors.
var (
	// ErrNilDevice is returned when constructing over a nil wgpu device.
	ErrNilDevice = errors.New("gpu: nil wgpu device")

	// ErrBadContainer is returned when container-file bytes cannot be read.
	ErrBadContainer = errors.New("gpu: malformed texture container")
)

// Device implements the loader's graphics contract over a wgpu device.
//
// Texture pixel data is retained CPU-side on the Texture value (including
// the generated mipmap chain) for the renderer to upload when it records
// its copy commands; the GPU texture object itself is created eagerly so
// failures surface during finalize.
type Device struct {
	dev *wgpu.Device
}

var _ device.Graphics = (*Device)(nil)

// New wraps the given wgpu device.
func New(dev *wgpu.Device) (*Device, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	return &Device{dev: dev}, nil
}

// Texture is a wgpu texture plus the CPU-side pixel levels pending upload.
type Texture struct {
	tex    *wgpu.Texture
	width  int
	height int

	// Levels holds the RGBA mip chain (level 0 first); nil for blank and
	// container textures.
	Levels []*image.RGBA

	// Container holds raw container-file bytes for formats the renderer's
	// transcoder ingests directly; nil otherwise.
	Container []byte
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Release destroys the GPU texture and drops the retained pixels.
func (t *Texture) Release() {
	if t.tex != nil {
		t.tex.Release()
		t.tex = nil
	}
	t.Levels = nil
	t.Container = nil
}

// Raw returns the underlying wgpu texture.
func (t *Texture) Raw() *wgpu.Texture { return t.tex }

// CreateTextureFromImage creates a texture sized to img, generating a CPU
// mipmap chain when mipmaps is set.
func (d *Device) CreateTextureFromImage(img *image.RGBA, mipmaps bool) (device.Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("gpu: empty image")
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	levels := []*image.RGBA{img}
	mipCount := 1
	if mipmaps {
		levels = codec.GenerateMipmaps(img)
		mipCount = len(levels)
	}

	tex, err := d.createTexture("resload-image", w, h, mipCount)
	if err != nil {
		return nil, err
	}
	return &Texture{tex: tex, width: w, height: h, Levels: levels}, nil
}

// CreateTextureFromContainerFile creates a texture for a compressed
// container (DDS). Dimensions are read from the container header; the raw
// bytes are retained for the renderer's transcoder. The path is accepted
// for compatibility with device layers that re-read from disk but is not
// used here.
func (d *Device) CreateTextureFromContainerFile(path string, data []byte, mipmaps bool) (device.Texture, error) {
	w, h, err := containerDims(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadContainer, path)
	}

	mipCount := 1
	if mipmaps {
		mipCount = codec.MipLevels(w, h)
	}

	tex, err := d.createTexture("resload-container", w, h, mipCount)
	if err != nil {
		return nil, err
	}
	return &Texture{tex: tex, width: w, height: h, Container: data}, nil
}

// CreateTexture creates a blank texture.
func (d *Device) CreateTexture(width, height int) (device.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("gpu: invalid texture size %dx%d", width, height)
	}
	tex, err := d.createTexture("resload-blank", width, height, 1)
	if err != nil {
		return nil, err
	}
	return &Texture{tex: tex, width: width, height: height}, nil
}

func (d *Device) createTexture(label string, w, h, mipCount int) (*wgpu.Texture, error) {
	tex, err := d.dev.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: uint32(mipCount),
		SampleCount:   1,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture: %w", err)
	}
	return tex, nil
}

// containerDims reads width and height from a DDS header: the magic, then
// dwSize, dwFlags, dwHeight, dwWidth as little-endian 32-bit words.
func containerDims(data []byte) (w, h int, err error) {
	if !codec.IsDDS(data) || len(data) < 24 {
		return 0, 0, ErrBadContainer
	}
	h = int(binary.LittleEndian.Uint32(data[12:16]))
	w = int(binary.LittleEndian.Uint32(data[16:20]))
	if w <= 0 || h <= 0 {
		return 0, 0, ErrBadContainer
	}
	return w, h, nil
}
