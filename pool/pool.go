// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pool provides the in-memory reference implementation of the
// resource-pool contract consumed by the loader, with strongly-typed
// entries per resource kind.
package pool

import (
	"github.com/go-text/typesetting/font"
	"github.com/qmuntal/gltf"

	"github.com/gogpu/resload/codec"
	"github.com/gogpu/resload/device"
)

// TextureEntry is a named GPU texture.
type TextureEntry struct {
	Name    string
	Texture device.Texture
	Mipmaps bool
}

// SpriteEntry is a named sprite over a pool texture.
type SpriteEntry struct {
	Name   string
	Sprite *device.Sprite
}

// AnimationEntry is a named frame sequence.
type AnimationEntry struct {
	Name     string
	Frames   []*device.Sprite
	Interval int
	A, B     float64
	IsRect   bool
}

// MusicEntry is a named looping track: the CPU-side decoder plus the player
// bound to the music channel.
type MusicEntry struct {
	Name    string
	Decoder device.AudioDecoder
	Player  device.Player
}

// SoundEntry is a named one-shot player on the sound-effect channel.
type SoundEntry struct {
	Name   string
	Player device.Player
}

// SpriteFontEntry is a named bitmap font: the parsed glyph definition plus
// its uploaded page texture.
type SpriteFontEntry struct {
	Name    string
	Def     *codec.SpriteFontDef
	Texture device.Texture
}

// TrueTypeFontEntry is a named vector font at a fixed glyph size.
type TrueTypeFontEntry struct {
	Name          string
	Face          *font.Face
	Width, Height float32
}

// EffectEntry is a named compiled shader effect.
type EffectEntry struct {
	Name  string
	SPIRV []uint32
}

// ModelEntry is a named parsed model document.
type ModelEntry struct {
	Name string
	Doc  *gltf.Document
}

// ParticleEntry is a named particle-system definition bound to a sprite.
type ParticleEntry struct {
	Name   string
	Def    *codec.ParticleDef
	Sprite *device.Sprite
	A, B   float64
	IsRect bool
}
