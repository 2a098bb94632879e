package resload

import "github.com/gogpu/resload/device"

// Request describes one logical resource to load.
//
// Construction is the only operation; payload validation is deferred to the
// worker so that invalid requests produce a normal per-request failure
// instead of aborting the whole submission. Batches may mix valid and
// invalid items freely.
type Request struct {
	// Kind selects the resource type and must match the Params variant.
	Kind Kind

	// Name keys the resource in pool mode. May be empty in handle mode.
	Name string

	// TargetPool optionally overrides the task's pool for this request.
	TargetPool Pool

	// Params is the kind-specific payload.
	Params Params
}

// Params is the sealed kind-specific payload of a Request.
type Params interface {
	kind() Kind
}

// TextureParams loads a texture from an image or container file, or creates
// a blank texture when Path is empty and Width/Height are positive.
type TextureParams struct {
	Path    string
	Mipmaps bool

	// Width and Height are used for blank-texture creation only.
	Width, Height int
}

func (TextureParams) kind() Kind { return KindTexture }

// SpriteParams builds a sprite over a pool texture (TextureName, pool mode)
// or over a texture object (Texture, handle mode).
type SpriteParams struct {
	TextureName string
	Texture     device.Texture

	X, Y, W, H float64

	// AnchorX and AnchorY override the default draw center (W/2, H/2)
	// when non-nil.
	AnchorX, AnchorY *float64

	// A and B are collision half-extents; IsRect selects the collider shape.
	A, B   float64
	IsRect bool
}

func (SpriteParams) kind() Kind { return KindSprite }

// AnimationParams builds an animation by slicing a texture into an N-by-M
// grid of cells, or from an explicit sprite list when SpriteNames is
// non-empty.
type AnimationParams struct {
	TextureName string
	X, Y, W, H  float64

	// N and M are the grid column and row counts.
	N, M int

	// Interval is the frame interval in ticks.
	Interval int

	A, B   float64
	IsRect bool

	// SpriteNames, when non-empty, assembles the animation from pool
	// sprites instead of a texture grid.
	SpriteNames []string
}

func (AnimationParams) kind() Kind { return KindAnimation }

// MusicParams loads a looping music track.
type MusicParams struct {
	Path string

	// LoopStart and LoopEnd bound the loop range in seconds. When both map
	// to sample zero the full duration is used.
	LoopStart, LoopEnd float64

	// FullyDecode selects a fully pre-decoded player instead of a
	// streaming one.
	FullyDecode bool
}

func (MusicParams) kind() Kind { return KindMusic }

// SoundEffectParams loads a one-shot sound effect.
type SoundEffectParams struct {
	Path string
}

func (SoundEffectParams) kind() Kind { return KindSoundEffect }

// SpriteFontParams loads a bitmap font from a glyph definition file, with an
// optional companion texture path overriding the bitmap named inside the
// definition.
type SpriteFontParams struct {
	Path        string
	TexturePath string
	Mipmaps     bool
}

func (SpriteFontParams) kind() Kind { return KindSpriteFont }

// TrueTypeFontParams loads a vector font at a fixed glyph size. Width and
// Height must be strictly positive.
type TrueTypeFontParams struct {
	Path          string
	Width, Height float32
}

func (TrueTypeFontParams) kind() Kind { return KindTrueTypeFont }

// EffectParams loads a shader effect.
type EffectParams struct {
	Path string
}

func (EffectParams) kind() Kind { return KindEffect }

// ModelParams loads a 3D model.
type ModelParams struct {
	Path string
}

func (ModelParams) kind() Kind { return KindModel }

// ParticleParams loads a particle-system definition bound to a pool sprite.
type ParticleParams struct {
	Path      string
	ImageName string
	A, B      float64
	IsRect    bool
}

func (ParticleParams) kind() Kind { return KindParticle }
