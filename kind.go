package resload

import "fmt"

// Kind identifies the type of a loadable resource.
type Kind uint8

const (
	// KindTexture is a GPU texture loaded from an image or container file,
	// or created blank.
	KindTexture Kind = iota

	// KindSprite is a textured quad over an existing texture.
	KindSprite

	// KindAnimation is a frame sequence sliced from a texture grid or
	// assembled from named sprites.
	KindAnimation

	// KindMusic is a looping audio track on the music channel.
	KindMusic

	// KindSoundEffect is a one-shot audio clip on the sound-effect channel.
	KindSoundEffect

	// KindSpriteFont is a bitmap font built from a glyph definition file.
	KindSpriteFont

	// KindTrueTypeFont is a vector font rasterized at a fixed size.
	KindTrueTypeFont

	// KindEffect is a shader effect.
	KindEffect

	// KindModel is a 3D model.
	KindModel

	// KindParticle is a particle-system definition.
	KindParticle
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindTexture:
		return "Texture"
	case KindSprite:
		return "Sprite"
	case KindAnimation:
		return "Animation"
	case KindMusic:
		return "Music"
	case KindSoundEffect:
		return "SoundEffect"
	case KindSpriteFont:
		return "SpriteFont"
	case KindTrueTypeFont:
		return "TrueTypeFont"
	case KindEffect:
		return "Effect"
	case KindModel:
		return "Model"
	case KindParticle:
		return "Particle"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}
