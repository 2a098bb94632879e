package resload

import "github.com/gogpu/resload/device"

// Pool is the contract the loader requires of a resource pool.
//
// All methods that insert or construct entries are called from the
// completion pump only, so implementations may assume single-goroutine
// writes from the main thread. Contains may be called concurrently.
//
// Overwrite policy on name collision is the implementer's choice; the
// loader's Music and SoundEffect finalize steps short-circuit on
// Contains == true, so duplicate submissions under pool mode are benign.
// Lookups return strong references that the loader retains across finalize.
type Pool interface {
	// Contains reports whether an entry of the given kind exists under name.
	Contains(kind Kind, name string) bool

	// PutTexture inserts an already-constructed texture entry.
	PutTexture(name string, tex device.Texture) error

	// LoadTexture registers a texture from a container file. The origin
	// path and the already-read bytes are both supplied; implementations
	// should prefer data and may fall back to re-reading path.
	LoadTexture(name, path string, mipmaps bool, data []byte) error

	// CreateTexture registers a blank texture of the given size.
	CreateTexture(name string, width, height int) error

	// CreateSprite builds a sprite over the named pool texture.
	CreateSprite(name, textureName string, x, y, w, h, a, b float64, isRect bool) error

	// FindSprite returns the sprite registered under name.
	FindSprite(name string) (*device.Sprite, bool)

	// CreateAnimation builds an animation by slicing the named texture into
	// an n-by-m grid of w-by-h cells starting at (x, y).
	CreateAnimation(name, textureName string, x, y, w, h float64, n, m, interval int, a, b float64, isRect bool) error

	// CreateAnimationFromSprites builds an animation over explicit sprites.
	CreateAnimationFromSprites(name string, sprites []*device.Sprite, interval int, a, b float64, isRect bool) error

	// PutMusic inserts an already-constructed music entry.
	PutMusic(name string, dec device.AudioDecoder, p device.Player) error

	// PutSound inserts an already-constructed sound-effect entry.
	PutSound(name string, p device.Player) error

	// LoadSpriteFont registers a bitmap font from a glyph definition file,
	// optionally with an explicit companion texture path.
	LoadSpriteFont(name, path, texturePath string, mipmaps bool) error

	// LoadTrueTypeFont registers a vector font at a fixed glyph size.
	LoadTrueTypeFont(name, path string, width, height float32) error

	// LoadEffect registers a shader effect.
	LoadEffect(name, path string) error

	// LoadModel registers a 3D model.
	LoadModel(name, path string) error

	// LoadParticle registers a particle-system definition bound to the
	// named pool sprite.
	LoadParticle(name, path, imageName string, a, b float64, isRect bool) error
}
