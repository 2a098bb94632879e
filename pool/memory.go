// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pool

import (
	"errors"
	"fmt"
	"io/fs"
	gopath "path"
	"sync"

	"github.com/qmuntal/gltf"

	"github.com/gogpu/resload"
	"github.com/gogpu/resload/codec"
	"github.com/gogpu/resload/device"
)

// Pool errors.
var (
	// ErrNoDevice is returned by texture-creating operations when the pool
	// was built without a graphics device.
	ErrNoDevice = errors.New("pool: no graphics device")
)

// Memory is an in-memory resource pool keyed by name per kind.
//
// Insertions happen from the loader's completion pump only, so writes are
// single-goroutine; a mutex still guards the maps because Contains and the
// Find accessors may be polled from other goroutines.
type Memory struct {
	fsys fs.FS
	gfx  device.Graphics

	mu          sync.RWMutex
	textures    map[string]*TextureEntry
	sprites     map[string]*SpriteEntry
	animations  map[string]*AnimationEntry
	music       map[string]*MusicEntry
	sounds      map[string]*SoundEntry
	spriteFonts map[string]*SpriteFontEntry
	ttfFonts    map[string]*TrueTypeFontEntry
	effects     map[string]*EffectEntry
	models      map[string]*ModelEntry
	particles   map[string]*ParticleEntry
}

var _ resload.Pool = (*Memory)(nil)

// NewMemory creates an empty pool reading files from fsys and creating
// textures on gfx.
func NewMemory(fsys fs.FS, gfx device.Graphics) *Memory {
	return &Memory{
		fsys:        fsys,
		gfx:         gfx,
		textures:    make(map[string]*TextureEntry),
		sprites:     make(map[string]*SpriteEntry),
		animations:  make(map[string]*AnimationEntry),
		music:       make(map[string]*MusicEntry),
		sounds:      make(map[string]*SoundEntry),
		spriteFonts: make(map[string]*SpriteFontEntry),
		ttfFonts:    make(map[string]*TrueTypeFontEntry),
		effects:     make(map[string]*EffectEntry),
		models:      make(map[string]*ModelEntry),
		particles:   make(map[string]*ParticleEntry),
	}
}

// Contains reports whether an entry of the given kind exists under name.
func (m *Memory) Contains(kind resload.Kind, name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch kind {
	case resload.KindTexture:
		_, ok := m.textures[name]
		return ok
	case resload.KindSprite:
		_, ok := m.sprites[name]
		return ok
	case resload.KindAnimation:
		_, ok := m.animations[name]
		return ok
	case resload.KindMusic:
		_, ok := m.music[name]
		return ok
	case resload.KindSoundEffect:
		_, ok := m.sounds[name]
		return ok
	case resload.KindSpriteFont:
		_, ok := m.spriteFonts[name]
		return ok
	case resload.KindTrueTypeFont:
		_, ok := m.ttfFonts[name]
		return ok
	case resload.KindEffect:
		_, ok := m.effects[name]
		return ok
	case resload.KindModel:
		_, ok := m.models[name]
		return ok
	case resload.KindParticle:
		_, ok := m.particles[name]
		return ok
	default:
		return false
	}
}

// PutTexture inserts an already-constructed texture entry.
func (m *Memory) PutTexture(name string, tex device.Texture) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textures[name] = &TextureEntry{Name: name, Texture: tex}
	return nil
}

// LoadTexture registers a texture from a container file, preferring the
// already-read bytes and falling back to re-reading path.
func (m *Memory) LoadTexture(name, path string, mipmaps bool, data []byte) error {
	if m.gfx == nil {
		return ErrNoDevice
	}

	if data == nil {
		var err error
		data, err = fs.ReadFile(m.fsys, path)
		if err != nil {
			return fmt.Errorf("pool: read texture %s: %w", path, err)
		}
	}

	var (
		tex device.Texture
		err error
	)
	if codec.IsDDS(data) {
		tex, err = m.gfx.CreateTextureFromContainerFile(path, data, mipmaps)
	} else {
		decoded, derr := codec.DecodeImage(data)
		if derr != nil {
			return fmt.Errorf("pool: decode texture %s: %w", path, derr)
		}
		tex, err = m.gfx.CreateTextureFromImage(decoded, mipmaps)
	}
	if err != nil {
		return fmt.Errorf("pool: create texture %s: %w", name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.textures[name] = &TextureEntry{Name: name, Texture: tex, Mipmaps: mipmaps}
	return nil
}

// CreateTexture registers a blank texture of the given size.
func (m *Memory) CreateTexture(name string, width, height int) error {
	if m.gfx == nil {
		return ErrNoDevice
	}
	tex, err := m.gfx.CreateTexture(width, height)
	if err != nil {
		return fmt.Errorf("pool: create texture %s: %w", name, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textures[name] = &TextureEntry{Name: name, Texture: tex}
	return nil
}

// FindTexture returns the texture entry registered under name.
func (m *Memory) FindTexture(name string) (*TextureEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.textures[name]
	return e, ok
}

// CreateSprite builds a sprite over the named pool texture with the default
// draw center (w/2, h/2).
func (m *Memory) CreateSprite(name, textureName string, x, y, w, h, a, b float64, isRect bool) error {
	te, ok := m.FindTexture(textureName)
	if !ok {
		return fmt.Errorf("pool: texture not found: %s", textureName)
	}

	sp := &device.Sprite{
		Texture: te.Texture,
		Rect:    device.RectF{X0: x, Y0: y, X1: x + w, Y1: y + h},
		CenterX: w / 2,
		CenterY: h / 2,
		A:       a,
		B:       b,
		IsRect:  isRect,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sprites[name] = &SpriteEntry{Name: name, Sprite: sp}
	return nil
}

// FindSprite returns the sprite registered under name.
func (m *Memory) FindSprite(name string) (*device.Sprite, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sprites[name]
	if !ok {
		return nil, false
	}
	return e.Sprite, true
}

// CreateAnimation builds an animation by slicing the named texture into an
// n-by-m grid of w-by-h cells starting at (x, y), frames in row-major order.
func (m *Memory) CreateAnimation(name, textureName string, x, y, w, h float64, n, mRows, interval int, a, b float64, isRect bool) error {
	te, ok := m.FindTexture(textureName)
	if !ok {
		return fmt.Errorf("pool: texture not found: %s", textureName)
	}
	if n < 1 || mRows < 1 {
		return fmt.Errorf("pool: invalid animation grid %dx%d", n, mRows)
	}

	frames := make([]*device.Sprite, 0, n*mRows)
	for i := range n * mRows {
		col := i % n
		row := i / n
		fx := x + float64(col)*w
		fy := y + float64(row)*h
		frames = append(frames, &device.Sprite{
			Texture: te.Texture,
			Rect:    device.RectF{X0: fx, Y0: fy, X1: fx + w, Y1: fy + h},
			CenterX: w / 2,
			CenterY: h / 2,
			A:       a,
			B:       b,
			IsRect:  isRect,
		})
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.animations[name] = &AnimationEntry{
		Name: name, Frames: frames, Interval: interval, A: a, B: b, IsRect: isRect,
	}
	return nil
}

// CreateAnimationFromSprites builds an animation over explicit sprites.
func (m *Memory) CreateAnimationFromSprites(name string, sprites []*device.Sprite, interval int, a, b float64, isRect bool) error {
	if len(sprites) == 0 {
		return errors.New("pool: animation needs at least one sprite")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.animations[name] = &AnimationEntry{
		Name: name, Frames: sprites, Interval: interval, A: a, B: b, IsRect: isRect,
	}
	return nil
}

// FindAnimation returns the animation entry registered under name.
func (m *Memory) FindAnimation(name string) (*AnimationEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.animations[name]
	return e, ok
}

// PutMusic inserts an already-constructed music entry.
func (m *Memory) PutMusic(name string, dec device.AudioDecoder, p device.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.music[name] = &MusicEntry{Name: name, Decoder: dec, Player: p}
	return nil
}

// FindMusic returns the music entry registered under name.
func (m *Memory) FindMusic(name string) (*MusicEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.music[name]
	return e, ok
}

// PutSound inserts an already-constructed sound-effect entry.
func (m *Memory) PutSound(name string, p device.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sounds[name] = &SoundEntry{Name: name, Player: p}
	return nil
}

// FindSound returns the sound entry registered under name.
func (m *Memory) FindSound(name string) (*SoundEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sounds[name]
	return e, ok
}

// LoadSpriteFont registers a bitmap font: the glyph definition file plus a
// page texture from texturePath, or from the bitmap named inside the
// definition (resolved relative to the definition file) when texturePath is
// empty.
func (m *Memory) LoadSpriteFont(name, path, texturePath string, mipmaps bool) error {
	defData, err := fs.ReadFile(m.fsys, path)
	if err != nil {
		return fmt.Errorf("pool: read sprite font %s: %w", path, err)
	}
	def, err := codec.ParseSpriteFontDef(defData)
	if err != nil {
		return fmt.Errorf("pool: parse sprite font %s: %w", path, err)
	}

	texPath := texturePath
	if texPath == "" {
		texPath = gopath.Join(gopath.Dir(path), def.Bitmap)
	}

	if m.gfx == nil {
		return ErrNoDevice
	}
	texData, err := fs.ReadFile(m.fsys, texPath)
	if err != nil {
		return fmt.Errorf("pool: read sprite font texture %s: %w", texPath, err)
	}
	img, err := codec.DecodeImage(texData)
	if err != nil {
		return fmt.Errorf("pool: decode sprite font texture %s: %w", texPath, err)
	}
	tex, err := m.gfx.CreateTextureFromImage(img, mipmaps)
	if err != nil {
		return fmt.Errorf("pool: create sprite font texture %s: %w", name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.spriteFonts[name] = &SpriteFontEntry{Name: name, Def: def, Texture: tex}
	return nil
}

// FindSpriteFont returns the sprite font entry registered under name.
func (m *Memory) FindSpriteFont(name string) (*SpriteFontEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.spriteFonts[name]
	return e, ok
}

// LoadTrueTypeFont registers a vector font at a fixed glyph size.
func (m *Memory) LoadTrueTypeFont(name, path string, width, height float32) error {
	data, err := fs.ReadFile(m.fsys, path)
	if err != nil {
		return fmt.Errorf("pool: read font %s: %w", path, err)
	}
	face, err := codec.ParseFont(data)
	if err != nil {
		return fmt.Errorf("pool: parse font %s: %w", path, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ttfFonts[name] = &TrueTypeFontEntry{Name: name, Face: face, Width: width, Height: height}
	return nil
}

// FindTrueTypeFont returns the vector font entry registered under name.
func (m *Memory) FindTrueTypeFont(name string) (*TrueTypeFontEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.ttfFonts[name]
	return e, ok
}

// LoadEffect compiles and registers a WGSL shader effect.
func (m *Memory) LoadEffect(name, path string) error {
	src, err := fs.ReadFile(m.fsys, path)
	if err != nil {
		return fmt.Errorf("pool: read effect %s: %w", path, err)
	}
	words, err := codec.CompileEffect(string(src))
	if err != nil {
		return fmt.Errorf("pool: compile effect %s: %w", path, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.effects[name] = &EffectEntry{Name: name, SPIRV: words}
	return nil
}

// FindEffect returns the effect entry registered under name.
func (m *Memory) FindEffect(name string) (*EffectEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.effects[name]
	return e, ok
}

// LoadModel parses and registers a glTF model.
func (m *Memory) LoadModel(name, path string) error {
	f, err := m.fsys.Open(path)
	if err != nil {
		return fmt.Errorf("pool: read model %s: %w", path, err)
	}
	defer f.Close()

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(f).Decode(doc); err != nil {
		return fmt.Errorf("pool: parse model %s: %w", path, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.models[name] = &ModelEntry{Name: name, Doc: doc}
	return nil
}

// FindModel returns the model entry registered under name.
func (m *Memory) FindModel(name string) (*ModelEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.models[name]
	return e, ok
}

// LoadParticle parses and registers a particle-system definition bound to
// the named pool sprite.
func (m *Memory) LoadParticle(name, path, imageName string, a, b float64, isRect bool) error {
	data, err := fs.ReadFile(m.fsys, path)
	if err != nil {
		return fmt.Errorf("pool: read particle %s: %w", path, err)
	}
	def, err := codec.ParseParticleDef(data)
	if err != nil {
		return fmt.Errorf("pool: parse particle %s: %w", path, err)
	}

	sp, ok := m.FindSprite(imageName)
	if !ok {
		return fmt.Errorf("pool: sprite not found: %s", imageName)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.particles[name] = &ParticleEntry{
		Name: name, Def: def, Sprite: sp, A: a, B: b, IsRect: isRect,
	}
	return nil
}

// FindParticle returns the particle entry registered under name.
func (m *Memory) FindParticle(name string) (*ParticleEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.particles[name]
	return e, ok
}
