package resload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gogpu/resload/device"
)

// gid returns the current goroutine id, parsed from the stack header.
func gid() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	// "goroutine 123 [running]:"
	fields := bytes.Fields(buf)
	id, _ := strconv.ParseUint(string(fields[1]), 10, 64)
	return id
}

// pngBytes encodes a w-by-h RGBA image as PNG.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// fakeTexture implements device.Texture.
type fakeTexture struct {
	label    string
	w, h     int
	released bool
}

func (f *fakeTexture) Width() int  { return f.w }
func (f *fakeTexture) Height() int { return f.h }
func (f *fakeTexture) Release()    { f.released = true }

// fakeGraphics implements device.Graphics and records the goroutine id of
// every call so tests can verify device work never happens on a worker.
type fakeGraphics struct {
	mu        sync.Mutex
	callGids  []uint64
	created   []*fakeTexture
	failImage bool
}

func (g *fakeGraphics) record(label string, w, h int) *fakeTexture {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.callGids = append(g.callGids, gid())
	tex := &fakeTexture{label: label, w: w, h: h}
	g.created = append(g.created, tex)
	return tex
}

func (g *fakeGraphics) CreateTextureFromImage(img *image.RGBA, mipmaps bool) (device.Texture, error) {
	if g.failImage {
		g.record("fail", 0, 0)
		return nil, errors.New("device refused image")
	}
	return g.record("image", img.Bounds().Dx(), img.Bounds().Dy()), nil
}

func (g *fakeGraphics) CreateTextureFromContainerFile(path string, data []byte, mipmaps bool) (device.Texture, error) {
	return g.record("container:"+path, 0, 0), nil
}

func (g *fakeGraphics) CreateTexture(width, height int) (device.Texture, error) {
	return g.record("blank", width, height), nil
}

func (g *fakeGraphics) gids() []uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]uint64, len(g.callGids))
	copy(out, g.callGids)
	return out
}

// fakeAudioDecoder implements device.AudioDecoder.
type fakeAudioDecoder struct {
	rate   int
	frames int64
	pos    int64
}

func (d *fakeAudioDecoder) SampleRate() int   { return d.rate }
func (d *fakeAudioDecoder) ChannelCount() int { return 2 }
func (d *fakeAudioDecoder) FrameCount() int64 { return d.frames }
func (d *fakeAudioDecoder) Seek(frame int64) error {
	d.pos = frame
	return nil
}
func (d *fakeAudioDecoder) Read(dst []float32) (int, error) { return 0, io.EOF }

// fakePlayer implements device.Player and records loop configuration.
type fakePlayer struct {
	channel   device.Channel
	stream    bool
	loop      bool
	loopStart float64
	loopLen   float64
}

func (p *fakePlayer) SetLoop(enabled bool, startSec, lengthSec float64) {
	p.loop, p.loopStart, p.loopLen = enabled, startSec, lengthSec
}
func (p *fakePlayer) Release() {}

// fakeAudio implements device.Audio and records calls like fakeGraphics.
type fakeAudio struct {
	mu       sync.Mutex
	callGids []uint64
	players  []*fakePlayer
}

func (a *fakeAudio) create(dec device.AudioDecoder, ch device.Channel, stream bool) (device.Player, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.callGids = append(a.callGids, gid())
	p := &fakePlayer{channel: ch, stream: stream}
	a.players = append(a.players, p)
	return p, nil
}

func (a *fakeAudio) CreateStreamPlayer(dec device.AudioDecoder, ch device.Channel) (device.Player, error) {
	return a.create(dec, ch, true)
}

func (a *fakeAudio) CreatePlayer(dec device.AudioDecoder, ch device.Channel) (device.Player, error) {
	return a.create(dec, ch, false)
}

// fakePool implements Pool with per-kind name sets. Only the pieces the
// loader touches are modelled.
type fakePool struct {
	mu       sync.Mutex
	entries  map[Kind]map[string]bool
	sprites  map[string]*device.Sprite
	textures map[string]device.Texture
	music    int
	sounds   int
}

func newFakePool() *fakePool {
	return &fakePool{
		entries:  make(map[Kind]map[string]bool),
		sprites:  make(map[string]*device.Sprite),
		textures: make(map[string]device.Texture),
	}
}

func (p *fakePool) put(kind Kind, name string) {
	if p.entries[kind] == nil {
		p.entries[kind] = make(map[string]bool)
	}
	p.entries[kind][name] = true
}

func (p *fakePool) Contains(kind Kind, name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.entries[kind][name]
}

func (p *fakePool) PutTexture(name string, tex device.Texture) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.put(KindTexture, name)
	p.textures[name] = tex
	return nil
}

func (p *fakePool) LoadTexture(name, path string, mipmaps bool, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.put(KindTexture, name)
	return nil
}

func (p *fakePool) CreateTexture(name string, width, height int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.put(KindTexture, name)
	return nil
}

func (p *fakePool) CreateSprite(name, textureName string, x, y, w, h, a, b float64, isRect bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.entries[KindTexture][textureName] {
		return fmt.Errorf("texture not found: %s", textureName)
	}
	p.put(KindSprite, name)
	p.sprites[name] = &device.Sprite{
		Texture: p.textures[textureName],
		Rect:    device.RectF{X0: x, Y0: y, X1: x + w, Y1: y + h},
		CenterX: w / 2, CenterY: h / 2,
		A: a, B: b, IsRect: isRect,
	}
	return nil
}

func (p *fakePool) FindSprite(name string) (*device.Sprite, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sp, ok := p.sprites[name]
	return sp, ok
}

func (p *fakePool) CreateAnimation(name, textureName string, x, y, w, h float64, n, m, interval int, a, b float64, isRect bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.entries[KindTexture][textureName] {
		return fmt.Errorf("texture not found: %s", textureName)
	}
	p.put(KindAnimation, name)
	return nil
}

func (p *fakePool) CreateAnimationFromSprites(name string, sprites []*device.Sprite, interval int, a, b float64, isRect bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.put(KindAnimation, name)
	return nil
}

func (p *fakePool) PutMusic(name string, dec device.AudioDecoder, pl device.Player) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.put(KindMusic, name)
	p.music++
	return nil
}

func (p *fakePool) PutSound(name string, pl device.Player) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.put(KindSoundEffect, name)
	p.sounds++
	return nil
}

func (p *fakePool) LoadSpriteFont(name, path, texturePath string, mipmaps bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.put(KindSpriteFont, name)
	return nil
}

func (p *fakePool) LoadTrueTypeFont(name, path string, width, height float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.put(KindTrueTypeFont, name)
	return nil
}

func (p *fakePool) LoadEffect(name, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.put(KindEffect, name)
	return nil
}

func (p *fakePool) LoadModel(name, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.put(KindModel, name)
	return nil
}

func (p *fakePool) LoadParticle(name, path, imageName string, a, b float64, isRect bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.put(KindParticle, name)
	return nil
}

func (p *fakePool) musicCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.music
}

// testEnv bundles a loader with its fakes.
type testEnv struct {
	loader *Loader
	gfx    *fakeGraphics
	audio  *fakeAudio
	pool   *fakePool
	fsys   fstest.MapFS
}

// fakeDecoderFactory returns a factory producing fixed-shape fake decoders.
func fakeDecoderFactory(rate int, frames int64) AudioDecoderFunc {
	return func(name string, data []byte) (device.AudioDecoder, error) {
		return &fakeAudioDecoder{rate: rate, frames: frames}, nil
	}
}

// newTestEnv builds a loader over fakes and an in-memory file system.
func newTestEnv(t *testing.T, fsys fstest.MapFS, opts ...Option) *testEnv {
	t.Helper()
	env := &testEnv{
		gfx:   &fakeGraphics{},
		audio: &fakeAudio{},
		pool:  newFakePool(),
		fsys:  fsys,
	}
	base := []Option{
		WithWorkers(2),
		WithFS(fsys),
		WithGraphics(env.gfx),
		WithAudio(env.audio),
		WithAudioDecoderFactory(fakeDecoderFactory(44100, 44100*60)),
	}
	env.loader = New(append(base, opts...)...)
	t.Cleanup(env.loader.Close)
	return env
}

// pumpUntilDone pumps the loader until the task completes or is cancelled,
// failing the test after too many rounds.
func pumpUntilDone(t *testing.T, l *Loader, task *Task) {
	t.Helper()
	for range 2000 {
		l.Update()
		s := task.Status()
		if s == StatusCompleted || s == StatusCancelled {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("task %d did not finish: status=%v completed=%d/%d",
		task.ID(), task.Status(), task.Completed(), task.Total())
}
