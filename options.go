package resload

import (
	"io/fs"

	"github.com/gogpu/resload/device"
)

// AudioDecoderFunc creates a CPU-side audio decoder from file bytes. The
// name is the originating path, for detection fallback and error messages.
type AudioDecoderFunc func(name string, data []byte) (device.AudioDecoder, error)

// Option configures a Loader during creation.
//
// Example:
//
//	// Auto-sized worker pool reading from the working directory:
//	l := resload.New(resload.WithGraphics(dev))
//
//	// Explicit sizing and collaborators:
//	l := resload.New(
//	    resload.WithWorkers(4),
//	    resload.WithFS(os.DirFS(assetRoot)),
//	    resload.WithGraphics(dev),
//	    resload.WithAudio(engine),
//	)
type Option func(*Loader)

// WithWorkers sets the worker count. Zero selects automatic sizing from the
// detected hardware parallelism; out-of-range values are clamped to [1, 16].
func WithWorkers(n int) Option {
	return func(l *Loader) {
		l.requestedWorkers = n
	}
}

// WithMaxGPUItemsPerFrame sets the initial per-frame quota of finalized
// GPU-bearing items. Values below 1 are clamped to 1.
func WithMaxGPUItemsPerFrame(n int) Option {
	return func(l *Loader) {
		l.SetMaxGPUItemsPerFrame(n)
	}
}

// WithFS sets the file system the workers read asset bytes from.
// Defaults to the process working directory.
func WithFS(fsys fs.FS) Option {
	return func(l *Loader) {
		l.fsys = fsys
	}
}

// WithGraphics sets the graphics device used by the completion pump.
// Without one, finalize fails texture requests that upload a decoded image
// and every handle-mode texture request; pool-mode container and blank
// textures go through the pool's own loaders instead.
func WithGraphics(g device.Graphics) Option {
	return func(l *Loader) {
		l.gfx = g
	}
}

// WithAudio sets the audio engine used by the completion pump.
func WithAudio(a device.Audio) Option {
	return func(l *Loader) {
		l.audio = a
	}
}

// WithActivePool supplies the ambient "currently active pool" captured at
// submit time when a pool-mode submission names no explicit target.
func WithActivePool(fn func() Pool) Option {
	return func(l *Loader) {
		l.activePool = fn
	}
}

// WithAudioDecoderFactory replaces the audio decoder collaborator.
// Defaults to codec.NewAudioDecoder (WAV, OGG Vorbis, MP3).
func WithAudioDecoderFactory(fn AudioDecoderFunc) Option {
	return func(l *Loader) {
		if fn != nil {
			l.audioDec = fn
		}
	}
}
