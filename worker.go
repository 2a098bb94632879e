package resload

import (
	"fmt"
	"io/fs"

	"github.com/gogpu/resload/codec"
)

// worker is the loop run by each pool goroutine: wait for a task, decode its
// requests in submission order, and queue one completion entry per request.
// Workers never touch the graphics device or the audio engine.
func (l *Loader) worker(id int) {
	defer l.wg.Done()

	for {
		l.queueMu.Lock()
		for !l.shutdown.Load() && len(l.taskQueue) == 0 {
			l.queueCond.Wait()
		}
		if l.shutdown.Load() {
			l.queueMu.Unlock()
			return
		}
		t := l.taskQueue[0]
		l.taskQueue = l.taskQueue[1:]
		l.queueMu.Unlock()

		t.markLoading()

		for i := range t.requests {
			if t.IsCancelled() {
				t.markCancelled()
				break
			}
			l.processRequest(t, i)
		}
	}
}

// processRequest decodes one request and queues its completion entry.
// Decode faults, including panics, become per-request failures; they never
// terminate the worker.
func (l *Loader) processRequest(t *Task, index int) {
	req := t.requests[index]
	var result Result

	func() {
		defer func() {
			if rec := recover(); rec != nil {
				result = initResult(req, true)
				result.fail(fmt.Sprint(rec))
			}
		}()

		switch req.Kind {
		case KindTexture:
			result = l.loadTextureWorker(req)
		case KindSprite:
			result = l.loadSpriteWorker(req)
		case KindAnimation:
			result = l.loadAnimationWorker(req)
		case KindMusic:
			result = l.loadMusicWorker(req)
		case KindSoundEffect:
			result = l.loadSoundEffectWorker(req)
		case KindSpriteFont:
			result = l.loadSpriteFontWorker(req)
		case KindTrueTypeFont:
			result = l.loadTrueTypeFontWorker(req)
		case KindEffect:
			result = l.loadEffectWorker(req)
		case KindModel:
			result = l.loadModelWorker(req)
		case KindParticle:
			result = l.loadParticleWorker(req)
		default:
			result = initResult(req, true)
			result.fail("Unsupported resource type")
		}
	}()

	Logger().Debug("resload: decoded request",
		"task", t.id, "index", index, "kind", req.Kind.String(), "ok", result.Success)

	l.push(completion{task: t, index: index, result: result})
}

// initResult seeds a result with the request identity and GPU flag.
func initResult(req Request, requiresGPU bool) Result {
	return Result{
		Name:        req.Name,
		Kind:        req.Kind,
		RequiresGPU: requiresGPU,
	}
}

// paramsAs extracts the typed payload, failing the result on a mismatch.
func paramsAs[T Params](req Request, r *Result) (T, bool) {
	p, ok := req.Params.(T)
	if !ok {
		var zero T
		r.fail(fmt.Sprintf("Mismatched parameters for %s request", req.Kind))
		return zero, false
	}
	return p, true
}

// validatePath checks file existence. An empty path is legal (blank-texture
// creation); a missing file records a failure.
func (l *Loader) validatePath(path string, r *Result) bool {
	if path == "" {
		return true
	}
	if l.fsys == nil {
		r.fail("File not found: " + path)
		return false
	}
	if _, err := fs.Stat(l.fsys, path); err != nil {
		r.fail("File not found: " + path)
		return false
	}
	return true
}

// loadImageData reads and decodes image bytes for the given path. Container
// formats (DDS) are passed through as raw bytes for the device to ingest;
// everything else decodes to an RGBA surface, with mipmap generation
// deferred to the main-thread upload.
func (l *Loader) loadImageData(path string, mipmaps bool, r *Result) bool {
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		r.fail("Failed to read file: " + path)
		return false
	}

	if codec.IsDDS(data) {
		r.FileData = data
		r.NeedsMipmaps = false
		return true
	}

	img, err := codec.DecodeImage(data)
	if err != nil {
		r.fail("Failed to decode image from file: " + path)
		return false
	}
	r.Image = img
	r.NeedsMipmaps = mipmaps
	return true
}

func (l *Loader) loadTextureWorker(req Request) Result {
	r := initResult(req, true)
	p, ok := paramsAs[TextureParams](req, &r)
	if !ok {
		return r
	}

	if !l.validatePath(p.Path, &r) {
		return r
	}

	if p.Path != "" && !l.loadImageData(p.Path, p.Mipmaps, &r) {
		return r
	}

	r.Success = true
	return r
}

func (l *Loader) loadSpriteWorker(req Request) Result {
	r := initResult(req, false)
	if _, ok := paramsAs[SpriteParams](req, &r); !ok {
		return r
	}
	r.Success = true
	return r
}

func (l *Loader) loadAnimationWorker(req Request) Result {
	r := initResult(req, false)
	if _, ok := paramsAs[AnimationParams](req, &r); !ok {
		return r
	}
	r.Success = true
	return r
}

func (l *Loader) loadMusicWorker(req Request) Result {
	r := initResult(req, false)
	p, ok := paramsAs[MusicParams](req, &r)
	if !ok {
		return r
	}

	if !l.validatePath(p.Path, &r) {
		return r
	}

	if !l.createAudioDecoder(p.Path, &r) {
		return r
	}

	r.Success = true
	return r
}

func (l *Loader) loadSoundEffectWorker(req Request) Result {
	r := initResult(req, false)
	p, ok := paramsAs[SoundEffectParams](req, &r)
	if !ok {
		return r
	}

	if !l.validatePath(p.Path, &r) {
		return r
	}

	if !l.createAudioDecoder(p.Path, &r) {
		return r
	}

	r.Success = true
	return r
}

// createAudioDecoder reads the file and builds the CPU-side decoder.
func (l *Loader) createAudioDecoder(path string, r *Result) bool {
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		r.fail("Failed to read file: " + path)
		return false
	}
	dec, err := l.audioDec(path, data)
	if err != nil {
		r.fail("Failed to create audio decoder")
		return false
	}
	r.AudioDecoder = dec
	return true
}

func (l *Loader) loadSpriteFontWorker(req Request) Result {
	r := initResult(req, true)
	p, ok := paramsAs[SpriteFontParams](req, &r)
	if !ok {
		return r
	}

	if !l.validatePath(p.Path, &r) {
		return r
	}
	if p.TexturePath != "" && !l.validatePath(p.TexturePath, &r) {
		return r
	}

	// Preload the companion texture image so the main thread only uploads.
	if p.TexturePath != "" && !l.loadImageData(p.TexturePath, p.Mipmaps, &r) {
		return r
	}

	r.Success = true
	return r
}

func (l *Loader) loadTrueTypeFontWorker(req Request) Result {
	r := initResult(req, true)
	p, ok := paramsAs[TrueTypeFontParams](req, &r)
	if !ok {
		return r
	}

	if !l.validatePath(p.Path, &r) {
		return r
	}

	if p.Width <= 0 || p.Height <= 0 {
		r.fail("Invalid font size: width and height must be positive")
		return r
	}

	r.Success = true
	return r
}

func (l *Loader) loadEffectWorker(req Request) Result {
	r := initResult(req, true)
	p, ok := paramsAs[EffectParams](req, &r)
	if !ok {
		return r
	}

	if !l.validatePath(p.Path, &r) {
		return r
	}

	r.Success = true
	return r
}

func (l *Loader) loadModelWorker(req Request) Result {
	r := initResult(req, true)
	p, ok := paramsAs[ModelParams](req, &r)
	if !ok {
		return r
	}

	if !l.validatePath(p.Path, &r) {
		return r
	}

	r.Success = true
	return r
}

func (l *Loader) loadParticleWorker(req Request) Result {
	r := initResult(req, false)
	p, ok := paramsAs[ParticleParams](req, &r)
	if !ok {
		return r
	}

	if !l.validatePath(p.Path, &r) {
		return r
	}

	r.Success = true
	return r
}
