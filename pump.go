package resload

import (
	"fmt"

	"github.com/gogpu/resload/device"
)

// Update is the per-frame completion pump. It drains completion entries from
// the queue head, creating GPU and audio objects and publishing results, and
// stops once the per-frame quota of GPU-bearing items is reached.
//
// The quota uses a peek-then-commit rule: when the head entry is GPU-bearing
// and the quota is exhausted the pump stops without skipping past it, so
// per-stream FIFO order survives quota stalls. CPU-only entries behind the
// stalled head wait for the next frame rather than jump the line.
//
// Update never blocks; call it once per frame from the goroutine that owns
// the graphics and audio devices.
func (l *Loader) Update() {
	quota := l.MaxGPUItemsPerFrame()

	var batch []completion
	l.compMu.Lock()
	gpuCount := 0
	for len(l.completions) > 0 {
		head := l.completions[0]
		if head.result.RequiresGPU && gpuCount >= quota {
			break
		}
		if head.result.RequiresGPU {
			gpuCount++
		}
		batch = append(batch, head)
		l.completions = l.completions[1:]
	}
	l.compMu.Unlock()

	for i := range batch {
		l.finalize(&batch[i])
	}
}

// finalize performs the main-thread step for one completion entry: the
// kind-specific device work, the result write-back, and the progress
// advance. The counter advances whether the entry succeeded or failed.
func (l *Loader) finalize(c *completion) {
	t, index, r := c.task, c.index, &c.result

	switch r.Kind {
	case KindTexture:
		l.completeTexture(t, index, r)
	case KindSprite:
		l.completeSprite(t, index, r)
	case KindAnimation:
		l.completeAnimation(t, index, r)
	case KindMusic:
		l.completeMusic(t, index, r)
	case KindSoundEffect:
		l.completeSoundEffect(t, index, r)
	case KindSpriteFont:
		l.completeSpriteFont(t, index, r)
	case KindTrueTypeFont:
		l.completeTrueTypeFont(t, index, r)
	case KindEffect:
		l.completeEffect(t, index, r)
	case KindModel:
		l.completeModel(t, index, r)
	case KindParticle:
		l.completeParticle(t, index, r)
	}

	t.setResult(index, *r)
	if t.incrementCompleted() {
		Logger().Info("resload: completed task", "task", t.id)
	}
}

// resolvePool picks the pool for a request: the per-request override, else
// the pool captured at submit time. Handle-mode tasks get nil.
func (l *Loader) resolvePool(t *Task, req Request) Pool {
	if !t.usesPool {
		return nil
	}
	if req.TargetPool != nil {
		return req.TargetPool
	}
	return t.targetPool
}

// finalizeWith wraps the per-kind finalize body with the shared checks:
// worker failures pass through untouched, pool-mode tasks need a resolvable
// pool, cancelled pool-mode tasks drain without publishing, and panics in
// the body become per-request failures.
func (l *Loader) finalizeWith(t *Task, index int, r *Result, fn func(pool Pool)) {
	if !r.Success {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.fail(fmt.Sprint(rec))
		}
	}()

	pool := l.resolvePool(t, t.requests[index])
	if t.usesPool && pool == nil {
		r.fail("No active resource pool")
		return
	}

	// Cancelled tasks still drain their in-flight completions, but results
	// stay out of the pool.
	if t.usesPool && t.IsCancelled() {
		return
	}

	fn(pool)
}

func (l *Loader) completeTexture(t *Task, index int, r *Result) {
	l.finalizeWith(t, index, r, func(pool Pool) {
		p := t.requests[index].Params.(TextureParams)

		if t.usesPool {
			switch {
			case r.Image != nil:
				if l.gfx == nil {
					r.fail("No graphics device available")
					return
				}
				tex, err := l.gfx.CreateTextureFromImage(r.Image, r.NeedsMipmaps)
				if err != nil {
					r.fail("Failed to create texture from image data")
					return
				}
				if err := pool.PutTexture(r.Name, tex); err != nil {
					r.fail(err.Error())
					return
				}
				r.RegisteredToPool = true
			case len(r.FileData) > 0:
				if err := pool.LoadTexture(r.Name, p.Path, p.Mipmaps, r.FileData); err != nil {
					r.fail(err.Error())
					return
				}
				r.RegisteredToPool = true
			case p.Width > 0 && p.Height > 0:
				if err := pool.CreateTexture(r.Name, p.Width, p.Height); err != nil {
					r.fail(err.Error())
					return
				}
				r.RegisteredToPool = true
			default:
				r.fail("Invalid texture parameters")
			}
			return
		}

		// Handle mode: attach the texture to the result, touch no pool.
		if l.gfx == nil {
			r.fail("No graphics device available")
			return
		}
		switch {
		case r.Image != nil:
			tex, err := l.gfx.CreateTextureFromImage(r.Image, r.NeedsMipmaps)
			if err != nil {
				r.fail("Failed to create texture from image data")
				return
			}
			r.Texture = tex
		case len(r.FileData) > 0:
			tex, err := l.gfx.CreateTextureFromContainerFile(p.Path, r.FileData, p.Mipmaps)
			if err != nil {
				r.fail("Failed to create texture from container file")
				return
			}
			r.Texture = tex
		default:
			r.fail("No texture data available")
		}
	})
}

func (l *Loader) completeSprite(t *Task, index int, r *Result) {
	l.finalizeWith(t, index, r, func(pool Pool) {
		p := t.requests[index].Params.(SpriteParams)

		if t.usesPool {
			if err := pool.CreateSprite(r.Name, p.TextureName, p.X, p.Y, p.W, p.H, p.A, p.B, p.IsRect); err != nil {
				r.fail(err.Error())
				return
			}

			// A custom anchor overrides the pool's default draw center.
			if p.AnchorX != nil || p.AnchorY != nil {
				if sp, ok := pool.FindSprite(r.Name); ok {
					sp.CenterX = anchorOr(p.AnchorX, p.W/2)
					sp.CenterY = anchorOr(p.AnchorY, p.H/2)
				}
			}

			r.RegisteredToPool = true
			return
		}

		if p.Texture == nil {
			r.fail("No texture object provided for sprite")
			return
		}
		r.Sprite = &device.Sprite{
			Texture: p.Texture,
			Rect:    device.RectF{X0: p.X, Y0: p.Y, X1: p.X + p.W, Y1: p.Y + p.H},
			CenterX: anchorOr(p.AnchorX, p.W/2),
			CenterY: anchorOr(p.AnchorY, p.H/2),
			A:       p.A,
			B:       p.B,
			IsRect:  p.IsRect,
		}
	})
}

// anchorOr returns the explicit anchor value or the default.
func anchorOr(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

func (l *Loader) completeAnimation(t *Task, index int, r *Result) {
	l.finalizeWith(t, index, r, func(pool Pool) {
		p := t.requests[index].Params.(AnimationParams)

		if !t.usesPool {
			r.fail("Animation loading not supported in handle mode")
			return
		}

		if len(p.SpriteNames) == 0 {
			if err := pool.CreateAnimation(r.Name, p.TextureName, p.X, p.Y, p.W, p.H,
				p.N, p.M, p.Interval, p.A, p.B, p.IsRect); err != nil {
				r.fail(err.Error())
				return
			}
			r.RegisteredToPool = true
			return
		}

		sprites := make([]*device.Sprite, 0, len(p.SpriteNames))
		for _, name := range p.SpriteNames {
			sp, ok := pool.FindSprite(name)
			if !ok {
				r.fail("Sprite not found: " + name)
				return
			}
			sprites = append(sprites, sp)
		}
		if err := pool.CreateAnimationFromSprites(r.Name, sprites, p.Interval, p.A, p.B, p.IsRect); err != nil {
			r.fail(err.Error())
			return
		}
		r.RegisteredToPool = true
	})
}

func (l *Loader) completeMusic(t *Task, index int, r *Result) {
	l.finalizeWith(t, index, r, func(pool Pool) {
		p := t.requests[index].Params.(MusicParams)

		if !t.usesPool {
			r.fail("Music loading not supported in handle mode")
			return
		}

		if r.AudioDecoder == nil {
			r.fail("No audio decoder from worker thread")
			return
		}

		// Duplicate submissions under the same name are benign.
		if pool.Contains(KindMusic, r.Name) {
			r.RegisteredToPool = true
			return
		}

		rate := r.AudioDecoder.SampleRate()
		toSample := func(t float64) int64 { return int64(t * float64(rate)) }

		start, end := p.LoopStart, p.LoopEnd
		if toSample(start) == 0 && toSample(start) == toSample(end) {
			end = float64(r.AudioDecoder.FrameCount()) / float64(rate)
		}
		if toSample(start) >= toSample(end) {
			r.fail("Invalid loop range")
			return
		}

		if l.audio == nil {
			r.fail("No audio engine available")
			return
		}

		var (
			player device.Player
			err    error
		)
		if p.FullyDecode {
			player, err = l.audio.CreatePlayer(r.AudioDecoder, device.ChannelMusic)
			if err != nil {
				r.fail("Failed to create audio player")
				return
			}
		} else {
			player, err = l.audio.CreateStreamPlayer(r.AudioDecoder, device.ChannelMusic)
			if err != nil {
				r.fail("Failed to create stream audio player")
				return
			}
		}
		player.SetLoop(true, start, end-start)

		if err := pool.PutMusic(r.Name, r.AudioDecoder, player); err != nil {
			r.fail(err.Error())
			return
		}
		r.RegisteredToPool = true
	})
}

func (l *Loader) completeSoundEffect(t *Task, index int, r *Result) {
	l.finalizeWith(t, index, r, func(pool Pool) {
		if !t.usesPool {
			r.fail("Sound effect loading not supported in handle mode")
			return
		}

		if r.AudioDecoder == nil {
			r.fail("No audio decoder from worker thread")
			return
		}

		if pool.Contains(KindSoundEffect, r.Name) {
			r.RegisteredToPool = true
			return
		}

		if l.audio == nil {
			r.fail("No audio engine available")
			return
		}

		player, err := l.audio.CreatePlayer(r.AudioDecoder, device.ChannelSoundEffect)
		if err != nil {
			r.fail("Failed to create audio player")
			return
		}

		if err := pool.PutSound(r.Name, player); err != nil {
			r.fail(err.Error())
			return
		}
		r.RegisteredToPool = true
	})
}

func (l *Loader) completeSpriteFont(t *Task, index int, r *Result) {
	l.finalizeWith(t, index, r, func(pool Pool) {
		p := t.requests[index].Params.(SpriteFontParams)

		if !t.usesPool {
			r.fail("Sprite font loading not supported in handle mode")
			return
		}

		if err := pool.LoadSpriteFont(r.Name, p.Path, p.TexturePath, p.Mipmaps); err != nil {
			r.fail(err.Error())
			return
		}
		r.RegisteredToPool = true
	})
}

func (l *Loader) completeTrueTypeFont(t *Task, index int, r *Result) {
	l.finalizeWith(t, index, r, func(pool Pool) {
		p := t.requests[index].Params.(TrueTypeFontParams)

		if !t.usesPool {
			r.fail("TrueType font loading not supported in handle mode")
			return
		}

		if err := pool.LoadTrueTypeFont(r.Name, p.Path, p.Width, p.Height); err != nil {
			r.fail(err.Error())
			return
		}
		r.RegisteredToPool = true
	})
}

func (l *Loader) completeEffect(t *Task, index int, r *Result) {
	l.finalizeWith(t, index, r, func(pool Pool) {
		p := t.requests[index].Params.(EffectParams)

		if !t.usesPool {
			r.fail("Effect loading not supported in handle mode")
			return
		}

		if err := pool.LoadEffect(r.Name, p.Path); err != nil {
			r.fail(err.Error())
			return
		}
		r.RegisteredToPool = true
	})
}

func (l *Loader) completeModel(t *Task, index int, r *Result) {
	l.finalizeWith(t, index, r, func(pool Pool) {
		p := t.requests[index].Params.(ModelParams)

		if !t.usesPool {
			r.fail("Model loading not supported in handle mode")
			return
		}

		if err := pool.LoadModel(r.Name, p.Path); err != nil {
			r.fail(err.Error())
			return
		}
		r.RegisteredToPool = true
	})
}

func (l *Loader) completeParticle(t *Task, index int, r *Result) {
	l.finalizeWith(t, index, r, func(pool Pool) {
		p := t.requests[index].Params.(ParticleParams)

		if !t.usesPool {
			r.fail("Particle loading not supported in handle mode")
			return
		}

		if err := pool.LoadParticle(r.Name, p.Path, p.ImageName, p.A, p.B, p.IsRect); err != nil {
			r.fail(err.Error())
			return
		}
		r.RegisteredToPool = true
	})
}
