// Package resload provides an asynchronous game-resource loader.
//
// # Overview
//
// resload is a two-stage pipeline: a fixed pool of worker goroutines
// performs CPU-side decoding of asset bytes (images, audio, fonts, models,
// particles, shader effects) while a per-frame completion pump, run on the
// goroutine that owns the graphics and audio devices, creates GPU-visible
// objects and publishes them. The pump is frame-budgeted so the render loop
// never stalls on a burst of uploads.
//
// # Quick Start
//
//	l := resload.New(
//	    resload.WithFS(os.DirFS("assets")),
//	    resload.WithGraphics(dev),
//	    resload.WithAudio(engine),
//	    resload.WithActivePool(func() resload.Pool { return activePool }),
//	)
//	defer l.Close()
//
//	task := l.Submit([]resload.Request{
//	    {Kind: resload.KindTexture, Name: "player",
//	        Params: resload.TextureParams{Path: "player.png", Mipmaps: true}},
//	}, true, nil)
//
//	// Each frame:
//	l.Update()
//	if task.IsCompleted() { ... }
//
// # Publication modes
//
// In pool mode, finalized resources are inserted into a resource pool under
// the request name. In handle mode (usesPool false), textures and sprites
// are attached to the task and retrieved as ordered handle slices via
// Task.Textures and Task.Sprites; other kinds are not available in handle
// mode.
//
// # Threading
//
// Workers never touch the graphics device or audio engine; those are
// single-owner resources of whichever goroutine calls Update. Submit,
// Cancel, and all Task accessors are safe for concurrent use.
//
// # Architecture
//
// The module is organized into:
//   - resload: requests, results, tasks, the worker pool, and the pump
//   - device: graphics and audio collaborator contracts
//   - gpu: an optional wgpu-backed graphics device adapter
//   - codec: CPU-side decoders (image, mipmap, audio, font, particle, shader)
//   - pool: the resource-pool contract's in-memory reference implementation
package resload
