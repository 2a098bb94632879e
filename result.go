package resload

import (
	"image"

	"github.com/gogpu/resload/device"
)

// Result is the outcome of loading one request.
//
// A worker fills the intermediate fields (Image, FileData, AudioDecoder) and
// the flags; the completion pump consumes the intermediates, performs the
// device work, and records the final success or failure. Once a result is
// queued for completion its payload is owned exclusively by the main thread.
type Result struct {
	// Name and Kind echo the originating request.
	Name string
	Kind Kind

	// Success reports whether the request loaded; Error carries the failure
	// message when it did not.
	Success bool
	Error   string

	// RequiresGPU marks results whose finalize step performs device work
	// and therefore counts against the per-frame GPU quota.
	RequiresGPU bool

	// RegisteredToPool is set during finalize when the resource was
	// published into a resource pool.
	RegisteredToPool bool

	// Image is the decoded surface for image-backed resources, prepared on
	// a worker and uploaded on the main thread.
	Image *image.RGBA

	// FileData carries raw container-file bytes (e.g. DDS) that the device
	// layer ingests itself.
	FileData []byte

	// NeedsMipmaps asks the device to generate mipmaps when uploading Image.
	NeedsMipmaps bool

	// AudioDecoder is the CPU-side decoder built on a worker for audio
	// resources.
	AudioDecoder device.AudioDecoder

	// Texture and Sprite are the handles produced in handle mode.
	Texture device.Texture
	Sprite  *device.Sprite
}

// fail marks the result failed with the given message.
func (r *Result) fail(msg string) {
	r.Success = false
	r.Error = msg
}
