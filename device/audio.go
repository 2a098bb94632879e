// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

// Channel names an audio mixing group. Players are bound to a channel at
// creation time and mixed with the channel's volume.
type Channel uint8

const (
	// ChannelMusic is the background-music mixing group.
	ChannelMusic Channel = iota

	// ChannelSoundEffect is the one-shot sound-effect mixing group.
	ChannelSoundEffect
)

// String returns a human-readable name for the channel.
func (c Channel) String() string {
	switch c {
	case ChannelMusic:
		return "music"
	case ChannelSoundEffect:
		return "sound effect"
	default:
		return "unknown"
	}
}

// AudioDecoder is the CPU-side PCM source the audio engine consumes.
//
// Decoders are created on worker goroutines (decoding is pure CPU work) and
// handed to the Audio engine on the main thread. A decoder is owned by a
// single goroutine at a time; ownership transfers with the completion entry.
type AudioDecoder interface {
	// SampleRate returns the PCM sample rate in Hz.
	SampleRate() int

	// ChannelCount returns the number of interleaved channels.
	ChannelCount() int

	// FrameCount returns the total number of PCM frames.
	FrameCount() int64

	// Seek positions the decoder at the given frame.
	Seek(frame int64) error

	// Read decodes into dst as interleaved float32 samples and returns the
	// number of samples written. io.EOF signals the end of the stream.
	Read(dst []float32) (int, error)
}

// Player is a playable audio object created by the Audio engine.
type Player interface {
	// SetLoop enables or disables looping over [startSec, startSec+lengthSec).
	SetLoop(enabled bool, startSec, lengthSec float64)

	// Release stops playback and frees engine resources.
	Release()
}

// Audio is the audio engine consumed by the completion pump. Main-thread-only,
// like Graphics.
type Audio interface {
	// CreateStreamPlayer creates a player that decodes on demand during
	// playback. Used for long music tracks.
	CreateStreamPlayer(dec AudioDecoder, ch Channel) (Player, error)

	// CreatePlayer creates a player over fully pre-decoded PCM. Used for
	// sound effects and fully-decoded music.
	CreatePlayer(dec AudioDecoder, ch Channel) (Player, error)
}
