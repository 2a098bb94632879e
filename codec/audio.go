// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gogpu/resload/device"
)

// Audio errors.
var (
	// ErrUnsupportedAudio is returned when no decoder recognizes the data.
	ErrUnsupportedAudio = errors.New("codec: unsupported audio format")
)

// NewAudioDecoder creates a CPU-side PCM decoder for the given file bytes,
// auto-detecting the container (WAV, OGG Vorbis, MP3). The path is used only
// as a detection fallback and for error messages.
func NewAudioDecoder(name string, data []byte) (device.AudioDecoder, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}

	switch {
	case len(data) >= 4 && bytes.Equal(data[:4], []byte("OggS")):
		return newOggDecoder(data)
	case len(data) >= 4 && bytes.Equal(data[:4], []byte("RIFF")):
		return newWAVDecoder(data)
	case len(data) >= 3 && bytes.Equal(data[:3], []byte("ID3")),
		len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0,
		strings.EqualFold(path.Ext(name), ".mp3"):
		return newMP3Decoder(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAudio, name)
	}
}

// wavDecoder decodes uncompressed 16-bit PCM RIFF/WAVE data.
type wavDecoder struct {
	pcm        []byte // raw 16-bit little-endian samples
	sampleRate int
	channels   int
	pos        int64 // frame cursor
}

func newWAVDecoder(data []byte) (*wavDecoder, error) {
	if len(data) < 12 || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return nil, errors.New("codec: not a WAVE file")
	}

	d := &wavDecoder{}
	rest := data[12:]
	for len(rest) >= 8 {
		id := string(rest[0:4])
		size := int(binary.LittleEndian.Uint32(rest[4:8]))
		if size > len(rest)-8 {
			size = len(rest) - 8
		}
		body := rest[8 : 8+size]

		switch id {
		case "fmt ":
			if len(body) < 16 {
				return nil, errors.New("codec: short WAVE fmt chunk")
			}
			format := binary.LittleEndian.Uint16(body[0:2])
			bits := binary.LittleEndian.Uint16(body[14:16])
			if format != 1 || bits != 16 {
				return nil, fmt.Errorf("codec: unsupported WAVE encoding (format %d, %d bits)", format, bits)
			}
			d.channels = int(binary.LittleEndian.Uint16(body[2:4]))
			d.sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
		case "data":
			d.pcm = body
		}

		// Chunks are word-aligned.
		if size%2 == 1 {
			size++
		}
		rest = rest[8+size:]
	}

	if d.sampleRate == 0 || d.channels == 0 || d.pcm == nil {
		return nil, errors.New("codec: WAVE file missing fmt or data chunk")
	}
	return d, nil
}

func (d *wavDecoder) SampleRate() int   { return d.sampleRate }
func (d *wavDecoder) ChannelCount() int { return d.channels }

func (d *wavDecoder) FrameCount() int64 {
	return int64(len(d.pcm)) / int64(2*d.channels)
}

func (d *wavDecoder) Seek(frame int64) error {
	if frame < 0 || frame > d.FrameCount() {
		return fmt.Errorf("codec: seek out of range: %d", frame)
	}
	d.pos = frame
	return nil
}

func (d *wavDecoder) Read(dst []float32) (int, error) {
	start := d.pos * int64(d.channels)
	total := int64(len(d.pcm)) / 2
	if start >= total {
		return 0, io.EOF
	}
	n := 0
	for i := start; i < total && n < len(dst); i++ {
		s := int16(binary.LittleEndian.Uint16(d.pcm[i*2:]))
		dst[n] = float32(s) / 32768
		n++
	}
	d.pos += int64(n) / int64(d.channels)
	return n, nil
}
