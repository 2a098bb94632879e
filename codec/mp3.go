// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
)

// mp3 output is always 16-bit stereo, so one frame is four bytes.
const mp3BytesPerFrame = 4

// mp3Decoder decodes MPEG audio via hajimehoshi/go-mp3.
type mp3Decoder struct {
	d *mp3.Decoder
}

func newMP3Decoder(data []byte) (*mp3Decoder, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("codec: decode mp3: %w", err)
	}
	return &mp3Decoder{d: d}, nil
}

func (m *mp3Decoder) SampleRate() int   { return m.d.SampleRate() }
func (m *mp3Decoder) ChannelCount() int { return 2 }

func (m *mp3Decoder) FrameCount() int64 {
	return m.d.Length() / mp3BytesPerFrame
}

func (m *mp3Decoder) Seek(frame int64) error {
	_, err := m.d.Seek(frame*mp3BytesPerFrame, io.SeekStart)
	return err
}

func (m *mp3Decoder) Read(dst []float32) (int, error) {
	buf := make([]byte, len(dst)*2)
	n, err := m.d.Read(buf)
	if n == 0 {
		return 0, err
	}
	samples := n / 2
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(buf[i*2:]))
		dst[i] = float32(s) / 32768
	}
	return samples, err
}
