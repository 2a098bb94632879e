// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package codec

import (
	"bytes"
	"fmt"

	"github.com/jfreymuth/oggvorbis"
)

// oggDecoder decodes OGG Vorbis data via jfreymuth/oggvorbis.
type oggDecoder struct {
	r *oggvorbis.Reader
}

func newOggDecoder(data []byte) (*oggDecoder, error) {
	r, err := oggvorbis.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("codec: decode ogg: %w", err)
	}
	return &oggDecoder{r: r}, nil
}

func (d *oggDecoder) SampleRate() int   { return d.r.SampleRate() }
func (d *oggDecoder) ChannelCount() int { return d.r.Channels() }
func (d *oggDecoder) FrameCount() int64 { return d.r.Length() }

func (d *oggDecoder) Seek(frame int64) error {
	return d.r.SetPosition(frame)
}

func (d *oggDecoder) Read(dst []float32) (int, error) {
	return d.r.Read(dst)
}
