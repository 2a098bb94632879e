// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package codec

import (
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

// MipLevels returns the number of mipmap levels for a texture of the given
// size, down to a 1x1 pixel level. Returns 1 for empty dimensions.
func MipLevels(width, height int) int {
	maxDim := max(width, height)
	if maxDim <= 0 {
		return 1
	}
	return 1 + int(math.Floor(math.Log2(float64(maxDim))))
}

// GenerateMipmaps builds a full mipmap chain from src. Level 0 aliases src;
// each following level is half the previous size (minimum 1 pixel per axis)
// downsampled with a bilinear filter. Returns nil for a nil or empty source.
func GenerateMipmaps(src *image.RGBA) []*image.RGBA {
	if src == nil || src.Bounds().Empty() {
		return nil
	}

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	levels := make([]*image.RGBA, 0, MipLevels(w, h))
	levels = append(levels, src)

	for w > 1 || h > 1 {
		w = max(1, w/2)
		h = max(1, h/2)
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		prev := levels[len(levels)-1]
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), prev, prev.Bounds(), draw.Src, nil)
		levels = append(levels, dst)
	}

	return levels
}
