// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package codec

import (
	"image"
	"testing"
)

func TestMipLevels(t *testing.T) {
	tests := []struct {
		w, h int
		want int
	}{
		{1, 1, 1},
		{2, 2, 2},
		{4, 4, 3},
		{256, 256, 9},
		{256, 16, 9},
		{100, 60, 7}, // log2(100) floor = 6
		{0, 0, 1},
	}
	for _, tt := range tests {
		if got := MipLevels(tt.w, tt.h); got != tt.want {
			t.Errorf("MipLevels(%d, %d) = %d, want %d", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestGenerateMipmaps(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 4))
	chain := GenerateMipmaps(src)

	if len(chain) != MipLevels(8, 4) {
		t.Fatalf("len(chain) = %d, want %d", len(chain), MipLevels(8, 4))
	}
	if chain[0] != src {
		t.Error("level 0 does not alias the source")
	}

	wantSizes := [][2]int{{8, 4}, {4, 2}, {2, 1}, {1, 1}}
	for i, want := range wantSizes {
		b := chain[i].Bounds()
		if b.Dx() != want[0] || b.Dy() != want[1] {
			t.Errorf("level %d = %dx%d, want %dx%d", i, b.Dx(), b.Dy(), want[0], want[1])
		}
	}
}

func TestGenerateMipmapsNil(t *testing.T) {
	if got := GenerateMipmaps(nil); got != nil {
		t.Errorf("GenerateMipmaps(nil) = %v, want nil", got)
	}
}
