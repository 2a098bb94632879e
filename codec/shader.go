// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package codec

import (
	"fmt"

	"github.com/gogpu/naga"
)

// CompileEffect compiles WGSL effect source to SPIR-V words.
//
// Effect resources carry their shader as WGSL text; compilation is pure CPU
// work and therefore allowed off the main thread. The resulting words are
// what a graphics backend feeds to its shader-module constructor.
func CompileEffect(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("codec: compile effect: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
