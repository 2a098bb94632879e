// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// particleDefSize is the fixed size of an HGE particle definition blob:
// a 4-byte embedded sprite pointer (ignored) followed by the emitter fields.
const particleDefSize = 128

// ParticleDef is a parsed HGE particle-system definition (.psi).
type ParticleDef struct {
	Emission  int32 // particles per second
	Lifetime  float32
	LifeMin   float32
	LifeMax   float32
	Direction float32
	Spread    float32
	Relative  bool

	SpeedMin, SpeedMax                      float32
	GravityMin, GravityMax                  float32
	RadialAccelMin, RadialAccelMax          float32
	TangentialAccelMin, TangentialAccelMax float32

	SizeStart, SizeEnd, SizeVar float32
	SpinStart, SpinEnd, SpinVar float32

	ColorStart [4]float32
	ColorEnd   [4]float32
	ColorVar   float32
	AlphaVar   float32
}

// particleDefWire mirrors the on-disk field layout after the sprite pointer.
type particleDefWire struct {
	Emission  int32
	Lifetime  float32
	LifeMin   float32
	LifeMax   float32
	Direction float32
	Spread    float32
	Relative  int32

	SpeedMin, SpeedMax                      float32
	GravityMin, GravityMax                  float32
	RadialAccelMin, RadialAccelMax          float32
	TangentialAccelMin, TangentialAccelMax float32

	SizeStart, SizeEnd, SizeVar float32
	SpinStart, SpinEnd, SpinVar float32

	ColorStart [4]float32
	ColorEnd   [4]float32
	ColorVar   float32
	AlphaVar   float32
}

// ParseParticleDef parses a fixed-size HGE particle definition blob.
func ParseParticleDef(data []byte) (*ParticleDef, error) {
	if len(data) < particleDefSize {
		return nil, fmt.Errorf("codec: particle definition too short: %d bytes", len(data))
	}

	var wire particleDefWire
	// The first four bytes hold the serialized sprite pointer; skip them.
	r := bytes.NewReader(data[4:particleDefSize])
	if err := binary.Read(r, binary.LittleEndian, &wire); err != nil {
		return nil, fmt.Errorf("codec: parse particle definition: %w", err)
	}

	return &ParticleDef{
		Emission:  wire.Emission,
		Lifetime:  wire.Lifetime,
		LifeMin:   wire.LifeMin,
		LifeMax:   wire.LifeMax,
		Direction: wire.Direction,
		Spread:    wire.Spread,
		Relative:  wire.Relative != 0,

		SpeedMin: wire.SpeedMin, SpeedMax: wire.SpeedMax,
		GravityMin: wire.GravityMin, GravityMax: wire.GravityMax,
		RadialAccelMin: wire.RadialAccelMin, RadialAccelMax: wire.RadialAccelMax,
		TangentialAccelMin: wire.TangentialAccelMin, TangentialAccelMax: wire.TangentialAccelMax,

		SizeStart: wire.SizeStart, SizeEnd: wire.SizeEnd, SizeVar: wire.SizeVar,
		SpinStart: wire.SpinStart, SpinEnd: wire.SpinEnd, SpinVar: wire.SpinVar,

		ColorStart: wire.ColorStart,
		ColorEnd:   wire.ColorEnd,
		ColorVar:   wire.ColorVar,
		AlphaVar:   wire.AlphaVar,
	}, nil
}
