// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"errors"
	"image"
	"testing"

	"github.com/gogpu/wgpu"
)

func ddsBytes(w, h uint32) []byte {
	data := make([]byte, 128)
	copy(data, []byte{0x44, 0x44, 0x53, 0x20})
	binary.LittleEndian.PutUint32(data[4:8], 124)
	binary.LittleEndian.PutUint32(data[12:16], h)
	binary.LittleEndian.PutUint32(data[16:20], w)
	return data
}

func TestContainerDims(t *testing.T) {
	w, h, err := containerDims(ddsBytes(256, 128))
	if err != nil {
		t.Fatalf("containerDims: %v", err)
	}
	if w != 256 || h != 128 {
		t.Errorf("dims = %dx%d, want 256x128", w, h)
	}

	if _, _, err := containerDims([]byte("not dds")); !errors.Is(err, ErrBadContainer) {
		t.Errorf("error = %v, want ErrBadContainer", err)
	}
	if _, _, err := containerDims(ddsBytes(0, 16)); !errors.Is(err, ErrBadContainer) {
		t.Errorf("zero width error = %v, want ErrBadContainer", err)
	}
}

func TestNewNilDevice(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNilDevice) {
		t.Errorf("New(nil) error = %v, want ErrNilDevice", err)
	}
}

// createTestDevice requests a real GPU device, skipping when the backend is
// unavailable (headless CI, missing drivers).
func createTestDevice(t *testing.T) (*wgpu.Instance, *wgpu.Adapter, *wgpu.Device) {
	t.Helper()

	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		t.Skipf("cannot create instance: %v", err)
	}
	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		instance.Release()
		t.Skipf("cannot request adapter: %v", err)
	}
	dev, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		t.Skipf("cannot request device: %v", err)
	}
	if dev.Queue() == nil {
		dev.Release()
		adapter.Release()
		instance.Release()
		t.Skip("skipping: device has no HAL integration")
	}
	return instance, adapter, dev
}

func TestIntegrationCreateTextureFromImage(t *testing.T) {
	instance, adapter, dev := createTestDevice(t)
	defer instance.Release()
	defer adapter.Release()
	defer dev.Release()

	d, err := New(dev)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	tex, err := d.CreateTextureFromImage(img, true)
	if err != nil {
		t.Fatalf("CreateTextureFromImage: %v", err)
	}
	defer tex.Release()

	if tex.Width() != 32 || tex.Height() != 16 {
		t.Errorf("texture = %dx%d, want 32x16", tex.Width(), tex.Height())
	}
	gt := tex.(*Texture)
	if len(gt.Levels) < 2 {
		t.Errorf("mip levels = %d, want a full chain", len(gt.Levels))
	}
}
