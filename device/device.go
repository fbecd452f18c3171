// Copyright 2026 Primer Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package device reports which compute devices are available on this
// machine. The library runs everywhere on the CPU; when a WebGPU adapter
// and the wgpu_native library are present, callers can prefer it.
package device

import (
	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/primer-ml/primer/pkg/errors"
	"github.com/primer-ml/primer/tensor"
)

// Info describes one compute device.
type Info struct {
	Device tensor.Device
	Name   string
	Vendor string
}

// String returns a human-readable description, e.g. "WebGPU (NVIDIA RTX 4090)".
func (i Info) String() string {
	if i.Device == tensor.CPU {
		return "CPU"
	}
	return "WebGPU (" + i.Name + ")"
}

// Probe returns the best available device, preferring a high-performance
// GPU adapter and falling back to the CPU when none can be acquired.
func Probe() Info {
	if info, err := gpuInfo(); err == nil {
		return info
	}
	return Info{Device: tensor.CPU}
}

// GPUAvailable reports whether a WebGPU adapter can be acquired.
func GPUAvailable() bool {
	_, err := gpuInfo()
	return err == nil
}

// ListAdapters returns every visible GPU adapter. The WebGPU API exposes
// only the default adapter, so the slice has at most one entry.
func ListAdapters() ([]Info, error) {
	info, err := gpuInfo()
	if err != nil {
		return nil, err
	}
	return []Info{info}, nil
}

func gpuInfo() (info Info, err error) {
	// RequestAdapter panics when wgpu_native is not installed.
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("device: wgpu native library not available: %v", r)
		}
	}()

	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return Info{}, errors.Wrap(err, "device: creating instance")
	}
	defer instance.Release()

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return Info{}, errors.Wrap(err, "device: requesting adapter")
	}
	defer adapter.Release()

	adapterInfo, err := adapter.GetInfo()
	if err != nil {
		return Info{}, errors.Wrap(err, "device: getting adapter info")
	}
	return Info{
		Device: tensor.WebGPU,
		Name:   adapterInfo.Device,
		Vendor: adapterInfo.Vendor,
	}, nil
}
