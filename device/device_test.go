package device_test

import (
	"testing"

	"github.com/primer-ml/primer/device"
	"github.com/primer-ml/primer/tensor"
)

func TestProbeAlwaysReturnsADevice(t *testing.T) {
	info := device.Probe()
	if info.Device != tensor.CPU && info.Device != tensor.WebGPU {
		t.Fatalf("unexpected device %v", info.Device)
	}
	if info.String() == "" {
		t.Fatal("empty device description")
	}
}

func TestListAdaptersMatchesAvailability(t *testing.T) {
	adapters, err := device.ListAdapters()
	if !device.GPUAvailable() {
		if err == nil {
			t.Fatal("expected error when no GPU is available")
		}
		t.Skip("no WebGPU adapter on this machine")
	}
	if err != nil {
		t.Fatalf("ListAdapters: %v", err)
	}
	if len(adapters) == 0 {
		t.Fatal("GPU available but no adapters listed")
	}
	for _, a := range adapters {
		t.Logf("adapter: %s (%s)", a.Name, a.Vendor)
	}
}
