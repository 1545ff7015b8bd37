package drm_test

import (
	"testing"

	drm "github.com/NeowayLabs/drmresource"
)

func TestHasDumbBuffer(t *testing.T) {
	file := openCard(t)
	cardInfo := knownCard(t, file)
	if hasDumb := drm.HasDumbBuffer(file); hasDumb != (cardInfo.capabilities[drm.CapDumbBuffer] != 0) {
		t.Errorf("Card should support dumb buffers...Got %v but %d", hasDumb, cardInfo.capabilities[drm.CapDumbBuffer])
	}
}

func TestGetCap(t *testing.T) {
	file := openCard(t)
	cardInfo := knownCard(t, file)
	for cap, capval := range cardInfo.capabilities {
		ccap, err := drm.GetCap(file, cap)
		if err != nil {
			t.Error(err)
			return
		}
		if ccap != capval {
			t.Errorf("Capability %d differs: %d != %d", cap, ccap, capval)
		}
	}
}

func TestSetClientCap(t *testing.T) {
	file := openCard(t)
	if err := drm.SetClientCap(file, drm.ClientCapUniversalPlanes, 1); err != nil {
		t.Skipf("universal planes: %v", err)
	}
	if err := drm.SetClientCap(file, 0xffff, 1); err == nil {
		t.Error("unknown client cap accepted")
	}
}
