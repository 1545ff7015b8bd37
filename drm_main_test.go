package drm_test

import (
	"os"
	"testing"

	drm "github.com/NeowayLabs/drmresource"
)

type (
	cardDetail struct {
		version      drm.Version
		capabilities map[uint64]uint64
	}
)

var (
	cards = map[string]cardDetail{
		"i915": {
			version: drm.Version{
				Major: 1,
				Minor: 6,
				Patch: 0,
				Name:  "i915",
				Desc:  "Intel Graphics",
			},
			capabilities: map[uint64]uint64{
				drm.CapDumbBuffer:         1,
				drm.CapVBlankHighCRTC:     1,
				drm.CapDumbPreferredDepth: 24,
				drm.CapDumbPreferShadow:   1,
				drm.CapPrime:              3,
				drm.CapTimestampMonotonic: 1,
				drm.CapCursorWidth:        256,
				drm.CapCursorHeight:       256,
				drm.CapAddFB2Modifiers:    1,
			},
		},
		"virtio_gpu": {
			version: drm.Version{
				Major: 0,
				Minor: 1,
				Patch: 0,
				Name:  "virtio_gpu",
				Desc:  "virtio GPU",
			},
			capabilities: map[uint64]uint64{
				drm.CapDumbBuffer: 1,
			},
		},
	}
)

// openCard returns card0 or skips the test on machines without one.
func openCard(t *testing.T) *os.File {
	t.Helper()
	file, err := drm.OpenCard(0)
	if err != nil {
		t.Skipf("no graphics card available: %v", err)
	}
	t.Cleanup(func() { file.Close() })
	return file
}

// knownCard returns the expectations for card0, skipping when the driver
// has none recorded.
func knownCard(t *testing.T, file *os.File) cardDetail {
	t.Helper()
	v, err := drm.GetVersion(file)
	if err != nil {
		t.Fatal(err)
	}
	info, ok := cards[v.Name]
	if !ok {
		t.Skipf("no expectations for card '%s'", v.Name)
	}
	return info
}
