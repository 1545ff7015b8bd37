package ioctl

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func getbits(n uint32) string {
	return strconv.FormatUint(uint64(n), 2)
}

func TestNewCode(t *testing.T) {
	code := NewCode(Read, 0x218, 'r', 1)
	expected := uint32(0x82187201)
	if code != expected {
		t.Errorf("Expected %s but got %s", getbits(expected),
			getbits(code))
		return
	}
}

func TestNewCodeGetProperty(t *testing.T) {
	// DRM_IOWR(0xAA, struct drm_mode_get_property)
	assert.Equal(t, uint32(0xC04064AA), NewCode(Read|Write, 64, 'd', 0xAA))
}

func TestNewCodeInvalid(t *testing.T) {
	assert.Panics(t, func() { NewCode(4, 8, 'd', 0) })
	assert.Panics(t, func() { NewCode(Read, 1<<14, 'd', 0) })
	assert.NotPanics(t, func() { NewCode(Read, 1<<14-1, 'd', 0) })
}

func TestDecode(t *testing.T) {
	c := Decode(0xC04064AA)
	assert.Equal(t, Code{Dir: Read | Write, Size: 64, Type: 'd', Fn: 0xAA}, c)
	assert.Equal(t, "d/0xaa (rw, 64 bytes)", c.String())

	c = Decode(NewCode(Write, 16, 'd', 0x0d))
	assert.Equal(t, "d/0x0d (w, 16 bytes)", c.String())
}
