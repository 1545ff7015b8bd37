package drm

import (
	"os"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/NeowayLabs/drmresource/ioctl"
)

type (
	// shared by drm_get_cap and drm_set_client_cap
	capability struct {
		cap uint64
		val uint64
	}
)

const (
	CapDumbBuffer = iota + 1
	CapVBlankHighCRTC
	CapDumbPreferredDepth
	CapDumbPreferShadow
	CapPrime
	CapTimestampMonotonic
	CapAsyncPageFlip
	CapCursorWidth
	CapCursorHeight

	CapAddFB2Modifiers     = 0x10
	CapCrtcInVBlankEvent   = 0x12
	CapAtomicAsyncPageFlip = 0x15
)

// Client capabilities, set with SetClientCap.
const (
	ClientCapStereo3D = iota + 1
	// ClientCapUniversalPlanes exposes primary and cursor planes
	// (and the plane "type" property) to the client.
	ClientCapUniversalPlanes
	// ClientCapAtomic implies universal planes and unhides atomic-only
	// properties.
	ClientCapAtomic
	ClientCapAspectRatio
	ClientCapWritebackConnectors
)

func GetCap(file *os.File, cap uint64) (uint64, error) {
	c := &capability{cap: cap}
	err := ioctl.Do(file.Fd(), uintptr(IOCTLGetCap), uintptr(unsafe.Pointer(c)))
	if err != nil {
		return 0, errors.Wrapf(err, "DRM_IOCTL_GET_CAP %d", cap)
	}
	return c.val, nil
}

func HasDumbBuffer(file *os.File) bool {
	val, err := GetCap(file, CapDumbBuffer)
	if err != nil {
		return false
	}
	return val != 0
}

// SetClientCap enables a client capability on this file description.
func SetClientCap(file *os.File, cap, val uint64) error {
	c := &capability{cap: cap, val: val}
	err := ioctl.Do(file.Fd(), uintptr(IOCTLSetClientCap), uintptr(unsafe.Pointer(c)))
	if err != nil {
		return errors.Wrapf(err, "DRM_IOCTL_SET_CLIENT_CAP %d=%d", cap, val)
	}
	return nil
}
