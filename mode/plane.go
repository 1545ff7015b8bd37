package mode

import (
	"os"
	"unsafe"

	"github.com/pkg/errors"

	drm "github.com/NeowayLabs/drmresource"
	"github.com/NeowayLabs/drmresource/ioctl"
)

type (
	sysPlaneRes struct {
		planeIDPtr  uint64
		countPlanes uint32
		pad         uint32
	}

	sysGetPlane struct {
		id            uint32
		crtcID        uint32
		fbID          uint32
		possibleCrtcs uint32
		gammaSize     uint32

		countFormatTypes uint32
		formatTypePtr    uint64
	}

	// Plane is a scanout source. Primary and cursor planes are only
	// listed after drm.ClientCapUniversalPlanes is set.
	Plane struct {
		ID            uint32
		CrtcID        uint32
		BufferID      uint32
		PossibleCrtcs uint32
		GammaSize     uint32

		// Formats are fourcc codes.
		Formats []uint32
	}
)

var (
	// DRM_IOWR(0xB5, struct drm_mode_get_plane_res)
	IOCTLModeGetPlaneResources = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysPlaneRes{})), drm.IOCTLBase, 0xB5)

	// DRM_IOWR(0xB6, struct drm_mode_get_plane)
	IOCTLModeGetPlane = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysGetPlane{})), drm.IOCTLBase, 0xB6)
)

// GetPlaneResources returns the ids of all planes.
func GetPlaneResources(file *os.File) ([]uint32, error) {
	res := &sysPlaneRes{}
	err := ioctl.Do(file.Fd(), uintptr(IOCTLModeGetPlaneResources),
		uintptr(unsafe.Pointer(res)))
	if err != nil {
		return nil, errors.Wrap(err, "get plane resources")
	}
	if res.countPlanes == 0 {
		return nil, nil
	}

	ids := make([]uint32, res.countPlanes)
	res.planeIDPtr = uint64(uintptr(unsafe.Pointer(&ids[0])))
	err = ioctl.Do(file.Fd(), uintptr(IOCTLModeGetPlaneResources),
		uintptr(unsafe.Pointer(res)))
	if err != nil {
		return nil, errors.Wrap(err, "get plane resources")
	}
	return ids[:min(len(ids), int(res.countPlanes))], nil
}

func GetPlane(file *os.File, id uint32) (*Plane, error) {
	req := &sysGetPlane{id: id}
	err := ioctl.Do(file.Fd(), uintptr(IOCTLModeGetPlane),
		uintptr(unsafe.Pointer(req)))
	if err != nil {
		return nil, errors.Wrapf(err, "get plane %d", id)
	}

	var formats []uint32
	if req.countFormatTypes > 0 {
		formats = make([]uint32, req.countFormatTypes)
		req.formatTypePtr = uint64(uintptr(unsafe.Pointer(&formats[0])))
		err = ioctl.Do(file.Fd(), uintptr(IOCTLModeGetPlane),
			uintptr(unsafe.Pointer(req)))
		if err != nil {
			return nil, errors.Wrapf(err, "get plane %d", id)
		}
		formats = formats[:min(len(formats), int(req.countFormatTypes))]
	}

	return &Plane{
		ID:            req.id,
		CrtcID:        req.crtcID,
		BufferID:      req.fbID,
		PossibleCrtcs: req.possibleCrtcs,
		GammaSize:     req.gammaSize,
		Formats:       formats,
	}, nil
}
