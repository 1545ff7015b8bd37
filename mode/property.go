package mode

import (
	"bytes"
	"os"
	"unsafe"

	"github.com/pkg/errors"

	drm "github.com/NeowayLabs/drmresource"
	"github.com/NeowayLabs/drmresource/ioctl"
)

// Property flags as reported in drm_mode_get_property.flags.
const (
	PropPending   = 1 << 0 // deprecated, never set by the kernel
	PropRange     = 1 << 1
	PropImmutable = 1 << 2
	PropEnum      = 1 << 3 // enumerated type with text strings
	PropBlob      = 1 << 4
	PropBitmask   = 1 << 5 // bitmask of enumerated types

	PropLegacyType = PropRange | PropEnum | PropBlob | PropBitmask

	// Extended types are encoded as a number in bits 6-15.
	PropExtendedType = 0x0000ffc0
	PropObject       = 1 << 6
	PropSignedRange  = 2 << 6

	// PropAtomic marks properties only visible to atomic clients.
	PropAtomic = 0x80000000
)

// Object types of drm_mode_obj_get_properties.obj_type.
const (
	ObjectAny       = 0
	ObjectCrtc      = 0xcccccccc
	ObjectConnector = 0xc0c0c0c0
	ObjectEncoder   = 0xe0e0e0e0
	ObjectMode      = 0xdededede
	ObjectProperty  = 0xb0b0b0b0
	ObjectFB        = 0xfbfbfbfb
	ObjectBlob      = 0xbbbbbbbb
	ObjectPlane     = 0xeeeeeeee
)

type (
	sysGetProperty struct {
		valuesPtr     uint64
		enumBlobPtr   uint64
		id            uint32
		flags         uint32
		name          [PropNameLen]byte
		countValues   uint32
		countEnumBlob uint32
	}

	sysPropertyEnum struct {
		value uint64
		name  [PropNameLen]byte
	}

	sysObjGetProperties struct {
		propsPtr      uint64
		propValuesPtr uint64
		countProps    uint32
		objID         uint32
		objType       uint32
	}

	sysObjSetProperty struct {
		value   uint64
		propID  uint32
		objID   uint32
		objType uint32
	}

	sysGetBlob struct {
		id     uint32
		length uint32
		data   uint64
	}

	// PropertyEnum is one named value of an enum or bitmask property.
	// For bitmasks Value is the bit index, not the mask.
	PropertyEnum struct {
		Value uint64
		Name  string
	}

	// PropertyInfo is the property metadata reported by the driver.
	PropertyInfo struct {
		ID    uint32
		Flags uint32
		Name  string

		// Values holds min and max for range properties and the
		// enum values for enum and bitmask properties.
		Values []uint64
		Enums  []PropertyEnum

		// BlobIDs is only filled by old kernels for blob properties.
		BlobIDs []uint32
	}

	// ObjectProperties lists the properties attached to a KMS object
	// and their current values, index aligned.
	ObjectProperties struct {
		ObjectID   uint32
		ObjectType uint32
		Props      []uint32
		Values     []uint64
	}
)

var (
	// DRM_IOWR(0xAA, struct drm_mode_get_property)
	IOCTLModeGetProperty = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysGetProperty{})), drm.IOCTLBase, 0xAA)

	// DRM_IOWR(0xAC, struct drm_mode_get_blob)
	IOCTLModeGetPropBlob = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysGetBlob{})), drm.IOCTLBase, 0xAC)

	// DRM_IOWR(0xB9, struct drm_mode_obj_get_properties)
	IOCTLModeObjGetProperties = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysObjGetProperties{})), drm.IOCTLBase, 0xB9)

	// DRM_IOWR(0xBA, struct drm_mode_obj_set_property)
	IOCTLModeObjSetProperty = ioctl.NewCode(ioctl.Read|ioctl.Write,
		uint16(unsafe.Sizeof(sysObjSetProperty{})), drm.IOCTLBase, 0xBA)
)

func GetProperty(file *os.File, id uint32) (*PropertyInfo, error) {
	prop := &sysGetProperty{id: id}
	err := ioctl.Do(file.Fd(), uintptr(IOCTLModeGetProperty),
		uintptr(unsafe.Pointer(prop)))
	if err != nil {
		return nil, errors.Wrapf(err, "get property %d", id)
	}

	var (
		values  []uint64
		enums   []sysPropertyEnum
		blobIDs []uint32
		lengths []uint32
	)

	isBlob := prop.flags&PropBlob != 0

	if prop.countValues > 0 {
		if isBlob {
			// blob properties report blob lengths in values
			lengths = make([]uint32, prop.countValues)
			prop.valuesPtr = uint64(uintptr(unsafe.Pointer(&lengths[0])))
		} else {
			values = make([]uint64, prop.countValues)
			prop.valuesPtr = uint64(uintptr(unsafe.Pointer(&values[0])))
		}
	}

	if prop.countEnumBlob > 0 {
		switch {
		case prop.flags&(PropEnum|PropBitmask) != 0:
			enums = make([]sysPropertyEnum, prop.countEnumBlob)
			prop.enumBlobPtr = uint64(uintptr(unsafe.Pointer(&enums[0])))
		case isBlob:
			blobIDs = make([]uint32, prop.countEnumBlob)
			prop.enumBlobPtr = uint64(uintptr(unsafe.Pointer(&blobIDs[0])))
		}
	}

	err = ioctl.Do(file.Fd(), uintptr(IOCTLModeGetProperty),
		uintptr(unsafe.Pointer(prop)))
	if err != nil {
		return nil, errors.Wrapf(err, "get property %d", id)
	}

	return newPropertyInfo(prop, values, enums, blobIDs), nil
}

// newPropertyInfo keeps only the entries the second call reported; the
// counts may shrink between the two calls.
func newPropertyInfo(prop *sysGetProperty, values []uint64, enums []sysPropertyEnum, blobIDs []uint32) *PropertyInfo {
	info := &PropertyInfo{
		ID:      prop.id,
		Flags:   prop.flags,
		Name:    cstr(prop.name[:]),
		Values:  values[:min(len(values), int(prop.countValues))],
		BlobIDs: blobIDs[:min(len(blobIDs), int(prop.countEnumBlob))],
	}

	for _, e := range enums[:min(len(enums), int(prop.countEnumBlob))] {
		info.Enums = append(info.Enums, PropertyEnum{
			Value: e.value,
			Name:  cstr(e.name[:]),
		})
	}
	return info
}

// GetObjectProperties returns the property ids and current values of a
// KMS object. objType may be ObjectAny.
func GetObjectProperties(file *os.File, objID, objType uint32) (*ObjectProperties, error) {
	req := &sysObjGetProperties{objID: objID, objType: objType}
	err := ioctl.Do(file.Fd(), uintptr(IOCTLModeObjGetProperties),
		uintptr(unsafe.Pointer(req)))
	if err != nil {
		return nil, errors.Wrapf(err, "get properties of object %d", objID)
	}

	var (
		props  []uint32
		values []uint64
	)

	// the count can grow in between calls (hotplug adds connector
	// properties), retry until the kernel fits in our buffers
	for req.countProps > uint32(len(props)) {
		count := req.countProps
		props = make([]uint32, count)
		values = make([]uint64, count)
		req.propsPtr = uint64(uintptr(unsafe.Pointer(&props[0])))
		req.propValuesPtr = uint64(uintptr(unsafe.Pointer(&values[0])))

		err = ioctl.Do(file.Fd(), uintptr(IOCTLModeObjGetProperties),
			uintptr(unsafe.Pointer(req)))
		if err != nil {
			return nil, errors.Wrapf(err, "get properties of object %d", objID)
		}
	}

	return &ObjectProperties{
		ObjectID:   objID,
		ObjectType: objType,
		Props:      props[:req.countProps],
		Values:     values[:req.countProps],
	}, nil
}

// SetObjectProperty writes a single property with the legacy, non-atomic
// interface.
func SetObjectProperty(file *os.File, objID, objType, propID uint32, value uint64) error {
	req := &sysObjSetProperty{
		value:   value,
		propID:  propID,
		objID:   objID,
		objType: objType,
	}
	err := ioctl.Do(file.Fd(), uintptr(IOCTLModeObjSetProperty),
		uintptr(unsafe.Pointer(req)))
	if err != nil {
		return errors.Wrapf(err, "set property %d of object %d to %d", propID, objID, value)
	}
	return nil
}

// GetPropertyBlob returns the content of a blob, e.g. the EDID of a
// connector or the mode of a crtc.
func GetPropertyBlob(file *os.File, blobID uint32) ([]byte, error) {
	req := &sysGetBlob{id: blobID}
	err := ioctl.Do(file.Fd(), uintptr(IOCTLModeGetPropBlob),
		uintptr(unsafe.Pointer(req)))
	if err != nil {
		return nil, errors.Wrapf(err, "get blob %d", blobID)
	}
	if req.length == 0 {
		return nil, nil
	}

	data := make([]byte, req.length)
	req.data = uint64(uintptr(unsafe.Pointer(&data[0])))
	err = ioctl.Do(file.Fd(), uintptr(IOCTLModeGetPropBlob),
		uintptr(unsafe.Pointer(req)))
	if err != nil {
		return nil, errors.Wrapf(err, "get blob %d", blobID)
	}
	return data[:req.length], nil
}

func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
