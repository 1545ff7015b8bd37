package property

import (
	"os"

	"github.com/NeowayLabs/drmresource/mode"
)

// Driver is the part of the kernel interface descriptors are built from
// and written back to.
type Driver interface {
	GetObjectProperties(objID, objType uint32) (*mode.ObjectProperties, error)
	GetProperty(propID uint32) (*mode.PropertyInfo, error)
	SetObjectProperty(objID, objType, propID uint32, value uint64) error
}

// Device is the Driver of an open card.
type Device struct {
	file *os.File
}

func NewDevice(file *os.File) *Device {
	return &Device{file: file}
}

func (d *Device) GetObjectProperties(objID, objType uint32) (*mode.ObjectProperties, error) {
	return mode.GetObjectProperties(d.file, objID, objType)
}

func (d *Device) GetProperty(propID uint32) (*mode.PropertyInfo, error) {
	return mode.GetProperty(d.file, propID)
}

func (d *Device) SetObjectProperty(objID, objType, propID uint32, value uint64) error {
	return mode.SetObjectProperty(d.file, objID, objType, propID, value)
}

// Blob reads the content of a blob property value, e.g. an EDID.
func (d *Device) Blob(blobID uint32) ([]byte, error) {
	return mode.GetPropertyBlob(d.file, blobID)
}
