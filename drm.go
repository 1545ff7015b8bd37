package drm

import (
	"bytes"
	"fmt"
	"os"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/NeowayLabs/drmresource/ioctl"
)

type (
	version struct {
		Major   int32
		Minor   int32
		Patch   int32
		namelen int64
		name    uintptr
		datelen int64
		date    uintptr
		desclen int64
		desc    uintptr
	}

	// Version of DRM driver
	Version struct {
		Major, Minor, Patch int32
		Name                string // Name of the driver (eg.: i915)
		Date                string
		Desc                string
	}
)

const (
	driPath = "/dev/dri"
)

// Available opens the first card and returns its driver version.
func Available() (Version, error) {
	f, err := OpenCard(0)
	if err != nil {
		return Version{}, err
	}
	defer f.Close()
	return GetVersion(f)
}

func OpenCard(n int) (*os.File, error) {
	return open(fmt.Sprintf("%s/card%d", driPath, n))
}

func OpenControlDev(n int) (*os.File, error) {
	return open(fmt.Sprintf("%s/controlD%d", driPath, n))
}

func OpenRenderDev(n int) (*os.File, error) {
	return open(fmt.Sprintf("%s/renderD%d", driPath, n))
}

func open(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return f, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%s %d.%d.%d (%s)", v.Name, v.Major, v.Minor, v.Patch, v.Date)
}

func GetVersion(file *os.File) (Version, error) {
	var name, date, desc []byte

	v := &version{}
	err := ioctl.Do(file.Fd(), uintptr(IOCTLVersion), uintptr(unsafe.Pointer(v)))
	if err != nil {
		return Version{}, errors.Wrap(err, "DRM_IOCTL_VERSION")
	}

	// second pass fills the strings sized by the first one
	if v.namelen > 0 {
		name = make([]byte, v.namelen+1)
		v.name = uintptr(unsafe.Pointer(&name[0]))
	}
	if v.datelen > 0 {
		date = make([]byte, v.datelen+1)
		v.date = uintptr(unsafe.Pointer(&date[0]))
	}
	if v.desclen > 0 {
		desc = make([]byte, v.desclen+1)
		v.desc = uintptr(unsafe.Pointer(&desc[0]))
	}

	err = ioctl.Do(file.Fd(), uintptr(IOCTLVersion), uintptr(unsafe.Pointer(v)))
	if err != nil {
		return Version{}, errors.Wrap(err, "DRM_IOCTL_VERSION")
	}

	return Version{
		Major: v.Major,
		Minor: v.Minor,
		Patch: v.Patch,
		Name:  cstring(name, v.namelen),
		Date:  cstring(date, v.datelen),
		Desc:  cstring(desc, v.desclen),
	}, nil
}

// cstring trims a kernel filled buffer to n bytes and drops NUL padding.
func cstring(b []byte, n int64) string {
	if int64(len(b)) > n {
		b = b[:n]
	}
	return string(bytes.TrimRight(b, "\x00"))
}
