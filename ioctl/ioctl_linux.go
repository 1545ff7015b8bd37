package ioctl

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Request codes follow the generic Linux layout (include/uapi/asm-generic/ioctl.h):
//
//  bits    meaning
//  31-30   direction: 00 none, 01 write, 10 read, 11 read/write
//  29-16   size of the argument struct
//  15-8    type, an ascii character unique to the driver ('d' for drm)
//  7-0     function number
//
// So 0xC04064AA is a read/write request with a 0x40 bytes argument, type 'd',
// function 0xAA, which is DRM_IOCTL_MODE_GETPROPERTY.

type Code struct {
	Dir  uint8  // None, Write, Read or Write|Read
	Size uint16 // argument size, 14 bits
	Type uint8
	Fn   uint8
}

const (
	None  = uint8(0x0)
	Write = uint8(0x1)
	Read  = uint8(0x2)

	maxSize = 1<<14 - 1
)

func NewCode(typ uint8, sz uint16, uniq, fn uint8) uint32 {
	if typ > Write|Read {
		panic(fmt.Errorf("invalid ioctl direction: %d", typ))
	}
	if sz > maxSize {
		panic(fmt.Errorf("invalid ioctl size: %d", sz))
	}

	code := uint32(typ) << 30
	code |= uint32(sz) << 16
	code |= uint32(uniq) << 8
	code |= uint32(fn)
	return code
}

// Decode splits a request code into its fields.
func Decode(code uint32) Code {
	return Code{
		Dir:  uint8(code >> 30),
		Size: uint16((code >> 16) & maxSize),
		Type: uint8(code >> 8),
		Fn:   uint8(code),
	}
}

func (c Code) String() string {
	dir := "none"
	switch c.Dir {
	case Write:
		dir = "w"
	case Read:
		dir = "r"
	case Read | Write:
		dir = "rw"
	}
	return fmt.Sprintf("%c/0x%02x (%s, %d bytes)", c.Type, c.Fn, dir, c.Size)
}

// Do issues the request. EINTR and EAGAIN are retried the way libdrm's
// drmIoctl does; any other errno is returned as a unix.Errno.
func Do(fd, cmd, ptr uintptr) error {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, cmd, ptr)
		switch errno {
		case 0:
			return nil
		case unix.EINTR, unix.EAGAIN:
			continue
		}
		return errno
	}
}
