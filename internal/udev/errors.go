package udev

import (
	"errors"
	"syscall"
)

var (
	// ErrUnavailable is returned when the device-manager context cannot be
	// opened, usually because sysfs is not mounted.
	ErrUnavailable = errors.New("udev: device manager unavailable")

	// ErrNoDevice is returned by Lookup when no device matches the
	// subsystem and sysname.
	ErrNoDevice = errors.New("udev: no such device")

	// ErrQuery is returned when a device exists but its udev database
	// record cannot be read.
	ErrQuery = errors.New("udev: device query failed")

	// ErrClosed is returned when a handle is used or released after it
	// has already been closed.
	ErrClosed = errors.New("udev: handle is closed")
)

// Errno extracts the system error number carried by err, if any.
func Errno(err error) (syscall.Errno, bool) {
	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return errno, true
	}
	return 0, false
}
