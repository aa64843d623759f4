// Package udev reads device state the way libudev does: device objects
// come from sysfs and their initialization state from the udev database
// that systemd-udevd maintains under /run/udev/data.
package udev

import (
	"github.com/coreos/pkg/capnslog"

	"github.com/gajzzs/devinit/internal/config"
)

var clog = capnslog.NewPackageLogger("github.com/gajzzs/devinit", "udev")

// Manager is an open device-manager context.
type Manager interface {
	// Lookup resolves a device by subsystem and kernel sysname. It returns
	// ErrNoDevice when nothing matches.
	Lookup(subsystem, sysname string) (Device, error)
	Close() error
}

// Device is a reference to one device obtained from a Manager. It must be
// closed before the Manager that produced it.
type Device interface {
	Subsystem() string
	Sysname() string
	// Initialized reports whether udev has finished processing the device.
	// A non-nil error means the state could not be determined.
	Initialized() (bool, error)
	Close() error
}

// Opener acquires a Manager.
type Opener func() (Manager, error)

// NewOpener returns an Opener backed by the sysfs and udev database
// locations in cfg.
func NewOpener(cfg config.Config) Opener {
	return func() (Manager, error) {
		c, err := New(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}
