// Package uevent receives device events from the kernel uevent netlink
// socket, either raw kernel events or the ones udevd rebroadcasts once a
// device has been processed.
package uevent

import (
	"errors"
	"path"
)

var ErrMalformed = errors.New("uevent: malformed message")

type Event struct {
	Action  string
	Devpath string
	Env     map[string]string
	// FromUdev is set for events udevd sent after processing the device.
	FromUdev bool
}

func (e Event) Subsystem() string { return e.Env["SUBSYSTEM"] }

// Sysname is the kernel name of the device, e.g. "sda1".
func (e Event) Sysname() string {
	if e.Devpath == "" {
		return ""
	}
	return path.Base(e.Devpath)
}
