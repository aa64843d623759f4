//go:build !linux
// +build !linux

package uevent

import (
	"context"
	"errors"
)

const (
	KernelGroup uint = 1
	UdevGroup   uint = 2
)

var ErrUnsupported = errors.New("uevent: netlink uevents are only available on linux")

type Monitor struct{}

func Listen(group uint) (*Monitor, error) {
	return nil, ErrUnsupported
}

func (m *Monitor) Run(ctx context.Context, fn func(Event)) error {
	return ErrUnsupported
}

func (m *Monitor) Close() error { return nil }

type Rule struct{}

func DeviceRule(subsystem, sysname string) (*Rule, error) {
	return nil, ErrUnsupported
}

func (e Event) Matches(r *Rule) bool { return false }

func Parse(msg []byte) (Event, error) {
	return Event{}, ErrUnsupported
}
