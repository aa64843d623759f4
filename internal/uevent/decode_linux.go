//go:build linux
// +build linux

package uevent

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	udevnl "github.com/pilebones/go-udev/netlink"
)

var udevPrefix = []byte("libudev\x00")

// Rule selects the events of one device.
type Rule struct {
	m udevnl.Matcher
}

// DeviceRule matches events for the device subsystem/sysname. A '/' in
// sysname stands for the '!' sysfs uses in its place.
func DeviceRule(subsystem, sysname string) (*Rule, error) {
	sysname = strings.ReplaceAll(sysname, "/", "!")
	rules := &udevnl.RuleDefinitions{
		Rules: []udevnl.RuleDefinition{
			{
				Env: map[string]string{
					"SUBSYSTEM": "^" + regexp.QuoteMeta(subsystem) + "$",
					"DEVPATH":   "/" + regexp.QuoteMeta(sysname) + "$",
				},
			},
		},
	}
	if err := rules.Compile(); err != nil {
		return nil, err
	}
	return &Rule{m: rules}, nil
}

func (e Event) Matches(r *Rule) bool {
	return r.m.Evaluate(udevnl.UEvent{
		Action: udevnl.KObjAction(e.Action),
		KObj:   e.Devpath,
		Env:    e.Env,
	})
}

// Parse decodes one netlink datagram, either a kernel
// "ACTION@DEVPATH\0KEY=VALUE\0..." event or a udevd event behind a
// "libudev" header. Anyone may send to the uevent groups, so a datagram
// the decoder chokes on is reported as ErrMalformed.
func Parse(msg []byte) (e Event, err error) {
	if len(msg) == 0 {
		return Event{}, ErrMalformed
	}
	defer func() {
		if r := recover(); r != nil {
			e, err = Event{}, fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()

	u, perr := udevnl.ParseUEvent(msg)
	if perr != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformed, perr)
	}
	e = Event{
		Action:   string(u.Action),
		Devpath:  u.KObj,
		Env:      u.Env,
		FromUdev: bytes.HasPrefix(msg, udevPrefix),
	}
	if e.Env == nil {
		e.Env = map[string]string{}
	}
	if e.Action == "" {
		e.Action = e.Env["ACTION"]
	}
	if e.Devpath == "" {
		e.Devpath = e.Env["DEVPATH"]
	}
	if e.Action == "" || e.Devpath == "" {
		return Event{}, ErrMalformed
	}
	return e, nil
}
