//go:build linux
// +build linux

package uevent

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/pkg/capnslog"
	"github.com/vishvananda/netlink/nl"
	"golang.org/x/sys/unix"
)

var clog = capnslog.NewPackageLogger("github.com/gajzzs/devinit", "uevent")

// Multicast groups of the NETLINK_KOBJECT_UEVENT family.
const (
	KernelGroup uint = 1
	UdevGroup   uint = 2
)

const recvBufSize = 128 * 1024

type Monitor struct {
	sock *nl.NetlinkSocket
}

// Listen subscribes to uevents broadcast on group.
func Listen(group uint) (*Monitor, error) {
	sock, err := nl.Subscribe(unix.NETLINK_KOBJECT_UEVENT, group)
	if err != nil {
		return nil, fmt.Errorf("subscribe to uevent group %d: %w", group, err)
	}
	// Wake up periodically so Run notices a cancelled context.
	tv := unix.NsecToTimeval(int64(250 * 1e6))
	if err := unix.SetsockoptTimeval(sock.GetFd(), unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		sock.Close()
		return nil, fmt.Errorf("set uevent receive timeout: %w", err)
	}
	return &Monitor{sock: sock}, nil
}

// Run delivers every well-formed event to fn until ctx is done. Malformed
// datagrams are dropped.
func (m *Monitor) Run(ctx context.Context, fn func(Event)) error {
	buf := make([]byte, recvBufSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, _, err := unix.Recvfrom(m.sock.GetFd(), buf, 0)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("receive uevent: %w", err)
		}
		e, err := Parse(buf[:n])
		if err != nil {
			clog.Debugf("dropping %d byte uevent: %v", n, err)
			continue
		}
		fn(e)
	}
}

func (m *Monitor) Close() error {
	m.sock.Close()
	return nil
}
