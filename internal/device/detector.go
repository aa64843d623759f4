package device

import (
	"path/filepath"
	"strconv"

	"github.com/shirou/gopsutil/v3/disk"

	"github.com/gajzzs/devinit/internal/probe"
	"github.com/gajzzs/devinit/internal/udev"
)

const sectorSize = 512

type Device struct {
	Name       string
	Size       uint64
	Partition  bool
	Removable  bool
	MountPoint string
	Model      string
	Status     probe.Status
}

// Mounts maps a device node such as /dev/sda1 to where it is mounted.
type Mounts func() (map[string]string, error)

// SystemMounts reads the mount table through gopsutil.
func SystemMounts() (map[string]string, error) {
	partitions, err := disk.Partitions(true)
	if err != nil {
		return nil, err
	}
	mounts := make(map[string]string, len(partitions))
	for _, p := range partitions {
		if _, seen := mounts[p.Device]; !seen {
			mounts[p.Device] = p.Mountpoint
		}
	}
	return mounts, nil
}

// ListBlockDevices enumerates subsystem and checks every device in it.
// A failing mount table only leaves MountPoint empty, a failing scan
// only leaves Model empty.
func ListBlockDevices(ctx *udev.Context, subsystem string, mounts Mounts, scan Scanner) ([]Device, error) {
	names, err := ctx.Enumerate(subsystem)
	if err != nil {
		return nil, err
	}

	mounted := map[string]string{}
	if mounts != nil {
		if m, err := mounts(); err == nil {
			mounted = m
		} else {
			clog.Warningf("reading mount table: %v", err)
		}
	}

	catalog, err := NewCatalog(scan)
	if err != nil {
		clog.Warningf("scanning udev database: %v", err)
	}

	var devices []Device
	for _, name := range names {
		dev := Device{
			Name:       name,
			MountPoint: mounted[filepath.Join("/dev", name)],
			Model:      catalog.Model(name),
		}
		if bd, err := ctx.Device(subsystem, name); err == nil {
			dev.Size = sizeOf(bd)
			_, perr := bd.Attribute("partition")
			dev.Partition = perr == nil
			if v, err := bd.Attribute("removable"); err == nil {
				dev.Removable = v == "1"
			}
			bd.Close()
		}
		st, err := probe.Check(ctx, subsystem, name)
		if err != nil {
			clog.Warningf("%v", err)
		}
		dev.Status = st
		devices = append(devices, dev)
	}
	return devices, nil
}

func sizeOf(bd *udev.SysDevice) uint64 {
	v, err := bd.Attribute("size")
	if err != nil {
		return 0
	}
	sectors, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0
	}
	return sectors * sectorSize
}
