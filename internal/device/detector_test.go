package device

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/qubesome/libudev/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gajzzs/devinit/internal/config"
	"github.com/gajzzs/devinit/internal/probe"
	"github.com/gajzzs/devinit/internal/udev"
)

func writeAttr(t *testing.T, dir, name, value string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0644))
}

func fixture(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.SysfsDir = filepath.Join(root, "sys")
	cfg.UdevDataDir = filepath.Join(root, "data")
	require.NoError(t, os.MkdirAll(cfg.UdevDataDir, 0755))

	sda := filepath.Join(cfg.SysfsDir, "class", "block", "sda")
	sda1 := filepath.Join(cfg.SysfsDir, "class", "block", "sda1")
	require.NoError(t, os.MkdirAll(sda, 0755))
	require.NoError(t, os.MkdirAll(sda1, 0755))
	writeAttr(t, sda, "dev", "8:0")
	writeAttr(t, sda, "size", "2097152")
	writeAttr(t, sda, "removable", "1")
	writeAttr(t, sda1, "dev", "8:1")
	writeAttr(t, sda1, "size", "2048")
	writeAttr(t, sda1, "partition", "1")

	require.NoError(t, os.WriteFile(filepath.Join(cfg.UdevDataDir, "b8:0"), []byte("I:1\n"), 0644))
	return cfg
}

func TestListBlockDevices(t *testing.T) {
	cfg := fixture(t)
	ctx, err := udev.New(cfg)
	require.NoError(t, err)
	defer ctx.Close()

	mounts := func() (map[string]string, error) {
		return map[string]string{"/dev/sda1": "/mnt/usb"}, nil
	}
	scan := func() ([]*types.Device, error) {
		disk := &types.Device{
			Devpath: "/devices/pci0000:00/0000:00:14.0/usb1/1-1/1-1:1.0/host6/target6:0:0/6:0:0:0/block/sda",
			Env:     map[string]string{"DEVNAME": "/dev/sda", "ID_MODEL": "Flash_Disk"},
		}
		return []*types.Device{disk}, nil
	}
	devices, err := ListBlockDevices(ctx, "block", mounts, scan)
	require.NoError(t, err)
	require.Len(t, devices, 2)

	assert.Equal(t, Device{
		Name:      "sda",
		Size:      2097152 * 512,
		Removable: true,
		Model:     "Flash_Disk",
		Status:    probe.Status{Kind: probe.Initialized},
	}, devices[0])
	assert.Equal(t, Device{
		Name:       "sda1",
		Size:       1024 * 1024,
		Partition:  true,
		MountPoint: "/mnt/usb",
		Status:     probe.Status{Kind: probe.NotInitialized},
	}, devices[1])
}

func TestListBlockDevicesMountFailure(t *testing.T) {
	cfg := fixture(t)
	ctx, err := udev.New(cfg)
	require.NoError(t, err)
	defer ctx.Close()

	devices, err := ListBlockDevices(ctx, "block", func() (map[string]string, error) {
		return nil, errors.New("no /proc")
	}, func() ([]*types.Device, error) {
		return nil, errors.New("no /run/udev")
	})
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Empty(t, devices[1].MountPoint)
	assert.Empty(t, devices[0].Model)
}

func TestListBlockDevicesClosedContext(t *testing.T) {
	cfg := fixture(t)
	ctx, err := udev.New(cfg)
	require.NoError(t, err)
	require.NoError(t, ctx.Close())

	_, err = ListBlockDevices(ctx, "block", nil, nil)
	assert.ErrorIs(t, err, udev.ErrClosed)
}
