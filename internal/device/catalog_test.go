package device

import (
	"errors"
	"testing"

	"github.com/qubesome/libudev/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogModel(t *testing.T) {
	disk := &types.Device{
		Devpath: "/devices/pci0000:00/0000:00:1f.2/ata1/host0/target0:0:0/0:0:0:0/block/sdb",
		Env:     map[string]string{"DEVNAME": "/dev/sdb", "ID_MODEL": "Samsung_SSD_860"},
	}
	part := &types.Device{
		Devpath: disk.Devpath + "/sdb1",
		Env:     map[string]string{"DEVNAME": "/dev/sdb1"},
		Parent:  disk,
	}
	nvme := &types.Device{
		Devpath: "/devices/pci0000:00/0000:00:1d.0/0000:3d:00.0/nvme/nvme0/nvme0n1",
		Env:     map[string]string{"ID_MODEL_FROM_DATABASE": "NVMe SSD Controller"},
	}
	scan := func() ([]*types.Device, error) {
		return []*types.Device{disk, part, nvme, nil, {}}, nil
	}

	c, err := NewCatalog(scan)
	require.NoError(t, err)
	assert.Equal(t, "Samsung_SSD_860", c.Model("sdb"))
	assert.Equal(t, "Samsung_SSD_860", c.Model("sdb1"))
	assert.Equal(t, "NVMe SSD Controller", c.Model("nvme0n1"))
	assert.Equal(t, "", c.Model("sdz"))
}

func TestCatalogScanFailure(t *testing.T) {
	c, err := NewCatalog(func() ([]*types.Device, error) {
		return nil, errors.New("permission denied")
	})
	require.Error(t, err)
	assert.Equal(t, "", c.Model("sda"))

	c, err = NewCatalog(nil)
	require.NoError(t, err)
	assert.Empty(t, c)
}
