package device

import (
	"path"

	"github.com/qubesome/libudev"
	"github.com/qubesome/libudev/types"
)

// Scanner returns every device described by the system udev database.
type Scanner func() ([]*types.Device, error)

// SystemScan walks /sys/devices and /run/udev/data.
func SystemScan() ([]*types.Device, error) {
	err, devices := libudev.NewScanner().ScanDevices()
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// Catalog indexes scanned devices by kernel name.
type Catalog map[string]*types.Device

// NewCatalog runs scan once. A nil scan yields an empty Catalog.
func NewCatalog(scan Scanner) (Catalog, error) {
	c := Catalog{}
	if scan == nil {
		return c, nil
	}
	devices, err := scan()
	if err != nil {
		return c, err
	}
	for _, d := range devices {
		if d == nil || d.Devpath == "" {
			continue
		}
		if name := d.Env["DEVNAME"]; name != "" {
			c[path.Base(name)] = d
			continue
		}
		c[path.Base(d.Devpath)] = d
	}
	return c, nil
}

// Model is the model udev recorded for name or, for a partition, for the
// disk holding it.
func (c Catalog) Model(name string) string {
	for d := c[name]; d != nil; d = d.Parent {
		if m := d.Env["ID_MODEL"]; m != "" {
			return m
		}
		if m := d.Env["ID_MODEL_FROM_DATABASE"]; m != "" {
			return m
		}
	}
	return ""
}
