package udev

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gajzzs/devinit/internal/config"
)

// Context is a Manager backed by a sysfs tree and a udev database
// directory.
type Context struct {
	sysfs  string
	data   string
	open   int
	closed bool
}

// New opens a device-manager context. It fails with ErrUnavailable when
// the sysfs root is missing or is not a directory.
func New(cfg config.Config) (*Context, error) {
	fi, err := os.Stat(cfg.SysfsDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrUnavailable, cfg.SysfsDir)
	}
	clog.Debugf("opened context sysfs=%s data=%s", cfg.SysfsDir, cfg.UdevDataDir)
	return &Context{sysfs: cfg.SysfsDir, data: cfg.UdevDataDir}, nil
}

func (c *Context) Lookup(subsystem, sysname string) (Device, error) {
	d, err := c.Device(subsystem, sysname)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Device is Lookup returning the concrete handle, for callers that need
// the udev database record.
func (c *Context) Device(subsystem, sysname string) (*SysDevice, error) {
	if c.closed {
		return nil, ErrClosed
	}
	// sysfs spells a '/' in a kernel name as '!', e.g. cciss!c0d0.
	sysname = strings.ReplaceAll(sysname, "/", "!")
	if subsystem == "" || sysname == "" || sysname == "." || sysname == ".." {
		return nil, ErrNoDevice
	}

	var syspath string
	for _, dir := range c.subsystemDirs(subsystem) {
		p := filepath.Join(dir, sysname)
		_, err := os.Stat(p)
		if err == nil {
			syspath = p
			break
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrQuery, err)
		}
	}
	if syspath == "" {
		clog.Debugf("no %s device named %s", subsystem, sysname)
		return nil, ErrNoDevice
	}

	devnum, err := readDevnum(syspath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	c.open++
	return &SysDevice{
		ctx:       c,
		subsystem: subsystem,
		sysname:   sysname,
		syspath:   syspath,
		devnum:    devnum,
	}, nil
}

// Enumerate lists the sysnames of every device in subsystem, sorted.
func (c *Context) Enumerate(subsystem string) ([]string, error) {
	if c.closed {
		return nil, ErrClosed
	}
	seen := make(map[string]bool)
	var names []string
	for _, dir := range c.subsystemDirs(subsystem) {
		entries, err := os.ReadDir(dir)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !seen[e.Name()] {
				seen[e.Name()] = true
				names = append(names, e.Name())
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

// Close releases the context. Devices still open at this point are
// reported but do not cause an error.
func (c *Context) Close() error {
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	if c.open > 0 {
		clog.Debugf("context closed with %d device handle(s) still open", c.open)
	}
	return nil
}

func (c *Context) subsystemDirs(subsystem string) []string {
	return []string{
		filepath.Join(c.sysfs, "class", subsystem),
		filepath.Join(c.sysfs, "bus", subsystem, "devices"),
	}
}

func readDevnum(syspath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(syspath, "dev"))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	s := strings.TrimSpace(string(data))
	major, minor, ok := strings.Cut(s, ":")
	if !ok {
		return "", fmt.Errorf("malformed dev attribute %q", s)
	}
	if _, err := strconv.ParseUint(major, 10, 32); err != nil {
		return "", fmt.Errorf("malformed dev attribute %q", s)
	}
	if _, err := strconv.ParseUint(minor, 10, 32); err != nil {
		return "", fmt.Errorf("malformed dev attribute %q", s)
	}
	return s, nil
}

// SysDevice is a Device of any subsystem resolved from sysfs.
type SysDevice struct {
	ctx       *Context
	subsystem string
	sysname   string
	syspath   string
	devnum    string
	closed    bool
	rec       *Record
}

func (d *SysDevice) Subsystem() string { return d.subsystem }
func (d *SysDevice) Sysname() string   { return d.sysname }
func (d *SysDevice) Syspath() string   { return d.syspath }

// Devnum is the "major:minor" pair, or empty for devices without a node.
func (d *SysDevice) Devnum() string { return d.devnum }

// ID is the device's file name in the udev database.
func (d *SysDevice) ID() string {
	if d.devnum == "" {
		return "+" + d.subsystem + ":" + d.sysname
	}
	if d.subsystem == "block" {
		return "b" + d.devnum
	}
	return "c" + d.devnum
}

// Attribute reads a sysfs attribute of the device.
func (d *SysDevice) Attribute(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(d.syspath, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (d *SysDevice) Initialized() (bool, error) {
	_, err := d.Record()
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Record returns the device's udev database entry. The error wraps
// os.ErrNotExist when udev has not processed the device.
func (d *SysDevice) Record() (*Record, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if d.rec != nil {
		return d.rec, nil
	}
	f, err := os.Open(filepath.Join(d.ctx.data, d.ID()))
	if errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer f.Close()
	rec, err := ParseRecord(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	d.rec = rec
	return rec, nil
}

func (d *SysDevice) Close() error {
	if d.closed {
		return ErrClosed
	}
	d.closed = true
	d.ctx.open--
	return nil
}
