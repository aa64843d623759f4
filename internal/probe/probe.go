// Package probe answers whether udev has initialized a device.
package probe

import (
	"errors"
	"fmt"
	"io"

	"github.com/coreos/pkg/capnslog"
	"github.com/hashicorp/go-multierror"

	"github.com/gajzzs/devinit/internal/udev"
)

var clog = capnslog.NewPackageLogger("github.com/gajzzs/devinit", "probe")

const (
	ExitInitialized    = 0
	ExitNotInitialized = 1
	// ExitSetupFailure is the -1 a C main would return.
	ExitSetupFailure = 255
)

var (
	ErrManagerUnavailable = errors.New("failed to get udev")
	ErrMissingArgument    = errors.New("device is not provided")
)

// Result is the outcome of one Run.
type Result struct {
	Device string
	Status Status
	// Err is set when the probe never got as far as a lookup.
	Err error
	// ReleaseErr collects failures closing the device and manager. It does
	// not change the verdict.
	ReleaseErr error
}

func (r Result) ExitCode() int {
	if r.Err != nil {
		return ExitSetupFailure
	}
	if r.Status.Initialized() {
		return ExitInitialized
	}
	return ExitNotInitialized
}

// Run probes args[0] in subsystem. It prints exactly one verdict line to
// stdout, or one diagnostic line to stderr when setup fails. The manager
// returned by open is closed on every path.
func Run(open udev.Opener, subsystem string, args []string, stdout, stderr io.Writer) (res Result) {
	m, err := open()
	if err != nil {
		clog.Debugf("open device manager: %v", err)
		fmt.Fprintln(stderr, ErrManagerUnavailable)
		res.Err = fmt.Errorf("%w: %w", ErrManagerUnavailable, err)
		return res
	}
	defer func() {
		if err := m.Close(); err != nil {
			res.ReleaseErr = multierror.Append(res.ReleaseErr, err)
		}
	}()

	if len(args) == 0 || args[0] == "" {
		fmt.Fprintln(stderr, ErrMissingArgument)
		res.Err = ErrMissingArgument
		return res
	}

	res.Device = args[0]
	st, err := Check(m, subsystem, res.Device)
	if err != nil {
		res.ReleaseErr = multierror.Append(res.ReleaseErr, err)
	}
	res.Status = st
	clog.Debugf("%s/%s: %v", subsystem, res.Device, st.Kind)
	fmt.Fprintln(stdout, Verdict(res.Device, st))
	return res
}

// Check looks name up in subsystem and queries its initialization flag.
// The returned error only reports a failure to release the device handle;
// lookup and query failures are folded into the Status.
func Check(m udev.Manager, subsystem, name string) (st Status, err error) {
	dev, lerr := m.Lookup(subsystem, name)
	if errors.Is(lerr, udev.ErrNoDevice) {
		return Status{Kind: NotInitialized, Reason: lerr}, nil
	}
	if lerr != nil {
		return failed(lerr), nil
	}
	defer func() {
		if cerr := dev.Close(); cerr != nil {
			err = fmt.Errorf("release %s: %w", name, cerr)
		}
	}()

	ok, qerr := dev.Initialized()
	switch {
	case qerr != nil:
		return failed(qerr), nil
	case ok:
		return Status{Kind: Initialized}, nil
	default:
		return Status{Kind: NotInitialized}, nil
	}
}

func failed(err error) Status {
	clog.Debugf("query failed: %v", err)
	st := Status{Kind: QueryFailed, Reason: err}
	if errno, ok := udev.Errno(err); ok {
		st.Errno = errno
	}
	return st
}
