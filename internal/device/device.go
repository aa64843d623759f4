// Package device lists the block devices sysfs knows about together with
// their udev initialization state.
package device

import "github.com/coreos/pkg/capnslog"

var clog = capnslog.NewPackageLogger("github.com/gajzzs/devinit", "device")
