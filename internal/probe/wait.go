package probe

import (
	"context"
	"time"

	"github.com/gajzzs/devinit/internal/udev"
)

// Wait checks name every interval, and immediately whenever wake fires,
// until it is initialized or ctx is done. It returns the last status seen
// and ctx.Err() if the device never became ready. A nil wake channel means
// polling only.
func Wait(ctx context.Context, m udev.Manager, subsystem, name string, interval time.Duration, wake <-chan struct{}) (Status, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		st, err := Check(m, subsystem, name)
		if err != nil {
			clog.Warningf("%v", err)
		}
		if st.Initialized() {
			return st, nil
		}
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		case <-ticker.C:
		case <-wake:
			clog.Debugf("uevent for %s, re-checking", name)
		}
	}
}
