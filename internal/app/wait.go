package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gajzzs/devinit/internal/config"
	"github.com/gajzzs/devinit/internal/probe"
	"github.com/gajzzs/devinit/internal/uevent"
)

func NewWaitCommand() *cobra.Command {
	var (
		timeout  time.Duration
		pollOnly bool
	)
	cmd := &cobra.Command{
		Use:   "wait <device-name>",
		Short: "Wait until udev has initialized a device",
		Long: "wait re-checks the device on every udev event for it and every poll interval, " +
			"until it is initialized or the timeout expires. A timeout of 0 waits forever.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()
			if !cmd.Flags().Changed("timeout") {
				timeout = time.Duration(cfg.WaitTimeout)
			}

			udevCtx, err := openContext(cmd)
			if err != nil {
				return err
			}
			defer closeContext(udevCtx)

			if len(args) == 0 || args[0] == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), probe.ErrMissingArgument)
				return exit(probe.ExitSetupFailure)
			}
			name := args[0]

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if timeout > 0 {
				var stop context.CancelFunc
				ctx, stop = context.WithTimeout(ctx, timeout)
				defer stop()
			}

			var wake chan struct{}
			if !pollOnly {
				wake = watch(ctx, cfg.Subsystem, name)
			}

			st, err := probe.Wait(ctx, udevCtx, cfg.Subsystem, name, time.Duration(cfg.PollInterval), wake)
			fmt.Fprintln(cmd.OutOrStdout(), probe.Verdict(name, st))
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					clog.Infof("gave up on %s after %v", name, timeout)
				}
				return exit(probe.ExitNotInitialized)
			}
			return nil
		},
	}
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "How long to wait (default from config, 30s)")
	cmd.Flags().BoolVarP(&pollOnly, "poll-only", "", false, "Do not listen for udev events, only poll")
	return cmd
}

// watch signals on the returned channel whenever udev broadcasts an event
// for the device. It returns nil, meaning poll only, if the uevent socket
// cannot be opened.
func watch(ctx context.Context, subsystem, name string) chan struct{} {
	rule, err := uevent.DeviceRule(subsystem, name)
	if err != nil {
		clog.Infof("falling back to polling: %v", err)
		return nil
	}
	mon, err := uevent.Listen(uevent.UdevGroup)
	if err != nil {
		clog.Infof("falling back to polling: %v", err)
		return nil
	}
	wake := make(chan struct{}, 1)
	go func() {
		defer mon.Close()
		err := mon.Run(ctx, func(e uevent.Event) {
			if !e.Matches(rule) {
				return
			}
			select {
			case wake <- struct{}{}:
			default:
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			clog.Warningf("uevent monitor stopped: %v", err)
		}
	}()
	return wake
}
