package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/spf13/cobra"

	"github.com/gajzzs/devinit/internal/config"
	"github.com/gajzzs/devinit/internal/device"
	"github.com/gajzzs/devinit/internal/probe"
	"github.com/gajzzs/devinit/internal/udev"
)

// serialNumber is the fallback used when udev recorded no ID_SERIAL.
var serialNumber = disk.SerialNumber

func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <device-name>",
		Short: "Show the udev database record of a device",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := openContext(cmd)
			if err != nil {
				return err
			}
			defer closeContext(ctx)

			if len(args) == 0 || args[0] == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), probe.ErrMissingArgument)
				return exit(probe.ExitSetupFailure)
			}
			name := args[0]
			out := cmd.OutOrStdout()

			dev, err := ctx.Device(config.GetConfig().Subsystem, name)
			if err != nil {
				st := probe.Status{Kind: probe.NotInitialized, Reason: err}
				if !errors.Is(err, udev.ErrNoDevice) {
					st.Kind = probe.QueryFailed
					st.Errno, _ = udev.Errno(err)
				}
				fmt.Fprintln(out, probe.Verdict(name, st))
				return exit(probe.ExitNotInitialized)
			}
			defer dev.Close()

			rec, err := dev.Record()
			st := probe.Status{Kind: probe.Initialized}
			switch {
			case errors.Is(err, os.ErrNotExist):
				st.Kind = probe.NotInitialized
			case err != nil:
				st = probe.Status{Kind: probe.QueryFailed, Reason: err}
				st.Errno, _ = udev.Errno(err)
			}
			fmt.Fprintln(out, probe.Verdict(name, st))
			fmt.Fprintf(out, "  Subsystem: %s\n", dev.Subsystem())
			fmt.Fprintf(out, "  Syspath: %s\n", dev.Syspath())
			if dev.Devnum() != "" {
				fmt.Fprintf(out, "  Devnum: %s\n", dev.Devnum())
			}
			fmt.Fprintf(out, "  Database ID: %s\n", dev.ID())
			if rec == nil {
				return exit(probe.ExitNotInitialized)
			}

			if rec.UsecInitialized != 0 {
				fmt.Fprintf(out, "  Initialized: %v after boot\n", rec.InitializedAt())
			}
			serial := rec.Properties["ID_SERIAL"]
			if serial == "" {
				if s, err := serialNumber(filepath.Join("/dev", name)); err == nil {
					serial = s
				}
			}
			if serial != "" {
				fmt.Fprintf(out, "  Serial: %s\n", serial)
			}
			if catalog, err := device.NewCatalog(udevScan); err != nil {
				clog.Debugf("scanning udev database: %v", err)
			} else if model := catalog.Model(dev.Sysname()); model != "" {
				fmt.Fprintf(out, "  Model: %s\n", model)
			}
			if len(rec.DevLinks) > 0 {
				fmt.Fprintf(out, "  Links: %s\n", strings.Join(rec.DevLinks, " "))
			}
			if len(rec.Tags) > 0 {
				fmt.Fprintf(out, "  Tags: %s\n", strings.Join(rec.Tags, ":"))
			}
			if keys := rec.PropertyKeys(); len(keys) > 0 {
				fmt.Fprintln(out, "  Properties:")
				for _, k := range keys {
					fmt.Fprintf(out, "    %s=%s\n", k, rec.Properties[k])
				}
			}
			return nil
		},
	}
}
