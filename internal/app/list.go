package app

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/gajzzs/devinit/internal/config"
	"github.com/gajzzs/devinit/internal/device"
	"github.com/gajzzs/devinit/internal/probe"
)

// Swapped out in tests.
var (
	systemMounts device.Mounts  = device.SystemMounts
	udevScan     device.Scanner = device.SystemScan
)

func NewListCommand() *cobra.Command {
	var csv bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List block devices and their udev state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := openContext(cmd)
			if err != nil {
				return err
			}
			defer closeContext(ctx)

			devices, err := device.ListBlockDevices(ctx, config.GetConfig().Subsystem, systemMounts, udevScan)
			if err != nil {
				return fmt.Errorf("listing devices: %w", err)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			if csv {
				table.SetBorder(false)
				table.SetColumnSeparator(",")
			} else {
				table.SetHeader([]string{"Name", "Size", "Type", "Model", "Removable", "Mount", "State"})
			}
			for _, dev := range devices {
				table.Append([]string{
					dev.Name,
					humanize.IBytes(dev.Size),
					deviceType(dev),
					dev.Model,
					fmt.Sprintf("%t", dev.Removable),
					dev.MountPoint,
					stateLabel(dev.Status),
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().BoolVarP(&csv, "csv", "", false, "Output as CSV")
	return cmd
}

func deviceType(dev device.Device) string {
	if dev.Partition {
		return "part"
	}
	return "disk"
}

func stateLabel(st probe.Status) string {
	if st.Kind == probe.QueryFailed && st.Errno != 0 {
		return fmt.Sprintf("%v (%v)", st.Kind, st.Errno)
	}
	return st.Kind.String()
}
