package app

import (
	"fmt"

	"github.com/coreos/pkg/capnslog"
	"github.com/spf13/cobra"

	"github.com/gajzzs/devinit/internal/config"
	"github.com/gajzzs/devinit/internal/probe"
	"github.com/gajzzs/devinit/internal/udev"
)

var clog = capnslog.NewPackageLogger("github.com/gajzzs/devinit", "app")

type rootOptions struct {
	debug      bool
	configPath string
}

// NewRootCommand builds the devinit command tree. Invoked with a device
// name and no subcommand it runs the initialization probe.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "devinit <device-name>",
		Short: "Report whether udev has initialized a block device",
		Long: "devinit looks a block device up by its kernel name (sda1, not /dev/sda1) " +
			"and reports whether udev has finished initializing it.\n\n" +
			"Exit status is 0 when the device is initialized, 1 when it is not " +
			"(or cannot be queried) and 255 when udev is unavailable or no device was given.",
		Args:              cobra.MaximumNArgs(1),
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: opts.configure,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()
			res := probe.Run(udev.NewOpener(cfg), cfg.Subsystem, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if res.ReleaseErr != nil {
				clog.Warningf("releasing udev handles: %v", res.ReleaseErr)
			}
			return exit(res.ExitCode())
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "", false, "Turn on debug output")
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to the config file (default $"+config.EnvConfig+" or "+config.ConfigFile+")")

	cmd.AddCommand(
		NewListCommand(),
		NewInfoCommand(),
		NewWaitCommand(),
	)
	return cmd
}

func (o *rootOptions) configure(cmd *cobra.Command, args []string) error {
	capnslog.SetGlobalLogLevel(capnslog.WARNING)
	if o.debug {
		capnslog.SetGlobalLogLevel(capnslog.DEBUG)
	}
	if err := config.InitConfig(o.configPath); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed to load config: %v\n", err)
		return exit(probe.ExitSetupFailure)
	}
	return nil
}

// openContext opens the udev context, printing the same diagnostic as the
// probe when it is unavailable.
func openContext(cmd *cobra.Command) (*udev.Context, error) {
	ctx, err := udev.New(config.GetConfig())
	if err != nil {
		clog.Debugf("open device manager: %v", err)
		fmt.Fprintln(cmd.ErrOrStderr(), probe.ErrManagerUnavailable)
		return nil, exit(probe.ExitSetupFailure)
	}
	return ctx, nil
}

func closeContext(ctx *udev.Context) {
	if err := ctx.Close(); err != nil {
		clog.Warningf("releasing udev context: %v", err)
	}
}
