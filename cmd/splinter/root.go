package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	verbose    bool
	logFile    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "splinter [mods-dir]",
		Short: "Splinter bisects a mods folder to find the mod causing a problem",
		Long: `Splinter repeatedly disables half of the suspect mods so you can narrow a
crash or bug down to a single mod in a handful of game restarts. Dependencies
are kept enabled together and any mod can be locked on or off.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, flags, &runOptions{}, args)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to a splinter.yaml or splinter.toml file")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Write logs to this file")

	cmd.AddCommand(newRunCmd(flags))
	cmd.AddCommand(newScanCmd(flags))
	cmd.AddCommand(newRestoreCmd(flags))
	cmd.AddCommand(newConfigCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
