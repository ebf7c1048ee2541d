package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/splinter/internal/manifest"
)

func newRestoreCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore [mods-dir]",
		Short: "Re-enable every mod a bisection session disabled",
		Long: `Rename every .jar.tempdisabled file back to .jar. Mods you disabled yourself
(.jar.disabled) are left alone.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(cmd, root, args, false)
			if err != nil {
				return err
			}
			defer app.Close()

			n, err := manifest.RestoreTemporary(app.modsDir)
			if err != nil {
				return newCommandError("restore", "renaming mods", err, "Close the game or launcher holding the files and try again.")
			}
			app.log.With("restored", n).Info("restored temporarily disabled mods")
			fmt.Fprintf(cmd.OutOrStdout(), "Re-enabled %d mods in %s\n", n, app.modsDir)
			return nil
		},
	}

	return cmd
}
