package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/splinter/internal/manifest"
	"github.com/alexisbeaulieu97/splinter/internal/pusher"
	"github.com/alexisbeaulieu97/splinter/internal/tui"
	"github.com/alexisbeaulieu97/splinter/internal/watch"
)

type runOptions struct {
	dryRun        bool
	restoreOnExit bool
	noWatch       bool
}

var errNotInteractive = errors.New("standard input and output must be a terminal")

func newRunCmd(root *rootFlags) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [mods-dir]",
		Short: "Start an interactive bisection session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, root, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Log the renames a session would make without touching any file")
	cmd.Flags().BoolVar(&opts.restoreOnExit, "restore-on-exit", false, "Re-enable temporarily disabled mods when the session ends")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "Do not watch the mods folder for outside changes")

	return cmd
}

func runInteractive(cmd *cobra.Command, root *rootFlags, opts *runOptions, args []string) error {
	if !isInteractive(os.Stdin) || !isInteractive(os.Stdout) {
		return newCommandError("run", "starting the interactive session", errNotInteractive, "Use 'splinter scan' for a non-interactive listing.")
	}

	app, err := loadApp(cmd, root, args, true)
	if err != nil {
		return err
	}
	defer app.Close()

	rt, err := startSession(app)
	if err != nil {
		return newCommandError("run", "reading the mods folder", err, "Check the folder exists and is readable.")
	}
	app.log.With("plugins", rt.sources).Info("starting session")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	push := pusher.New(pusher.WithLogger(app.log), pusher.WithDryRun(opts.dryRun))
	modelOpts := []tui.Option{tui.WithPusher(push), tui.WithLogger(app.log)}

	if !opts.noWatch {
		w, err := watch.New(app.modsDir, watch.WithIgnore(push.Owns), watch.WithLogger(app.log))
		if err != nil {
			app.log.Error(err, "not watching the mods folder")
		} else {
			defer w.Close()
			go w.Run(ctx)
			modelOpts = append(modelOpts, tui.WithChanges(w.Changes()))
		}
	}

	lipgloss.SetColorProfile(termenv.NewOutput(os.Stdout).EnvColorProfile())

	program := tea.NewProgram(tui.NewModel(rt.bus, rt.session, modelOpts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return newCommandError("run", "running the interactive session", err, "Check the log file for details.")
	}
	app.log.Info("session closed")

	if opts.restoreOnExit {
		n, err := manifest.RestoreTemporary(app.modsDir)
		if err != nil {
			return newCommandError("run", "restoring disabled mods", err, "Run 'splinter restore' to retry.")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Re-enabled %d mods\n", n)
	}
	return nil
}
