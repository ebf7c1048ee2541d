package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/splinter/internal/events"
	"github.com/alexisbeaulieu97/splinter/internal/plugin"
	"github.com/alexisbeaulieu97/splinter/internal/ports"
	"github.com/alexisbeaulieu97/splinter/internal/resolver"
)

type scanOptions struct {
	output  *enumValue
	color   *enumValue
	timeout time.Duration
}

func newScanCmd(root *rootFlags) *cobra.Command {
	opts := &scanOptions{
		output: newEnumValue("text", "text", "yaml"),
		color:  newEnumValue("auto", "auto", "always", "never"),
	}

	cmd := &cobra.Command{
		Use:   "scan [mods-dir]",
		Short: "List the mods splinter sees and how they depend on each other",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, root, opts, args)
		},
	}

	cmd.Flags().VarP(opts.output, "output", "o", "Output format: text or yaml")
	cmd.Flags().Var(opts.color, "color", "Colorize text output: auto, always or never")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", time.Minute, "Give up when reading the mods takes longer")

	return cmd
}

type scanReport struct {
	ModsDir  string              `yaml:"mods_dir"`
	Plugins  []ports.PluginState `yaml:"plugins"`
	Warnings []string            `yaml:"warnings,omitempty"`
}

func runScan(cmd *cobra.Command, root *rootFlags, opts *scanOptions, args []string) error {
	app, err := loadApp(cmd, root, args, false)
	if err != nil {
		return err
	}
	defer app.Close()

	rt, err := startSession(app)
	if err != nil {
		return newCommandError("scan", "reading the mods folder", err, "Check the folder exists and is readable.")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	report := scanReport{ModsDir: app.modsDir}
	tracker := events.NewTracker()
	collect := func() {
		c := tracker.Tick(rt.bus)
		for dup := range events.Consume[ports.DuplicateIDs](c) {
			report.Warnings = append(report.Warnings, dup.Notification().Description)
		}
	}

	for rt.session.IsLoading() {
		collect()
		rt.session.Tick()
		select {
		case <-ctx.Done():
			return newCommandError("scan", "reading the mods folder", ctx.Err(), "Raise --timeout for very large mod packs.")
		case <-time.After(10 * time.Millisecond):
		}
	}
	collect()

	reg := rt.session.Registry()
	graph := resolver.New(reg, app.log).Graph()
	if cycle := graph.DetectCycle(); cycle != nil {
		report.Warnings = append(report.Warnings, resolver.ErrCircularDependency{Cycle: cycle}.Error())
	}
	report.Plugins = rt.session.Export().Plugins

	out := cmd.OutOrStdout()
	if opts.output.String() == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	}
	renderScanText(out, report, reg.All(), graph, scanRenderer(out, opts.color.String()))
	return nil
}

func scanRenderer(out io.Writer, mode string) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(out)
	switch mode {
	case "always":
		r.SetColorProfile(termenv.TrueColor)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	default:
		r.SetColorProfile(termenv.NewOutput(out).EnvColorProfile())
	}
	return r
}

// renderScanText prints report.Plugins next to plugins, which must be in the
// same registration order.
func renderScanText(out io.Writer, report scanReport, plugins []*plugin.Plugin, graph *resolver.DependencyGraph, r *lipgloss.Renderer) {
	title := r.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	muted := r.NewStyle().Foreground(lipgloss.Color("245"))
	warn := r.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	off := r.NewStyle().Foreground(lipgloss.Color("196"))

	fmt.Fprintln(out, title.Render(fmt.Sprintf("%d mods in %s", len(report.Plugins), report.ModsDir)))
	for i, state := range report.Plugins {
		name := state.ID
		if state.Name != "" && state.Name != state.ID {
			name = fmt.Sprintf("%s (%s)", state.Name, state.ID)
		}
		if state.Lock == plugin.LockDisabled {
			name = off.Render(name + " [disabled]")
		}
		fmt.Fprintf(out, "  %s\n", name)

		if i >= len(plugins) {
			continue
		}
		p := plugins[i]
		if len(p.DependsOn) > 0 {
			fmt.Fprintln(out, muted.Render("    depends on: "+strings.Join(p.DependsOn, ", ")))
		}
		if len(p.Modules) > 0 {
			fmt.Fprintln(out, muted.Render("    bundles: "+strings.Join(p.Modules, ", ")))
		}
		if dependents := graph.GetDependents(p.ID); len(dependents) > 0 {
			fmt.Fprintln(out, muted.Render("    required by: "+strings.Join(dependents, ", ")))
		}
	}
	for _, w := range report.Warnings {
		fmt.Fprintln(out, warn.Render("warning: ")+w)
	}
}
