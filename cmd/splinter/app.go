package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/splinter/internal/config"
	"github.com/alexisbeaulieu97/splinter/internal/logger"
)

// defaultModsDir is tried when neither an argument nor the config names one.
const defaultModsDir = "mods"

type appContext struct {
	cfg        *config.Config
	configPath string
	modsDir    string
	log        *logger.Logger
	logCloser  io.Closer
}

func (a *appContext) Close() error {
	if a.logCloser == nil {
		return nil
	}
	return a.logCloser.Close()
}

// loadApp resolves the config file, the mods directory and the logger. When
// the terminal belongs to a full screen UI, logs go to a file unless one was
// configured.
func loadApp(cmd *cobra.Command, flags *rootFlags, args []string, ownsTerminal bool) (*appContext, error) {
	app := &appContext{configPath: flags.configPath}

	if app.configPath == "" {
		searchDir := "."
		if len(args) > 0 {
			searchDir = filepath.Dir(filepath.Clean(args[0]))
		}
		app.configPath = config.Discover(searchDir)
	}

	cfg, err := config.Load(app.configPath)
	if err != nil {
		return nil, newCommandError(cmd.Name(), "loading configuration", err, "Fix the configuration file or run 'splinter config schema' to see the expected format.")
	}
	app.cfg = cfg

	app.modsDir, err = resolveModsDir(args, cfg)
	if err != nil {
		return nil, newCommandError(cmd.Name(), "locating the mods folder", err, "Pass the mods folder as an argument or set mods.dir in the configuration.")
	}

	if err := app.openLogger(cmd, flags, ownsTerminal); err != nil {
		return nil, newCommandError(cmd.Name(), "setting up logging", err, "Check the log file path and permissions.")
	}
	app.log.WithFields(map[string]any{"config": app.configPath, "mods": app.modsDir}).Debug("resolved paths")
	return app, nil
}

func resolveModsDir(args []string, cfg *config.Config) (string, error) {
	dir := defaultModsDir
	switch {
	case len(args) > 0:
		dir = args[0]
	case cfg.Mods.Dir != "":
		dir = cfg.Mods.Dir
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve mods path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("mods folder does not exist: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("mods path %s is not a directory", abs)
	}
	return abs, nil
}

func (a *appContext) openLogger(cmd *cobra.Command, flags *rootFlags, ownsTerminal bool) error {
	level := a.cfg.Log.Level
	if flags.verbose {
		level = "debug"
	}

	path := flags.logFile
	if path == "" {
		path = a.cfg.Log.File
	}
	if path == "" && ownsTerminal {
		path = filepath.Join(os.TempDir(), "splinter.log")
	}

	var writer io.Writer = cmd.ErrOrStderr()
	human := a.cfg.Log.HumanReadable || isInteractive(writer)
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		writer, a.logCloser = f, f
		human = a.cfg.Log.HumanReadable
	}

	log, err := logger.New(logger.Options{Level: level, HumanReadable: human, Writer: writer})
	if err != nil {
		return errors.Join(err, a.Close())
	}
	a.log = log
	return nil
}

// isInteractive reports whether w is a terminal, including Cygwin and MSYS
// ptys that x/term does not recognise.
func isInteractive(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return term.IsTerminal(int(fd)) || isatty.IsCygwinTerminal(fd)
}
