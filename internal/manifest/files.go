package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/moby/patternmatcher"

	"github.com/alexisbeaulieu97/splinter/internal/plugin"
	splintererrors "github.com/alexisbeaulieu97/splinter/pkg/errors"
)

// File name suffixes encoding a plugin's state on disk.
const (
	SuffixJar          = ".jar"
	SuffixDisabled     = ".jar.disabled"
	SuffixTempDisabled = ".jar.tempdisabled"
)

// FileState is what a plugin file's name says about it.
type FileState int

const (
	// FileEnabled is a plain .jar.
	FileEnabled FileState = iota
	// FileForceDisabled is a .jar.disabled, pinned off by the user.
	FileForceDisabled
	// FileTempDisabled is a .jar.tempdisabled left behind by a previous
	// bisection session.
	FileTempDisabled
)

// Classify maps a file name to its state. ok is false for files that are not
// plugins.
func Classify(path string) (state FileState, ok bool) {
	name := filepath.Base(path)
	switch {
	case strings.HasSuffix(name, SuffixTempDisabled):
		return FileTempDisabled, true
	case strings.HasSuffix(name, SuffixDisabled):
		return FileForceDisabled, true
	case strings.HasSuffix(name, SuffixJar):
		return FileEnabled, true
	default:
		return 0, false
	}
}

// JarPath strips any state suffix, returning the plain .jar path.
func JarPath(path string) (string, bool) {
	state, ok := Classify(path)
	if !ok {
		return path, false
	}
	switch state {
	case FileTempDisabled:
		return strings.TrimSuffix(path, SuffixTempDisabled) + SuffixJar, true
	case FileForceDisabled:
		return strings.TrimSuffix(path, SuffixDisabled) + SuffixJar, true
	default:
		return path, true
	}
}

// TargetPath returns where a plugin file should live for the given lock and
// effective enablement. Paths that are not plugin files are returned as is.
func TargetPath(path string, lock plugin.Lock, active bool) string {
	jar, ok := JarPath(path)
	if !ok {
		return path
	}
	switch {
	case lock == plugin.LockDisabled:
		return strings.TrimSuffix(jar, SuffixJar) + SuffixDisabled
	case active:
		return jar
	default:
		return strings.TrimSuffix(jar, SuffixJar) + SuffixTempDisabled
	}
}

// Discover lists the plugin files directly inside dir, sorted by name.
// Files matching one of the dockerignore style patterns are skipped.
func Discover(dir string, ignore []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read mods directory: %w", err)
	}

	var matcher *patternmatcher.PatternMatcher
	if len(ignore) > 0 {
		matcher, err = patternmatcher.New(ignore)
		if err != nil {
			return nil, fmt.Errorf("compile ignore patterns: %w", err)
		}
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, ok := Classify(name); !ok {
			continue
		}
		if matcher != nil {
			skip, err := matcher.MatchesOrParentMatches(name)
			if err != nil {
				return nil, fmt.Errorf("match %s: %w", name, err)
			}
			if skip {
				continue
			}
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

// RestoreTemporary renames every .jar.tempdisabled in dir back to .jar and
// returns how many files were restored.
func RestoreTemporary(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read mods directory: %w", err)
	}

	restored := 0
	var errs []error
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if state, ok := Classify(path); !ok || state != FileTempDisabled || entry.IsDir() {
			continue
		}
		target, _ := JarPath(path)
		if err := os.Rename(path, target); err != nil {
			errs = append(errs, splintererrors.NewRenameError(path, target, err))
			continue
		}
		restored++
	}
	return restored, errors.Join(errs...)
}
