// Package manifest reads plugin metadata out of mod archives.
//
// A file's name carries its state: name.jar is enabled, name.jar.disabled is
// pinned off by the user and name.jar.tempdisabled was left disabled by an
// earlier bisection run. Reading a .jar.tempdisabled renames it back first so
// every session starts from the user's own configuration.
//
// Metadata comes from fabric.mod.json, including jars bundled through its
// "jars" list, or from a Forge/NeoForge mods.toml.
package manifest

import (
	"archive/zip"
	"errors"
	"io/fs"
	"os"

	"github.com/alexisbeaulieu97/splinter/internal/logger"
	"github.com/alexisbeaulieu97/splinter/internal/plugin"
	splintererrors "github.com/alexisbeaulieu97/splinter/pkg/errors"
)

// ErrNoMetadata is returned for archives without any known metadata file.
var ErrNoMetadata = errors.New("no fabric.mod.json or mods.toml found")

// Reader turns plugin files into records. It is safe for concurrent use.
type Reader struct {
	stability func(id string) int
	log       *logger.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithStability ranks plugins by id.
func WithStability(rank func(id string) int) Option {
	return func(r *Reader) {
		r.stability = rank
	}
}

// WithLogger injects a logger.
func WithLogger(log *logger.Logger) Option {
	return func(r *Reader) {
		r.log = log
	}
}

// NewReader creates a Reader.
func NewReader(opts ...Option) *Reader {
	r := &Reader{}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.Component("manifest")
	return r
}

// Read parses the plugin at path. Files that are not plugins yield a nil
// record and no error. Read matches loader.ParseFunc.
func (r *Reader) Read(path string) (*plugin.Record, error) {
	state, ok := Classify(path)
	if !ok {
		r.log.With("path", path).Info("skipping unknown file in mods folder")
		return nil, nil
	}

	status, lock := plugin.StatusEnabled, plugin.LockNone
	switch state {
	case FileForceDisabled:
		status, lock = plugin.StatusDisabled, plugin.LockDisabled
	case FileTempDisabled:
		target, _ := JarPath(path)
		if err := os.Rename(path, target); err != nil {
			r.log.Error(splintererrors.NewRenameError(path, target, err), "failed to re-enable plugin")
			status = plugin.StatusDisabled
		} else {
			path = target
		}
	}

	r.log.With("path", path).Debug("loading plugin")
	rec, err := r.readArchive(path)
	if err != nil {
		return nil, err
	}

	rec.Status = status
	rec.Lock = lock
	rec.Source = path
	if r.stability != nil {
		rec.Stability = r.stability(rec.ID)
	}
	return rec, nil
}

func (r *Reader) readArchive(path string) (*plugin.Record, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, splintererrors.NewArchiveError(path, "", err)
	}
	defer zr.Close()

	rec, err := r.readFabric(&zr.Reader, path)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, splintererrors.NewArchiveError(path, FabricEntry, err)
	}

	rec, err = readForge(&zr.Reader)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, splintererrors.NewArchiveError(path, "mods.toml", err)
	}
	return nil, splintererrors.NewArchiveError(path, "", ErrNoMetadata)
}
