package manifest

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/alexisbeaulieu97/splinter/internal/plugin"
)

// Forge style metadata entries, newest first.
var forgeEntries = []string{"META-INF/neoforge.mods.toml", "META-INF/mods.toml"}

type forgeManifest struct {
	Mods         []forgeMod                   `toml:"mods"`
	Dependencies map[string][]forgeDependency `toml:"dependencies"`
}

type forgeMod struct {
	ModID       string `toml:"modId"`
	Version     string `toml:"version"`
	DisplayName string `toml:"displayName"`
}

type forgeDependency struct {
	ModID     string `toml:"modId"`
	Mandatory *bool  `toml:"mandatory"`
	Type      string `toml:"type"`
}

// required follows both dialects: NeoForge's type field wins over Forge's
// mandatory flag, and a dependency with neither is required.
func (d forgeDependency) required() bool {
	if d.Type != "" {
		return strings.EqualFold(d.Type, "required")
	}
	return d.Mandatory == nil || *d.Mandatory
}

// readForge builds a record from a mods.toml. The first declared mod is the
// plugin; any further mods in the same jar become bundled sub-plugins.
func readForge(zr *zip.Reader) (*plugin.Record, error) {
	var data []byte
	var entry string
	for _, name := range forgeEntries {
		content, err := readEntry(zr, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		data, entry = content, name
		break
	}
	if entry == "" {
		return nil, fs.ErrNotExist
	}

	var meta forgeManifest
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", entry, err)
	}
	if len(meta.Mods) == 0 || meta.Mods[0].ModID == "" {
		return nil, fmt.Errorf("%s declares no mods", entry)
	}

	records := make([]plugin.Record, len(meta.Mods))
	for i, mod := range meta.Mods {
		records[i] = plugin.Record{
			ID:        mod.ModID,
			Name:      mod.DisplayName,
			DependsOn: forgeDepends(meta.Dependencies[mod.ModID]),
		}
	}

	rec := records[0]
	rec.Contains = records[1:]
	return &rec, nil
}

func forgeDepends(deps []forgeDependency) []string {
	var ids []string
	for _, dep := range deps {
		if dep.ModID != "" && dep.required() {
			ids = append(ids, dep.ModID)
		}
	}
	sort.Strings(ids)
	return ids
}
